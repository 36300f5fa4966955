package services

import (
	"testing"

	"studlance_backend/internal/config"
	"studlance_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

func setUploadConfig(t *testing.T) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedExtensions = []string{".pdf", ".png", ".docx", ".zip", ".webm"}
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = nil })
}

func TestValidateUploadAcceptsAllowedFile(t *testing.T) {
	setUploadConfig(t)

	assert.NoError(t, ValidateUpload("report.pdf", 1024))
	assert.NoError(t, ValidateUpload("Photo.PNG", 5*1024*1024)) // extension match is case-insensitive
}

func TestValidateUploadSizeCap(t *testing.T) {
	setUploadConfig(t)

	// exactly at the cap passes, one byte over fails
	assert.NoError(t, ValidateUpload("big.zip", 10*1024*1024))

	err := ValidateUpload("big.zip", 10*1024*1024+1)
	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ErrFileTooLarge.Code, appErr.Code)
}

func TestValidateUploadRejectsDisallowedExtension(t *testing.T) {
	setUploadConfig(t)

	err := ValidateUpload("malware.exe", 1024)
	appErr, ok := apperrors.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidFileType.Code, appErr.Code)
}

func TestValidateUploadRejectsEmptyFile(t *testing.T) {
	setUploadConfig(t)

	assert.Error(t, ValidateUpload("report.pdf", 0))
	assert.Error(t, ValidateUpload("report.pdf", -1))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report.pdf", sanitizeFileName("../../etc/report.pdf"))
	assert.Equal(t, "my_file.pdf", sanitizeFileName("my file.pdf"))
	assert.NotContains(t, sanitizeFileName("a\\b\\c.pdf"), "\\")
}
