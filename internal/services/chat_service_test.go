package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	chatmodels "studlance_backend/internal/models/chat"

	"github.com/stretchr/testify/assert"
)

func TestPreviewTextTruncatesOnRuneBoundary(t *testing.T) {
	content := strings.Repeat("ü", 200)
	preview := previewText(&chatmodels.Message{Type: chatmodels.MessageTypeText, Content: content})

	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, 120, utf8.RuneCountInString(preview))
	assert.Equal(t, strings.Repeat("ü", 120), preview)
}

func TestPreviewTextShortContentUntouched(t *testing.T) {
	preview := previewText(&chatmodels.Message{Type: chatmodels.MessageTypeText, Content: "hello"})
	assert.Equal(t, "hello", preview)
}

func TestPreviewTextAttachmentKinds(t *testing.T) {
	name := "report.pdf"
	assert.Equal(t, "\U0001F4CE report.pdf", previewText(&chatmodels.Message{Type: chatmodels.MessageTypeFile, AttachmentName: &name}))
	assert.Equal(t, "Attachment", previewText(&chatmodels.Message{Type: chatmodels.MessageTypeFile}))
	assert.Equal(t, "Voice message", previewText(&chatmodels.Message{Type: chatmodels.MessageTypeVoice}))
}
