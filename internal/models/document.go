package models

type DocumentKind string

const (
	DocumentKindProject  DocumentKind = "project"
	DocumentKindHandover DocumentKind = "handover"
)

// Document is the metadata record for a file stored in object storage.
// StoragePath is kept so the object can be removed on delete.
type Document struct {
	BaseModel
	ProjectID    string       `gorm:"not null;index" json:"project_id"`
	Kind         DocumentKind `gorm:"type:varchar(20);default:'project';index" json:"kind"`
	FileName     string       `gorm:"not null" json:"file_name"`
	FileSize     int64        `json:"file_size"`
	ContentType  string       `json:"content_type"`
	URL          string       `gorm:"not null" json:"url"`
	StoragePath  string       `gorm:"not null" json:"-"`
	UploaderID   string       `gorm:"not null;index" json:"uploader_id"`
	UploaderName string       `json:"uploader_name"`
	UploaderRole UserRole     `gorm:"type:varchar(20)" json:"uploader_role"`
}
