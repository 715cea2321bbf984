package model

// Attachment file types.
const (
	FileTypeImage    = "IMAGE"
	FileTypeDocument = "DOCUMENT"
	FileTypeVideo    = "VIDEO"
	FileTypeAudio    = "AUDIO"
	FileTypeOther    = "OTHER"
)

// FileTypes lists the accepted file_type values.
var FileTypes = []string{
	FileTypeImage, FileTypeDocument, FileTypeVideo, FileTypeAudio, FileTypeOther,
}

// IncidentAttachment records a file stored in object storage (table
// incident_attachments). ObjectKey is the storage path; the bytes live in
// the bucket, never in the database.
type IncidentAttachment struct {
	ID         uint      `gorm:"primaryKey"                            json:"id"`
	IncidentID uint      `gorm:"not null;index"                        json:"incident_id"`
	Incident   *Incident `gorm:"foreignKey:IncidentID"                 json:"incident,omitempty"`
	FileName   string    `gorm:"type:varchar(255);not null"            json:"file_name"`
	ObjectKey  string    `gorm:"type:varchar(512);not null;uniqueIndex" json:"object_key"`
	FileSize   int64     `gorm:"not null;default:0"                    json:"file_size"`
	FileType   string    `gorm:"type:varchar(20);not null;default:OTHER" json:"file_type"`
	MimeType   string    `gorm:"type:varchar(100)"                     json:"mime_type,omitempty"`
	UploadedBy string    `gorm:"type:varchar(100)"                     json:"uploaded_by,omitempty"`
	IsPublic   bool      `gorm:"not null;default:false"                json:"is_public"`
	BaseModel
}

// TableName sets the table name.
func (IncidentAttachment) TableName() string { return "incident_attachments" }

// ValidFileType reports whether t is an accepted file_type.
func ValidFileType(t string) bool {
	for _, v := range FileTypes {
		if v == t {
			return true
		}
	}
	return false
}
