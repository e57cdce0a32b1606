package models

import "time"

// UploadedFile records locally stored avatar files. ExpireAt is set when the
// avatar is replaced; the background cleaner removes expired files and rows.
type UploadedFile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	FilePath  string     `gorm:"size:1024;not null" json:"file_path"` // filesystem path under the avatar dir
	URL       string     `gorm:"size:1024;not null" json:"url"`       // public URL like /static/avatars/...
	ExpireAt  *time.Time `gorm:"index" json:"expire_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
