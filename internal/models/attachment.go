package models

import "time"

// Attachment kinds.
const (
	AttachmentKindDocument = "attachment"
	AttachmentKindGallery  = "gallery_image"
)

// Attachment is a stored file referenced by profiles and records. FilePath is
// the storage key, not a user-facing URL. Rows are deleted together with the
// stored file when the owning record releases them.
type Attachment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FilePath   string     `gorm:"size:255;not null" json:"file_path"`
	Kind       string     `gorm:"size:20;default:attachment" json:"kind"`
	Visibility Visibility `gorm:"size:10;default:show" json:"visibility"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

// Lookup value types.
const (
	LookupPublicationType = "publication_type"
	LookupWorkshopType    = "workshop_type"
	LookupFdpMdpType      = "fdp_mdp_type"
	LookupAwardCategory   = "award_category"
	LookupFundingAgency   = "funding_agency"
)

// LookupValue is a seeded dropdown option (publication types, award
// categories and so on), referenced by record rows via their *_id columns.
type LookupValue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Type      string    `gorm:"index;size:40;not null" json:"type"`
	Value     string    `gorm:"uniqueIndex;size:100;not null" json:"value"`
}
