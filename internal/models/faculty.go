package models

import "time"

// ProfileStatus is the workflow marker of a faculty profile. It is
// deliberately kept separate from EditEnabled: the status records where the
// profile is in its review workflow while EditEnabled is the edit lock, and
// the two move together only on freeze/unfreeze.
type ProfileStatus string

const (
	StatusPending  ProfileStatus = "pending"
	StatusApproved ProfileStatus = "approved"
	StatusFrozen   ProfileStatus = "frozen"
	StatusUnfrozen ProfileStatus = "unfrozen"
)

// Visibility controls whether a row appears on public profile pages.
type Visibility string

const (
	VisibilityShow Visibility = "show"
	VisibilityHide Visibility = "hide"
)

// Faculty is one user's institutional record. Owned 1:1 by a User and
// scoped to exactly one Department.
type Faculty struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	UserID             uint          `gorm:"uniqueIndex;not null" json:"user_id"`
	User               *User         `gorm:"foreignKey:UserID" json:"-"`
	Regdno             string        `gorm:"uniqueIndex;size:20;not null" json:"regdno"`
	FirstName          string        `gorm:"size:50;not null" json:"first_name"`
	LastName           string        `gorm:"size:50" json:"last_name,omitempty"`
	Gender             string        `gorm:"size:10" json:"gender,omitempty"`
	DOB                *time.Time    `json:"dob,omitempty"`
	ContactNo          string        `gorm:"size:15" json:"contact_no,omitempty"`
	Email              string        `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Address            string        `gorm:"type:text" json:"address,omitempty"`
	JoinDate           time.Time     `gorm:"not null" json:"join_date"`
	IsActive           bool          `gorm:"default:true" json:"is_active"`
	EditEnabled        bool          `gorm:"default:true" json:"edit_enabled"`
	ProfileStatus      ProfileStatus `gorm:"size:20;default:pending" json:"profile_status"`
	DepartmentID       uint          `gorm:"index;not null" json:"department_id"`
	Department         *Department   `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	PhotoAttachmentID  *uint         `json:"photo_attachment_id,omitempty"`
	AadharAttachmentID *uint         `json:"aadhar_attachment_id,omitempty"`
	PanAttachmentID    *uint         `json:"pan_attachment_id,omitempty"`
	Visibility         Visibility    `gorm:"size:10;default:show" json:"visibility"`
}

// FullName joins first and last name, omitting a missing last name.
func (f *Faculty) FullName() string {
	if f.LastName == "" {
		return f.FirstName
	}
	return f.FirstName + " " + f.LastName
}

// CanEdit is the single edit gate for the profile and every child record:
// edits are allowed only while EditEnabled is set and the profile is not
// frozen. Derived, never stored.
func (f *Faculty) CanEdit() bool {
	return f.EditEnabled && f.ProfileStatus != StatusFrozen
}

// FacultyDetails is the optional extended-details row (0..1 per faculty).
type FacultyDetails struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	FacultyID             uint       `gorm:"uniqueIndex;not null" json:"faculty_id"`
	Position              string     `gorm:"size:255" json:"position,omitempty"`
	FatherName            string     `gorm:"size:255" json:"father_name,omitempty"`
	FatherOccupation      string     `gorm:"size:255" json:"father_occupation,omitempty"`
	MotherName            string     `gorm:"size:255" json:"mother_name,omitempty"`
	MotherOccupation      string     `gorm:"size:255" json:"mother_occupation,omitempty"`
	MaritalStatus         string     `gorm:"size:20" json:"marital_status,omitempty"`
	SpouseName            string     `gorm:"size:255" json:"spouse_name,omitempty"`
	SpouseOccupation      string     `gorm:"size:255" json:"spouse_occupation,omitempty"`
	Nationality           string     `gorm:"size:255" json:"nationality,omitempty"`
	Religion              string     `gorm:"size:255" json:"religion,omitempty"`
	Category              string     `gorm:"size:255" json:"category,omitempty"`
	AadharNo              string     `gorm:"size:20" json:"aadhar_no,omitempty"`
	PanNo                 string     `gorm:"size:20" json:"pan_no,omitempty"`
	ContactNo2            string     `gorm:"size:20" json:"contact_no2,omitempty"`
	BloodGroup            string     `gorm:"size:10" json:"blood_group,omitempty"`
	PermanentAddress      string     `gorm:"type:text" json:"permanent_address,omitempty"`
	CorrespondenceAddress string     `gorm:"type:text" json:"correspondence_address,omitempty"`
	ScopusAuthorID        string     `gorm:"size:255" json:"scopus_author_id,omitempty"`
	OrcidID               string     `gorm:"size:255" json:"orcid_id,omitempty"`
	GoogleScholarLink     string     `gorm:"size:255" json:"google_scholar_link,omitempty"`
	AicteID               string     `gorm:"size:255" json:"aicte_id,omitempty"`
	Visibility            Visibility `gorm:"size:10;default:show" json:"visibility"`
}
