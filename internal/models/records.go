package models

import (
	"time"

	"gorm.io/gorm"
)

// Record is implemented by every per-faculty child row. The record service
// uses it to enforce the parent's edit gate and ownership uniformly, and to
// link/release the optional attachment.
type Record interface {
	FacultyRef() uint
	SetFacultyRef(id uint)
	AttachmentRef() *uint
	SetAttachmentRef(id *uint)
}

// Experience types for WorkExperience rows.
const (
	ExperienceTeaching = "Teaching"
	ExperienceIndustry = "Industry"
)

type WorkExperience struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	FacultyID        uint       `gorm:"index;not null" json:"faculty_id"`
	InstitutionName  string     `gorm:"size:255;not null" json:"institution_name"`
	ExperienceType   string     `gorm:"size:20;not null" json:"experience_type"`
	Designation      string     `gorm:"size:255" json:"designation,omitempty"`
	FromDate         *time.Time `json:"from_date,omitempty"`
	ToDate           *time.Time `json:"to_date,omitempty"`
	NumberOfYears    int        `json:"number_of_years,omitempty"`
	Responsibilities string     `gorm:"type:text" json:"responsibilities,omitempty"`
	AttachmentID     *uint      `json:"attachment_id,omitempty"`
	Visibility       Visibility `gorm:"size:10;default:show" json:"visibility"`
}

// BeforeSave derives NumberOfYears when both dates are present.
func (w *WorkExperience) BeforeSave(_ *gorm.DB) error {
	if w.FromDate != nil && w.ToDate != nil && w.ToDate.After(*w.FromDate) {
		w.NumberOfYears = int(w.ToDate.Sub(*w.FromDate).Hours() / 24 / 365)
	}
	return nil
}

func (w *WorkExperience) FacultyRef() uint          { return w.FacultyID }
func (w *WorkExperience) SetFacultyRef(id uint)     { w.FacultyID = id }
func (w *WorkExperience) AttachmentRef() *uint      { return w.AttachmentID }
func (w *WorkExperience) SetAttachmentRef(id *uint) { w.AttachmentID = id }

type TeachingActivity struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	FacultyID    uint       `gorm:"index;not null" json:"faculty_id"`
	CourseName   string     `gorm:"size:200;not null" json:"course_name"`
	Semester     string     `gorm:"size:20" json:"semester,omitempty"`
	Year         int        `json:"year,omitempty"`
	CourseCode   string     `gorm:"size:20" json:"course_code,omitempty"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	AttachmentID *uint      `json:"attachment_id,omitempty"`
	Visibility   Visibility `gorm:"size:10;default:show" json:"visibility"`
}

func (t *TeachingActivity) FacultyRef() uint          { return t.FacultyID }
func (t *TeachingActivity) SetFacultyRef(id uint)     { t.FacultyID = id }
func (t *TeachingActivity) AttachmentRef() *uint      { return t.AttachmentID }
func (t *TeachingActivity) SetAttachmentRef(id *uint) { t.AttachmentID = id }

type ResearchPublication struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	FacultyID       uint       `gorm:"index;not null" json:"faculty_id"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	JournalName     string     `gorm:"size:200" json:"journal_name,omitempty"`
	TypeID          *uint      `json:"type_id,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	DOI             string     `gorm:"size:50" json:"doi,omitempty"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	AttachmentID    *uint      `json:"attachment_id,omitempty"`
	Visibility      Visibility `gorm:"size:10;default:show" json:"visibility"`
}

func (p *ResearchPublication) FacultyRef() uint          { return p.FacultyID }
func (p *ResearchPublication) SetFacultyRef(id uint)     { p.FacultyID = id }
func (p *ResearchPublication) AttachmentRef() *uint      { return p.AttachmentID }
func (p *ResearchPublication) SetAttachmentRef(id *uint) { p.AttachmentID = id }

type WorkshopSeminar struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	FacultyID    uint       `gorm:"index;not null" json:"faculty_id"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	TypeID       *uint      `json:"type_id,omitempty"`
	Location     string     `gorm:"size:100" json:"location,omitempty"`
	OrganizedBy  string     `gorm:"size:200" json:"organized_by,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	AttachmentID *uint      `json:"attachment_id,omitempty"`
	Visibility   Visibility `gorm:"size:10;default:show" json:"visibility"`
}

func (w *WorkshopSeminar) FacultyRef() uint          { return w.FacultyID }
func (w *WorkshopSeminar) SetFacultyRef(id uint)     { w.FacultyID = id }
func (w *WorkshopSeminar) AttachmentRef() *uint      { return w.AttachmentID }
func (w *WorkshopSeminar) SetAttachmentRef(id *uint) { w.AttachmentID = id }

// MDPFDP records management/faculty development programs attended.
type MDPFDP struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	FacultyID    uint       `gorm:"index;not null" json:"faculty_id"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	TypeID       *uint      `json:"type_id,omitempty"`
	Location     string     `gorm:"size:100" json:"location,omitempty"`
	OrganizedBy  string     `gorm:"size:200" json:"organized_by,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	AttachmentID *uint      `json:"attachment_id,omitempty"`
	Visibility   Visibility `gorm:"size:10;default:show" json:"visibility"`
}

func (m *MDPFDP) FacultyRef() uint          { return m.FacultyID }
func (m *MDPFDP) SetFacultyRef(id uint)     { m.FacultyID = id }
func (m *MDPFDP) AttachmentRef() *uint      { return m.AttachmentID }
func (m *MDPFDP) SetAttachmentRef(id *uint) { m.AttachmentID = id }

type HonoursAward struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	FacultyID    uint       `gorm:"index;not null" json:"faculty_id"`
	AwardTitle   string     `gorm:"size:200;not null" json:"award_title"`
	AwardedBy    string     `gorm:"size:200" json:"awarded_by,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	CategoryID   *uint      `json:"category_id,omitempty"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	AttachmentID *uint      `json:"attachment_id,omitempty"`
	Visibility   Visibility `gorm:"size:10;default:show" json:"visibility"`
}

func (h *HonoursAward) FacultyRef() uint          { return h.FacultyID }
func (h *HonoursAward) SetFacultyRef(id uint)     { h.FacultyID = id }
func (h *HonoursAward) AttachmentRef() *uint      { return h.AttachmentID }
func (h *HonoursAward) SetAttachmentRef(id *uint) { h.AttachmentID = id }

// Project statuses for ResearchConsultancy rows.
const (
	ProjectOngoing   = "Ongoing"
	ProjectCompleted = "Completed"
)

type ResearchConsultancy struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	FacultyID    uint       `gorm:"index;not null" json:"faculty_id"`
	ProjectTitle string     `gorm:"size:200;not null" json:"project_title"`
	AgencyID     *uint      `json:"agency_id,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Status       string     `gorm:"size:20" json:"status,omitempty"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	AttachmentID *uint      `json:"attachment_id,omitempty"`
	Visibility   Visibility `gorm:"size:10;default:show" json:"visibility"`
}

func (p *ResearchConsultancy) FacultyRef() uint          { return p.FacultyID }
func (p *ResearchConsultancy) SetFacultyRef(id uint)     { p.FacultyID = id }
func (p *ResearchConsultancy) AttachmentRef() *uint      { return p.AttachmentID }
func (p *ResearchConsultancy) SetAttachmentRef(id *uint) { p.AttachmentID = id }

// Activity records other institutional activities (committees, outreach).
type Activity struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	FacultyID    uint       `gorm:"index;not null" json:"faculty_id"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Type         string     `gorm:"size:100" json:"type,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	AttachmentID *uint      `json:"attachment_id,omitempty"`
	Visibility   Visibility `gorm:"size:10;default:show" json:"visibility"`
}

func (a *Activity) FacultyRef() uint          { return a.FacultyID }
func (a *Activity) SetFacultyRef(id uint)     { a.FacultyID = id }
func (a *Activity) AttachmentRef() *uint      { return a.AttachmentID }
func (a *Activity) SetAttachmentRef(id *uint) { a.AttachmentID = id }
