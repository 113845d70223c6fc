package models

import "time"

// College is the top-level institution grouping departments.
type College struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Name        string       `gorm:"uniqueIndex;size:200;not null" json:"name"`
	Code        string       `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Address     string       `gorm:"type:text" json:"address,omitempty"`
	Departments []Department `json:"departments,omitempty"`
}

// Department scopes faculty profiles and HOD authority. HodUserID points at
// the user currently heading the department; nil when the seat is vacant.
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Code      string    `gorm:"uniqueIndex;size:20;not null" json:"code"`
	CollegeID uint      `gorm:"index;not null" json:"college_id"`
	College   *College  `gorm:"foreignKey:CollegeID" json:"-"`
	HodUserID *uint     `json:"hod_user_id,omitempty"`
	Programs  []Program `json:"programs,omitempty"`
}

// Program is a course of study offered by a department.
type Program struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Name          string      `gorm:"size:200;not null" json:"name"`
	Code          string      `gorm:"uniqueIndex;size:20;not null" json:"code"`
	DurationYears int         `json:"duration_years,omitempty"`
	DepartmentID  uint        `gorm:"index;not null" json:"department_id"`
	Department    *Department `gorm:"foreignKey:DepartmentID" json:"-"`
}
