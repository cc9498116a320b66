package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   MODEL: faculty
   ========================================================= */

type Faculty struct {
	FacultyID             uuid.UUID                   `gorm:"type:uuid;primaryKey;column:faculty_id" json:"id"`
	FacultyName           string                      `gorm:"type:varchar(160);not null;column:faculty_name" json:"name"`
	FacultyDepartment     string                      `gorm:"type:varchar(120);not null;index;column:faculty_department" json:"department"`
	FacultyTitle          *string                     `gorm:"type:varchar(80);column:faculty_title" json:"title"`
	FacultyEmail          *string                     `gorm:"type:varchar(160);column:faculty_email" json:"email"`
	FacultyOffice         *string                     `gorm:"type:varchar(120);column:faculty_office" json:"office"`
	FacultyPhone          *string                     `gorm:"type:varchar(40);column:faculty_phone" json:"phone"`
	FacultySpecialization datatypes.JSONSlice[string] `gorm:"column:faculty_specialization" json:"specialization"`
	FacultyCourses        datatypes.JSONSlice[string] `gorm:"column:faculty_courses" json:"courses"`
	FacultyEducation      datatypes.JSONSlice[string] `gorm:"column:faculty_education" json:"education"`
	FacultyExperience     *string                     `gorm:"type:text;column:faculty_experience" json:"experience"`
	FacultyProfileImage   *string                     `gorm:"type:text;column:faculty_profile_image" json:"profile_image"`

	FacultyCreatedAt time.Time `gorm:"not null;autoCreateTime;column:faculty_created_at" json:"created_at"`
	FacultyUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:faculty_updated_at" json:"updated_at"`
}

func (Faculty) TableName() string { return "faculty" }

func (f *Faculty) BeforeCreate(tx *gorm.DB) error {
	if f.FacultyID == uuid.Nil {
		f.FacultyID = uuid.New()
	}
	return nil
}
