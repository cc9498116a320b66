package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"campusaxis_backend/internals/features/admin/imports/model"
)

/* ===============================
   REQUEST (POST /admin/import/:entity)
=================================*/

type ImportRequest struct {
	Rows          []map[string]any `json:"rows"`
	CSV           string           `json:"csv"`
	Upsert        bool             `json:"upsert"`
	DryRun        bool             `json:"dry_run"`
	DefaultStatus string           `json:"default_status" validate:"omitempty,oneof=pending approved rejected"`
}

/* ===============================
   ROWS (after normalisation)
=================================*/

type FacultyRow struct {
	ID             *uuid.UUID `json:"id"`
	Name           string     `json:"name" validate:"required,max=160"`
	Department     string     `json:"department" validate:"required,max=120"`
	Title          *string    `json:"title" validate:"omitempty,max=80"`
	Email          *string    `json:"email" validate:"omitempty,email,max=160"`
	Office         *string    `json:"office" validate:"omitempty,max=120"`
	Phone          *string    `json:"phone" validate:"omitempty,max=40"`
	Specialization []string   `json:"specialization" validate:"omitempty,max=30,dive,max=120"`
	Courses        []string   `json:"courses" validate:"omitempty,max=60,dive,max=120"`
	Education      []string   `json:"education" validate:"omitempty,max=20,dive,max=200"`
	Experience     *string    `json:"experience"`
	ProfileImage   *string    `json:"profile_image" validate:"omitempty,url"`
	CreatedAt      *time.Time `json:"created_at"`
}

func (r *FacultyRow) ToModel() *model.Faculty {
	m := &model.Faculty{
		FacultyName:           strings.TrimSpace(r.Name),
		FacultyDepartment:     strings.TrimSpace(r.Department),
		FacultyTitle:          r.Title,
		FacultyEmail:          r.Email,
		FacultyOffice:         r.Office,
		FacultyPhone:          r.Phone,
		FacultySpecialization: datatypes.JSONSlice[string](r.Specialization),
		FacultyCourses:        datatypes.JSONSlice[string](r.Courses),
		FacultyEducation:      datatypes.JSONSlice[string](r.Education),
		FacultyExperience:     r.Experience,
		FacultyProfileImage:   r.ProfileImage,
	}
	if r.CreatedAt != nil {
		m.FacultyCreatedAt = *r.CreatedAt
	}
	return m
}

// FacultyColumns maps import keys to columns for partial updates.
var FacultyColumns = map[string]string{
	"name":           "faculty_name",
	"department":     "faculty_department",
	"title":          "faculty_title",
	"email":          "faculty_email",
	"office":         "faculty_office",
	"phone":          "faculty_phone",
	"specialization": "faculty_specialization",
	"courses":        "faculty_courses",
	"education":      "faculty_education",
	"experience":     "faculty_experience",
	"profile_image":  "faculty_profile_image",
}

type ReviewRow struct {
	ID              *uuid.UUID `json:"id"`
	UserID          *uuid.UUID `json:"user_id"`
	FacultyID       uuid.UUID  `json:"faculty_id" validate:"required"`
	StudentName     *string    `json:"student_name" validate:"omitempty,max=120"`
	Course          string     `json:"course" validate:"required,max=120"`
	Semester        string     `json:"semester" validate:"required,max=40"`
	Rating          int        `json:"rating" validate:"required,min=1,max=5"`
	TeachingQuality int        `json:"teaching_quality" validate:"required,min=1,max=5"`
	Accessibility   int        `json:"accessibility" validate:"required,min=1,max=5"`
	CourseMaterial  int        `json:"course_material" validate:"required,min=1,max=5"`
	Grading         int        `json:"grading" validate:"required,min=1,max=5"`
	Comment         string     `json:"comment" validate:"required,max=5000"`
	Pros            []string   `json:"pros" validate:"omitempty,max=20,dive,max=200"`
	Cons            []string   `json:"cons" validate:"omitempty,max=20,dive,max=200"`
	WouldRecommend  *bool      `json:"would_recommend"`
	IsAnonymous     *bool      `json:"is_anonymous"`
	Helpful         *int       `json:"helpful" validate:"omitempty,min=0"`
	Reported        *int       `json:"reported" validate:"omitempty,min=0"`
	Status          *string    `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	CreatedAt       *time.Time `json:"created_at"`
}

// ToModel uses defaultStatus when the row has none.
func (r *ReviewRow) ToModel(defaultStatus model.ReviewStatus) *model.FacultyReview {
	m := &model.FacultyReview{
		ReviewUserID:          r.UserID,
		ReviewFacultyID:       r.FacultyID,
		ReviewStudentName:     r.StudentName,
		ReviewCourse:          strings.TrimSpace(r.Course),
		ReviewSemester:        strings.TrimSpace(r.Semester),
		ReviewRating:          r.Rating,
		ReviewTeachingQuality: r.TeachingQuality,
		ReviewAccessibility:   r.Accessibility,
		ReviewCourseMaterial:  r.CourseMaterial,
		ReviewGrading:         r.Grading,
		ReviewComment:         strings.TrimSpace(r.Comment),
		ReviewPros:            datatypes.JSONSlice[string](r.Pros),
		ReviewCons:            datatypes.JSONSlice[string](r.Cons),
		ReviewWouldRecommend:  r.WouldRecommend,
		ReviewIsAnonymous:     r.IsAnonymous != nil && *r.IsAnonymous,
		ReviewStatus:          defaultStatus,
	}
	if r.Helpful != nil {
		m.ReviewHelpful = *r.Helpful
	}
	if r.Reported != nil {
		m.ReviewReported = *r.Reported
	}
	if r.Status != nil {
		m.ReviewStatus = model.ReviewStatus(*r.Status)
	}
	if r.CreatedAt != nil {
		m.ReviewCreatedAt = *r.CreatedAt
	}
	return m
}

var ReviewColumns = map[string]string{
	"user_id":          "review_user_id",
	"faculty_id":       "review_faculty_id",
	"student_name":     "review_student_name",
	"course":           "review_course",
	"semester":         "review_semester",
	"rating":           "review_rating",
	"teaching_quality": "review_teaching_quality",
	"accessibility":    "review_accessibility",
	"course_material":  "review_course_material",
	"grading":          "review_grading",
	"comment":          "review_comment",
	"pros":             "review_pros",
	"cons":             "review_cons",
	"would_recommend":  "review_would_recommend",
	"is_anonymous":     "review_is_anonymous",
	"helpful":          "review_helpful",
	"reported":         "review_reported",
	"status":           "review_status",
}

/* ===============================
   RESULT
=================================*/

const (
	RowValid    = "valid"
	RowInvalid  = "invalid"
	RowInserted = "inserted"
	RowUpdated  = "updated"
	RowFailed   = "failed"
)

type RowResult struct {
	Index  int        `json:"index"` // 1-based, header excluded
	ID     *uuid.UUID `json:"id,omitempty"`
	Status string     `json:"status"`
	Errors []string   `json:"errors,omitempty"`
}

type Summary struct {
	Entity   string      `json:"entity"`
	DryRun   bool        `json:"dry_run"`
	Upsert   bool        `json:"upsert"`
	Total    int         `json:"total"`
	Valid    int         `json:"valid"`
	Invalid  int         `json:"invalid"`
	Inserted int         `json:"inserted"`
	Updated  int         `json:"updated"`
	Failed   int         `json:"failed"`
	Results  []RowResult `json:"results"`
}

func (s *Summary) Add(r RowResult) {
	switch r.Status {
	case RowValid:
		s.Valid++
	case RowInvalid:
		s.Invalid++
	case RowInserted:
		s.Valid++
		s.Inserted++
	case RowUpdated:
		s.Valid++
		s.Updated++
	case RowFailed:
		s.Valid++
		s.Failed++
	}
	s.Results = append(s.Results, r)
}
