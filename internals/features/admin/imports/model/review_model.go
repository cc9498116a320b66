package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

/* =========================================================
   MODEL: reviews (faculty reviews)
   ========================================================= */

type FacultyReview struct {
	ReviewID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:review_id" json:"id"`
	ReviewUserID      *uuid.UUID `gorm:"type:uuid;index;column:review_user_id" json:"user_id"`
	ReviewFacultyID   uuid.UUID  `gorm:"type:uuid;not null;index;column:review_faculty_id" json:"faculty_id"`
	ReviewStudentName *string    `gorm:"type:varchar(120);column:review_student_name" json:"student_name"`
	ReviewCourse      string     `gorm:"type:varchar(120);not null;column:review_course" json:"course"`
	ReviewSemester    string     `gorm:"type:varchar(40);not null;column:review_semester" json:"semester"`

	// ratings, 1..5
	ReviewRating          int `gorm:"not null;column:review_rating" json:"rating"`
	ReviewTeachingQuality int `gorm:"not null;column:review_teaching_quality" json:"teaching_quality"`
	ReviewAccessibility   int `gorm:"not null;column:review_accessibility" json:"accessibility"`
	ReviewCourseMaterial  int `gorm:"not null;column:review_course_material" json:"course_material"`
	ReviewGrading         int `gorm:"not null;column:review_grading" json:"grading"`

	ReviewComment        string                      `gorm:"type:text;not null;column:review_comment" json:"comment"`
	ReviewPros           datatypes.JSONSlice[string] `gorm:"column:review_pros" json:"pros"`
	ReviewCons           datatypes.JSONSlice[string] `gorm:"column:review_cons" json:"cons"`
	ReviewWouldRecommend *bool                       `gorm:"column:review_would_recommend" json:"would_recommend"`
	ReviewIsAnonymous    bool                        `gorm:"not null;column:review_is_anonymous" json:"is_anonymous"`
	ReviewHelpful        int                         `gorm:"not null;column:review_helpful" json:"helpful"`
	ReviewReported       int                         `gorm:"not null;column:review_reported" json:"reported"`
	ReviewStatus         ReviewStatus                `gorm:"type:varchar(20);not null;index;column:review_status" json:"status"`

	ReviewCreatedAt time.Time `gorm:"not null;autoCreateTime;column:review_created_at" json:"created_at"`
	ReviewUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:review_updated_at" json:"updated_at"`

	Faculty *Faculty `gorm:"foreignKey:ReviewFacultyID;references:FacultyID" json:"-"`
}

func (FacultyReview) TableName() string { return "reviews" }

func (r *FacultyReview) BeforeCreate(tx *gorm.DB) error {
	if r.ReviewID == uuid.Nil {
		r.ReviewID = uuid.New()
	}
	if r.ReviewStatus == "" {
		r.ReviewStatus = ReviewApproved
	}
	return nil
}
