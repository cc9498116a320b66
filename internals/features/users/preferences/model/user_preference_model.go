package model

import (
	"time"

	"github.com/google/uuid"
)

// UserPreference stores the campus/department/batch a user posts into by default.
type UserPreference struct {
	UserPreferenceUserID       uuid.UUID  `gorm:"type:uuid;primaryKey;column:user_preference_user_id" json:"user_id"`
	UserPreferenceCampusID     *uuid.UUID `gorm:"type:uuid;column:user_preference_campus_id" json:"campus_id,omitempty"`
	UserPreferenceDepartmentID *uuid.UUID `gorm:"type:uuid;column:user_preference_department_id" json:"department_id,omitempty"`
	UserPreferenceBatch        *string    `gorm:"type:varchar(32);column:user_preference_batch" json:"batch,omitempty"`

	UserPreferenceCreatedAt time.Time `gorm:"not null;autoCreateTime;column:user_preference_created_at" json:"created_at"`
	UserPreferenceUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:user_preference_updated_at" json:"updated_at"`
}

func (UserPreference) TableName() string { return "user_preferences" }
