package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campusaxis_backend/internals/features/users/preferences/model"
)

// Scope is the campus/department/batch triple a post is associated with.
type Scope struct {
	CampusID     *uuid.UUID
	DepartmentID *uuid.UUID
	Batch        *string
}

// ResolveDefaults returns the stored defaults for userID. A user without a
// preferences row gets an empty Scope and no error.
func ResolveDefaults(ctx context.Context, db *gorm.DB, userID uuid.UUID) (Scope, error) {
	var pref model.UserPreference
	err := db.WithContext(ctx).
		Where("user_preference_user_id = ?", userID).
		Take(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Scope{}, nil
	}
	if err != nil {
		return Scope{}, err
	}
	return Scope{
		CampusID:     pref.UserPreferenceCampusID,
		DepartmentID: pref.UserPreferenceDepartmentID,
		Batch:        pref.UserPreferenceBatch,
	}, nil
}

// Fill keeps explicit values and takes the rest from defaults.
func (s Scope) Fill(defaults Scope) Scope {
	out := s
	if out.CampusID == nil {
		out.CampusID = defaults.CampusID
	}
	if out.DepartmentID == nil {
		out.DepartmentID = defaults.DepartmentID
	}
	if out.Batch == nil || strings.TrimSpace(*out.Batch) == "" {
		out.Batch = defaults.Batch
	}
	return out
}

// Save inserts or replaces the user's defaults.
func Save(ctx context.Context, db *gorm.DB, userID uuid.UUID, s Scope) (*model.UserPreference, error) {
	row := &model.UserPreference{
		UserPreferenceUserID:       userID,
		UserPreferenceCampusID:     s.CampusID,
		UserPreferenceDepartmentID: s.DepartmentID,
		UserPreferenceBatch:        s.Batch,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_preference_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_preference_campus_id",
			"user_preference_department_id",
			"user_preference_batch",
			"user_preference_updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}
