package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"campusaxis_backend/internals/features/users/preferences/model"
	"campusaxis_backend/internals/features/users/preferences/service"
)

type SavePreferenceRequest struct {
	CampusID     *uuid.UUID `json:"campus_id" validate:"omitempty"`
	DepartmentID *uuid.UUID `json:"department_id" validate:"omitempty"`
	Batch        *string    `json:"batch" validate:"omitempty,max=32"`
}

func (r *SavePreferenceRequest) ToScope() service.Scope {
	var batch *string
	if r.Batch != nil {
		if b := strings.TrimSpace(*r.Batch); b != "" {
			batch = &b
		}
	}
	return service.Scope{
		CampusID:     r.CampusID,
		DepartmentID: r.DepartmentID,
		Batch:        batch,
	}
}

type PreferenceResponse struct {
	UserID       uuid.UUID  `json:"user_id"`
	CampusID     *uuid.UUID `json:"campus_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Batch        *string    `json:"batch"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func FromModel(m *model.UserPreference) PreferenceResponse {
	updated := m.UserPreferenceUpdatedAt
	return PreferenceResponse{
		UserID:       m.UserPreferenceUserID,
		CampusID:     m.UserPreferenceCampusID,
		DepartmentID: m.UserPreferenceDepartmentID,
		Batch:        m.UserPreferenceBatch,
		UpdatedAt:    &updated,
	}
}

func FromScope(userID uuid.UUID, s service.Scope) PreferenceResponse {
	return PreferenceResponse{
		UserID:       userID,
		CampusID:     s.CampusID,
		DepartmentID: s.DepartmentID,
		Batch:        s.Batch,
	}
}
