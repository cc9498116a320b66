package dto

import (
	"time"

	"github.com/google/uuid"

	"campusaxis_backend/internals/features/gamification/achievements/model"
)

type AchievementResponse struct {
	ID          uuid.UUID          `json:"id"`
	Slug        string             `json:"slug"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Icon        string             `json:"icon"`
	Category    string             `json:"category"`
	Rarity      string             `json:"rarity"`
	Points      int                `json:"points"`
	Criteria    map[string]float64 `json:"criteria"`
}

func FromAchievement(m *model.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:          m.AchievementID,
		Slug:        m.AchievementSlug,
		Title:       m.AchievementTitle,
		Description: m.AchievementDescription,
		Icon:        m.AchievementIcon,
		Category:    m.AchievementCategory,
		Rarity:      m.AchievementRarity,
		Points:      m.AchievementPoints,
		Criteria:    m.AchievementCriteria.Data(),
	}
}

func FromAchievements(rows []model.Achievement) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromAchievement(&rows[i]))
	}
	return out
}

type UnlockedResponse struct {
	Achievement AchievementResponse `json:"achievement"`
	UnlockedAt  time.Time           `json:"unlocked_at"`
}

// FromUnlocked expects Achievement to be preloaded; rows without it are dropped.
func FromUnlocked(rows []model.UserAchievement) []UnlockedResponse {
	out := make([]UnlockedResponse, 0, len(rows))
	for i := range rows {
		if rows[i].Achievement == nil {
			continue
		}
		out = append(out, UnlockedResponse{
			Achievement: FromAchievement(rows[i].Achievement),
			UnlockedAt:  rows[i].UserAchievementUnlockedAt,
		})
	}
	return out
}
