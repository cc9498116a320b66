package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campusaxis_backend/internals/features/gamification/achievements/model"
	statsModel "campusaxis_backend/internals/features/gamification/stats/model"
)

type Evaluator struct {
	DB *gorm.DB
}

func NewEvaluator(db *gorm.DB) *Evaluator {
	return &Evaluator{DB: db}
}

// Evaluate unlocks every active achievement the user now qualifies for and
// credits its points. A user without stats gets nothing. Passes repeat
// until nothing new unlocks so points-based achievements can chain.
func (e *Evaluator) Evaluate(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	db := e.DB.WithContext(ctx)

	var stats statsModel.UserStats
	if err := db.Where("user_stats_user_id = ?", userID).Take(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load stats: %w", err)
	}

	var defs []model.Achievement
	if err := db.Where("achievement_is_active = ?", true).
		Order("achievement_points ASC").
		Order("achievement_slug ASC").
		Find(&defs).Error; err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}

	var have []uuid.UUID
	if err := db.Model(&model.UserAchievement{}).
		Where("user_achievement_user_id = ?", userID).
		Pluck("user_achievement_achievement_id", &have).Error; err != nil {
		return nil, fmt.Errorf("load unlocked: %w", err)
	}
	owned := make(map[uuid.UUID]struct{}, len(have))
	for _, id := range have {
		owned[id] = struct{}{}
	}

	out := make([]model.UserAchievement, 0)
	for progressed := true; progressed; {
		progressed = false
		for i := range defs {
			a := defs[i]
			if _, ok := owned[a.AchievementID]; ok {
				continue
			}
			if !CriteriaMet(&stats, a.AchievementCriteria.Data()) {
				continue
			}

			ua, ok, err := e.unlock(db, userID, &a)
			owned[a.AchievementID] = struct{}{}
			if err != nil {
				log.Printf("[ACHIEVEMENT] unlock %s for user=%s failed: %v", a.AchievementSlug, userID, err)
				continue
			}
			if !ok {
				continue
			}
			stats.UserStatsTotalPoints += a.AchievementPoints
			out = append(out, *ua)
			progressed = true
			log.Printf("[ACHIEVEMENT] user=%s unlocked %q (+%d points)", userID, a.AchievementTitle, a.AchievementPoints)
		}
	}
	return out, nil
}

// unlock inserts the record and credits points in one transaction; ok is
// false when a concurrent evaluation already inserted it.
func (e *Evaluator) unlock(db *gorm.DB, userID uuid.UUID, a *model.Achievement) (*model.UserAchievement, bool, error) {
	ua := model.UserAchievement{
		UserAchievementUserID:        userID,
		UserAchievementAchievementID: a.AchievementID,
		UserAchievementUnlockedAt:    time.Now(),
	}

	inserted := false
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ua)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		inserted = true

		if a.AchievementPoints > 0 {
			if err := tx.Model(&statsModel.UserStats{}).
				Where("user_stats_user_id = ?", userID).
				Update("user_stats_total_points", gorm.Expr("user_stats_total_points + ?", a.AchievementPoints)).Error; err != nil {
				return fmt.Errorf("credit points: %w", err)
			}
		}
		return nil
	})
	if err != nil || !inserted {
		return nil, false, err
	}

	ua.Achievement = a
	return &ua, true, nil
}

// CriteriaMet: every known criterion must be reached. Unknown keys are
// ignored, but criteria without any known key never unlock.
func CriteriaMet(stats *statsModel.UserStats, criteria map[string]float64) bool {
	known := 0
	for key, threshold := range criteria {
		v, ok := stats.Metric(key)
		if !ok {
			continue
		}
		known++
		if float64(v) < threshold {
			return false
		}
	}
	return known > 0
}
