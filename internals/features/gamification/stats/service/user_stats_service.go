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

	achievementModel "campusaxis_backend/internals/features/gamification/achievements/model"
	"campusaxis_backend/internals/features/gamification/stats/model"
)

var ErrStatsNotFound = errors.New("user stats not found")

// Evaluator unlocks achievements whose thresholds the user's stats now meet.
type Evaluator interface {
	Evaluate(ctx context.Context, userID uuid.UUID) ([]achievementModel.UserAchievement, error)
}

// Updater applies the post-creation bookkeeping to user_stats.
type Updater struct {
	DB            *gorm.DB
	PointsPerPost int
	Evaluator     Evaluator
}

func NewUpdater(db *gorm.DB, pointsPerPost int, ev Evaluator) *Updater {
	return &Updater{DB: db, PointsPerPost: pointsPerPost, Evaluator: ev}
}

// RecordPostCreated adds one post and the per-post reward in a single
// UPDATE, so concurrent posts by the same user cannot overwrite each
// other's increment. Users without a stats row are skipped silently.
// The achievement check only runs after a successful write.
func (u *Updater) RecordPostCreated(ctx context.Context, userID uuid.UUID) error {
	res := u.DB.WithContext(ctx).
		Model(&model.UserStats{}).
		Where("user_stats_user_id = ?", userID).
		Updates(map[string]any{
			"user_stats_posts_count":  gorm.Expr("user_stats_posts_count + ?", 1),
			"user_stats_total_points": gorm.Expr("user_stats_total_points + ?", u.PointsPerPost),
			"user_stats_updated_at":   time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("increment stats: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("[STATS] no stats row for user=%s, skip", userID)
		return nil
	}

	if u.Evaluator == nil {
		return nil
	}
	unlocked, err := u.Evaluator.Evaluate(ctx, userID)
	if err != nil {
		return fmt.Errorf("evaluate achievements: %w", err)
	}
	if len(unlocked) > 0 {
		log.Printf("[STATS] user=%s unlocked %d achievement(s)", userID, len(unlocked))
	}
	return nil
}

// RecordPostDeleted keeps posts_count in line with live posts. Points are
// never taken back.
func (u *Updater) RecordPostDeleted(ctx context.Context, userID uuid.UUID) error {
	res := u.DB.WithContext(ctx).
		Model(&model.UserStats{}).
		Where("user_stats_user_id = ?", userID).
		Updates(map[string]any{
			"user_stats_posts_count": gorm.Expr("CASE WHEN user_stats_posts_count > 0 THEN user_stats_posts_count - 1 ELSE 0 END"),
			"user_stats_updated_at":  time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("decrement stats: %w", res.Error)
	}
	return nil
}

// EnsureStats creates a zeroed stats row; created is false when one existed.
func EnsureStats(ctx context.Context, db *gorm.DB, userID uuid.UUID) (row *model.UserStats, created bool, err error) {
	fresh := model.UserStats{UserStatsUserID: userID}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_stats_user_id"}}, DoNothing: true}).
		Create(&fresh)
	if res.Error != nil {
		return nil, false, res.Error
	}
	row, err = GetByUserID(ctx, db, userID)
	if err != nil {
		return nil, false, err
	}
	return row, res.RowsAffected > 0, nil
}

func GetByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.UserStats, error) {
	var row model.UserStats
	err := db.WithContext(ctx).Where("user_stats_user_id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Leaderboard orders by points, ties broken by the earliest to get there.
func Leaderboard(ctx context.Context, db *gorm.DB, limit int) ([]model.UserStats, error) {
	var rows []model.UserStats
	err := db.WithContext(ctx).
		Order("user_stats_total_points DESC").
		Order("user_stats_updated_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
