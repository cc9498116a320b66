package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/gamification/achievements/model"
	"campusaxis_backend/internals/features/gamification/achievements/service"
	"campusaxis_backend/internals/features/gamification/catalog"
	statsModel "campusaxis_backend/internals/features/gamification/stats/model"
	"campusaxis_backend/internals/testutil"
)

func seedAchievement(t *testing.T, db *gorm.DB, slug string, points int, criteria map[string]float64) {
	t.Helper()
	require.NoError(t, db.Create(&model.Achievement{
		AchievementSlug:     slug,
		AchievementTitle:    slug,
		AchievementPoints:   points,
		AchievementCriteria: datatypes.NewJSONType(criteria),
		AchievementIsActive: true,
	}).Error)
}

func seedStats(t *testing.T, db *gorm.DB, s statsModel.UserStats) {
	t.Helper()
	require.NoError(t, db.Create(&s).Error)
}

func points(t *testing.T, db *gorm.DB, userID uuid.UUID) int {
	t.Helper()
	var s statsModel.UserStats
	require.NoError(t, db.Where("user_stats_user_id = ?", userID).Take(&s).Error)
	return s.UserStatsTotalPoints
}

func TestCriteriaMet(t *testing.T) {
	s := &statsModel.UserStats{UserStatsPostsCount: 10, UserStatsLikesReceived: 30, UserStatsCommentsCount: 4}

	assert.True(t, service.CriteriaMet(s, map[string]float64{"posts": 10}))
	assert.False(t, service.CriteriaMet(s, map[string]float64{"posts": 11}))
	assert.False(t, service.CriteriaMet(s, map[string]float64{"likes_received": 25, "comments": 10}), "all criteria must hold")
	assert.True(t, service.CriteriaMet(s, map[string]float64{"posts": 1, "karma": 999}), "unknown keys are ignored")
	assert.False(t, service.CriteriaMet(s, map[string]float64{"karma": 1}), "no known key never unlocks")
	assert.False(t, service.CriteriaMet(s, nil))
}

func TestEvaluate_UnlocksOnceAndCreditsOnce(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	userID := uuid.New()
	seedStats(t, db, statsModel.UserStats{UserStatsUserID: userID, UserStatsPostsCount: 1, UserStatsTotalPoints: 15})
	seedAchievement(t, db, "first-post", 10, map[string]float64{"posts": 1})
	seedAchievement(t, db, "posts-10", 50, map[string]float64{"posts": 10})

	ev := service.NewEvaluator(db)
	got, err := ev.Evaluate(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "first-post", got[0].Achievement.AchievementSlug)
	assert.Equal(t, 25, points(t, db, userID))

	again, err := ev.Evaluate(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, 25, points(t, db, userID))

	var n int64
	require.NoError(t, db.Model(&model.UserAchievement{}).Where("user_achievement_user_id = ?", userID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestEvaluate_PointsAchievementsChain(t *testing.T) {
	db := testutil.OpenDB(t)
	userID := uuid.New()
	seedStats(t, db, statsModel.UserStats{UserStatsUserID: userID, UserStatsPostsCount: 50, UserStatsTotalPoints: 900})
	seedAchievement(t, db, "posts-50", 200, map[string]float64{"posts": 50})
	seedAchievement(t, db, "rising-star", 100, map[string]float64{"total_points": 1000})

	got, err := service.NewEvaluator(db).Evaluate(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1200, points(t, db, userID))
}

func TestEvaluate_WithoutStatsDoesNothing(t *testing.T) {
	db := testutil.OpenDB(t)
	seedAchievement(t, db, "first-post", 10, map[string]float64{"posts": 1})

	got, err := service.NewEvaluator(db).Evaluate(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEvaluate_SkipsInactive(t *testing.T) {
	db := testutil.OpenDB(t)
	userID := uuid.New()
	seedStats(t, db, statsModel.UserStats{UserStatsUserID: userID, UserStatsPostsCount: 3})
	seedAchievement(t, db, "first-post", 10, map[string]float64{"posts": 1})
	require.NoError(t, db.Model(&model.Achievement{}).
		Where("achievement_slug = ?", "first-post").
		Update("achievement_is_active", false).Error)

	got, err := service.NewEvaluator(db).Evaluate(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSyncCatalog_UpsertsAndDeactivates(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	cat, err := catalog.Parse([]byte(`
levels:
  - { level: 0, name: Newcomer, min_points: 0 }
achievements:
  - { slug: first-post, title: First Post, points: 10, criteria: { posts: 1 } }
  - { slug: old-badge, title: Old, points: 5, criteria: { posts: 2 } }
`))
	require.NoError(t, err)
	require.NoError(t, service.SyncCatalog(ctx, db, cat))

	cat.Achievements = cat.Achievements[:1]
	cat.Achievements[0].Points = 20
	require.NoError(t, service.SyncCatalog(ctx, db, cat))

	active, err := service.ListActive(ctx, db)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "first-post", active[0].AchievementSlug)
	assert.Equal(t, 20, active[0].AchievementPoints)
	assert.Equal(t, float64(1), active[0].AchievementCriteria.Data()["posts"])

	var total int64
	require.NoError(t, db.Model(&model.Achievement{}).Count(&total).Error)
	assert.EqualValues(t, 2, total, "retired definitions are kept, only deactivated")
}

func TestEvaluate_FailedCreditRollsBackUnlock(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	userID := uuid.New()
	seedStats(t, db, statsModel.UserStats{UserStatsUserID: userID, UserStatsPostsCount: 1, UserStatsTotalPoints: 15})
	seedAchievement(t, db, "first-post", 10, map[string]float64{"posts": 1})

	var failCredit atomic.Bool
	failCredit.Store(true)
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_credit", func(tx *gorm.DB) {
		if failCredit.Load() && tx.Statement.Table == "user_stats" {
			_ = tx.AddError(errors.New("credit unavailable"))
		}
	}))

	got, err := service.NewEvaluator(db).Evaluate(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, got)

	var n int64
	require.NoError(t, db.Model(&model.UserAchievement{}).Where("user_achievement_user_id = ?", userID).Count(&n).Error)
	assert.Zero(t, n, "unlock must not survive a failed credit")
	assert.Equal(t, 15, points(t, db, userID))

	failCredit.Store(false)
	got, err = service.NewEvaluator(db).Evaluate(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 25, points(t, db, userID))
}
