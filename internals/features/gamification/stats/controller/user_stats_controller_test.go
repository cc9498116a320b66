package controller_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/gamification/catalog"
	"campusaxis_backend/internals/features/gamification/stats/model"
	"campusaxis_backend/internals/features/gamification/stats/route"
	helper "campusaxis_backend/internals/helpers"
	"campusaxis_backend/internals/middlewares/auth"
	"campusaxis_backend/internals/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	cat, err := catalog.Default()
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	g := app.Group("/api/gamification", auth.AuthJWT(auth.AuthJWTOpts{Secret: testutil.JWTSecret, Optional: true}))
	route.UserStatsRoutes(g, db, cat)
	route.LeaderboardRoutes(g, db, cat)
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path string, userID *uuid.UUID) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if userID != nil {
		req.Header.Set("Authorization", testutil.Bearer(t, *userID))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestStatsMe_RequiresSession(t *testing.T) {
	app, _ := newApp(t)
	status, env := do(t, app, fiber.MethodGet, "/api/gamification/stats/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Success)
}

func TestStatsMe_OptInThenRead(t *testing.T) {
	app, db := newApp(t)
	userID := uuid.New()

	status, _ := do(t, app, fiber.MethodGet, "/api/gamification/stats/me", &userID)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, fiber.MethodPost, "/api/gamification/stats/me", &userID)
	assert.Equal(t, fiber.StatusCreated, status)
	status, _ = do(t, app, fiber.MethodPost, "/api/gamification/stats/me", &userID)
	assert.Equal(t, fiber.StatusOK, status)

	require.NoError(t, db.Model(&model.UserStats{}).
		Where("user_stats_user_id = ?", userID).
		Update("user_stats_total_points", 115).Error)

	status, env := do(t, app, fiber.MethodGet, "/api/gamification/stats/me", &userID)
	require.Equal(t, fiber.StatusOK, status)

	var body struct {
		TotalPoints int `json:"total_points"`
		Level       struct {
			Current      catalog.Level `json:"current"`
			Progress     float64       `json:"progress"`
			PointsToNext int           `json:"points_to_next"`
		} `json:"level"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, 115, body.TotalPoints)
	assert.Equal(t, 1, body.Level.Current.Level)
	assert.InDelta(t, 7.5, body.Level.Progress, 0.001)
	assert.Equal(t, 185, body.Level.PointsToNext)
}

func TestLeaderboard_RanksUsers(t *testing.T) {
	app, db := newApp(t)
	top, second := uuid.New(), uuid.New()
	require.NoError(t, db.Create(&model.UserStats{UserStatsUserID: second, UserStatsTotalPoints: 150}).Error)
	require.NoError(t, db.Create(&model.UserStats{UserStatsUserID: top, UserStatsTotalPoints: 2100}).Error)

	status, env := do(t, app, fiber.MethodGet, "/api/gamification/leaderboard?limit=5", nil)
	require.Equal(t, fiber.StatusOK, status)

	var rows []struct {
		Rank   int           `json:"rank"`
		UserID uuid.UUID     `json:"user_id"`
		Level  catalog.Level `json:"level"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, top, rows[0].UserID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 5, rows[0].Level.Level)
	assert.Equal(t, second, rows[1].UserID)
}
