package controller_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/community/posts/dto"
	"campusaxis_backend/internals/features/community/posts/model"
	"campusaxis_backend/internals/features/community/posts/route"
	achievementService "campusaxis_backend/internals/features/gamification/achievements/service"
	statsModel "campusaxis_backend/internals/features/gamification/stats/model"
	statsService "campusaxis_backend/internals/features/gamification/stats/service"
	prefModel "campusaxis_backend/internals/features/users/preferences/model"
	helper "campusaxis_backend/internals/helpers"
	"campusaxis_backend/internals/helpers/background"
	"campusaxis_backend/internals/middlewares/auth"
	"campusaxis_backend/internals/testutil"
)

type harness struct {
	app    *fiber.App
	db     *gorm.DB
	runner *background.Runner
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.OpenDB(t)
	runner := background.NewRunner(5 * time.Second)
	stats := statsService.NewUpdater(db, 15, achievementService.NewEvaluator(db))

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	api := app.Group("/api", auth.AuthJWT(auth.AuthJWTOpts{Secret: testutil.JWTSecret, Optional: true}))
	route.PostRoutes(api, db, runner, stats)
	return &harness{app: app, db: db, runner: runner}
}

func (h *harness) do(t *testing.T, method, path string, body any, userID *uuid.UUID) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if userID != nil {
		req.Header.Set(fiber.HeaderAuthorization, testutil.Bearer(t, *userID))
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (h *harness) seedStats(t *testing.T, userID uuid.UUID, posts, points int) {
	t.Helper()
	require.NoError(t, h.db.Create(&statsModel.UserStats{
		UserStatsUserID:      userID,
		UserStatsPostsCount:  posts,
		UserStatsTotalPoints: points,
	}).Error)
}

func (h *harness) stats(t *testing.T, userID uuid.UUID) statsModel.UserStats {
	t.Helper()
	var s statsModel.UserStats
	require.NoError(t, h.db.Where("user_stats_user_id = ?", userID).Take(&s).Error)
	return s
}

func (h *harness) countPosts(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(&model.Post{}).Count(&n).Error)
	return n
}

/* ==============================
   Create
============================== */

func TestCreate_RejectsShortContent(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()

	for _, content := range []string{"", "  ", "hi", " ab  "} {
		resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{"content": content}, &user)
		body := decode[map[string]any](t, resp)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "content %q", content)
		assert.NotEmpty(t, body["error"])
	}
	assert.Zero(t, h.countPosts(t))
}

func TestCreate_CountsRunesNotBytes(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()

	resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{"content": "ok"}, &user)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{"content": "ça!"}, &user)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreate_Unauthenticated(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{"content": "hello campus"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, h.countPosts(t))
}

func TestCreate_PersistsAndUpdatesStats(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	h.seedStats(t, user, 5, 100)

	resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{
		"content":    "  Anyone up for a study group?  ",
		"type":       "Question",
		"media":      []string{"https://cdn.example.com/a.png"},
		"visibility": "campus",
	}, &user)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "s-maxage")

	p := decode[dto.PostResponse](t, resp)
	assert.Equal(t, user, p.AuthorID)
	assert.Equal(t, "Anyone up for a study group?", p.Content)
	assert.Equal(t, "question", p.Type)
	assert.Equal(t, "campus", p.Visibility)
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, p.Media)
	assert.Zero(t, p.LikesCount+p.CommentsCount+p.SharesCount+p.ViewsCount)
	assert.False(t, p.IsEdited)

	h.runner.Wait()
	s := h.stats(t, user)
	assert.Equal(t, 6, s.UserStatsPostsCount)
	assert.Equal(t, 115, s.UserStatsTotalPoints)
}

func TestCreate_UserWithoutStatsStillSucceeds(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()

	resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{"content": "first!"}, &user)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	h.runner.Wait()

	var n int64
	require.NoError(t, h.db.Model(&statsModel.UserStats{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreate_FillsScopeFromPreferences(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	campus, dept, explicitDept := uuid.New(), uuid.New(), uuid.New()
	batch := "FA22-BSE"
	require.NoError(t, h.db.Create(&prefModel.UserPreference{
		UserPreferenceUserID:       user,
		UserPreferenceCampusID:     &campus,
		UserPreferenceDepartmentID: &dept,
		UserPreferenceBatch:        &batch,
	}).Error)

	resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{
		"content":       "scoped post",
		"department_id": explicitDept.String(),
	}, &user)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	p := decode[dto.PostResponse](t, resp)
	require.NotNil(t, p.CampusID)
	assert.Equal(t, campus, *p.CampusID)
	require.NotNil(t, p.DepartmentID)
	assert.Equal(t, explicitDept, *p.DepartmentID, "explicit values win over defaults")
	require.NotNil(t, p.Batch)
	assert.Equal(t, batch, *p.Batch)
}

func TestCreate_ConcurrentSubmissionsKeepEveryIncrement(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()
	h.seedStats(t, user, 0, 0)

	const n = 8
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{"content": fmt.Sprintf("post number %d", i)}, &user)
			resp.Body.Close()
			codes <- resp.StatusCode
		}(i)
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		assert.Equal(t, fiber.StatusCreated, code)
	}
	h.runner.Wait()

	s := h.stats(t, user)
	assert.Equal(t, n, s.UserStatsPostsCount)
	assert.GreaterOrEqual(t, s.UserStatsTotalPoints, n*15)
}

/* ==============================
   List / Get
============================== */

func TestList_FiltersAndMeta(t *testing.T) {
	h := newHarness(t)
	author := uuid.New()
	campusA, campusB := uuid.New(), uuid.New()

	for i, c := range []uuid.UUID{campusA, campusA, campusB} {
		resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{
			"content":   fmt.Sprintf("campus post %d", i),
			"campus_id": c.String(),
		}, &author)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
	resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{"content": "private note", "visibility": "private"}, &author)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = h.do(t, fiber.MethodGet, "/api/community/posts", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "public")
	assert.Len(t, decode[[]dto.PostResponse](t, resp), 3, "private posts are hidden from others")

	resp = h.do(t, fiber.MethodGet, "/api/community/posts", nil, &author)
	assert.Len(t, decode[[]dto.PostResponse](t, resp), 4)

	resp = h.do(t, fiber.MethodGet, "/api/community/posts?withMeta=true&limit=1&campusId="+campusA.String(), nil, nil)
	env := decode[struct {
		Data []dto.PostResponse `json:"data"`
		Meta helper.PageMeta    `json:"meta"`
	}](t, resp)
	assert.Len(t, env.Data, 1)
	assert.EqualValues(t, 2, env.Meta.Total)
	assert.True(t, env.Meta.HasMore)

	resp = h.do(t, fiber.MethodGet, "/api/community/posts?campusId=nope", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestList_LimitIsCapped(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, fiber.MethodGet, "/api/community/posts?withMeta=1&limit=1000", nil, nil)
	env := decode[struct {
		Meta helper.PageMeta `json:"meta"`
	}](t, resp)
	assert.Equal(t, 100, env.Meta.Limit)
}

func TestGet_NotFound(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, fiber.MethodGet, "/api/community/posts/"+uuid.NewString(), nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = h.do(t, fiber.MethodGet, "/api/community/posts/not-a-uuid", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

/* ==============================
   Patch / Delete
============================== */

func createPost(t *testing.T, h *harness, author uuid.UUID) dto.PostResponse {
	t.Helper()
	resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{"content": "original text"}, &author)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.PostResponse](t, resp)
}

func TestPatch_OwnershipAndEditFlags(t *testing.T) {
	h := newHarness(t)
	author, other := uuid.New(), uuid.New()
	p := createPost(t, h, author)
	path := "/api/community/posts/" + p.ID.String()

	resp := h.do(t, fiber.MethodPatch, path, map[string]any{"content": "hijacked"}, &other)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = h.do(t, fiber.MethodGet, path, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	unchanged := decode[dto.PostResponse](t, resp)
	assert.Equal(t, "original text", unchanged.Content)
	assert.False(t, unchanged.IsEdited)
	assert.Nil(t, unchanged.EditedAt)

	resp = h.do(t, fiber.MethodPatch, "/api/community/posts/"+uuid.NewString(), map[string]any{"content": "edited"}, &author)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = h.do(t, fiber.MethodPatch, path, map[string]any{"content": "no"}, &author)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = h.do(t, fiber.MethodPatch, path, map[string]any{"visibility": "everyone"}, &author)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = h.do(t, fiber.MethodPatch, path, map[string]any{"content": "edited text", "feeling": "happy", "location": nil}, &author)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.PostResponse](t, resp)
	assert.Equal(t, "edited text", got.Content)
	require.NotNil(t, got.Feeling)
	assert.Equal(t, "happy", *got.Feeling)
	assert.True(t, got.IsEdited)
	assert.NotNil(t, got.EditedAt)
}

func TestPatch_OwnershipCheckedBeforePayload(t *testing.T) {
	h := newHarness(t)
	author, other := uuid.New(), uuid.New()
	p := createPost(t, h, author)

	resp := h.do(t, fiber.MethodPatch, "/api/community/posts/"+p.ID.String(), map[string]any{"content": "x"}, &other)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = h.do(t, fiber.MethodPatch, "/api/community/posts/"+uuid.NewString(), map[string]any{"content": "x"}, &author)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = h.do(t, fiber.MethodPatch, "/api/community/posts/"+p.ID.String(), map[string]any{"content": "x"}, &author)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreate_ValidationErrorsArePerField(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()

	resp := h.do(t, fiber.MethodPost, "/api/community/posts", map[string]any{
		"content":    "valid content",
		"media":      []string{"not a url"},
		"visibility": "friends",
	}, &user)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decode[struct {
		ErrorCode string              `json:"error_code"`
		Errors    map[string][]string `json:"errors"`
	}](t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body.ErrorCode)
	assert.Equal(t, []string{"must be a valid url"}, body.Errors["media[0]"])
	assert.Equal(t, []string{"must be one of public campus department batch private"}, body.Errors["visibility"])
	for field, msgs := range body.Errors {
		for _, m := range msgs {
			assert.NotContains(t, m, "Key:", field)
		}
	}
	assert.Zero(t, h.countPosts(t))
}

func TestDelete_SoftDeletesAndDecrements(t *testing.T) {
	h := newHarness(t)
	author, other := uuid.New(), uuid.New()
	h.seedStats(t, author, 0, 0)
	p := createPost(t, h, author)
	h.runner.Wait()
	path := "/api/community/posts/" + p.ID.String()

	resp := h.do(t, fiber.MethodDelete, path, nil, &other)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = h.do(t, fiber.MethodDelete, path, nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = h.do(t, fiber.MethodDelete, path, nil, &author)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	h.runner.Wait()

	resp = h.do(t, fiber.MethodGet, path, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = h.do(t, fiber.MethodDelete, path, nil, &author)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var raw int64
	require.NoError(t, h.db.Unscoped().Model(&model.Post{}).Count(&raw).Error)
	assert.EqualValues(t, 1, raw, "row is kept, only soft-deleted")

	s := h.stats(t, author)
	assert.Equal(t, 0, s.UserStatsPostsCount)
	assert.GreaterOrEqual(t, s.UserStatsTotalPoints, 15, "points are never taken back")
}
