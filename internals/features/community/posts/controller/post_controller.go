package controller

import (
	"context"
	"errors"
	"log"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/community/posts/dto"
	"campusaxis_backend/internals/features/community/posts/service"
	statsService "campusaxis_backend/internals/features/gamification/stats/service"
	prefService "campusaxis_backend/internals/features/users/preferences/service"
	helper "campusaxis_backend/internals/helpers"
	"campusaxis_backend/internals/helpers/background"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

/* ==============================
   Controller
============================== */

type PostController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Runner    *background.Runner
	Stats     *statsService.Updater
}

func NewPostController(db *gorm.DB, runner *background.Runner, stats *statsService.Updater) *PostController {
	return &PostController{
		DB:        db,
		Validator: helper.NewValidator(),
		Runner:    runner,
		Stats:     stats,
	}
}

/* ==============================
   Small helpers
============================== */

func parseUUIDQuery(c *fiber.Ctx, keys ...string) (*uuid.UUID, error) {
	for _, k := range keys {
		s := strings.TrimSpace(c.Query(k))
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, k+" is not a valid id")
		}
		return &id, nil
	}
	return nil, nil
}

func firstQuery(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			return v
		}
	}
	return ""
}

func postIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}
	return id, nil
}

func (ctl *PostController) fromServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Post not found")
	case errors.Is(err, service.ErrNotAuthor):
		return helper.JsonError(c, fiber.StatusForbidden, "You can only modify your own posts")
	default:
		return helper.FromFiberError(c, err)
	}
}

// schedule runs stats bookkeeping after the response; failures only reach the log.
func (ctl *PostController) schedule(name string, fn func(ctx context.Context) error) {
	if ctl.Stats == nil || ctl.Runner == nil {
		return
	}
	ctl.Runner.Go(name, fn)
}

/* ==============================
   Handlers
============================== */

// POST /community/posts
func (ctl *PostController) Create(c *fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}

	content, err := dto.NormalizeContent(req.Content)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, "Invalid post", helper.ValidationFields(err))
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	ctx := c.UserContext()
	scope := req.Scope()
	if scope.CampusID == nil || scope.DepartmentID == nil || scope.Batch == nil {
		defaults, err := prefService.ResolveDefaults(ctx, ctl.DB, userID)
		if err != nil {
			// defaults are a convenience; the post goes out unscoped
			log.Printf("[POST] resolve defaults user=%s: %v", userID, err)
		}
		scope = scope.Fill(defaults)
	}

	m := req.ToModel(userID, content, scope)
	if err := service.Create(ctx, ctl.DB, m); err != nil {
		log.Printf("[ERROR] create post user=%s: %v", userID, err)
		return helper.JsonInternal(c)
	}

	ctl.schedule("stats.post_created", func(ctx context.Context) error {
		return ctl.Stats.RecordPostCreated(ctx, userID)
	})

	helper.SetPublicCache(c, 30)
	return c.Status(fiber.StatusCreated).JSON(dto.FromModel(m))
}

// GET /community/posts?limit=&offset=&withMeta=&campusId=&departmentId=&batch=
func (ctl *PostController) List(c *fiber.Ctx) error {
	campusID, err := parseUUIDQuery(c, "campusId", "campus_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	departmentID, err := parseUUIDQuery(c, "departmentId", "department_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	authorID, err := parseUUIDQuery(c, "authorId", "author_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	f := service.ListFilter{
		CampusID:     campusID,
		DepartmentID: departmentID,
		AuthorID:     authorID,
		Type:         c.Query("type"),
		SortBy:       c.Query("sort"),
		Order:        c.Query("order"),
	}
	if b := strings.TrimSpace(c.Query("batch")); b != "" {
		f.Batch = &b
	}
	if viewer, ok := helper.OptionalUserID(c); ok {
		f.Viewer = &viewer
	}

	withMeta := false
	if v := helper.ParseBoolPtr(firstQuery(c, "withMeta", "meta")); v != nil {
		withMeta = *v
	}
	p := helper.ResolvePaging(c, defaultPageSize, maxPageSize)

	rows, total, err := service.List(c.UserContext(), ctl.DB, f, p, withMeta)
	if err != nil {
		log.Printf("[ERROR] list posts: %v", err)
		return helper.JsonInternal(c)
	}

	helper.SetPublicCache(c, 30)
	items := dto.FromModels(rows)
	if !withMeta {
		return c.JSON(items)
	}
	return c.JSON(fiber.Map{
		"data": items,
		"meta": helper.BuildPageMeta(total, p, len(items)),
	})
}

// GET /community/posts/:id
func (ctl *PostController) Get(c *fiber.Ctx) error {
	id, err := postIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var viewer *uuid.UUID
	if v, ok := helper.OptionalUserID(c); ok {
		viewer = &v
	}
	row, err := service.GetVisible(c.UserContext(), ctl.DB, id, viewer)
	if err != nil {
		return ctl.fromServiceError(c, err)
	}
	helper.SetPublicCache(c, 30)
	return c.JSON(dto.FromModel(row))
}

// PATCH /community/posts/:id
func (ctl *PostController) Patch(c *fiber.Ctx) error {
	id, err := postIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	// 404/403 win over payload errors
	if _, err := service.GetOwned(c.UserContext(), ctl.DB, id, userID); err != nil {
		return ctl.fromServiceError(c, err)
	}

	var body dto.PatchPostRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	updates, err := body.ToUpdates()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	row, err := service.UpdateOwned(c.UserContext(), ctl.DB, id, userID, updates)
	if err != nil {
		return ctl.fromServiceError(c, err)
	}
	helper.SetNoStore(c)
	return c.JSON(dto.FromModel(row))
}

// DELETE /community/posts/:id
func (ctl *PostController) Delete(c *fiber.Ctx) error {
	id, err := postIDParam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if _, err := service.DeleteOwned(c.UserContext(), ctl.DB, id, userID); err != nil {
		return ctl.fromServiceError(c, err)
	}

	ctl.schedule("stats.post_deleted", func(ctx context.Context) error {
		return ctl.Stats.RecordPostDeleted(ctx, userID)
	})

	helper.SetNoStore(c)
	return helper.JsonDeleted(c, "Post deleted", fiber.Map{"id": id})
}
