package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/gamification/catalog"
	"campusaxis_backend/internals/features/gamification/stats/dto"
	"campusaxis_backend/internals/features/gamification/stats/service"
	helper "campusaxis_backend/internals/helpers"
)

type UserStatsController struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
}

func NewUserStatsController(db *gorm.DB, cat *catalog.Catalog) *UserStatsController {
	return &UserStatsController{DB: db, Catalog: cat}
}

// GET /gamification/stats/me
func (ctl *UserStatsController) GetMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	row, err := service.GetByUserID(c.UserContext(), ctl.DB, userID)
	if errors.Is(err, service.ErrStatsNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Stats not found, opt in first")
	}
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	helper.SetNoStore(c)
	return helper.JsonOK(c, "ok", dto.FromModel(row, ctl.Catalog))
}

// POST /gamification/stats/me: opt in; repeated calls return the existing row.
func (ctl *UserStatsController) EnsureMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	row, created, err := service.EnsureStats(c.UserContext(), ctl.DB, userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if created {
		return helper.JsonCreated(c, "Stats created", dto.FromModel(row, ctl.Catalog))
	}
	return helper.JsonOK(c, "Stats already exist", dto.FromModel(row, ctl.Catalog))
}

// GET /gamification/leaderboard?limit=
func (ctl *UserStatsController) Leaderboard(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 10, 100)

	rows, err := service.Leaderboard(c.UserContext(), ctl.DB, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	helper.SetPublicCache(c, 60)
	return helper.JsonOK(c, "ok", dto.ToLeaderboard(rows, ctl.Catalog))
}
