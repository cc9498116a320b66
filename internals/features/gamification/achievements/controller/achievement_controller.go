package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/gamification/achievements/dto"
	"campusaxis_backend/internals/features/gamification/achievements/service"
	helper "campusaxis_backend/internals/helpers"
)

type AchievementController struct {
	DB *gorm.DB
}

func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{DB: db}
}

// GET /gamification/achievements
func (ctl *AchievementController) List(c *fiber.Ctx) error {
	rows, err := service.ListActive(c.UserContext(), ctl.DB)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	helper.SetPublicCache(c, 300)
	return helper.JsonOK(c, "ok", dto.FromAchievements(rows))
}

// GET /gamification/achievements/me
func (ctl *AchievementController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	rows, err := service.ListUnlocked(c.UserContext(), ctl.DB, userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	helper.SetNoStore(c)
	return helper.JsonOK(c, "ok", dto.FromUnlocked(rows))
}
