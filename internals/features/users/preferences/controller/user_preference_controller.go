package controller

import (
	"log"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campusaxis_backend/internals/features/users/preferences/dto"
	"campusaxis_backend/internals/features/users/preferences/service"
	helper "campusaxis_backend/internals/helpers"
)

type UserPreferenceController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewUserPreferenceController(db *gorm.DB) *UserPreferenceController {
	return &UserPreferenceController{DB: db, Validator: helper.NewValidator()}
}

// GET /api/users/me/preferences
func (ctl *UserPreferenceController) GetMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	scope, err := service.ResolveDefaults(c.UserContext(), ctl.DB, userID)
	if err != nil {
		log.Printf("[ERROR] load preferences user=%s: %v", userID, err)
		return helper.JsonInternal(c)
	}
	return helper.JsonOK(c, "ok", dto.FromScope(userID, scope))
}

// PUT /api/users/me/preferences
func (ctl *UserPreferenceController) PutMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SavePreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, "Invalid preferences", helper.ValidationFields(err))
	}

	row, err := service.Save(c.UserContext(), ctl.DB, userID, req.ToScope())
	if err != nil {
		log.Printf("[ERROR] save preferences user=%s: %v", userID, err)
		return helper.JsonInternal(c)
	}
	return helper.JsonUpdated(c, "Preferences saved", dto.FromModel(row))
}
