package controllers

import (
	"errors"

	"cupomgo/backend/config"
	"cupomgo/backend/gamification"
	"cupomgo/backend/models"
	"cupomgo/backend/progression"
	"cupomgo/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Service *progression.Service
}

func NewUserController(db *gorm.DB, cfg *config.Config, service *progression.Service) *UserController {
	return &UserController{DB: db, Cfg: cfg, Service: service}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile with gamification summary
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, email, err := utils.ExtractUserFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	// Получаем состояние геймификации пользователя
	summary := fiber.Map{}
	state, err := uc.Service.GetState(email)
	if err == nil {
		summary = fiber.Map{
			"coupons_used": state.CouponsUsed,
			"total_saved":  state.TotalSaved,
			"xp":           state.XP,
			"level":        gamification.LevelByID(state.Level),
			"achievements": len(state.UnlockedAchievements),
		}
	} else if !errors.Is(err, progression.ErrUserNotFound) {
		return utils.InternalServerError(c, "Could not load progression state")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"role":        user.Role,
		"city":        user.City,
		"created_at":  user.CreatedAt,
		"progression": summary,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Updates authenticated user's profile data
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractUserFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name        string `json:"name"`
		City        string `json:"city"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.City != "" {
		user.City = input.City
	}

	// Обновление пароля
	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
	})
}
