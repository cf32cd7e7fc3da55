package controllers

import (
	"errors"

	"cupomgo/backend/config"
	"cupomgo/backend/gamification"
	"cupomgo/backend/progression"
	"cupomgo/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type GamificationController struct {
	Cfg     *config.Config
	Service *progression.Service
}

func NewGamificationController(cfg *config.Config, service *progression.Service) *GamificationController {
	return &GamificationController{Cfg: cfg, Service: service}
}

// GetProgress godoc
// @Summary Get gamification progress
// @Description Returns current level, XP and progress toward the next level
// @Tags gamification
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /gamification/progress [get]
func (gc *GamificationController) GetProgress(c *fiber.Ctx) error {
	_, email, err := utils.ExtractUserFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	state, err := gc.Service.GetState(email)
	if err != nil {
		if errors.Is(err, progression.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not load progression state")
	}

	level := gamification.LevelByID(state.Level)
	progress, next := gamification.ProgressTowardNext(state.CouponsUsed, state.Level)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"coupons_used":   state.CouponsUsed,
		"total_saved":    state.TotalSaved,
		"xp":             state.XP,
		"level":          level,
		"progress":       progress,
		"next_level":     next,
		"stores_visited": len(state.StoresVisited),
		"coupon_types":   len(state.CouponTypesUsed),
		"last_coupon_at": state.LastCouponAt,
	})
}

// GetLevels godoc
// @Summary Get the level journey
// @Description Returns all levels with unlocked and current flags
// @Tags gamification
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /gamification/levels [get]
func (gc *GamificationController) GetLevels(c *fiber.Ctx) error {
	_, email, err := utils.ExtractUserFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	state, err := gc.Service.GetState(email)
	if err != nil {
		if errors.Is(err, progression.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not load progression state")
	}

	levels := make([]map[string]interface{}, 0, len(gamification.Levels))
	for _, lvl := range gamification.Levels {
		levels = append(levels, map[string]interface{}{
			"level":    lvl,
			"unlocked": state.CouponsUsed >= lvl.CouponThreshold,
			"current":  lvl.ID == state.Level,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"levels":       levels,
		"coupons_used": state.CouponsUsed,
	})
}

// GetAchievements godoc
// @Summary Get the achievement catalog
// @Description Returns all achievements with unlocked flags and earned XP
// @Tags gamification
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /gamification/achievements [get]
func (gc *GamificationController) GetAchievements(c *fiber.Ctx) error {
	_, email, err := utils.ExtractUserFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	state, err := gc.Service.GetState(email)
	if err != nil {
		if errors.Is(err, progression.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not load progression state")
	}

	achievements := make([]map[string]interface{}, 0, len(gamification.Achievements))
	for _, a := range gamification.Achievements {
		achievements = append(achievements, map[string]interface{}{
			"achievement": a,
			"unlocked":    state.HasAchievement(a.Key),
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"achievements": achievements,
		"xp":           state.XP,
	})
}
