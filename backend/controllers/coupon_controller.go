package controllers

import (
	"errors"
	"strconv"
	"time"

	"cupomgo/backend/config"
	"cupomgo/backend/gamification"
	"cupomgo/backend/progression"
	"cupomgo/backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type CouponController struct {
	Cfg      *config.Config
	Service  *progression.Service
	Validate *validator.Validate
}

func NewCouponController(cfg *config.Config, service *progression.Service) *CouponController {
	return &CouponController{Cfg: cfg, Service: service, Validate: validator.New()}
}

type UseCouponInput struct {
	Store      string  `json:"store" validate:"required"`
	CouponType string  `json:"coupon_type" validate:"required"`
	Value      float64 `json:"value" validate:"gte=0"`
	Location   string  `json:"location"`
}

// UseCoupon godoc
// @Summary Register a coupon use
// @Description Applies one coupon use: updates counters, level, achievements and XP
// @Tags coupons
// @Accept json
// @Produce json
// @Param input body UseCouponInput true "Coupon use data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /coupons/use [post]
func (cc *CouponController) UseCoupon(c *fiber.Ctx) error {
	_, email, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input UseCouponInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := cc.Validate.Struct(input); err != nil {
		return utils.BadRequest(c, "Invalid coupon data: "+err.Error())
	}

	result, err := cc.Service.ApplyEvent(email, gamification.CouponUseEvent{
		Store:      input.Store,
		CouponType: input.CouponType,
		Value:      input.Value,
		Location:   input.Location,
		Timestamp:  time.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, progression.ErrUserNotFound):
			return utils.NotFound(c, "User not found")
		case errors.Is(err, progression.ErrInvalidEvent):
			return utils.BadRequest(c, "Invalid coupon data")
		default:
			return utils.InternalServerError(c, "Could not apply coupon use")
		}
	}

	level := gamification.LevelByID(result.State.Level)
	progress, next := gamification.ProgressTowardNext(result.State.CouponsUsed, result.State.Level)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"unlocked":     result.Unlocked,
		"coupons_used": result.State.CouponsUsed,
		"total_saved":  result.State.TotalSaved,
		"xp":           result.State.XP,
		"level":        level,
		"progress":     progress,
		"next_level":   next,
	})
}

// GetHistory godoc
// @Summary Get coupon usage history
// @Description Returns paginated usage history with estimated savings
// @Tags coupons
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} utils.PaginatedResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /coupons/history [get]
func (cc *CouponController) GetHistory(c *fiber.Ctx) error {
	_, email, err := utils.ExtractUserFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	uses, total, err := cc.Service.History(email, page, pageSize)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch usage history")
	}

	history := make([]map[string]interface{}, 0, len(uses))
	for _, use := range uses {
		history = append(history, map[string]interface{}{
			"id":                use.PublicID,
			"store":             use.Store,
			"coupon_type":       use.CouponType,
			"value":             use.Value,
			"location":          use.Location,
			"used_at":           use.UsedAt,
			"estimated_savings": use.Value * gamification.SavingsRate,
		})
	}

	return utils.Paginate(c, history, total, page, pageSize)
}
