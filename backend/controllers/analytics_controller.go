package controllers

import (
	"time"

	"cupomgo/backend/config"
	"cupomgo/backend/gamification"
	"cupomgo/backend/models"
	"cupomgo/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{DB: db, Cfg: cfg}
}

// GetOverview возвращает сводную аналитику использования купонов
func (ac *AnalyticsController) GetOverview(c *fiber.Ctx) error {
	_, email, err := utils.ExtractUserFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	// Получаем параметры периода
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	// Парсим даты или устанавливаем значения по умолчанию
	var start, end time.Time
	if startDate == "" {
		start = time.Now().AddDate(0, -1, 0) // Последний месяц по умолчанию
	} else {
		start, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return utils.BadRequest(c, "Invalid start_date format. Use YYYY-MM-DD")
		}
	}

	if endDate == "" {
		end = time.Now()
	} else {
		end, err = time.Parse("2006-01-02", endDate)
		if err != nil {
			return utils.BadRequest(c, "Invalid end_date format. Use YYYY-MM-DD")
		}
	}

	inPeriod := func() *gorm.DB {
		return ac.DB.Model(&models.CouponUse{}).
			Where("email = ? AND used_at BETWEEN ? AND ?", email, start, end)
	}

	var totalUses int64
	if err := inPeriod().Count(&totalUses).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch usage data")
	}

	var totalValue float64
	inPeriod().Select("COALESCE(SUM(value), 0)").Scan(&totalValue)

	var distinctStores int64
	inPeriod().Distinct("store").Count(&distinctStores)

	var distinctTypes int64
	inPeriod().Distinct("coupon_type").Count(&distinctTypes)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"total_uses":        totalUses,
		"total_value":       totalValue,
		"estimated_savings": totalValue * gamification.SavingsRate,
		"distinct_stores":   distinctStores,
		"distinct_types":    distinctTypes,
		"period": fiber.Map{
			"start": start.Format("2006-01-02"),
			"end":   end.Format("2006-01-02"),
		},
	})
}
