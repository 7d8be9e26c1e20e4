package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/hienmauto/internal/models"
)

// SummaryHandler serves monthly per-platform business reports.
type SummaryHandler struct {
	db *gorm.DB
}

// NewSummaryHandler constructs SummaryHandler.
func NewSummaryHandler(db *gorm.DB) *SummaryHandler {
	return &SummaryHandler{db: db}
}

// GetMonth returns the records for a month (?month=YYYY-MM, default current)
// together with aggregate metrics and a comparison against the previous month.
func (h *SummaryHandler) GetMonth(c *fiber.Ctx) error {
	monthKey := c.Query("month")
	if monthKey == "" {
		monthKey = time.Now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", monthKey); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "month must be YYYY-MM")
	}

	records, err := h.monthRecords(monthKey)
	if err != nil {
		return err
	}

	prev, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return err
	}
	prevKey := prev.AddDate(0, -1, 0).Format("2006-01")
	prevRecords, err := h.monthRecords(prevKey)
	if err != nil {
		return err
	}

	current := aggregateMonth(records)
	previous := aggregateMonth(prevRecords)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"month":     monthKey,
			"records":   records,
			"totals":    current,
			"previous":  fiber.Map{"month": prevKey, "totals": previous},
			"net_delta": current["net_profit"].(float64) - previous["net_profit"].(float64),
		},
	})
}

type summaryRequest struct {
	MonthKey        string  `json:"month_key"`
	Platform        string  `json:"platform"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalOrders     int     `json:"total_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	ReturnedOrders  int     `json:"returned_orders"`
	CancelledAmount float64 `json:"cancelled_amount"`
	ReturnedAmount  float64 `json:"returned_amount"`
	AdSpend         float64 `json:"ad_spend"`
}

// UpsertRecord creates or replaces the record for a (month, platform) pair.
func (h *SummaryHandler) UpsertRecord(c *fiber.Ctx) error {
	var req summaryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Platform == "" {
		return fiber.NewError(fiber.StatusBadRequest, "platform is required")
	}
	if req.MonthKey == "" {
		req.MonthKey = time.Now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", req.MonthKey); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "month_key must be YYYY-MM")
	}

	values := models.SummaryRecord{
		MonthKey:        req.MonthKey,
		Platform:        req.Platform,
		TotalRevenue:    req.TotalRevenue,
		TotalOrders:     req.TotalOrders,
		CancelledOrders: req.CancelledOrders,
		ReturnedOrders:  req.ReturnedOrders,
		CancelledAmount: req.CancelledAmount,
		ReturnedAmount:  req.ReturnedAmount,
		AdSpend:         req.AdSpend,
	}

	var record models.SummaryRecord
	err := h.db.Where("month_key = ? AND platform = ?", req.MonthKey, req.Platform).
		First(&record).Error
	switch err {
	case nil:
		values.ID = record.ID
		values.CreatedAt = record.CreatedAt
		if err := h.db.Save(&values).Error; err != nil {
			return err
		}
	case gorm.ErrRecordNotFound:
		if err := h.db.Create(&values).Error; err != nil {
			return err
		}
	default:
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": values})
}

// DeleteRecord removes one (month, platform) record.
func (h *SummaryHandler) DeleteRecord(c *fiber.Ctx) error {
	id := c.Params("id")

	result := h.db.Delete(&models.SummaryRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "record not found")
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *SummaryHandler) monthRecords(monthKey string) ([]models.SummaryRecord, error) {
	var records []models.SummaryRecord
	err := h.db.Where("month_key = ?", monthKey).Order("platform asc").
		Find(&records).Error
	return records, err
}

func aggregateMonth(records []models.SummaryRecord) fiber.Map {
	var revenue, cancelledAmount, returnedAmount, adSpend, realRevenue, netProfit, commission float64
	var orders, cancelled, returned int

	for i := range records {
		r := &records[i]
		revenue += r.TotalRevenue
		cancelledAmount += r.CancelledAmount
		returnedAmount += r.ReturnedAmount
		adSpend += r.AdSpend
		realRevenue += r.RealRevenue()
		netProfit += r.NetProfit()
		commission += r.Commission()
		orders += r.TotalOrders
		cancelled += r.CancelledOrders
		returned += r.ReturnedOrders
	}

	return fiber.Map{
		"total_revenue":    revenue,
		"total_orders":     orders,
		"cancelled_orders": cancelled,
		"returned_orders":  returned,
		"cancelled_amount": cancelledAmount,
		"returned_amount":  returnedAmount,
		"ad_spend":         adSpend,
		"real_revenue":     realRevenue,
		"net_profit":       netProfit,
		"commission":       commission,
	}
}
