package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/hienmauto/internal/services"
)

// DashboardHandler serves the overview counters.
type DashboardHandler struct {
	sync  *services.OrderSyncService
	stats *services.StatsService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(sync *services.OrderSyncService, stats *services.StatsService) *DashboardHandler {
	return &DashboardHandler{sync: sync, stats: stats}
}

// Stats returns aggregate statistics: local snapshot totals plus the
// comparative counters pulled from the dispatched-orders feed. A feed failure
// degrades to zero counters rather than an error.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	orders := h.sync.Orders()

	ordersByStatus := make(map[string]int)
	var totalRevenue int64
	var cancelled int
	for _, order := range orders {
		ordersByStatus[order.Status]++
		if strings.Contains(strings.ToLower(order.Status), "hủy") {
			cancelled++
			continue
		}
		totalRevenue += order.TotalAmount
	}

	counters, err := h.stats.Counters(c.Context())
	if err != nil {
		log.Printf("[Dashboard] stats feed unavailable: %v", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_orders":     len(orders),
			"cancelled_orders": cancelled,
			"total_revenue":    totalRevenue,
			"orders_by_status": ordersByStatus,
			"dispatch_stats":   counters,
		},
	})
}
