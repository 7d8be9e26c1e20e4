package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/hienmauto/internal/models"
	"github.com/example/hienmauto/internal/services"
)

// OrderHandler exposes the sheet-backed order list.
type OrderHandler struct {
	sync *services.OrderSyncService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(sync *services.OrderSyncService) *OrderHandler {
	return &OrderHandler{sync: sync}
}

// ListOrders returns the in-memory snapshot, newest sheet row first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.sync.Orders(),
		"loading": h.sync.Loading(),
	})
}

// RefreshOrders re-ingests the sheet and returns the fresh list.
func (h *OrderHandler) RefreshOrders(c *fiber.Ctx) error {
	orders := h.sync.Refresh(c.Context())
	return c.JSON(fiber.Map{"success": true, "data": orders})
}

type createOrdersRequest struct {
	Orders []models.Order `json:"orders"`
}

// CreateOrders appends new orders. The sheet cannot confirm the write, so the
// records are returned from local state; their row indexes are learned on the
// next refetch.
func (h *OrderHandler) CreateOrders(c *fiber.Ctx) error {
	var req createOrdersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Orders) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no orders provided")
	}

	created, dispatched := h.sync.Create(c.Context(), req.Orders)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"data":       created,
		"dispatched": dispatched,
	})
}

type bulkUpdateRequest struct {
	IDs            []string `json:"ids"`
	Status         string   `json:"status"`
	TemplateStatus string   `json:"template_status"`
}

// BulkUpdateOrders applies a status and/or template change to the identified
// orders and runs the full reconciliation sequence.
func (h *OrderHandler) BulkUpdateOrders(c *fiber.Ctx) error {
	var req bulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.IDs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no order ids provided")
	}
	if req.Status == "" && req.TemplateStatus == "" {
		return fiber.NewError(fiber.StatusBadRequest, "nothing to update")
	}

	updated := h.sync.BulkUpdate(c.Context(), req.IDs, req.Status, req.TemplateStatus)
	if updated == 0 {
		return fiber.NewError(fiber.StatusNotFound, "no matching orders")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"updated": updated,
		"data":    h.sync.Orders(),
	})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDeleteOrders removes the identified orders locally and deletes their
// sheet rows when they have one.
func (h *OrderHandler) BulkDeleteOrders(c *fiber.Ctx) error {
	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.IDs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no order ids provided")
	}

	deleted := h.sync.BulkDelete(c.Context(), req.IDs)

	return c.JSON(fiber.Map{
		"success": true,
		"deleted": deleted,
		"data":    h.sync.Orders(),
	})
}
