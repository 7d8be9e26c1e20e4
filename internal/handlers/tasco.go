package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/hienmauto/internal/models"
	"github.com/example/hienmauto/internal/utils"
)

// TascoHandler manages the floor-mat product catalog (brands, models, years,
// colors) and builds printable product codes from it.
type TascoHandler struct {
	db *gorm.DB
}

// NewTascoHandler constructs TascoHandler.
func NewTascoHandler(db *gorm.DB) *TascoHandler {
	return &TascoHandler{db: db}
}

// ListItems returns catalog items, optionally filtered by category and parent.
func (h *TascoHandler) ListItems(c *fiber.Ctx) error {
	query := h.db.Model(&models.TascoItem{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if parent := c.Query("parent_id"); parent != "" {
		parentID, err := uuid.Parse(parent)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid parent_id")
		}
		query = query.Where("parent_id = ?", parentID)
	}

	var items []models.TascoItem
	if err := query.Order("name asc").Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

type tascoRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Category string `json:"category"`
	ParentID string `json:"parent_id"`
	LogoURL  string `json:"logo_url"`
	Status   string `json:"status"`
}

func (r *tascoRequest) validCategory() bool {
	switch r.Category {
	case models.TascoCategoryBrand, models.TascoCategoryModel,
		models.TascoCategoryYear, models.TascoCategoryColor:
		return true
	}
	return false
}

// CreateItem adds a catalog entry. Models must reference an existing brand.
func (h *TascoHandler) CreateItem(c *fiber.Ctx) error {
	var req tascoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || !req.validCategory() {
		return fiber.NewError(fiber.StatusBadRequest, "name and a valid category are required")
	}

	item := models.TascoItem{
		Name:     req.Name,
		Code:     req.Code,
		Category: req.Category,
		LogoURL:  req.LogoURL,
		Status:   req.Status,
	}

	if req.ParentID != "" {
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid parent_id")
		}
		var parent models.TascoItem
		if err := h.db.First(&parent, "id = ?", parentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusBadRequest, "parent item not found")
			}
			return err
		}
		item.ParentID = &parentID
	} else if req.Category == models.TascoCategoryModel {
		return fiber.NewError(fiber.StatusBadRequest, "models require a brand parent_id")
	}

	if err := h.db.Create(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateItem edits a catalog entry.
func (h *TascoHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.TascoItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		return err
	}

	var req tascoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Code != "" {
		item.Code = req.Code
	}
	if req.LogoURL != "" {
		item.LogoURL = req.LogoURL
	}
	if req.Status != "" {
		item.Status = req.Status
	}

	if err := h.db.Save(&item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// DeleteItem removes a catalog entry and anything parented under it.
func (h *TascoHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.TascoItem{}, "id = ? OR parent_id = ?", id, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "item not found")
	}

	return c.JSON(fiber.Map{"success": true})
}

type productCodeRequest struct {
	ColorCode string   `json:"color_code"`
	ModelCode string   `json:"model_code"`
	SeatRows  []string `json:"seat_rows"`
}

// PreviewProductCode builds a printable product code from the selected color,
// model and seat rows without touching the catalog.
func (h *TascoHandler) PreviewProductCode(c *fiber.Ctx) error {
	var req productCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	code := utils.BuildProductCode(req.ColorCode, req.ModelCode, req.SeatRows)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"code": code}})
}
