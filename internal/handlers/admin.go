package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/hienmauto/internal/config"
	"github.com/example/hienmauto/internal/models"
	"github.com/example/hienmauto/internal/services"
	"github.com/example/hienmauto/internal/utils"
)

// AdminHandler manages accounts, roles and app settings.
type AdminHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	codec *services.SheetCodec
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, cfg *config.Config, codec *services.SheetCodec) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, codec: codec}
}

// ListUsers returns paginated dashboard accounts.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var users []models.User
	var total int64

	if err := h.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return err
	}

	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type userRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	IsActive    *bool    `json:"is_active"`
}

// CreateUser registers a new dashboard account.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	if err := utils.CheckPasswordComplexity(req.Password); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var existing models.User
	if err := h.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "username already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         role,
		Permissions:  pq.StringArray(req.Permissions),
		IsActive:     true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": user})
}

// UpdateUser updates an existing account. The seeded root admin cannot be
// demoted or deactivated here.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	isRootAdmin := user.Username == h.cfg.AdminUsername

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if !isRootAdmin {
		if req.Role != "" {
			user.Role = req.Role
		}
		if req.Permissions != nil {
			user.Permissions = pq.StringArray(req.Permissions)
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}
	}
	if req.Password != "" {
		if err := utils.CheckPasswordComplexity(req.Password); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
		}
		user.PasswordHash = hash
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

// DeleteUser removes an account. The seeded root admin cannot be deleted.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if user.Username == h.cfg.AdminUsername {
		return fiber.NewError(fiber.StatusForbidden, "the root admin account cannot be deleted")
	}

	if err := h.db.Delete(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListRoles returns the default roles plus custom ones from settings.
func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.loadRoles()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": roles})
}

type roleRequest struct {
	Name string `json:"name"`
}

// AddRole registers a custom role name.
func (h *AdminHandler) AddRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "role name is required")
	}

	roles, err := h.loadRoles()
	if err != nil {
		return err
	}
	for _, role := range roles {
		if role == req.Name {
			return fiber.NewError(fiber.StatusConflict, "role already exists")
		}
	}

	roles = append(roles, req.Name)
	if err := h.saveRoles(roles); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": roles})
}

// DeleteRole removes a custom role. Default roles cannot be removed.
func (h *AdminHandler) DeleteRole(c *fiber.Ctx) error {
	name := c.Params("name")
	for _, role := range models.DefaultRoles {
		if name == role {
			return fiber.NewError(fiber.StatusForbidden, "default roles cannot be deleted")
		}
	}

	roles, err := h.loadRoles()
	if err != nil {
		return err
	}

	filtered := roles[:0]
	for _, role := range roles {
		if role != name {
			filtered = append(filtered, role)
		}
	}
	if err := h.saveRoles(filtered); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": filtered})
}

// GetSetting returns a raw settings value by key.
func (h *AdminHandler) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	var setting models.AppSetting
	if err := h.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "setting not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": json.RawMessage(setting.Value)})
}

// PutSetting stores a raw JSON settings value. Updating the platform list also
// rebuilds the codec's platform matcher so new labels take effect immediately.
func (h *AdminHandler) PutSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	body := c.Body()
	if !json.Valid(body) {
		return fiber.NewError(fiber.StatusBadRequest, "value must be valid JSON")
	}

	setting := models.AppSetting{Key: key, Value: string(body)}
	err := h.db.Where("key = ?", key).
		Assign(models.AppSetting{Value: setting.Value}).
		FirstOrCreate(&setting).Error
	if err != nil {
		return err
	}

	if key == models.SettingPlatforms {
		var platforms []string
		if err := json.Unmarshal(body, &platforms); err == nil {
			h.codec.SetPlatforms(platforms)
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": json.RawMessage(setting.Value)})
}

func (h *AdminHandler) loadRoles() ([]string, error) {
	roles := append([]string{}, models.DefaultRoles...)

	var setting models.AppSetting
	err := h.db.Where("key = ?", models.SettingRoles).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return roles, nil
	}
	if err != nil {
		return nil, err
	}

	var stored []string
	if err := json.Unmarshal([]byte(setting.Value), &stored); err != nil {
		return roles, nil
	}

	for _, role := range stored {
		known := false
		for _, existing := range roles {
			if existing == role {
				known = true
				break
			}
		}
		if !known {
			roles = append(roles, role)
		}
	}

	return roles, nil
}

func (h *AdminHandler) saveRoles(roles []string) error {
	custom := make([]string, 0, len(roles))
	for _, role := range roles {
		isDefault := false
		for _, def := range models.DefaultRoles {
			if role == def {
				isDefault = true
				break
			}
		}
		if !isDefault {
			custom = append(custom, role)
		}
	}

	value, err := json.Marshal(custom)
	if err != nil {
		return err
	}

	setting := models.AppSetting{Key: models.SettingRoles, Value: string(value)}
	return h.db.Where("key = ?", models.SettingRoles).
		Assign(models.AppSetting{Value: setting.Value}).
		FirstOrCreate(&setting).Error
}
