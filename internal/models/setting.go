package models

// Setting keys currently used by the dashboard.
const (
	SettingPlatforms      = "platforms"
	SettingPlatformColors = "platform_colors"
	SettingRoles          = "roles"
)

// AppSetting is a key/value store for dashboard-wide configuration: the
// platform list, the platform color map and custom role names. Value holds
// raw JSON.
type AppSetting struct {
	BaseModel
	Key   string `gorm:"uniqueIndex" json:"key"`
	Value string `gorm:"type:jsonb" json:"value"`
}

// DefaultPlatforms is used until an admin customizes the platform list.
var DefaultPlatforms = []string{"Shopee", "Lazada", "TikTok", "Zalo", "Facebook"}

// DefaultRoles cannot be deleted.
var DefaultRoles = []string{"admin", "user"}
