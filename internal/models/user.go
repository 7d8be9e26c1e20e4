package models

import "github.com/lib/pq"

// Permission labels understood by the dashboard.
const (
	PermViewDashboard        = "view_dashboard"
	PermViewOrders           = "view_orders"
	PermAddOrders            = "add_orders"
	PermEditOrders           = "edit_orders"
	PermViewCustomers        = "view_customers"
	PermViewTasco            = "view_tasco"
	PermAddTasco             = "add_tasco"
	PermEditTasco            = "edit_tasco"
	PermDeleteTasco          = "delete_tasco"
	PermViewSummary          = "view_summary"
	PermEditSummary          = "edit_summary"
	PermViewSettingsPersonal = "view_settings_personal"
	PermViewSettingsAdmin    = "view_settings_admin"
	PermViewSettingsRoles    = "view_settings_roles"
)

// AllPermissions is the full permission set granted to the admin role.
var AllPermissions = []string{
	PermViewDashboard,
	PermViewOrders,
	PermAddOrders,
	PermEditOrders,
	PermViewCustomers,
	PermViewTasco,
	PermAddTasco,
	PermEditTasco,
	PermDeleteTasco,
	PermViewSummary,
	PermEditSummary,
	PermViewSettingsPersonal,
	PermViewSettingsAdmin,
	PermViewSettingsRoles,
}

// User represents a dashboard account.
type User struct {
	BaseModel
	Username     string         `gorm:"uniqueIndex" json:"username"`
	PasswordHash string         `json:"-"`
	FullName     string         `json:"full_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Role         string         `json:"role"`
	Permissions  pq.StringArray `gorm:"type:text[]" json:"permissions"`
	IsActive     bool           `json:"is_active"`
}

// HasPermission checks a permission label. The admin role always passes.
func (u *User) HasPermission(perm string) bool {
	if u.Role == "admin" {
		return true
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
