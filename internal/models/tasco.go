package models

import "github.com/google/uuid"

// Tasco catalog categories.
const (
	TascoCategoryBrand = "BRAND"
	TascoCategoryModel = "MODEL"
	TascoCategoryYear  = "YEAR"
	TascoCategoryColor = "COLOR"
)

// TascoItem is a building block of the floor-mat product code catalog: brands,
// car models (linked to a brand), model years and mat colors.
type TascoItem struct {
	BaseModel
	Name     string     `json:"name"`
	Code     string     `json:"code"`
	Category string     `gorm:"index" json:"category"`
	ParentID *uuid.UUID `gorm:"type:uuid" json:"parent_id"`
	LogoURL  string     `json:"logo_url"`
	Status   string     `json:"status"`
}
