package models

import "fmt"

// Category classifies an asset for filtering and reporting.
type Category string

const (
	CategoryWeapon     Category = "weapon"
	CategoryVehicle    Category = "vehicle"
	CategoryAmmunition Category = "ammunition"
	CategoryEquipment  Category = "equipment"
)

func NewCategory(value string) (Category, error) {
	category := Category(value)
	if !category.isValid() {
		return "", fmt.Errorf("invalid asset category: %s", value)
	}
	return category, nil
}

func (c Category) isValid() bool {
	switch c {
	case CategoryWeapon, CategoryVehicle, CategoryAmmunition, CategoryEquipment:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

// Asset is a trackable category of equipment, not a serialized unit.
type Asset struct {
	ID          int      `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Category    Category `json:"category" db:"category"`
	Unit        string   `json:"unit" db:"unit"`
	Description string   `json:"description,omitempty" db:"description"`
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}

type AssetRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
	Description string `json:"description"`
}
