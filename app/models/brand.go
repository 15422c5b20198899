package models

import (
	"time"

	"gorm.io/gorm"
)

// Brand groups device models ("Apple", "Samsung"). A brand row carries a
// device type for grouping screens, but the coverage engine trusts each
// model's own TypeID, not this one.
type Brand struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_brand_per_type" json:"name"`
	DisplayName  string     `gorm:"type:varchar(100);not null" json:"display_name"`
	DeviceTypeID uint       `gorm:"uniqueIndex:idx_brand_per_type;index;not null" json:"device_type_id"`
	DeviceType   DeviceType `gorm:"foreignKey:DeviceTypeID" json:"device_type,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	SortOrder    int        `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the Brand model
func (Brand) TableName() string {
	return "brands"
}

// FindBrandsByDeviceTypeID finds all brands registered under a device type
func FindBrandsByDeviceTypeID(db *gorm.DB, deviceTypeID uint) ([]Brand, error) {
	var brands []Brand
	result := db.Where("device_type_id = ?", deviceTypeID).Order("sort_order, name").Find(&brands)
	return brands, result.Error
}
