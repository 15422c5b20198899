package models

import (
	"time"

	"gorm.io/gorm"
)

// DeviceModel is a concrete sellable device ("iPhone 16"). TypeID may differ
// from the brand's device type; everything matching services against models
// must join through TypeID.
type DeviceModel struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_model_per_brand" json:"name"`
	DisplayName string     `gorm:"type:varchar(200)" json:"display_name"`
	BrandID     uint       `gorm:"uniqueIndex:idx_model_per_brand;index;not null" json:"brand_id"`
	Brand       Brand      `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	TypeID      uint       `gorm:"index;not null" json:"type_id"`
	DeviceType  DeviceType `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	SortOrder   int        `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the DeviceModel model
func (DeviceModel) TableName() string {
	return "device_models"
}

// FindModelsByBrandID finds all device models belonging to a brand
func FindModelsByBrandID(db *gorm.DB, brandID uint) ([]DeviceModel, error) {
	var deviceModels []DeviceModel
	result := db.Where("brand_id = ?", brandID).Order("sort_order, name").Find(&deviceModels)
	return deviceModels, result.Error
}
