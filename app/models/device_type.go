package models

import (
	"time"

	"gorm.io/gorm"
)

// DeviceType is one of the catalog dimensions ("mobile", "laptop", "tablet").
// The set is small and stable but stored as data so it stays catalog-extensible.
type DeviceType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	DisplayName string    `gorm:"type:varchar(100);not null" json:"display_name"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the DeviceType model
func (DeviceType) TableName() string {
	return "device_types"
}

// FindDeviceTypeByName finds a device type by its unique name
func FindDeviceTypeByName(db *gorm.DB, name string) (*DeviceType, error) {
	var deviceType DeviceType
	result := db.Where("LOWER(name) = LOWER(?)", name).First(&deviceType)
	if result.Error != nil {
		return nil, result.Error
	}
	return &deviceType, nil
}
