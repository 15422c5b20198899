package models

import (
	"time"

	"gorm.io/gorm"
)

// Service is a repair offering scoped to one device type. A service is only
// ever matrixed against models sharing its DeviceTypeID; this is the primary
// cardinality reducer of the coverage matrix.
type Service struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"type:varchar(150);not null;uniqueIndex:idx_service_per_type" json:"name"`
	DisplayName  string     `gorm:"type:varchar(200);not null" json:"display_name"`
	DeviceTypeID uint       `gorm:"uniqueIndex:idx_service_per_type;index;not null" json:"device_type_id"`
	DeviceType   DeviceType `gorm:"foreignKey:DeviceTypeID" json:"device_type,omitempty"`
	Category     string     `gorm:"type:varchar(100)" json:"category"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	SortOrder    int        `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// FindServicesByDeviceTypeID finds all services offered for a device type
func FindServicesByDeviceTypeID(db *gorm.DB, deviceTypeID uint) ([]Service, error) {
	var services []Service
	result := db.Where("device_type_id = ?", deviceTypeID).Order("sort_order, name").Find(&services)
	return services, result.Error
}
