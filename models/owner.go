package models

import "time"

// Owner is a property owner. Owners are never deleted while properties
// still reference them; the handler checks before delete.
type Owner struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:255;not null;index"`
	Email     string `gorm:"size:255"`
	Phone     string `gorm:"size:64"`
}
