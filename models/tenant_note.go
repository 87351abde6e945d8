package models

import "time"

// TenantNote is a free-text note on a tenant. Notes are soft-deleted only;
// the Deleted flag hides them from listings but the row is never removed.
type TenantNote struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	TenantID  uint   `gorm:"index;not null"`
	Tenant    Tenant `gorm:"foreignKey:TenantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Content   string `gorm:"size:4096;not null"`
	CreatedBy uint   `gorm:"index"` // users.id of the author
	Deleted   bool   `gorm:"default:false;index"`
}
