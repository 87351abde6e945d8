package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property is a managed rental property. CurrentBalance is a cached
// projection of the property's transaction history; it is recomputed
// whenever a transaction referencing the property is created, edited, or
// deleted. It may go negative (credit).
type Property struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Address   string `gorm:"size:512;not null;index"`
	City      string `gorm:"size:128"`
	Zip       string `gorm:"size:16"`
	OwnerID   *uint  `gorm:"index"`
	Owner     *Owner `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	RentAmount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LateFeeAmount     decimal.Decimal `gorm:"type:numeric(12,2)"`
	MgmtFeePercentage decimal.Decimal `gorm:"type:numeric(5,2)"` // 0-100
	LeaseFeeAmount    decimal.Decimal `gorm:"type:numeric(12,2)"`
	HasInsurance      bool            `gorm:"default:false"`
	Notes             string          `gorm:"size:2048"`
	CurrentBalance    decimal.Decimal `gorm:"type:numeric(12,2)"`

	Tenants []Tenant `gorm:"foreignKey:PropertyID"`
}
