package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is a renter. PropertyID is nil when the tenant is vacant.
// StartingBalance carries a balance from before the tenant's transaction
// history begins; CurrentBalance is the cached sum of starting balance and
// all transactions, refreshed on every transaction write.
type Tenant struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:255;not null;index"`
	Email     string `gorm:"size:255"`
	Phone     string `gorm:"size:64"`

	PropertyID *uint     `gorm:"index"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	MonthlyRent     decimal.Decimal `gorm:"type:numeric(12,2)"`
	SecurityDeposit decimal.Decimal `gorm:"type:numeric(12,2)"`
	StartingBalance decimal.Decimal `gorm:"type:numeric(12,2)"`
	CurrentBalance  decimal.Decimal `gorm:"type:numeric(12,2)"`

	LeaseStart *time.Time
	LeaseEnd   *time.Time
	MoveIn     *time.Time
	MoveOut    *time.Time
}
