package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one ledger entry. Sign convention: charges and expenses
// are positive (they increase the balance owed), payments and credits are
// negative. Amount is never zero; validation rejects zero amounts.
// OwnerID is set only by owner-mode imports; such transactions never carry
// a tenant.
type Transaction struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	PropertyID *uint     `gorm:"index"`
	Property   *Property `gorm:"foreignKey:PropertyID"`
	TenantID   *uint     `gorm:"index"`
	Tenant     *Tenant   `gorm:"foreignKey:TenantID"`
	OwnerID    *uint     `gorm:"index"`
	Owner      *Owner    `gorm:"foreignKey:OwnerID"`

	TypeID uint            `gorm:"index;not null"`
	Type   TransactionType `gorm:"foreignKey:TypeID"`

	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Date   time.Time       `gorm:"type:date;not null;index"`

	UnitReference string `gorm:"size:64"`
	InvoiceNumber string `gorm:"size:64"`
	Notes         string `gorm:"size:2048"`
	IsManualEdit  bool   `gorm:"default:false"`
}
