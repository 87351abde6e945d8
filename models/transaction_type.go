package models

import "time"

// Transaction type categories.
const (
	CategoryCharge      = "Charge"
	CategoryPayment     = "Payment"
	CategoryExpense     = "Expense"
	CategoryMaintenance = "Maintenance"
	CategoryRepair      = "Repair"
)

// TransactionType is static reference data seeded at migration time.
// Name is the internal identifier matched against during import;
// DisplayName is what reports and ledgers show.
type TransactionType struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	Name        string `gorm:"size:64;uniqueIndex;not null"`
	DisplayName string `gorm:"size:64;not null"`
	Category    string `gorm:"size:32;not null"`
}
