package ledger

import (
	"github.com/shopspring/decimal"

	"rentdesk/models"
)

// Type names that trigger fee derivation.
const (
	typeRentPayment = "Rent Payment"
	typeNewLease    = "New Lease"
)

var oneHundred = decimal.NewFromInt(100)

// ManagementFee derives the management fee for a transaction: a
// percentage of the amount, rounded half-up to cents, applied only to
// rent payments on properties with a positive fee percentage. The
// original transaction is never mutated; recording the fee as its own
// transaction is the caller's (or the store's) concern.
func ManagementFee(txAmount decimal.Decimal, typeName string, prop models.Property) decimal.Decimal {
	if typeName != typeRentPayment || !prop.MgmtFeePercentage.IsPositive() {
		return decimal.Zero
	}
	return txAmount.Mul(prop.MgmtFeePercentage).Div(oneHundred).Round(2)
}

// LeaseFee derives the flat lease fee: the property's configured amount,
// applied only when a new-lease transaction carries a positive amount.
func LeaseFee(txAmount decimal.Decimal, typeName string, prop models.Property) decimal.Decimal {
	if typeName != typeNewLease || !txAmount.IsPositive() {
		return decimal.Zero
	}
	return prop.LeaseFeeAmount
}
