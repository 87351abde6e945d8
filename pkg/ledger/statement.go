package ledger

import (
	"github.com/shopspring/decimal"

	"rentdesk/models"
)

// PropertyStatement is one property's section of an owner statement over
// a reporting period. Cost figures are magnitudes (positive numbers),
// regardless of the stored sign convention.
type PropertyStatement struct {
	PropertyID      uint            `json:"property_id"`
	PropertyAddress string          `json:"property_address"`
	RentAmount      decimal.Decimal `json:"rent_amount"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	TotalAmountDue  decimal.Decimal `json:"total_amount_due"`
	RentCollected   decimal.Decimal `json:"rent_collected"`
	ManagementFees  decimal.Decimal `json:"management_fees"`
	MaintenanceCost decimal.Decimal `json:"maintenance_cost"`
	InsuranceCost   decimal.Decimal `json:"insurance_cost"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	NetToOwner      decimal.Decimal `json:"net_to_owner"`
}

// BuildPropertyStatement totals one property's period transactions.
// Payments are stored negative, so collected rent is the negated sum of
// rent-payment amounts. previousBalance is the property's first tenant's
// balance carried into the period.
func BuildPropertyStatement(prop models.Property, previousBalance decimal.Decimal, txs []models.Transaction) PropertyStatement {
	sumOf := func(displayName string) decimal.Decimal {
		total := decimal.Zero
		for _, tx := range txs {
			if tx.Type.DisplayName == displayName {
				total = total.Add(tx.Amount)
			}
		}
		return total
	}

	rentCollected := sumOf("Rent Payment").Neg()
	mgmtFees := sumOf("Management Fee")
	maintenance := sumOf("Maintenance")
	insurance := sumOf("Insurance")

	totalDue := prop.RentAmount.Add(previousBalance)
	return PropertyStatement{
		PropertyID:      prop.ID,
		PropertyAddress: prop.Address,
		RentAmount:      prop.RentAmount,
		PreviousBalance: previousBalance,
		TotalAmountDue:  totalDue,
		RentCollected:   rentCollected,
		ManagementFees:  mgmtFees,
		MaintenanceCost: maintenance,
		InsuranceCost:   insurance,
		CurrentBalance:  totalDue.Sub(rentCollected),
		NetToOwner:      rentCollected.Sub(mgmtFees).Sub(maintenance).Sub(insurance),
	}
}
