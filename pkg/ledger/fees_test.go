package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"rentdesk/models"
)

func TestManagementFee(t *testing.T) {
	prop := models.Property{MgmtFeePercentage: decimal.NewFromInt(8)}
	fee := ManagementFee(decimal.RequireFromString("1000"), "Rent Payment", prop)
	if !fee.Equal(decimal.RequireFromString("80")) {
		t.Fatalf("expected 80 got %s", fee)
	}
	// Half-up rounding to cents: 1234.56 * 8% = 98.7648 -> 98.76,
	// 1234.50 * 8.35% = 103.08075 -> 103.08, 999.99 * 7.5% = 74.99925 -> 75.
	prop.MgmtFeePercentage = decimal.RequireFromString("7.5")
	fee = ManagementFee(decimal.RequireFromString("999.99"), "Rent Payment", prop)
	if !fee.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("expected 75 got %s", fee)
	}
}

func TestManagementFeeNotApplicable(t *testing.T) {
	prop := models.Property{MgmtFeePercentage: decimal.NewFromInt(8)}
	if fee := ManagementFee(decimal.NewFromInt(1000), "Late Fee", prop); !fee.IsZero() {
		t.Fatalf("fee only applies to rent payments, got %s", fee)
	}
	prop.MgmtFeePercentage = decimal.Zero
	if fee := ManagementFee(decimal.NewFromInt(1000), "Rent Payment", prop); !fee.IsZero() {
		t.Fatalf("zero percentage must yield zero fee, got %s", fee)
	}
}

func TestLeaseFee(t *testing.T) {
	prop := models.Property{LeaseFeeAmount: decimal.RequireFromString("250")}
	if fee := LeaseFee(decimal.NewFromInt(1200), "New Lease", prop); !fee.Equal(prop.LeaseFeeAmount) {
		t.Fatalf("expected flat 250 got %s", fee)
	}
	if fee := LeaseFee(decimal.NewFromInt(-5), "New Lease", prop); !fee.IsZero() {
		t.Fatalf("non-positive amount must yield zero, got %s", fee)
	}
	if fee := LeaseFee(decimal.NewFromInt(1200), "Rent Payment", prop); !fee.IsZero() {
		t.Fatalf("wrong type must yield zero, got %s", fee)
	}
}

func TestBuildPropertyStatement(t *testing.T) {
	prop := models.Property{
		ID:         1,
		Address:    "123 Main St",
		RentAmount: decimal.RequireFromString("1000"),
	}
	txs := []models.Transaction{
		tx("Rent Payment", "-1000", day(5)),
		tx("Management Fee", "80", day(5)),
		tx("Maintenance", "120", day(9)),
	}
	st := BuildPropertyStatement(prop, decimal.RequireFromString("50"), txs)
	if !st.RentCollected.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("rent collected = %s", st.RentCollected)
	}
	if !st.TotalAmountDue.Equal(decimal.RequireFromString("1050")) {
		t.Fatalf("total due = %s", st.TotalAmountDue)
	}
	if !st.CurrentBalance.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("current balance = %s", st.CurrentBalance)
	}
	if !st.NetToOwner.Equal(decimal.RequireFromString("800")) {
		t.Fatalf("net to owner = %s", st.NetToOwner)
	}
}
