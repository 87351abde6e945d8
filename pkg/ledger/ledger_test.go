package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/models"
)

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func tx(displayName string, amount string, date time.Time) models.Transaction {
	return models.Transaction{
		Amount: decimal.RequireFromString(amount),
		Date:   date,
		Type:   models.TransactionType{DisplayName: displayName},
	}
}

func TestComputeFold(t *testing.T) {
	txs := []models.Transaction{
		tx("Rent Charge", "1000", day(1)),
		tx("Rent Payment", "-1000", day(15)),
		tx("Late Fee", "50", day(20)),
	}
	entries := Compute(decimal.Zero, txs, DefaultAllowedTypes())
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries got %d", len(entries))
	}
	for i, want := range []string{"1000", "0", "50"} {
		if !entries[i].RunningBalance.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("entry %d balance = %s, want %s", i, entries[i].RunningBalance, want)
		}
	}
	// Final balance = starting + sum of included amounts.
	if !entries[2].RunningBalance.Equal(Sum(txs)) {
		t.Fatalf("final balance %s != sum %s", entries[2].RunningBalance, Sum(txs))
	}
}

func TestComputeFilterExclusion(t *testing.T) {
	txs := []models.Transaction{
		tx("Rent Charge", "1000", day(1)),
		tx("Management Fee", "80", day(2)),
	}
	entries := Compute(decimal.Zero, txs, DefaultAllowedTypes())
	if len(entries) != 1 {
		t.Fatalf("management fee must not appear, got %d entries", len(entries))
	}
	if !entries[0].RunningBalance.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("excluded type affected balance: %s", entries[0].RunningBalance)
	}
}

func TestComputeSortsAndKeepsTieOrder(t *testing.T) {
	a := tx("Rent Charge", "10", day(5))
	a.ID = 1
	b := tx("Late Fee", "20", day(2))
	b.ID = 2
	c := tx("Rent Charge", "30", day(5))
	c.ID = 3
	entries := Compute(decimal.Zero, []models.Transaction{a, b, c}, DefaultAllowedTypes())
	if entries[0].ID != 2 || entries[1].ID != 1 || entries[2].ID != 3 {
		t.Fatalf("expected order 2,1,3 got %d,%d,%d", entries[0].ID, entries[1].ID, entries[2].ID)
	}
}

func TestComputeIdempotent(t *testing.T) {
	start := decimal.RequireFromString("250")
	txs := []models.Transaction{
		tx("Rent Payment", "-100", day(3)),
		tx("Rent Charge", "1000", day(1)),
	}
	first := Compute(start, txs, DefaultAllowedTypes())
	second := Compute(start, txs, DefaultAllowedTypes())
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].RunningBalance.Equal(second[i].RunningBalance) || first[i].ID != second[i].ID {
			t.Fatalf("entry %d differs between runs", i)
		}
	}
}

func TestComputeStartingBalance(t *testing.T) {
	entries := Compute(decimal.RequireFromString("-50"), []models.Transaction{tx("Late Fee", "50", day(1))}, DefaultAllowedTypes())
	if !entries[0].RunningBalance.IsZero() {
		t.Fatalf("credit starting balance not applied: %s", entries[0].RunningBalance)
	}
}

func TestFilterRange(t *testing.T) {
	txs := []models.Transaction{
		tx("Rent Charge", "1", day(1)),
		tx("Rent Charge", "2", day(10)),
		tx("Rent Charge", "3", day(20)),
	}
	from, to := day(5), day(15)
	got := FilterRange(txs, &from, &to)
	if len(got) != 1 || !got[0].Amount.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected only the day-10 transaction, got %d", len(got))
	}
	if got := FilterRange(txs, nil, nil); len(got) != 3 {
		t.Fatalf("open range must keep everything, got %d", len(got))
	}
}
