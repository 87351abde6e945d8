// Package ledger computes running balances, owner statements, and derived
// fees from transaction lists. Everything is a pure function over its
// inputs: recomputation is idempotent and there is no cached state to
// invalidate.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/models"
)

// DefaultAllowedTypes are the type display names that appear on a
// tenant-facing ledger. Management fees and owner draws are bookkeeping
// between owner and manager; they never move a tenant's balance.
func DefaultAllowedTypes() []string {
	return []string{
		"Rent Charge",
		"Rent Payment",
		"Late Fee",
		"Security Deposit",
		"Application Fee",
	}
}

// Entry is one transaction annotated with the balance after applying it.
// Positive running balance is amount owed; negative is credit.
type Entry struct {
	models.Transaction
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Compute folds a starting balance over the transactions whose type
// display name is in allowedTypes, in ascending date order (stable: ties
// keep their stored order). The last entry's balance always equals
// startingBalance plus the sum of every included amount.
func Compute(startingBalance decimal.Decimal, txs []models.Transaction, allowedTypes []string) []Entry {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, name := range allowedTypes {
		allowed[name] = true
	}

	filtered := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if allowed[tx.Type.DisplayName] {
			filtered = append(filtered, tx)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(filtered[j].Date)
	})

	entries := make([]Entry, 0, len(filtered))
	balance := startingBalance
	for _, tx := range filtered {
		balance = balance.Add(tx.Amount)
		entries = append(entries, Entry{Transaction: tx, RunningBalance: balance})
	}
	return entries
}

// FilterRange keeps transactions whose date falls within [from, to]
// inclusive. A nil bound is open.
func FilterRange(txs []models.Transaction, from, to *time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if from != nil && tx.Date.Before(*from) {
			continue
		}
		if to != nil && tx.Date.After(*to) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Sum adds the amounts of all transactions in txs.
func Sum(txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}
