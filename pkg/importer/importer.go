package importer

import (
	"context"
	"errors"
	"time"

	"rentdesk/models"
)

// ErrNoImportableRows is returned by Commit when every candidate carries
// an error status (or the session has no candidates at all).
var ErrNoImportableRows = errors.New("no importable rows")

// TransactionWriter is the single storage seam the importer needs: one
// atomic batch insert. All candidates in the batch succeed or the whole
// call fails; the importer never retries or reinterprets the error.
type TransactionWriter interface {
	InsertTransactions(ctx context.Context, txs []models.Transaction) ([]models.Transaction, error)
}

// BuildBatch produces the transactions to persist: error rows are
// excluded, owner-mode rows get the matched property's owner attached and
// any tenant reference cleared, and all session-only fields are dropped.
// Rows whose date never parsed are committed with today's date; their
// warning status was visible during review.
func (s *Session) BuildBatch() []models.Transaction {
	today := dateOnly(time.Now())
	var batch []models.Transaction
	for _, c := range s.Candidates {
		if c.Status == StatusError {
			continue
		}
		tx := models.Transaction{
			PropertyID:    c.PropertyID,
			TenantID:      c.TenantID,
			TypeID:        c.TypeID,
			Amount:        c.Amount,
			Date:          c.Date,
			InvoiceNumber: c.InvoiceNumber,
			Notes:         c.Notes,
			IsManualEdit:  c.IsManualEdit,
		}
		if tx.Date.IsZero() {
			tx.Date = today
		}
		if s.Mode == ModeOwner {
			tx.TenantID = nil
			if c.PropertyID != nil {
				if prop := findProperty(s.Ref.Properties, *c.PropertyID); prop != nil && prop.OwnerID != nil {
					tx.OwnerID = prop.OwnerID
				}
			}
		}
		batch = append(batch, tx)
	}
	return batch
}

// Commit writes the batch through w in a single call. Only raw
// transaction records are committed; derived fee transactions are never
// created here, that is a separate explicit step. A store failure is
// surfaced verbatim; nothing is partially committed.
func (s *Session) Commit(ctx context.Context, w TransactionWriter) ([]models.Transaction, error) {
	batch := s.BuildBatch()
	if len(batch) == 0 {
		return nil, ErrNoImportableRows
	}
	return w.InsertTransactions(ctx, batch)
}
