package store

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rentdesk/models"
	"rentdesk/pkg/importer"
)

// Store is the record-store adapter the import and transaction paths go
// through. It wraps gorm and owns the cached-balance discipline: any
// transaction write recomputes the balances of the properties and tenants
// it touched, inside the same database transaction, so the cached columns
// cannot drift from the transaction history.
type Store struct {
	db *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// InsertTransactions is the importer's single atomic batch write. Either
// every row is inserted and every touched balance refreshed, or the error
// comes back and nothing is committed.
func (s *Store) InsertTransactions(ctx context.Context, txs []models.Transaction) ([]models.Transaction, error) {
	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		if err := gtx.Create(&txs).Error; err != nil {
			return err
		}
		return recomputeTouched(gtx, txs)
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// InsertTransaction inserts one transaction and refreshes its balances.
func (s *Store) InsertTransaction(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		if err := gtx.Create(tx).Error; err != nil {
			return err
		}
		return recomputeTouched(gtx, []models.Transaction{*tx})
	})
}

// UpdateTransaction saves an edited transaction and refreshes balances
// for both the previous and the new property/tenant references.
func (s *Store) UpdateTransaction(ctx context.Context, before, after *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		if err := gtx.Save(after).Error; err != nil {
			return err
		}
		return recomputeTouched(gtx, []models.Transaction{*before, *after})
	})
}

// DeleteTransaction removes a transaction, then refreshes the balances it
// used to contribute to.
func (s *Store) DeleteTransaction(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		if err := gtx.Delete(&models.Transaction{}, tx.ID).Error; err != nil {
			return err
		}
		return recomputeTouched(gtx, []models.Transaction{*tx})
	})
}

func recomputeTouched(gtx *gorm.DB, txs []models.Transaction) error {
	props := map[uint]bool{}
	tenants := map[uint]bool{}
	for _, t := range txs {
		if t.PropertyID != nil {
			props[*t.PropertyID] = true
		}
		if t.TenantID != nil {
			tenants[*t.TenantID] = true
		}
	}
	for id := range props {
		if err := recomputePropertyBalance(gtx, id); err != nil {
			return err
		}
	}
	for id := range tenants {
		if err := recomputeTenantBalance(gtx, id); err != nil {
			return err
		}
	}
	return nil
}

// recomputePropertyBalance projects the property's cached balance from
// its full transaction history.
func recomputePropertyBalance(gtx *gorm.DB, propertyID uint) error {
	var txs []models.Transaction
	if err := gtx.Where("property_id = ?", propertyID).Find(&txs).Error; err != nil {
		return err
	}
	balance := decimal.Zero
	for _, t := range txs {
		balance = balance.Add(t.Amount)
	}
	return gtx.Model(&models.Property{}).Where("id = ?", propertyID).
		Update("current_balance", balance).Error
}

// recomputeTenantBalance is starting balance plus the sum of the tenant's
// transaction history.
func recomputeTenantBalance(gtx *gorm.DB, tenantID uint) error {
	var tenant models.Tenant
	if err := gtx.First(&tenant, tenantID).Error; err != nil {
		return err
	}
	var txs []models.Transaction
	if err := gtx.Where("tenant_id = ?", tenantID).Find(&txs).Error; err != nil {
		return err
	}
	balance := tenant.StartingBalance
	for _, t := range txs {
		balance = balance.Add(t.Amount)
	}
	return gtx.Model(&models.Tenant{}).Where("id = ?", tenantID).
		Update("current_balance", balance).Error
}

// LoadReferenceData snapshots the records an import session matches
// against.
func (s *Store) LoadReferenceData(ctx context.Context) (importer.ReferenceData, error) {
	var ref importer.ReferenceData
	gdb := s.db.WithContext(ctx)
	if err := gdb.Find(&ref.Properties).Error; err != nil {
		return ref, err
	}
	if err := gdb.Find(&ref.Tenants).Error; err != nil {
		return ref, err
	}
	if err := gdb.Find(&ref.Owners).Error; err != nil {
		return ref, err
	}
	if err := gdb.Find(&ref.Types).Error; err != nil {
		return ref, err
	}
	return ref, nil
}

// TransactionTypeByName resolves seeded reference types for the
// convenience endpoints.
func (s *Store) TransactionTypeByName(ctx context.Context, name string) (*models.TransactionType, error) {
	var tt models.TransactionType
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&tt).Error; err != nil {
		return nil, err
	}
	return &tt, nil
}
