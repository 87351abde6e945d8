// Package importer turns parsed CSV rows into transactions: it matches
// free-text references against existing records, normalizes amounts and
// dates, classifies each row valid/warning/error, and commits the
// importable rows as one batch. All state lives in an explicit Session;
// nothing here touches storage except the final commit through the
// TransactionWriter seam.
package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentdesk/models"
	"rentdesk/pkg/match"
)

// Mode distinguishes the two import workflows: tenant-mode rows are
// transactions tied to tenants, owner-mode rows are charges to property
// owners and never carry a tenant.
type Mode = match.Mode

const (
	ModeTenant = match.ModeTenant
	ModeOwner  = match.ModeOwner
)

// Candidate is one imported row plus everything resolved from it. It is
// session-only: none of the match or status fields survive the commit.
type Candidate struct {
	Row Row `json:"original"`

	PropertyID *uint `json:"property_id,omitempty"`
	TenantID   *uint `json:"tenant_id,omitempty"`
	TypeID     uint  `json:"type_id"`

	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"` // zero when unparseable

	InvoiceNumber string `json:"invoice_number,omitempty"`
	Notes         string `json:"notes,omitempty"`
	IsManualEdit  bool   `json:"is_manual_edit"`

	PropertyMatch *models.Property        `json:"property_match,omitempty"`
	TenantMatch   *models.Tenant          `json:"tenant_match,omitempty"`
	OwnerMatch    *models.Owner           `json:"owner_match,omitempty"`
	TypeMatch     *models.TransactionType `json:"type_match,omitempty"`

	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReferenceData is the snapshot of existing records a session matches
// against. It is loaded once when the session starts; edits elsewhere in
// the system do not affect an open session.
type ReferenceData struct {
	Properties []models.Property
	Tenants    []models.Tenant
	Owners     []models.Owner
	Types      []models.TransactionType
}

// Session holds one import wizard run: parsed rows, the column mapping,
// the reference snapshot, and the processed candidates. Sessions are
// single-user; no locking.
type Session struct {
	ID        uuid.UUID
	Mode      Mode
	CreatedAt time.Time

	Headers  []string
	Rows     []Row
	Mappings Mappings

	Ref ReferenceData

	// TenantFallback enables the first-tenant-of-property default when no
	// tenant heuristic matches. The interactive wizard turns it on (rows
	// get reviewed before commit); unattended imports leave it off.
	TenantFallback bool

	Candidates []Candidate
}

// NewSession starts a session over a parsed file with default mappings.
func NewSession(mode Mode, headers []string, rows []Row, ref ReferenceData) *Session {
	return &Session{
		ID:        uuid.New(),
		Mode:      mode,
		CreatedAt: time.Now(),
		Headers:   headers,
		Rows:      rows,
		Mappings:  DefaultMappings(),
		Ref:       ref,
	}
}

// Process builds one candidate per row: match, normalize, validate. It is
// rerun from scratch whenever the mappings change, so it always replaces
// the candidate list.
func (s *Session) Process() {
	s.Candidates = make([]Candidate, 0, len(s.Rows))
	for _, row := range s.Rows {
		s.Candidates = append(s.Candidates, s.buildCandidate(row))
	}
}

func (s *Session) buildCandidate(row Row) Candidate {
	m := s.Mappings
	c := Candidate{Row: row}

	if v := m.value(row, m.Property); v != "" {
		c.PropertyMatch = match.Property(v, s.Ref.Properties)
	}
	var propID *uint
	if c.PropertyMatch != nil {
		propID = &c.PropertyMatch.ID
		c.PropertyID = &c.PropertyMatch.ID
	}

	if s.Mode == ModeTenant {
		if v := m.value(row, m.Tenant); v != "" {
			c.TenantMatch = match.Tenant(v, s.Ref.Tenants, match.TenantOpts{
				PropertyID:    propID,
				FallbackFirst: s.TenantFallback,
			})
		}
		if c.TenantMatch != nil {
			c.TenantID = &c.TenantMatch.ID
		}
	} else {
		if v := m.value(row, m.Owner); v != "" {
			c.OwnerMatch = match.Owner(v, s.Ref.Owners, s.Ref.Properties, propID)
		}
	}

	c.TypeMatch = match.TransactionType(
		m.value(row, m.Type),
		m.value(row, m.Description),
		m.value(row, m.Notes),
		s.Ref.Types,
		s.Mode,
	)
	if c.TypeMatch != nil {
		c.TypeID = c.TypeMatch.ID
	}

	c.Amount = ParseAmount(m.value(row, m.Amount))
	c.Date = ParseDate(m.value(row, m.Date))
	c.InvoiceNumber = m.value(row, m.InvoiceNumber)
	c.Notes = m.value(row, m.Notes)

	c.Status, c.Message = Validate(&c, s.Mode, s.Ref.Properties)
	return c
}

// CandidatePatch carries a manual correction from the review step. Nil
// fields are left untouched. Setting a reference to 0 clears it.
type CandidatePatch struct {
	PropertyID *uint            `json:"property_id"`
	TenantID   *uint            `json:"tenant_id"`
	TypeID     *uint            `json:"type_id"`
	Amount     *decimal.Decimal `json:"amount"`
	Date       *time.Time       `json:"date"`
	Notes      *string          `json:"notes"`
}

// Edit applies a manual correction to one candidate and revalidates it,
// replacing its previous status and message.
func (s *Session) Edit(index int, patch CandidatePatch) error {
	if index < 0 || index >= len(s.Candidates) {
		return fmt.Errorf("candidate index %d out of range", index)
	}
	c := &s.Candidates[index]
	if patch.PropertyID != nil {
		if *patch.PropertyID == 0 {
			c.PropertyID = nil
			c.PropertyMatch = nil
		} else {
			c.PropertyID = patch.PropertyID
			c.PropertyMatch = findProperty(s.Ref.Properties, *patch.PropertyID)
		}
	}
	if patch.TenantID != nil {
		if *patch.TenantID == 0 {
			c.TenantID = nil
			c.TenantMatch = nil
		} else {
			c.TenantID = patch.TenantID
			c.TenantMatch = findTenant(s.Ref.Tenants, *patch.TenantID)
		}
	}
	if patch.TypeID != nil {
		c.TypeID = *patch.TypeID
		c.TypeMatch = findType(s.Ref.Types, *patch.TypeID)
	}
	if patch.Amount != nil {
		c.Amount = *patch.Amount
	}
	if patch.Date != nil {
		c.Date = dateOnly(*patch.Date)
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	c.IsManualEdit = true
	c.Status, c.Message = Validate(c, s.Mode, s.Ref.Properties)
	return nil
}

// Counts returns how many candidates are valid, warning, and error; the
// review step shows these before commit.
func (s *Session) Counts() (valid, warning, errors int) {
	for _, c := range s.Candidates {
		switch c.Status {
		case StatusValid:
			valid++
		case StatusWarning:
			warning++
		case StatusError:
			errors++
		}
	}
	return
}

func findTenant(tenants []models.Tenant, id uint) *models.Tenant {
	for i := range tenants {
		if tenants[i].ID == id {
			return &tenants[i]
		}
	}
	return nil
}

func findType(types []models.TransactionType, id uint) *models.TransactionType {
	for i := range types {
		if types[i].ID == id {
			return &types[i]
		}
	}
	return nil
}
