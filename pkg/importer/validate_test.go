package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rentdesk/models"
)

func uintp(v uint) *uint { return &v }

func refProperties() []models.Property {
	return []models.Property{
		{ID: 1, Address: "123 Main St", OwnerID: uintp(7)},
		{ID: 2, Address: "9 Orphan Way"}, // no owner assigned
	}
}

func validCandidate() Candidate {
	return Candidate{
		PropertyID: uintp(1),
		TenantID:   uintp(3),
		TypeID:     4,
		Amount:     decimal.NewFromInt(100),
		Date:       time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateOrderedChecks(t *testing.T) {
	props := refProperties()

	c := validCandidate()
	c.PropertyID = nil
	c.TypeID = 0
	// Missing property and type together must stay an error, never a
	// downgraded warning, regardless of the other fields.
	c.TenantID = nil
	c.Amount = decimal.Zero
	if st, msg := Validate(&c, ModeTenant, props); st != StatusError || msg != "No property match found" {
		t.Fatalf("got %s %q, want error/no property", st, msg)
	}

	c = validCandidate()
	c.TypeID = 0
	if st, msg := Validate(&c, ModeTenant, props); st != StatusError || msg != "No transaction type identified" {
		t.Fatalf("got %s %q, want error/no type", st, msg)
	}

	c = validCandidate()
	c.TenantID = nil
	if st, msg := Validate(&c, ModeTenant, props); st != StatusWarning || msg != "No tenant match found" {
		t.Fatalf("got %s %q, want warning/no tenant", st, msg)
	}

	c = validCandidate()
	c.PropertyID = uintp(2)
	if st, msg := Validate(&c, ModeOwner, props); st != StatusWarning || msg != "Property has no owner assigned" {
		t.Fatalf("got %s %q, want warning/no owner", st, msg)
	}

	c = validCandidate()
	c.Amount = decimal.Zero
	if st, msg := Validate(&c, ModeTenant, props); st != StatusWarning || msg != "Invalid or zero amount" {
		t.Fatalf("got %s %q, want warning/zero amount", st, msg)
	}

	c = validCandidate()
	c.Date = time.Time{}
	if st, msg := Validate(&c, ModeTenant, props); st != StatusWarning || msg != "Invalid date format" {
		t.Fatalf("got %s %q, want warning/invalid date", st, msg)
	}

	c = validCandidate()
	if st, msg := Validate(&c, ModeTenant, props); st != StatusValid || msg != "" {
		t.Fatalf("got %s %q, want valid", st, msg)
	}
}

func TestValidateOwnerModeIgnoresTenant(t *testing.T) {
	c := validCandidate()
	c.TenantID = nil
	if st, _ := Validate(&c, ModeOwner, refProperties()); st != StatusValid {
		t.Fatalf("owner mode must not require a tenant, got %s", st)
	}
}
