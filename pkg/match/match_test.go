package match

import (
	"testing"

	"rentdesk/models"
)

func uintp(v uint) *uint { return &v }

func TestPropertyExactBeatsPartial(t *testing.T) {
	props := []models.Property{
		{ID: 1, Address: "123 Main Street, Apt 101"},
		{ID: 2, Address: "123 Main St"},
	}
	got := Property("123 Main St", props)
	if got == nil || got.ID != 2 {
		t.Fatalf("expected exact match id=2, got %+v", got)
	}
}

func TestPropertyPartialEitherDirection(t *testing.T) {
	props := []models.Property{{ID: 1, Address: "456 Oak Avenue"}}
	if got := Property("456 oak", props); got == nil || got.ID != 1 {
		t.Fatalf("input contained in address should match, got %+v", got)
	}
	if got := Property("456 Oak Avenue Unit B rear", props); got == nil || got.ID != 1 {
		t.Fatalf("address contained in input should match, got %+v", got)
	}
}

func TestPropertyStreetNumberAndName(t *testing.T) {
	props := []models.Property{
		{ID: 1, Address: "789 Pine Road, Apt 4"},
		{ID: 2, Address: "788 Pine Road"},
	}
	// Neither exact nor plain substring, but street number 789 plus a
	// street-name substring should land on the first 789 candidate.
	got := Property("789 Pine Road Suite 9", props)
	if got == nil || got.ID != 1 {
		t.Fatalf("expected positional match id=1, got %+v", got)
	}
	// Abbreviated street names defeat the substring check in both
	// directions; the matcher stays conservative and reports no match.
	if got := Property("789 Pine Rd", props); got != nil {
		t.Fatalf("expected no match for abbreviated street name, got %+v", got)
	}
}

func TestPropertyNoMatch(t *testing.T) {
	if got := Property("nowhere", nil); got != nil {
		t.Fatalf("empty candidate list must return nil, got %+v", got)
	}
	if got := Property("", []models.Property{{ID: 1, Address: "1 A St"}}); got != nil {
		t.Fatalf("empty input must return nil, got %+v", got)
	}
}

func TestTenantExactNameAndEmail(t *testing.T) {
	tenants := []models.Tenant{
		{ID: 1, Name: "Jane Cooper", Email: "jane@example.com"},
		{ID: 2, Name: "Jane Cooper Smith"},
	}
	if got := Tenant("JANE COOPER", tenants, TenantOpts{}); got == nil || got.ID != 1 {
		t.Fatalf("expected exact name match id=1, got %+v", got)
	}
	if got := Tenant("jane@example.com", tenants, TenantOpts{}); got == nil || got.ID != 1 {
		t.Fatalf("expected email match id=1, got %+v", got)
	}
}

func TestTenantLastNameHeuristic(t *testing.T) {
	tenants := []models.Tenant{{ID: 1, Name: "Robert Delgado"}}
	if got := Tenant("delgado, r", tenants, TenantOpts{}); got == nil || got.ID != 1 {
		t.Fatalf("expected last-name match, got %+v", got)
	}
}

func TestTenantPoolRestrictionAndFallback(t *testing.T) {
	tenants := []models.Tenant{
		{ID: 1, Name: "Alice Ray", PropertyID: uintp(10)},
		{ID: 2, Name: "Bob Kim", PropertyID: uintp(20)},
	}
	// No textual similarity: nil without fallback, first-of-property with it.
	if got := Tenant("zzz", tenants, TenantOpts{PropertyID: uintp(20)}); got != nil {
		t.Fatalf("fallback disabled, expected nil, got %+v", got)
	}
	got := Tenant("zzz", tenants, TenantOpts{PropertyID: uintp(20), FallbackFirst: true})
	if got == nil || got.ID != 2 {
		t.Fatalf("expected fallback to first tenant of property 20, got %+v", got)
	}
	// Fallback never applies without a property restriction.
	if got := Tenant("zzz", tenants, TenantOpts{FallbackFirst: true}); got != nil {
		t.Fatalf("fallback without property must stay nil, got %+v", got)
	}
}

func TestOwnerNoFallback(t *testing.T) {
	owners := []models.Owner{{ID: 1, Name: "Holdings LLC"}}
	props := []models.Property{{ID: 10, OwnerID: uintp(1)}}
	if got := Owner("holdings", owners, props, uintp(10)); got == nil || got.ID != 1 {
		t.Fatalf("expected partial owner match, got %+v", got)
	}
	if got := Owner("zzz", owners, props, uintp(10)); got != nil {
		t.Fatalf("owners have no fallback step, got %+v", got)
	}
}

func typeList() []models.TransactionType {
	return []models.TransactionType{
		{ID: 1, Name: "Rent Payment", DisplayName: "Rent Payment"},
		{ID: 2, Name: "Security Deposit", DisplayName: "Security Deposit"},
		{ID: 3, Name: "Late Fee", DisplayName: "Late Fee"},
		{ID: 4, Name: "Maintenance", DisplayName: "Maintenance"},
		{ID: 5, Name: "Management Fee", DisplayName: "Management Fee"},
		{ID: 6, Name: "Owner Draw", DisplayName: "Owner Draw"},
	}
}

func TestTransactionTypeExplicitFieldWins(t *testing.T) {
	types := typeList()
	got := TransactionType("late charge", "monthly rent", "", types, ModeTenant)
	if got == nil || got.Name != "Late Fee" {
		t.Fatalf("explicit type field must take precedence, got %+v", got)
	}
}

func TestTransactionTypeKeywordOrder(t *testing.T) {
	types := typeList()
	// "late fee" contains both "late" and "fee"; "late" is first in the table.
	got := TransactionType("late fee", "", "", types, ModeTenant)
	if got == nil || got.Name != "Late Fee" {
		t.Fatalf("expected Late Fee, got %+v", got)
	}
	// "security deposit" hits "deposit" before "security"; both map the same.
	got = TransactionType("", "security deposit received", "", types, ModeTenant)
	if got == nil || got.Name != "Security Deposit" {
		t.Fatalf("expected Security Deposit from description, got %+v", got)
	}
}

func TestTransactionTypeNotesThenDefault(t *testing.T) {
	types := typeList()
	got := TransactionType("", "", "called about the fix", types, ModeTenant)
	if got == nil || got.Name != "Maintenance" {
		t.Fatalf("expected Maintenance from notes keyword, got %+v", got)
	}
	got = TransactionType("", "", "", types, ModeTenant)
	if got == nil || got.Name != "Rent Payment" {
		t.Fatalf("expected tenant-mode default Rent Payment, got %+v", got)
	}
	got = TransactionType("", "", "", types, ModeOwner)
	if got == nil || got.Name != "Management Fee" {
		t.Fatalf("expected owner-mode default Management Fee, got %+v", got)
	}
}

func TestTransactionTypeNoCandidates(t *testing.T) {
	if got := TransactionType("rent", "", "", nil, ModeTenant); got != nil {
		t.Fatalf("no candidates must return nil, got %+v", got)
	}
}
