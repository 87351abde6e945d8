// Package match resolves free-text fields from imported rows to existing
// records. Every matcher is a pure ordered heuristic chain returning the
// first hit, or nil when nothing fits; "no match" is never an error.
package match

import (
	"regexp"
	"strings"

	"rentdesk/models"
)

// Mode selects which default transaction types apply when nothing in a row
// identifies one.
type Mode string

const (
	ModeTenant Mode = "tenant"
	ModeOwner  Mode = "owner"
)

// streetRE extracts a leading street number and street name, stopping at
// the first comma ("123 Main Street, Apt 101" -> "123", "Main Street").
var streetRE = regexp.MustCompile(`^\s*(\d+)\s+([^,]+)`)

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Property matches text against property addresses: exact first, then
// substring either direction, then street number + street name.
func Property(text string, candidates []models.Property) *models.Property {
	text = norm(text)
	if text == "" {
		return nil
	}

	for i := range candidates {
		if norm(candidates[i].Address) == text {
			return &candidates[i]
		}
	}

	for i := range candidates {
		addr := norm(candidates[i].Address)
		if strings.Contains(addr, text) || strings.Contains(text, addr) {
			return &candidates[i]
		}
	}

	// Positional: same street number, street name substring either way.
	in := streetRE.FindStringSubmatch(text)
	if in == nil {
		return nil
	}
	number, street := in[1], strings.TrimSpace(in[2])
	for i := range candidates {
		cm := streetRE.FindStringSubmatch(norm(candidates[i].Address))
		if cm == nil {
			continue
		}
		cNumber, cStreet := cm[1], strings.TrimSpace(cm[2])
		if cNumber == number && (strings.Contains(cStreet, street) || strings.Contains(street, cStreet)) {
			return &candidates[i]
		}
	}
	return nil
}

// TenantOpts tunes tenant matching. FallbackFirst enables the last-resort
// "first tenant of the matched property" default; it can misattribute rows
// when a property has had several tenants, so unattended imports should
// leave it off.
type TenantOpts struct {
	PropertyID    *uint
	FallbackFirst bool
}

// Tenant matches text against tenant names and emails. The candidate pool
// is restricted to tenants of opts.PropertyID when set.
func Tenant(text string, candidates []models.Tenant, opts TenantOpts) *models.Tenant {
	text = norm(text)
	if text == "" {
		return nil
	}

	pool := candidates
	if opts.PropertyID != nil {
		pool = pool[:0:0]
		for _, t := range candidates {
			if t.PropertyID != nil && *t.PropertyID == *opts.PropertyID {
				pool = append(pool, t)
			}
		}
	}

	for i := range pool {
		if norm(pool[i].Name) == text || (pool[i].Email != "" && norm(pool[i].Email) == text) {
			return &pool[i]
		}
	}

	// Last name: final whitespace token of the stored name.
	for i := range pool {
		parts := strings.Fields(norm(pool[i].Name))
		if len(parts) == 0 {
			continue
		}
		last := parts[len(parts)-1]
		if strings.Contains(text, last) || strings.Contains(last, text) {
			return &pool[i]
		}
	}

	for i := range pool {
		name := norm(pool[i].Name)
		if strings.Contains(name, text) || strings.Contains(text, name) {
			return &pool[i]
		}
	}

	if opts.FallbackFirst && opts.PropertyID != nil && len(pool) > 0 {
		return &pool[0]
	}
	return nil
}

// Owner matches text against owner names and emails, exact then substring.
// When propertyID is set the pool is restricted to owners of that property.
// There is no positional or fallback step for owners.
func Owner(text string, owners []models.Owner, properties []models.Property, propertyID *uint) *models.Owner {
	text = norm(text)
	if text == "" {
		return nil
	}

	pool := owners
	if propertyID != nil {
		pool = pool[:0:0]
		for _, o := range owners {
			for _, p := range properties {
				if p.ID == *propertyID && p.OwnerID != nil && *p.OwnerID == o.ID {
					pool = append(pool, o)
					break
				}
			}
		}
	}

	for i := range pool {
		if norm(pool[i].Name) == text || (pool[i].Email != "" && norm(pool[i].Email) == text) {
			return &pool[i]
		}
	}
	for i := range pool {
		name := norm(pool[i].Name)
		if strings.Contains(name, text) || strings.Contains(text, name) {
			return &pool[i]
		}
	}
	return nil
}

// byKeyword walks the ordered keyword table and returns the first mapped
// type whose keyword the value contains.
func byKeyword(value string, candidates []models.TransactionType) *models.TransactionType {
	for _, rule := range typeKeywords {
		if !strings.Contains(value, rule.keyword) {
			continue
		}
		if t := byExactName(rule.typeName, candidates); t != nil {
			return t
		}
	}
	return nil
}

func byExactName(name string, candidates []models.TransactionType) *models.TransactionType {
	name = norm(name)
	for i := range candidates {
		if norm(candidates[i].Name) == name {
			return &candidates[i]
		}
	}
	return nil
}

// TransactionType identifies the transaction type for a row. Precedence is
// explicit type field > description > notes > mode default: the explicit
// user-mapped field is the most trustworthy signal. typeText, descText and
// notesText are the raw mapped-column values (empty when unmapped).
func TransactionType(typeText, descText, notesText string, candidates []models.TransactionType, mode Mode) *models.TransactionType {
	if v := norm(typeText); v != "" {
		if t := byExactName(v, candidates); t != nil {
			return t
		}
		if t := byKeyword(v, candidates); t != nil {
			return t
		}
		for i := range candidates {
			name := norm(candidates[i].Name)
			if strings.Contains(name, v) || strings.Contains(v, name) {
				return &candidates[i]
			}
		}
	}

	if v := norm(descText); v != "" {
		if t := byKeyword(v, candidates); t != nil {
			return t
		}
	}
	if v := norm(notesText); v != "" {
		if t := byKeyword(v, candidates); t != nil {
			return t
		}
	}

	defaults := []string{"Rent Payment", "Other Income"}
	if mode == ModeOwner {
		defaults = []string{"Management Fee", "Owner Draw"}
	}
	for _, name := range defaults {
		if t := byExactName(name, candidates); t != nil {
			return t
		}
	}
	return nil
}
