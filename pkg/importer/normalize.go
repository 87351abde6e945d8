package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Mappings assigns CSV header names to the logical transaction fields. An
// empty entry means the field is unmapped and will be absent from every
// candidate.
type Mappings struct {
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	Property      string `json:"property"`
	Tenant        string `json:"tenant"`
	Owner         string `json:"owner"`
	Type          string `json:"type"`
	InvoiceNumber string `json:"invoice_number"`
	Notes         string `json:"notes"`
	Category      string `json:"category"`
}

// DefaultMappings guesses conventional header names; the caller adjusts
// them against the actual file headers during the mapping step.
func DefaultMappings() Mappings {
	return Mappings{
		Date:          "Date",
		Amount:        "Amount",
		Description:   "Description",
		Property:      "Property",
		Tenant:        "Tenant",
		Owner:         "Owner",
		Type:          "Type",
		InvoiceNumber: "Invoice",
		Notes:         "Notes",
		Category:      "Category",
	}
}

func (m Mappings) value(row Row, field string) string {
	if field == "" {
		return ""
	}
	return strings.TrimSpace(row[field])
}

// ParseAmount turns a raw CSV amount into a signed decimal. Currency
// symbols, thousands separators and parentheses are stripped; a minus sign
// or an opening parenthesis in the original value marks the amount
// negative. Unparseable input yields zero, which the validator flags.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	negative := strings.Contains(raw, "-") || strings.Contains(raw, "(")
	cleaned := strings.NewReplacer("$", "", ",", "", "(", "", ")", "", "-", "").Replace(raw)
	amt, err := decimal.NewFromString(strings.TrimSpace(cleaned))
	if err != nil {
		return decimal.Zero
	}
	if negative {
		amt = amt.Neg()
	}
	return amt
}

var directDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses a raw CSV date. Direct layouts are tried first; failing
// those the value is split on "/" or "-" and interpreted as month/day/year
// then day/month/year. Failure yields the zero time, which the validator
// flags; the batch builder substitutes today when committing such rows.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range directDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return dateOnly(t)
		}
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return time.Time{}
	}
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	y, errY := strconv.Atoi(parts[2])
	if errA != nil || errB != nil || errY != nil {
		return time.Time{}
	}
	if y < 100 {
		y += 2000
	}
	// month/day first, then day/month.
	if t, ok := makeDate(y, a, b); ok {
		return t
	}
	if t, ok := makeDate(y, b, a); ok {
		return t
	}
	return time.Time{}
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject that.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
