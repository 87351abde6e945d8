package importer

import "rentdesk/models"

// Status classifies one candidate after validation. Errors block commit
// for that row; warnings do not.
type Status string

const (
	StatusValid   Status = "valid"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Validate runs the ordered status checks for one candidate. The order is
// part of the contract: missing property or type always wins over any
// warning condition, no matter which fields were edited. properties is the
// session's reference snapshot, used to resolve the matched property's
// owner in owner mode.
func Validate(c *Candidate, mode Mode, properties []models.Property) (Status, string) {
	if c.PropertyID == nil {
		return StatusError, "No property match found"
	}
	if c.TypeID == 0 {
		return StatusError, "No transaction type identified"
	}
	if mode == ModeTenant && c.TenantID == nil {
		return StatusWarning, "No tenant match found"
	}
	if mode == ModeOwner {
		prop := findProperty(properties, *c.PropertyID)
		if prop == nil || prop.OwnerID == nil {
			return StatusWarning, "Property has no owner assigned"
		}
	}
	if c.Amount.IsZero() {
		return StatusWarning, "Invalid or zero amount"
	}
	if c.Date.IsZero() {
		return StatusWarning, "Invalid date format"
	}
	return StatusValid, ""
}

func findProperty(properties []models.Property, id uint) *models.Property {
	for i := range properties {
		if properties[i].ID == id {
			return &properties[i]
		}
	}
	return nil
}
