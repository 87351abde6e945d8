package match

// keywordRule maps a term contained in free text to a transaction type
// name. The table is an ordered slice, not a map: iteration order is part
// of the matching contract, first contained keyword wins.
type keywordRule struct {
	keyword  string
	typeName string
}

var typeKeywords = []keywordRule{
	{"rent", "Rent Payment"},
	{"payment", "Rent Payment"},
	{"deposit", "Security Deposit"},
	{"security", "Security Deposit"},
	{"late", "Late Fee"},
	{"fee", "Late Fee"},
	{"repair", "Maintenance"},
	{"maintenance", "Maintenance"},
	{"fix", "Maintenance"},
	{"utility", "Utility Reimbursement"},
	{"utilities", "Utility Reimbursement"},
	{"water", "Utility Reimbursement"},
	{"electric", "Utility Reimbursement"},
	{"gas", "Utility Reimbursement"},
	{"manage", "Management Fee"},
	{"management", "Management Fee"},
	{"owner", "Owner Draw"},
	{"draw", "Owner Draw"},
	{"partial", "Rent Payment"},
}
