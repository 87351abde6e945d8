package main

import (
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rentdesk/models"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.Fatal().Msg("DB_DSN is not set. This service requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres database")
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	// Permission errors are logged and ignored.
	shouldMigrate := true
	if v := strings.ToLower(os.Getenv("DB_AUTO_MIGRATE")); v == "false" || v == "0" || v == "no" {
		shouldMigrate = false
	}
	if shouldMigrate {
		migrateAll(db)
	}
	seedDB(db)
}

// migrateAll migrates models individually so a failure on one doesn't
// block the others. Roles and owners come first so FK constraints apply
// cleanly.
func migrateAll(gdb *gorm.DB) {
	for _, m := range []struct {
		name  string
		model any
	}{
		{"roles", &models.Role{}},
		{"users", &models.User{}},
		{"owners", &models.Owner{}},
		{"properties", &models.Property{}},
		{"tenants", &models.Tenant{}},
		{"tenant_notes", &models.TenantNote{}},
		{"transaction_types", &models.TransactionType{}},
		{"transactions", &models.Transaction{}},
	} {
		if err := gdb.AutoMigrate(m.model); err != nil {
			logger.Warn().Err(err).Str("table", m.name).Msg("migration warning")
		}
	}
}

// seedTransactionTypes is the static reference data the matcher and
// ledger rely on. Seeding is idempotent; rows are matched by name.
var seedTransactionTypes = []models.TransactionType{
	{Name: "Rent Charge", DisplayName: "Rent Charge", Category: models.CategoryCharge},
	{Name: "Rent Payment", DisplayName: "Rent Payment", Category: models.CategoryPayment},
	{Name: "Late Fee", DisplayName: "Late Fee", Category: models.CategoryCharge},
	{Name: "Security Deposit", DisplayName: "Security Deposit", Category: models.CategoryPayment},
	{Name: "Application Fee", DisplayName: "Application Fee", Category: models.CategoryCharge},
	{Name: "New Lease", DisplayName: "New Lease", Category: models.CategoryCharge},
	{Name: "Maintenance", DisplayName: "Maintenance", Category: models.CategoryMaintenance},
	{Name: "Repair", DisplayName: "Repair", Category: models.CategoryRepair},
	{Name: "Utility Reimbursement", DisplayName: "Utility Reimbursement", Category: models.CategoryExpense},
	{Name: "Management Fee", DisplayName: "Management Fee", Category: models.CategoryExpense},
	{Name: "Lease Fee", DisplayName: "Lease Fee", Category: models.CategoryExpense},
	{Name: "Owner Draw", DisplayName: "Owner Draw", Category: models.CategoryExpense},
	{Name: "Insurance", DisplayName: "Insurance", Category: models.CategoryExpense},
	{Name: "Other Income", DisplayName: "Other Income", Category: models.CategoryPayment},
	{Name: "Expense", DisplayName: "Expense", Category: models.CategoryExpense},
}

func seedDB(gdb *gorm.DB) {
	// Master roles.
	roles := []models.Role{
		{Name: "administrator", Description: "full access"},
		{Name: "user", Description: "regular user"},
	}
	for _, r := range roles {
		var cnt int64
		gdb.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			gdb.Create(&r)
		}
	}

	for _, tt := range seedTransactionTypes {
		var cnt int64
		gdb.Model(&models.TransactionType{}).Where("name = ?", tt.Name).Count(&cnt)
		if cnt == 0 {
			gdb.Create(&tt)
		}
	}

	// Seed admin user.
	var count int64
	gdb.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := gdb.Where("name = ?", "administrator").First(&role).Error; err != nil {
			logger.Warn().Err(err).Msg("failed to find administrator role")
		}
		rid := role.ID
		admin := models.User{Username: "admin", RoleID: &rid}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		gdb.Create(&admin)
		logger.Info().Msg("seeded admin user: username=admin, password=admin123")
	}
}
