package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"rentdesk/models"
	"rentdesk/pkg/ledger"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())

	authGroup.GET("/me", meHandler)

	authGroup.GET("/owners", listOwnersHandler)
	authGroup.POST("/owners", createOwnerHandler)
	authGroup.GET("/owners/:id", getOwnerHandler)
	authGroup.PUT("/owners/:id", updateOwnerHandler)
	authGroup.DELETE("/owners/:id", deleteOwnerHandler)

	authGroup.GET("/properties", listPropertiesHandler)
	authGroup.POST("/properties", createPropertyHandler)
	authGroup.GET("/properties/:id", getPropertyHandler)
	authGroup.PUT("/properties/:id", updatePropertyHandler)
	authGroup.DELETE("/properties/:id", deletePropertyHandler)
	authGroup.GET("/properties/:id/ledger", propertyLedgerHandler)

	authGroup.GET("/tenants", listTenantsHandler)
	authGroup.POST("/tenants", createTenantHandler)
	authGroup.GET("/tenants/:id", getTenantHandler)
	authGroup.PUT("/tenants/:id", updateTenantHandler)
	authGroup.DELETE("/tenants/:id", deleteTenantHandler)
	authGroup.GET("/tenants/:id/ledger", tenantLedgerHandler)
	authGroup.GET("/tenants/:id/notes", listTenantNotesHandler)
	authGroup.POST("/tenants/:id/notes", createTenantNoteHandler)
	authGroup.DELETE("/tenants/:id/notes/:noteID", deleteTenantNoteHandler)

	authGroup.GET("/transaction-types", listTransactionTypesHandler)

	authGroup.GET("/transactions", listTransactionsHandler)
	authGroup.POST("/transactions", createTransactionHandler)
	authGroup.GET("/transactions/:id", getTransactionHandler)
	authGroup.PUT("/transactions/:id", updateTransactionHandler)
	authGroup.DELETE("/transactions/:id", deleteTransactionHandler)
	authGroup.POST("/transactions/rent-payment", addRentPaymentHandler)
	authGroup.POST("/transactions/expense", addExpenseHandler)
	authGroup.POST("/transactions/:id/fees", applyFeesHandler)

	authGroup.GET("/reports/owner-statements/:id", ownerStatementHandler)

	setupImportRoutes(authGroup)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString})
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": usernameVal.(string)})
}

// getUserFromContext fetches the authenticated user set by jwtAuthMiddleware.
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	var user models.User
	if err := db.Where("username = ?", unameVal.(string)).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// --- owners ---

func listOwnersHandler(c *gin.Context) {
	var owners []models.Owner
	if err := db.Order("name").Find(&owners).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, owners)
}

func createOwnerHandler(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	owner := models.Owner{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := db.Create(&owner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": owner.ID})
}

func getOwnerHandler(c *gin.Context) {
	var owner models.Owner
	if err := db.First(&owner, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, owner)
}

func updateOwnerHandler(c *gin.Context) {
	var owner models.Owner
	if err := db.First(&owner, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		owner.Name = *req.Name
	}
	if req.Email != nil {
		owner.Email = *req.Email
	}
	if req.Phone != nil {
		owner.Phone = *req.Phone
	}
	if err := db.Save(&owner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, owner)
}

// deleteOwnerHandler refuses to delete an owner that properties still
// reference; the referential invariant is enforced here, not in the DB.
func deleteOwnerHandler(c *gin.Context) {
	var owner models.Owner
	if err := db.First(&owner, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var cnt int64
	db.Model(&models.Property{}).Where("owner_id = ?", owner.ID).Count(&cnt)
	if cnt > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "owner still referenced by properties"})
		return
	}
	if err := db.Delete(&owner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// --- properties ---

type propertyRequest struct {
	Address           string           `json:"address" binding:"required"`
	City              string           `json:"city"`
	Zip               string           `json:"zip"`
	OwnerID           *uint            `json:"owner_id"`
	RentAmount        decimal.Decimal  `json:"rent_amount"`
	LateFeeAmount     decimal.Decimal  `json:"late_fee_amount"`
	MgmtFeePercentage decimal.Decimal  `json:"mgmt_fee_percentage"`
	LeaseFeeAmount    *decimal.Decimal `json:"lease_fee_amount"`
	HasInsurance      bool             `json:"has_insurance"`
	Notes             string           `json:"notes"`
}

func (r propertyRequest) validate() string {
	if r.RentAmount.IsNegative() || r.LateFeeAmount.IsNegative() {
		return "amounts must not be negative"
	}
	if r.MgmtFeePercentage.IsNegative() || r.MgmtFeePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return "management fee percentage must be between 0 and 100"
	}
	return ""
}

func listPropertiesHandler(c *gin.Context) {
	var props []models.Property
	q := db.Preload("Owner").Order("address")
	if ownerID := c.Query("owner_id"); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if err := q.Find(&props).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, props)
}

func createPropertyHandler(c *gin.Context) {
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	prop := models.Property{
		Address:           req.Address,
		City:              req.City,
		Zip:               req.Zip,
		OwnerID:           req.OwnerID,
		RentAmount:        req.RentAmount,
		LateFeeAmount:     req.LateFeeAmount,
		MgmtFeePercentage: req.MgmtFeePercentage,
		HasInsurance:      req.HasInsurance,
		Notes:             req.Notes,
	}
	if req.LeaseFeeAmount != nil {
		prop.LeaseFeeAmount = *req.LeaseFeeAmount
	}
	if err := db.Create(&prop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": prop.ID})
}

func getPropertyHandler(c *gin.Context) {
	var prop models.Property
	if err := db.Preload("Owner").Preload("Tenants").First(&prop, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, prop)
}

func updatePropertyHandler(c *gin.Context) {
	var prop models.Property
	if err := db.First(&prop, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	prop.Address = req.Address
	prop.City = req.City
	prop.Zip = req.Zip
	prop.OwnerID = req.OwnerID
	prop.RentAmount = req.RentAmount
	prop.LateFeeAmount = req.LateFeeAmount
	prop.MgmtFeePercentage = req.MgmtFeePercentage
	if req.LeaseFeeAmount != nil {
		prop.LeaseFeeAmount = *req.LeaseFeeAmount
	}
	prop.HasInsurance = req.HasInsurance
	prop.Notes = req.Notes
	if err := db.Save(&prop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, prop)
}

func deletePropertyHandler(c *gin.Context) {
	var prop models.Property
	if err := db.First(&prop, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := db.Delete(&prop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// --- tenants ---

type tenantRequest struct {
	Name            string           `json:"name" binding:"required"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	PropertyID      *uint            `json:"property_id"`
	MonthlyRent     decimal.Decimal  `json:"monthly_rent"`
	SecurityDeposit decimal.Decimal  `json:"security_deposit"`
	StartingBalance *decimal.Decimal `json:"starting_balance"`
	LeaseStart      *time.Time       `json:"lease_start"`
	LeaseEnd        *time.Time       `json:"lease_end"`
	MoveIn          *time.Time       `json:"move_in"`
	MoveOut         *time.Time       `json:"move_out"`
}

func listTenantsHandler(c *gin.Context) {
	var tenants []models.Tenant
	q := db.Preload("Property").Order("name")
	if propID := c.Query("property_id"); propID != "" {
		q = q.Where("property_id = ?", propID)
	}
	if err := q.Find(&tenants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, tenants)
}

func createTenantHandler(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tenant := models.Tenant{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		PropertyID:      req.PropertyID,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		LeaseStart:      req.LeaseStart,
		LeaseEnd:        req.LeaseEnd,
		MoveIn:          req.MoveIn,
		MoveOut:         req.MoveOut,
	}
	if req.StartingBalance != nil {
		tenant.StartingBalance = *req.StartingBalance
		tenant.CurrentBalance = *req.StartingBalance
	}
	if err := db.Create(&tenant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": tenant.ID})
}

func getTenantHandler(c *gin.Context) {
	var tenant models.Tenant
	if err := db.Preload("Property").First(&tenant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func updateTenantHandler(c *gin.Context) {
	var tenant models.Tenant
	if err := db.First(&tenant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tenant.Name = req.Name
	tenant.Email = req.Email
	tenant.Phone = req.Phone
	tenant.PropertyID = req.PropertyID // nil vacates the tenant
	tenant.MonthlyRent = req.MonthlyRent
	tenant.SecurityDeposit = req.SecurityDeposit
	if req.StartingBalance != nil {
		tenant.StartingBalance = *req.StartingBalance
	}
	tenant.LeaseStart = req.LeaseStart
	tenant.LeaseEnd = req.LeaseEnd
	tenant.MoveIn = req.MoveIn
	tenant.MoveOut = req.MoveOut
	if err := db.Save(&tenant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func deleteTenantHandler(c *gin.Context) {
	var tenant models.Tenant
	if err := db.First(&tenant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := db.Delete(&tenant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// --- tenant notes ---

func listTenantNotesHandler(c *gin.Context) {
	var notes []models.TenantNote
	if err := db.Where("tenant_id = ? AND deleted = ?", c.Param("id"), false).
		Order("created_at desc").Find(&notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, notes)
}

func createTenantNoteHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var tenant models.Tenant
	if err := db.First(&tenant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note := models.TenantNote{TenantID: tenant.ID, Content: req.Content, CreatedBy: user.ID}
	if err := db.Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": note.ID})
}

// deleteTenantNoteHandler soft-deletes: notes are flagged, never removed.
func deleteTenantNoteHandler(c *gin.Context) {
	var note models.TenantNote
	if err := db.Where("tenant_id = ?", c.Param("id")).First(&note, c.Param("noteID")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	note.Deleted = true
	if err := db.Save(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// --- transaction types ---

func listTransactionTypesHandler(c *gin.Context) {
	var types []models.TransactionType
	if err := db.Order("id").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, types)
}

// --- transactions ---

type transactionRequest struct {
	PropertyID    *uint           `json:"property_id"`
	TenantID      *uint           `json:"tenant_id"`
	TypeID        uint            `json:"type_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date" binding:"required"` // 2006-01-02
	UnitReference string          `json:"unit_reference"`
	InvoiceNumber string          `json:"invoice_number"`
	Notes         string          `json:"notes"`
}

func listTransactionsHandler(c *gin.Context) {
	var txs []models.Transaction
	q := db.Preload("Type").Order("date desc, id desc").Limit(500)
	if propID := c.Query("property_id"); propID != "" {
		q = q.Where("property_id = ?", propID)
	}
	if tenantID := c.Query("tenant_id"); tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}
	if ownerID := c.Query("owner_id"); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if err := q.Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, txs)
}

func createTransactionHandler(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be zero"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	tx := models.Transaction{
		PropertyID:    req.PropertyID,
		TenantID:      req.TenantID,
		TypeID:        req.TypeID,
		Amount:        req.Amount,
		Date:          date,
		UnitReference: req.UnitReference,
		InvoiceNumber: req.InvoiceNumber,
		Notes:         req.Notes,
		IsManualEdit:  true,
	}
	if err := store.InsertTransaction(c.Request.Context(), &tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": tx.ID})
}

func getTransactionHandler(c *gin.Context) {
	var tx models.Transaction
	if err := db.Preload("Type").Preload("Property").Preload("Tenant").Preload("Owner").
		First(&tx, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func updateTransactionHandler(c *gin.Context) {
	var tx models.Transaction
	if err := db.First(&tx, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	before := tx
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be zero"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	tx.PropertyID = req.PropertyID
	tx.TenantID = req.TenantID
	tx.TypeID = req.TypeID
	tx.Amount = req.Amount
	tx.Date = date
	tx.UnitReference = req.UnitReference
	tx.InvoiceNumber = req.InvoiceNumber
	tx.Notes = req.Notes
	tx.IsManualEdit = true
	if err := store.UpdateTransaction(c.Request.Context(), &before, &tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func deleteTransactionHandler(c *gin.Context) {
	var tx models.Transaction
	if err := db.First(&tx, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := store.DeleteTransaction(c.Request.Context(), &tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// addRentPaymentHandler records a rent payment against a tenant without
// the caller needing the seeded type id.
func addRentPaymentHandler(c *gin.Context) {
	var req struct {
		TenantID      uint            `json:"tenant_id" binding:"required"`
		PropertyID    uint            `json:"property_id" binding:"required"`
		Amount        decimal.Decimal `json:"amount"`
		Date          string          `json:"date" binding:"required"`
		InvoiceNumber string          `json:"invoice_number"`
		Notes         string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be zero"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	tt, err := store.TransactionTypeByName(c.Request.Context(), "Rent Payment")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction type missing"})
		return
	}
	// Payments reduce the balance owed; force the sign.
	tx := models.Transaction{
		TenantID:      &req.TenantID,
		PropertyID:    &req.PropertyID,
		TypeID:        tt.ID,
		Amount:        req.Amount.Abs().Neg(),
		Date:          date,
		InvoiceNumber: req.InvoiceNumber,
		Notes:         req.Notes,
		IsManualEdit:  true,
	}
	if err := store.InsertTransaction(c.Request.Context(), &tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": tx.ID})
}

// addExpenseHandler records a property expense. Expenses come out of the
// owner's funds, so the sign is forced negative.
func addExpenseHandler(c *gin.Context) {
	var req struct {
		PropertyID uint            `json:"property_id" binding:"required"`
		Amount     decimal.Decimal `json:"amount"`
		Date       string          `json:"date" binding:"required"`
		Notes      string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be zero"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	tt, err := store.TransactionTypeByName(c.Request.Context(), "Expense")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction type missing"})
		return
	}
	tx := models.Transaction{
		PropertyID:   &req.PropertyID,
		TypeID:       tt.ID,
		Amount:       req.Amount.Abs().Neg(),
		Date:         date,
		Notes:        req.Notes,
		IsManualEdit: true,
	}
	if err := store.InsertTransaction(c.Request.Context(), &tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": tx.ID})
}

// applyFeesHandler derives management/lease fees for a recorded
// transaction and writes each nonzero fee as its own transaction. The
// importer never does this; fee application is always this explicit call.
func applyFeesHandler(c *gin.Context) {
	var tx models.Transaction
	if err := db.Preload("Type").First(&tx, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if tx.PropertyID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction has no property"})
		return
	}
	var prop models.Property
	if err := db.First(&prop, *tx.PropertyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	mgmtFee := ledger.ManagementFee(tx.Amount.Abs(), tx.Type.Name, prop)
	leaseFee := ledger.LeaseFee(tx.Amount, tx.Type.Name, prop)

	recorded := make([]uint, 0, 2)
	record := func(typeName string, amount decimal.Decimal) bool {
		tt, err := store.TransactionTypeByName(c.Request.Context(), typeName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction type missing"})
			return false
		}
		fee := models.Transaction{
			PropertyID: tx.PropertyID,
			OwnerID:    prop.OwnerID,
			TypeID:     tt.ID,
			Amount:     amount,
			Date:       tx.Date,
			Notes:      "derived from transaction " + c.Param("id"),
		}
		if err := store.InsertTransaction(c.Request.Context(), &fee); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return false
		}
		recorded = append(recorded, fee.ID)
		return true
	}
	if mgmtFee.IsPositive() {
		if !record("Management Fee", mgmtFee) {
			return
		}
	}
	if leaseFee.IsPositive() {
		if !record("Lease Fee", leaseFee) {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"management_fee": mgmtFee,
		"lease_fee":      leaseFee,
		"recorded_ids":   recorded,
	})
}

// --- ledgers and reports ---

func parseRangeParams(c *gin.Context) (*time.Time, *time.Time, bool) {
	var from, to *time.Time
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
			return nil, nil, false
		}
		from = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
			return nil, nil, false
		}
		to = &t
	}
	return from, to, true
}

func tenantLedgerHandler(c *gin.Context) {
	var tenant models.Tenant
	if err := db.First(&tenant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	from, to, ok := parseRangeParams(c)
	if !ok {
		return
	}
	var txs []models.Transaction
	if err := db.Preload("Type").Where("tenant_id = ?", tenant.ID).Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	entries := ledger.Compute(tenant.StartingBalance, ledger.FilterRange(txs, from, to), ledger.DefaultAllowedTypes())
	final := tenant.StartingBalance
	if len(entries) > 0 {
		final = entries[len(entries)-1].RunningBalance
	}
	c.JSON(http.StatusOK, gin.H{
		"tenant_id":        tenant.ID,
		"starting_balance": tenant.StartingBalance,
		"entries":          entries,
		"final_balance":    final,
	})
}

// propertyLedgerHandler runs the same fold over every transaction type;
// property balances include management fees and draws.
func propertyLedgerHandler(c *gin.Context) {
	var prop models.Property
	if err := db.First(&prop, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	from, to, ok := parseRangeParams(c)
	if !ok {
		return
	}
	var types []models.TransactionType
	if err := db.Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	allNames := make([]string, len(types))
	for i, t := range types {
		allNames[i] = t.DisplayName
	}
	var txs []models.Transaction
	if err := db.Preload("Type").Where("property_id = ?", prop.ID).Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	entries := ledger.Compute(decimal.Zero, ledger.FilterRange(txs, from, to), allNames)
	final := decimal.Zero
	if len(entries) > 0 {
		final = entries[len(entries)-1].RunningBalance
	}
	c.JSON(http.StatusOK, gin.H{
		"property_id":   prop.ID,
		"entries":       entries,
		"final_balance": final,
	})
}

func ownerStatementHandler(c *gin.Context) {
	var owner models.Owner
	if err := db.First(&owner, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	from, to, ok := parseRangeParams(c)
	if !ok {
		return
	}
	var props []models.Property
	if err := db.Preload("Tenants").Where("owner_id = ?", owner.ID).Find(&props).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	statements := make([]ledger.PropertyStatement, 0, len(props))
	for _, prop := range props {
		var txs []models.Transaction
		if err := db.Preload("Type").Where("property_id = ?", prop.ID).Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		previous := decimal.Zero
		if len(prop.Tenants) > 0 {
			previous = prop.Tenants[0].CurrentBalance
		}
		statements = append(statements, ledger.BuildPropertyStatement(prop, previous, ledger.FilterRange(txs, from, to)))
	}
	c.JSON(http.StatusOK, gin.H{
		"owner_id":   owner.ID,
		"owner_name": owner.Name,
		"statements": statements,
	})
}
