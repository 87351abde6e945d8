package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	storepkg "rentdesk/pkg/store"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	initDB()
	store = storepkg.NewStore(db)
	r := gin.Default()
	setupRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	return performRequest(r, http.MethodPost, path, bytes.NewBuffer(body), token, "application/json")
}

func decodeID(t *testing.T, resp *httptest.ResponseRecorder) uint {
	t.Helper()
	var out map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	id, ok := out["id"].(float64)
	if !ok {
		t.Fatalf("no id in response: %s", resp.Body.String())
	}
	return uint(id)
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register and login
	resp := postJSON(t, r, "/register", map[string]string{"username": "user1", "password": "pass1"}, "")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = postJSON(t, r, "/login", map[string]string{"username": "user1", "password": "pass1"}, "")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 2. Create owner, property, tenant
	resp = postJSON(t, r, "/owners", map[string]any{"name": "Flow Owner"}, token)
	if resp.Code != 200 {
		t.Fatalf("create owner failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	ownerID := decodeID(t, resp)

	resp = postJSON(t, r, "/properties", map[string]any{
		"address": "500 Flow Ave", "owner_id": ownerID,
		"rent_amount": "1200", "mgmt_fee_percentage": "8",
	}, token)
	if resp.Code != 200 {
		t.Fatalf("create property failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	propID := decodeID(t, resp)

	resp = postJSON(t, r, "/tenants", map[string]any{
		"name": "Flow Tenant", "property_id": propID, "monthly_rent": "1200",
	}, token)
	if resp.Code != 200 {
		t.Fatalf("create tenant failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	tenantID := decodeID(t, resp)

	// 3. Record a rent payment and read the ledger back
	resp = postJSON(t, r, "/transactions/rent-payment", map[string]any{
		"tenant_id": tenantID, "property_id": propID,
		"amount": "1200", "date": "2026-06-01",
	}, token)
	if resp.Code != 200 {
		t.Fatalf("rent payment failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/tenants/%d/ledger", tenantID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("tenant ledger failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 4. Zero amounts are rejected on the generic endpoint
	resp = postJSON(t, r, "/transactions", map[string]any{
		"property_id": propID, "type_id": 1, "amount": "0", "date": "2026-06-02",
	}, token)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero amount got %d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Import a CSV through the wizard
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField("mode", "tenant")
	w, _ := mw.CreateFormFile("file", "bank.csv")
	_, _ = w.Write([]byte("Date,Amount,Description,Property,Tenant,Type\n" +
		"06/15/2026,-1200.00,June rent,500 Flow Ave,Flow Tenant,Rent Payment\n"))
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, "/imports", buf, token, mw.FormDataContentType())
	if resp.Code != 200 {
		t.Fatalf("open import failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var sess map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &sess)
	sessID, _ := sess["id"].(string)
	if sessID == "" {
		t.Fatalf("no session id: %s", resp.Body.String())
	}
	counts, _ := sess["counts"].(map[string]any)
	if v, _ := counts["error"].(float64); v != 0 {
		t.Fatalf("expected no error rows, got counts=%v", counts)
	}

	resp = performRequest(r, http.MethodPost, "/imports/"+sessID+"/commit", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("commit failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Owner statement covers the imported payment
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/reports/owner-statements/%d", ownerID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("owner statement failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Unauthorized access to a protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/tenants", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list tenants got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
