package connection_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"civicreport/configs"
	"civicreport/connection"
	"civicreport/model"
	"civicreport/services"
	"civicreport/testutil"

	"github.com/gin-gonic/gin"
)

var secret = []byte("scenario-secret")

// MockProvider confirms every session as paid for one payment intent.
type MockProvider struct {
	reportID string
}

func (m *MockProvider) CreateSession(_ context.Context, req services.CheckoutRequest) (*services.CheckoutSession, error) {
	m.reportID = req.ReportID
	return &services.CheckoutSession{ID: "cs_1", URL: "https://checkout.example/cs_1"}, nil
}

func (m *MockProvider) GetSession(_ context.Context, id string) (*services.CheckoutSession, error) {
	return &services.CheckoutSession{
		ID:            id,
		PaymentStatus: "paid",
		TransactionID: "tx_1",
		ReportID:      m.reportID,
		Name:          "Broken streetlight",
		Email:         "a@x.com",
		Amount:        100,
		Currency:      "usd",
	}, nil
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c client) do(method, path string, body any, email string) (int, map[string]any, []byte) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		token, err := testutil.SignToken(secret, email)
		if err != nil {
			c.t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var obj map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &obj)
	return w.Code, obj, w.Body.Bytes()
}

func newClient(t *testing.T) (client, *MockProvider) {
	gin.SetMode(gin.TestMode)
	store := testutil.NewStore(t)
	provider := &MockProvider{}
	cfg := &configs.Config{
		SiteDomain:      "https://civic.example",
		PriorityFee:     100,
		PriorityFeeCurr: "usd",
		RequestTimeout:  5 * time.Second,
	}
	router := connection.NewRouter(cfg, connection.Deps{
		Store:    store,
		Provider: provider,
		Verifier: &services.JWTVerifier{Secret: secret},
	})

	admin := &model.User{Email: "admin@x.com", Role: model.RoleAdmin, CreatedAt: time.Now()}
	if _, err := store.Users.CreateIfMissing(context.Background(), admin); err != nil {
		t.Fatal(err)
	}
	return client{t: t, router: router}, provider
}

func TestLiveness(t *testing.T) {
	c, _ := newClient(t)
	code, body, _ := c.do(http.MethodGet, "/", nil, "")
	if code != http.StatusOK || body["message"] != "Api is running!" {
		t.Errorf("GET / = %d %v", code, body)
	}
}

func TestPaymentScenario(t *testing.T) {
	c, _ := newClient(t)

	code, body, _ := c.do(http.MethodPost, "/reports", map[string]string{
		"email":    "a@x.com",
		"issue":    "Broken streetlight",
		"category": "lighting",
		"location": "Main St",
	}, "")
	if code != http.StatusCreated {
		t.Fatalf("POST /reports = %d %v", code, body)
	}
	id, _ := body["insertedId"].(string)

	_, report, _ := c.do(http.MethodGet, "/reports/"+id, nil, "")
	if report["reportStatus"] != "Submitted" {
		t.Errorf("reportStatus = %v", report["reportStatus"])
	}

	code, body, _ = c.do(http.MethodPost, "/create-checkout-session", map[string]string{"reportId": id}, "")
	if code != http.StatusOK || body["url"] != "https://checkout.example/cs_1" {
		t.Fatalf("checkout = %d %v", code, body)
	}

	code, first, _ := c.do(http.MethodPatch, "/payment-success?session_id=cs_1", nil, "")
	if code != http.StatusOK || first["success"] != true {
		t.Fatalf("payment-success = %d %v", code, first)
	}
	tracking, _ := first["trackingId"].(string)
	if !regexp.MustCompile(`^PRCL-\d{8}-[0-9A-F]{6}$`).MatchString(tracking) {
		t.Errorf("trackingId = %q", tracking)
	}

	_, report, _ = c.do(http.MethodGet, "/reports/"+id, nil, "")
	if report["paymentStatus"] != "paid" || report["priority"] != "High-Priority" || report["trackingId"] != tracking {
		t.Errorf("report after payment = %v", report)
	}

	code, second, _ := c.do(http.MethodPatch, "/payment-success?session_id=cs_1", nil, "")
	if code != http.StatusOK || second["alreadyProcessed"] != true || second["trackingId"] != tracking {
		t.Errorf("second payment-success = %d %v", code, second)
	}

	code, _, raw := c.do(http.MethodGet, "/payments", nil, "a@x.com")
	var payments []model.Payment
	if err := json.Unmarshal(raw, &payments); err != nil || code != http.StatusOK {
		t.Fatalf("GET /payments = %d %s", code, raw)
	}
	if len(payments) != 1 || payments[0].TransactionID != "tx_1" {
		t.Errorf("payments = %+v", payments)
	}

	if code, _, _ := c.do(http.MethodGet, "/payments?email=a@x.com", nil, "b@x.com"); code != http.StatusForbidden {
		t.Errorf("foreign history = %d, want 403", code)
	}
	if code, _, _ := c.do(http.MethodGet, "/payments", nil, ""); code != http.StatusUnauthorized {
		t.Errorf("anonymous history = %d, want 401", code)
	}
	if code, _, _ := c.do(http.MethodPost, "/create-checkout-session", map[string]string{"reportId": id}, ""); code != http.StatusConflict {
		t.Errorf("checkout of a paid report = %d, want 409", code)
	}
}

func TestStaffScenario(t *testing.T) {
	c, _ := newClient(t)

	if code, _, _ := c.do(http.MethodPost, "/users", map[string]string{"email": "s@x.com"}, ""); code != http.StatusCreated {
		t.Fatalf("POST /users = %d", code)
	}
	code, body, _ := c.do(http.MethodPost, "/users", map[string]string{"email": "s@x.com"}, "")
	if code != http.StatusOK || body["message"] != "User already exists" {
		t.Errorf("second POST /users = %d %v", code, body)
	}

	code, body, _ = c.do(http.MethodPost, "/staffs", map[string]string{"name": "Sam", "email": "s@x.com"}, "")
	if code != http.StatusCreated {
		t.Fatalf("POST /staffs = %d %v", code, body)
	}
	staffID, _ := body["insertedId"].(string)

	decision := map[string]string{"status": "approved", "email": "s@x.com"}
	if code, _, _ := c.do(http.MethodPatch, "/staffs/"+staffID, decision, ""); code != http.StatusUnauthorized {
		t.Errorf("anonymous decision = %d, want 401", code)
	}
	if code, _, _ := c.do(http.MethodPatch, "/staffs/"+staffID, decision, "s@x.com"); code != http.StatusForbidden {
		t.Errorf("non-admin decision = %d, want 403", code)
	}
	code, body, _ = c.do(http.MethodPatch, "/staffs/"+staffID, decision, "admin@x.com")
	if code != http.StatusOK || body["roleUpgraded"] != true {
		t.Fatalf("admin decision = %d %v", code, body)
	}

	_, body, _ = c.do(http.MethodGet, "/users/s@x.com/role", nil, "")
	if body["role"] != "staff" {
		t.Errorf("role = %v, want staff", body["role"])
	}
	_, body, _ = c.do(http.MethodGet, "/users/nobody@x.com/role", nil, "")
	if body["role"] != "user" {
		t.Errorf("unknown role = %v, want user", body["role"])
	}

	_, created, _ := c.do(http.MethodPost, "/reports", map[string]string{
		"email": "a@x.com", "issue": "Pothole", "category": "roads", "location": "Elm",
	}, "")
	reportID, _ := created["insertedId"].(string)

	code, body, _ = c.do(http.MethodPatch, "/reports/"+reportID, map[string]string{"staffId": staffID}, "")
	if code != http.StatusOK || body["reportStatus"] != "In-Progress" || body["staffEmail"] != "s@x.com" {
		t.Fatalf("assign = %d %v", code, body)
	}
	_, _, raw := c.do(http.MethodGet, "/staffs?workStatus=working", nil, "")
	var working []model.Staff
	_ = json.Unmarshal(raw, &working)
	if len(working) != 1 || working[0].ID != staffID {
		t.Errorf("working staff = %+v", working)
	}

	code, body, _ = c.do(http.MethodPatch, "/reports/"+reportID+"/status", map[string]string{"reportStatus": "Solved", "staffId": staffID}, "")
	if code != http.StatusOK || body["reportStatus"] != "Solved" {
		t.Fatalf("solve = %d %v", code, body)
	}
	_, _, raw = c.do(http.MethodGet, "/staffs?workStatus=available", nil, "")
	var available []model.Staff
	_ = json.Unmarshal(raw, &available)
	if len(available) != 1 || available[0].ID != staffID {
		t.Errorf("available staff = %+v", available)
	}

	code, body, _ = c.do(http.MethodPatch, "/reports/"+reportID+"/status", map[string]string{"reportStatus": "Submitted"}, "")
	if code != http.StatusConflict || body["message"] == nil {
		t.Errorf("regression = %d %v, want 409", code, body)
	}
}

func TestReportQueries(t *testing.T) {
	c, _ := newClient(t)
	for _, r := range []map[string]string{
		{"email": "a@x.com", "issue": "Broken streetlight", "category": "pothole", "location": "Main St"},
		{"email": "b@x.com", "issue": "Deep hole", "category": "pothole", "location": "broken bridge"},
		{"email": "a@x.com", "issue": "Broken bench", "category": "parks", "location": "Central"},
	} {
		if code, _, _ := c.do(http.MethodPost, "/reports", r, ""); code != http.StatusCreated {
			t.Fatalf("POST /reports = %d", code)
		}
	}

	_, _, raw := c.do(http.MethodGet, "/reports?category=pothole&search=BROKEN", nil, "")
	var found []model.Report
	if err := json.Unmarshal(raw, &found); err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 {
		t.Errorf("filtered reports = %d, want 2", len(found))
	}
	for _, r := range found {
		if r.Category != "pothole" {
			t.Errorf("category = %s", r.Category)
		}
	}

	if code, _, _ := c.do(http.MethodGet, "/reports?reportStatus=Closed", nil, ""); code != http.StatusBadRequest {
		t.Errorf("bad status filter = %d, want 400", code)
	}
	code, body, _ := c.do(http.MethodGet, "/reports/missing", nil, "")
	if code != http.StatusNotFound || body["message"] != "report not found" {
		t.Errorf("missing report = %d %v", code, body)
	}
	if code, _, _ := c.do(http.MethodDelete, "/reports/missing", nil, ""); code != http.StatusNotFound {
		t.Errorf("delete missing = %d, want 404", code)
	}

	_, _, raw = c.do(http.MethodGet, "/reports/latest", nil, "")
	var latest []model.Report
	_ = json.Unmarshal(raw, &latest)
	if len(latest) != 3 {
		t.Errorf("latest = %d, want 3", len(latest))
	}
}

func TestUserSearchNeedsAdmin(t *testing.T) {
	c, _ := newClient(t)
	if code, _, _ := c.do(http.MethodGet, "/users?searchUser=x", nil, "someone@x.com"); code != http.StatusForbidden {
		t.Errorf("non-admin search = %d, want 403", code)
	}
	code, _, raw := c.do(http.MethodGet, "/users?searchUser=ADMIN", nil, "admin@x.com")
	var users []model.User
	_ = json.Unmarshal(raw, &users)
	if code != http.StatusOK || len(users) != 1 {
		t.Errorf("admin search = %d %s", code, raw)
	}
}
