package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paysecure/internal/adapters/http/handlers"
	"paysecure/internal/adapters/http/middleware"
	"paysecure/internal/adapters/revocation"
	"paysecure/internal/config"
	"paysecure/internal/pkg/jwt"
	"paysecure/internal/pkg/password"
	"paysecure/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	password.SetCost(bcrypt.MinCost)
}

func testConfig() *config.Config {
	generous := config.Limit{Max: 1000, Window: time.Minute}
	return &config.Config{
		AppMode: "dev",
		RateLimit: config.RateLimitConfig{
			Login:    generous,
			Register: generous,
			API:      generous,
			Payment:  generous,
		},
		Security: config.SecurityConfig{
			AllowedOrigins: "http://localhost:3000",
			CSRFRequired:   true,
			CSRFHeader:     "X-Requested-With",
			BodyLimit:      10 * 1024,
		},
		SuperAdmin: config.SuperAdminConfig{Username: "root_admin", Password: "rootpass1"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()

	customerIssuer, err := jwt.NewIssuer("customer-test-secret", jwt.AudienceCustomer, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	staffIssuer, err := jwt.NewIssuer("staff-test-secret", jwt.AudienceStaff, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	users := testutil.NewUserRepo()
	employees := testutil.NewEmployeeRepo()
	if err := config.SeedSuperAdmin(context.Background(), employees, cfg.SuperAdmin); err != nil {
		t.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    cfg.Security.BodyLimit,
	})
	middleware.Setup(app, cfg)
	Setup(app, cfg, Dependencies{
		Users:               users,
		Employees:           employees,
		Payments:            testutil.NewPaymentRepo(users),
		CustomerIssuer:      customerIssuer,
		StaffIssuer:         staffIssuer,
		CustomerRevocations: revocation.NewMemoryStore(),
		StaffRevocations:    revocation.NewMemoryStore(),
		HealthChecks: []handlers.HealthCheck{
			{Name: "database", Check: func(context.Context) error { return nil }},
		},
	})
	return app
}

type result struct {
	status int
	body   map[string]interface{}
}

func call(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) result {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	out := result{status: resp.StatusCode, body: map[string]interface{}{}}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out.body)
	return out
}

func register(t *testing.T, app *fiber.App, name, account string) string {
	t.Helper()
	res := call(t, app, http.MethodPost, "/api/register", "", fiber.Map{
		"fullName":        name,
		"accountNumber":   account,
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	if res.status != http.StatusCreated {
		t.Fatalf("register %s: %d %v", account, res.status, res.body)
	}
	return res.body["token"].(string)
}

func staffLogin(t *testing.T, app *fiber.App, username, pw string) string {
	t.Helper()
	res := call(t, app, http.MethodPost, "/api/employee/auth/login", "", fiber.Map{"username": username, "password": pw})
	if res.status != http.StatusOK {
		t.Fatalf("staff login %s: %d %v", username, res.status, res.body)
	}
	return res.body["token"].(string)
}

func createPayment(t *testing.T, app *fiber.App, token string, amount float64) uint {
	t.Helper()
	res := call(t, app, http.MethodPost, "/api/payments", token, fiber.Map{"amount": amount, "paymentMethod": "credit_card"})
	if res.status != http.StatusCreated {
		t.Fatalf("create payment: %d %v", res.status, res.body)
	}
	return uint(res.body["payment"].(map[string]interface{})["id"].(float64))
}

func TestCustomerSessionLifecycle(t *testing.T) {
	app := newTestApp(t, testConfig())

	register(t, app, "Jane Doe", "1234567890")

	login := call(t, app, http.MethodPost, "/api/login", "", fiber.Map{"fullName": "Jane Doe", "accountNumber": "1234567890", "password": "secret123"})
	if login.status != http.StatusOK || login.body["success"] != true {
		t.Fatalf("login: %d %v", login.status, login.body)
	}
	token := login.body["token"].(string)

	list := call(t, app, http.MethodGet, "/api/payments", token, nil)
	if list.status != http.StatusOK {
		t.Fatalf("list: %d %v", list.status, list.body)
	}
	if payments, _ := list.body["payments"].([]interface{}); len(payments) != 0 {
		t.Fatalf("expected no payments, got %v", payments)
	}

	created := call(t, app, http.MethodPost, "/api/payments", token, fiber.Map{"amount": 100, "paymentMethod": "credit_card"})
	if created.status != http.StatusCreated {
		t.Fatalf("create: %d %v", created.status, created.body)
	}
	payment := created.body["payment"].(map[string]interface{})
	if payment["status"] != "pending" || payment["currency"] != "USD" {
		t.Errorf("unexpected payment %v", payment)
	}

	if res := call(t, app, http.MethodPost, "/api/logout", token, nil); res.status != http.StatusOK {
		t.Fatalf("logout: %d %v", res.status, res.body)
	}

	after := call(t, app, http.MethodGet, "/api/payments", token, nil)
	if after.status != http.StatusUnauthorized || after.body["message"] != "Token has been invalidated" {
		t.Fatalf("after logout: %d %v", after.status, after.body)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t, testConfig())

	res := call(t, app, http.MethodPost, "/api/register", "", fiber.Map{
		"fullName":        "Jane Doe",
		"accountNumber":   "12345",
		"password":        "secret123",
		"confirmPassword": "different",
	})
	if res.status != http.StatusBadRequest || res.body["message"] != "Validation failed" {
		t.Fatalf("got %d %v", res.status, res.body)
	}
	if errs, _ := res.body["errors"].([]interface{}); len(errs) != 2 {
		t.Fatalf("expected accountNumber and confirmPassword errors, got %v", res.body["errors"])
	}

	register(t, app, "Jane Doe", "1234567890")
	dup := call(t, app, http.MethodPost, "/api/register", "", fiber.Map{
		"fullName":        "Other Person",
		"accountNumber":   "1234567890",
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	if dup.status != http.StatusBadRequest {
		t.Fatalf("duplicate account: %d %v", dup.status, dup.body)
	}
}

func TestLoginFailureMessageIsUniform(t *testing.T) {
	app := newTestApp(t, testConfig())
	register(t, app, "Jane Doe", "1234567890")

	wrong := call(t, app, http.MethodPost, "/api/login", "", fiber.Map{"fullName": "Jane Doe", "accountNumber": "1234567890", "password": "badpass1"})
	unknown := call(t, app, http.MethodPost, "/api/login", "", fiber.Map{"fullName": "Jane Doe", "accountNumber": "0000000000", "password": "secret123"})
	nameMismatch := call(t, app, http.MethodPost, "/api/login", "", fiber.Map{"fullName": "Mallory Nobody", "accountNumber": "1234567890", "password": "secret123"})

	for _, res := range []result{wrong, unknown, nameMismatch} {
		if res.status != http.StatusUnauthorized || res.body["message"] != "Invalid credentials" {
			t.Fatalf("got %d %v", res.status, res.body)
		}
	}
}

func TestPaymentOwnershipIsHidden(t *testing.T) {
	app := newTestApp(t, testConfig())
	alice := register(t, app, "Alice", "1111111111")
	bob := register(t, app, "Bob", "2222222222")

	id := createPayment(t, app, alice, 50)
	path := "/api/payments/" + itoa(id)

	if res := call(t, app, http.MethodGet, path, bob, nil); res.status != http.StatusNotFound {
		t.Errorf("bob reads alice's payment: %d", res.status)
	}
	if res := call(t, app, http.MethodDelete, path, bob, nil); res.status != http.StatusNotFound {
		t.Errorf("bob deletes alice's payment: %d", res.status)
	}
	if res := call(t, app, http.MethodGet, path, alice, nil); res.status != http.StatusOK {
		t.Errorf("alice reads her payment: %d", res.status)
	}

	settle := call(t, app, http.MethodPut, path+"/status", alice, fiber.Map{"status": "completed"})
	if settle.status != http.StatusOK {
		t.Fatalf("settle: %d %v", settle.status, settle.body)
	}
	again := call(t, app, http.MethodPut, path+"/status", alice, fiber.Map{"status": "failed"})
	if again.status != http.StatusBadRequest {
		t.Fatalf("completed -> failed should be rejected: %d %v", again.status, again.body)
	}
}

func TestOwnerRefundsPendingPayment(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := register(t, app, "Jane Doe", "1234567890")
	path := "/api/payments/" + itoa(createPayment(t, app, token, 75))

	refund := call(t, app, http.MethodPut, path+"/status", token, fiber.Map{"status": "refunded"})
	if refund.status != http.StatusOK {
		t.Fatalf("refund pending: %d %v", refund.status, refund.body)
	}
	if got := refund.body["payment"].(map[string]interface{})["status"]; got != "refunded" {
		t.Fatalf("expected refunded, got %v", got)
	}
}

func TestCreatePaymentNormalisesCurrency(t *testing.T) {
	app := newTestApp(t, testConfig())
	token := register(t, app, "Jane Doe", "1234567890")

	res := call(t, app, http.MethodPost, "/api/payments", token, fiber.Map{"amount": 20, "currency": " eur ", "paymentMethod": "paypal"})
	if res.status != http.StatusCreated {
		t.Fatalf("lowercase currency: %d %v", res.status, res.body)
	}
	if got := res.body["payment"].(map[string]interface{})["currency"]; got != "EUR" {
		t.Errorf("expected EUR, got %v", got)
	}

	if bad := call(t, app, http.MethodPost, "/api/payments", token, fiber.Map{"amount": 20, "currency": "euro", "paymentMethod": "paypal"}); bad.status != http.StatusBadRequest {
		t.Errorf("four-letter currency: %d %v", bad.status, bad.body)
	}
}

func TestStaffWorkflow(t *testing.T) {
	app := newTestApp(t, testConfig())
	customer := register(t, app, "Jane Doe", "1234567890")
	paymentID := createPayment(t, app, customer, 75)

	root := staffLogin(t, app, "root_admin", "rootpass1")

	created := call(t, app, http.MethodPost, "/api/employee/admin/employees", root, fiber.Map{"username": "teller_one", "password": "tellerpass"})
	if created.status != http.StatusCreated {
		t.Fatalf("create employee: %d %v", created.status, created.body)
	}
	teller := staffLogin(t, app, "teller_one", "tellerpass")

	// Customer tokens never open staff routes and vice versa
	if res := call(t, app, http.MethodGet, "/api/employee/payments/pending", customer, nil); res.status != http.StatusForbidden {
		t.Errorf("customer on staff route: %d", res.status)
	}
	if res := call(t, app, http.MethodGet, "/api/payments", teller, nil); res.status != http.StatusForbidden {
		t.Errorf("teller on customer route: %d", res.status)
	}
	if res := call(t, app, http.MethodGet, "/api/employee/admin/employees", teller, nil); res.status != http.StatusForbidden {
		t.Errorf("teller on admin route: %d", res.status)
	}

	pending := call(t, app, http.MethodGet, "/api/employee/payments/pending", teller, nil)
	if items, _ := pending.body["payments"].([]interface{}); pending.status != http.StatusOK || len(items) != 1 {
		t.Fatalf("pending: %d %v", pending.status, pending.body)
	}

	processPath := "/api/employee/payments/" + itoa(paymentID) + "/process"
	approve := call(t, app, http.MethodPost, processPath, teller, fiber.Map{"action": "approve"})
	if approve.status != http.StatusOK {
		t.Fatalf("approve: %d %v", approve.status, approve.body)
	}
	p := approve.body["payment"].(map[string]interface{})
	if p["status"] != "approved" || p["processedBy"] == nil || p["processedAt"] == nil {
		t.Errorf("decision not recorded: %v", p)
	}

	conflict := call(t, app, http.MethodPost, processPath, root, fiber.Map{"action": "deny"})
	if conflict.status != http.StatusBadRequest || conflict.body["message"] != "Payment has already been processed" {
		t.Fatalf("second decision: %d %v", conflict.status, conflict.body)
	}

	history := call(t, app, http.MethodGet, "/api/employee/payments/history?status=approved", teller, nil)
	if items, _ := history.body["payments"].([]interface{}); history.status != http.StatusOK || len(items) != 1 {
		t.Fatalf("history: %d %v", history.status, history.body)
	}

	if res := call(t, app, http.MethodPost, "/api/employee/auth/logout", teller, nil); res.status != http.StatusOK {
		t.Fatalf("staff logout: %d", res.status)
	}
	if res := call(t, app, http.MethodGet, "/api/employee/auth/me", teller, nil); res.status != http.StatusUnauthorized {
		t.Errorf("revoked staff token: %d", res.status)
	}
}

func TestEmployeeAdministrationRules(t *testing.T) {
	app := newTestApp(t, testConfig())
	root := staffLogin(t, app, "root_admin", "rootpass1")

	admin := call(t, app, http.MethodPost, "/api/employee/admin/employees", root, fiber.Map{"username": "deputy", "password": "deputypass", "role": "admin"})
	if admin.status != http.StatusCreated {
		t.Fatalf("root creates admin: %d %v", admin.status, admin.body)
	}
	deputy := staffLogin(t, app, "deputy", "deputypass")
	deputyID := uint(admin.body["employee"].(map[string]interface{})["id"].(float64))

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"admin cannot create admin", http.MethodPost, "/api/employee/admin/employees", deputy, fiber.Map{"username": "third", "password": "thirdpass", "role": "admin"}, http.StatusForbidden},
		{"duplicate username", http.MethodPost, "/api/employee/admin/employees", deputy, fiber.Map{"username": "deputy", "password": "deputypass"}, http.StatusBadRequest},
		{"cannot delete self", http.MethodDelete, "/api/employee/admin/employees/" + itoa(deputyID), deputy, nil, http.StatusBadRequest},
		{"cannot delete super admin", http.MethodDelete, "/api/employee/admin/employees/1", deputy, nil, http.StatusForbidden},
		{"missing employee", http.MethodDelete, "/api/employee/admin/employees/999", deputy, nil, http.StatusNotFound},
		{"root deletes admin", http.MethodDelete, "/api/employee/admin/employees/" + itoa(deputyID), root, nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := call(t, app, tc.method, tc.path, tc.token, tc.body)
			if res.status != tc.status {
				t.Fatalf("status = %d, want %d (%v)", res.status, tc.status, res.body)
			}
		})
	}
}

func TestLoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Login = config.Limit{Max: 5, Window: 15 * time.Minute}
	app := newTestApp(t, cfg)

	var last result
	for i := 0; i < 7; i++ {
		last = call(t, app, http.MethodPost, "/api/login", "", fiber.Map{"fullName": "Jane Doe", "accountNumber": "1234567890", "password": "whatever1"})
		if i < 5 && last.status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: %d", i+1, last.status)
		}
	}
	if last.status != http.StatusTooManyRequests {
		t.Fatalf("7th attempt: %d %v", last.status, last.body)
	}
}

func TestCrossCuttingResponses(t *testing.T) {
	app := newTestApp(t, testConfig())

	if res := call(t, app, http.MethodGet, "/api/does-not-exist", "", nil); res.status != http.StatusNotFound || res.body["error"] != "Route not found" {
		t.Errorf("unknown route: %d %v", res.status, res.body)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("POST without X-Requested-With: %d", resp.StatusCode)
	}

	big := make([]byte, 20*1024)
	for i := range big {
		big[i] = 'a'
	}
	if res := call(t, app, http.MethodPost, "/api/login", "", fiber.Map{"fullName": "Jane Doe", "accountNumber": "1234567890", "password": string(big)}); res.status != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body: %d", res.status)
	}

	if res := call(t, app, http.MethodGet, "/health", "", nil); res.status != http.StatusOK || res.body["status"] != "ok" {
		t.Errorf("health: %d %v", res.status, res.body)
	}

	metrics := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err = app.Test(metrics, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !bytes.Contains(raw, []byte("paysecure_")) {
		t.Errorf("metrics endpoint: %d", resp.StatusCode)
	}
}

func itoa(id uint) string {
	return fmt.Sprint(id)
}
