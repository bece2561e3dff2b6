package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paysecure/internal/adapters/revocation"
	"paysecure/internal/config"
	"paysecure/internal/core/policy"
	"paysecure/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func mustIssuer(t *testing.T, secret, audience string) *jwt.Issuer {
	t.Helper()
	iss, err := jwt.NewIssuer(secret, audience, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return iss
}

func mustIssue(t *testing.T, iss *jwt.Issuer, p jwt.Principal) string {
	t.Helper()
	token, _, err := iss.Issue(p)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	body := map[string]interface{}{}
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func get(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthMiddleware(t *testing.T) {
	customer := mustIssuer(t, "customer-secret", jwt.AudienceCustomer)
	staff := mustIssuer(t, "staff-secret", jwt.AudienceStaff)
	customerStore := revocation.NewMemoryStore()
	staffStore := revocation.NewMemoryStore()

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	ok := func(c *fiber.Ctx) error {
		id, _ := UserIDFrom(c)
		return c.JSON(fiber.Map{"id": id, "role": c.Locals(LocalRole)})
	}
	app.Get("/customer", CustomerAuth(customer, customerStore), ok)
	app.Get("/staff", StaffAuth(staff, staffStore), ok)
	app.Get("/admin", StaffAuth(staff, staffStore), RequireCapability(policy.ManageEmployees), ok)

	customerToken := mustIssue(t, customer, jwt.Principal{ID: 1, DisplayName: "Ada", AccountNumber: "1234567890"})
	employeeToken := mustIssue(t, staff, jwt.Principal{ID: 2, DisplayName: "teller", Role: "employee", Type: jwt.TypeEmployee})
	adminToken := mustIssue(t, staff, jwt.Principal{ID: 3, DisplayName: "boss", Role: "admin", Type: jwt.TypeEmployee})
	untypedToken := mustIssue(t, staff, jwt.Principal{ID: 4, DisplayName: "ghost", Role: "admin"})

	revokedToken := mustIssue(t, customer, jwt.Principal{ID: 5, DisplayName: "Bob", AccountNumber: "0987654321"})
	if err := customerStore.Revoke(context.Background(), revokedToken, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		req     *http.Request
		status  int
		message string
	}{
		{"no header", get("/customer", ""), 401, "Access denied. No token provided."},
		{"not bearer", func() *http.Request {
			r := get("/customer", "")
			r.Header.Set("Authorization", "Basic abc")
			return r
		}(), 401, "Access denied. No token provided."},
		{"garbage token", get("/customer", "not-a-jwt"), 403, "Invalid or expired token"},
		{"revoked", get("/customer", revokedToken), 401, "Token has been invalidated"},
		{"customer ok", get("/customer", customerToken), 200, ""},
		{"customer token on staff route", get("/staff", customerToken), 403, "Invalid or expired token"},
		{"staff token on customer route", get("/customer", employeeToken), 403, "Invalid or expired token"},
		{"staff token without type", get("/staff", untypedToken), 403, "Invalid token type"},
		{"employee ok", get("/staff", employeeToken), 200, ""},
		{"employee lacks capability", get("/admin", employeeToken), 403, "Insufficient permissions"},
		{"admin has capability", get("/admin", adminToken), 200, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, app, tc.req)
			if status != tc.status {
				t.Fatalf("status = %d, want %d (%v)", status, tc.status, body)
			}
			if tc.message != "" && body["message"] != tc.message {
				t.Errorf("message = %v, want %q", body["message"], tc.message)
			}
		})
	}

	_, body := do(t, app, get("/customer", customerToken))
	if body["role"] != "user" || body["id"] != float64(1) {
		t.Errorf("customer locals not set: %v", body)
	}
}

type failingStore struct{}

func (failingStore) Revoke(context.Context, string, time.Time) error { return nil }
func (failingStore) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("store offline")
}

func TestAuthMiddlewareStoreFailureIsGeneric500(t *testing.T) {
	iss := mustIssuer(t, "customer-secret", jwt.AudienceCustomer)
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/customer", CustomerAuth(iss, failingStore{}), func(c *fiber.Ctx) error { return c.SendStatus(200) })

	status, body := do(t, app, get("/customer", mustIssue(t, iss, jwt.Principal{ID: 1})))
	if status != 500 || body["error"] != "Something went wrong!" {
		t.Fatalf("got %d %v", status, body)
	}
}

func TestLoginRateLimiter(t *testing.T) {
	cfg := &config.Config{RateLimit: config.RateLimitConfig{Login: config.Limit{Max: 5, Window: 15 * time.Minute}}}
	app := fiber.New()
	app.Post("/login", LoginRateLimiter(cfg), func(c *fiber.Ctx) error { return c.SendStatus(401) })

	statuses := make([]int, 0, 7)
	for i := 0; i < 7; i++ {
		status, _ := do(t, app, httptest.NewRequest(http.MethodPost, "/login", nil))
		statuses = append(statuses, status)
	}
	for i, s := range statuses {
		want := 401
		if i >= 5 {
			want = 429
		}
		if s != want {
			t.Fatalf("attempt %d: status %d, want %d (all: %v)", i+1, s, want, statuses)
		}
	}
}

func TestPaymentRateLimiterSkipsReads(t *testing.T) {
	cfg := &config.Config{RateLimit: config.RateLimitConfig{Payment: config.Limit{Max: 1, Window: time.Minute}}}
	app := fiber.New()
	h := func(c *fiber.Ctx) error { return c.SendStatus(200) }
	app.Use(PaymentRateLimiter(cfg))
	app.Get("/p", h)
	app.Post("/p", h)

	for i := 0; i < 3; i++ {
		if status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/p", nil)); status != 200 {
			t.Fatalf("GET %d limited: %d", i, status)
		}
	}
	if status, _ := do(t, app, httptest.NewRequest(http.MethodPost, "/p", nil)); status != 200 {
		t.Fatalf("first POST: %d", status)
	}
	if status, _ := do(t, app, httptest.NewRequest(http.MethodPost, "/p", nil)); status != 429 {
		t.Fatalf("second POST should be limited, got %d", status)
	}
}

func TestRequireHeader(t *testing.T) {
	app := fiber.New()
	app.Use(RequireHeader("X-Requested-With"))
	h := func(c *fiber.Ctx) error { return c.SendStatus(200) }
	app.Get("/x", h)
	app.Post("/x", h)

	if status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/x", nil)); status != 200 {
		t.Errorf("GET should pass without header, got %d", status)
	}
	if status, _ := do(t, app, httptest.NewRequest(http.MethodPost, "/x", nil)); status != 403 {
		t.Errorf("POST without header should be 403, got %d", status)
	}
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if status, _ := do(t, app, req); status != 200 {
		t.Errorf("POST with header should pass, got %d", status)
	}
}

func TestErrorHandlerAndNotFound(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db password leaked in message") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Use(NotFound)

	status, body := do(t, app, get("/boom", ""))
	if status != 500 || body["error"] != "Something went wrong!" {
		t.Errorf("boom: %d %v", status, body)
	}
	status, body = do(t, app, get("/teapot", ""))
	if status != fiber.StatusTeapot || body["error"] != "short and stout" {
		t.Errorf("teapot: %d %v", status, body)
	}
	status, body = do(t, app, get("/nope", ""))
	if status != 404 || body["error"] != "Route not found" {
		t.Errorf("not found: %d %v", status, body)
	}
}
