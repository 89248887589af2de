package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"orderdesk-backend/backoffice"
	"orderdesk-backend/cart"
	"orderdesk-backend/desk"
	"orderdesk-backend/middleware"
	"orderdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stubBackoffice answers every call with an empty result.
type stubBackoffice struct{}

func (stubBackoffice) SearchProducts(context.Context, backoffice.Credentials, backoffice.ProductQuery) (backoffice.ProductPage, error) {
	return backoffice.ProductPage{Data: []backoffice.Product{}}, nil
}

func (stubBackoffice) SearchCustomers(context.Context, backoffice.Credentials, string) ([]backoffice.Customer, error) {
	return nil, nil
}

func (stubBackoffice) PaymentMethods(context.Context, backoffice.Credentials) ([]backoffice.PaymentMethod, error) {
	return []backoffice.PaymentMethod{{ID: 1, Name: "Cash"}}, nil
}

func (stubBackoffice) CreateOrder(context.Context, backoffice.Credentials, cart.Submission) (backoffice.OrderResult, error) {
	return backoffice.OrderResult{OrderID: 1}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-for-routes")
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r := gin.New()
	SetupRoutes(r, Dependencies{
		Sessions:      desk.NewStore(cart.Policy{}, time.Hour),
		Backoffice:    stubBackoffice{},
		SubmitLimiter: middleware.NewRateLimiter(1, time.Minute),
		Log:           zap.NewNop(),
	})
	return r
}

func tokenFor(t *testing.T, role string, shopID int) string {
	t.Helper()
	token, err := utils.GenerateToken(uuid.New(), "routes@test.com", role, shopID)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := serve(setupRouter(t), "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestDeskRoutesRequireAuth(t *testing.T) {
	w := serve(setupRouter(t), "POST", "/api/desk/sessions", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestDeskRoutesBlockNonStaff(t *testing.T) {
	w := serve(setupRouter(t), "GET", "/api/desk/payment-methods", tokenFor(t, "customer", 7))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestDeskRoutesAllowStaff(t *testing.T) {
	w := serve(setupRouter(t), "GET", "/api/desk/payment-methods", tokenFor(t, "staff", 7))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitIsRateLimited(t *testing.T) {
	r := setupRouter(t)
	token := tokenFor(t, "staff", 7)
	path := "/api/desk/sessions/" + uuid.NewString() + "/submit"

	// first attempt passes the limiter and hits the handler
	w := serve(r, "POST", path, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", w.Code)
	}

	w = serve(r, "POST", path, token)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestSubmissionsWithoutDatabase(t *testing.T) {
	w := serve(setupRouter(t), "GET", "/api/desk/submissions", tokenFor(t, "admin", 7))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
