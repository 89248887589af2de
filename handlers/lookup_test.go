package handlers

import (
	"net/http"
	"testing"

	"orderdesk-backend/cart"
	"orderdesk-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomersLookup(t *testing.T) {
	f := setupDeskRouter(t, cart.Policy{})
	token := staffToken(t, uuid.New(), 7)

	w := f.do("GET", "/api/desk/customers?search=ann", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := parseResponse(w)["data"].([]interface{})
	require.Len(t, data, 1)
	customer := data[0].(map[string]interface{})
	assert.Equal(t, float64(7), customer["id"])
	assert.Equal(t, "Ann (555-0101)", customer["label"])
}

func TestPaymentMethodsLookup(t *testing.T) {
	f := setupDeskRouter(t, cart.Policy{})
	token := staffToken(t, uuid.New(), 7)

	w := f.do("GET", "/api/desk/payment-methods", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := parseResponse(w)["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "Card", data[1].(map[string]interface{})["name"])
}

func TestLookupRequiresStaff(t *testing.T) {
	f := setupDeskRouter(t, cart.Policy{})
	w := f.do("GET", "/api/desk/payment-methods", nil, staffToken(t, uuid.New(), 0))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func seedSubmission(t *testing.T, f *deskFixture, shopID int, status models.SubmissionStatus) {
	t.Helper()
	rec := &models.OrderSubmission{
		SessionID:       uuid.New(),
		UserID:          uuid.New(),
		ShopID:          shopID,
		CustomerID:      7,
		TotalItems:      1,
		Payable:         decimal.NewFromInt(100),
		PaidAmount:      decimal.NewFromInt(100),
		DueAmount:       decimal.Zero,
		PaymentMethodID: cart.CashMethodID,
		Status:          status,
	}
	require.NoError(t, f.db.Create(rec).Error)
}

func TestGetSubmissionsShopScoped(t *testing.T) {
	f := setupDeskRouter(t, cart.Policy{})
	seedSubmission(t, f, 7, models.SubmissionSucceeded)
	seedSubmission(t, f, 7, models.SubmissionFailed)
	seedSubmission(t, f, 8, models.SubmissionSucceeded)
	token := staffToken(t, uuid.New(), 7)

	w := f.do("GET", "/api/desk/submissions", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, parseResponse(w)["data"], 2)

	w = f.do("GET", "/api/desk/submissions?status=failed", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "failed", data[0].(map[string]interface{})["status"])

	w = f.do("GET", "/api/desk/submissions?status=pending", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSubmissionsWithoutDB(t *testing.T) {
	f := setupDeskRouter(t, cart.Policy{})
	h := &SubmissionHandler{}
	f.router.GET("/no-db", h.GetSubmissions)

	w := f.do("GET", "/no-db", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
