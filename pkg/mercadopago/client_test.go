package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgiraldob/vitrina-backend/pkg/config"
	"github.com/sgiraldob/vitrina-backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "test"})
	client, err := NewClient(context.Background(), config.GatewayConfig{
		BaseURL:     server.URL,
		AccessToken: "token-123",
		Timeout:     2 * time.Second,
	}, logg)
	require.NoError(t, err)
	return client, server
}

func TestCreatePreference(t *testing.T) {
	var gotAuth string
	var gotBody PreferenceRequest

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/preferences", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(Preference{ID: "pref-1", InitPoint: "https://pay.example/pref-1"})
	}))

	pref, err := client.CreatePreference(context.Background(), PreferenceRequest{
		ExternalReference: "order-1",
		CurrencyID:        "COP",
		Items: []PreferenceItem{
			{Title: "Empanada", Quantity: 2, UnitPrice: CentsToAmount(5000)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, "https://pay.example/pref-1", pref.InitPoint)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "order-1", gotBody.ExternalReference)
	assert.True(t, gotBody.Items[0].UnitPrice.Equal(decimal.NewFromInt(50)))
}

func TestCreatePreferenceValidatesInput(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.CreatePreference(context.Background(), PreferenceRequest{Items: []PreferenceItem{{Title: "x", Quantity: 1}}})
	assert.Error(t, err)

	_, err = client.CreatePreference(context.Background(), PreferenceRequest{ExternalReference: "order-1"})
	assert.Error(t, err)
}

func TestGetPayment(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/pref-9", r.URL.Path)
		json.NewEncoder(w).Encode(Payment{Status: "approved", Method: "card"})
	}))

	payment, err := client.GetPayment(context.Background(), "pref-9")
	require.NoError(t, err)
	assert.Equal(t, "approved", payment.Status)
	assert.Equal(t, "card", payment.Method)
}

func TestGatewayErrorSurfacesStatusAndMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": "upstream exploded"})
	}))

	_, err := client.GetPayment(context.Background(), "pref-9")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestCentsToAmount(t *testing.T) {
	assert.True(t, CentsToAmount(12345).Equal(decimal.RequireFromString("123.45")))
	assert.True(t, CentsToAmount(0).Equal(decimal.Zero))
}
