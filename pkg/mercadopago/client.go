package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sgiraldob/vitrina-backend/pkg/config"
	"github.com/sgiraldob/vitrina-backend/pkg/logger"
)

var (
	errAccessTokenRequired = errors.New("gateway access token is required")
	errBaseURLRequired     = errors.New("gateway base url is required")
	errLoggerRequired      = errors.New("gateway logger is required")
)

// Client wraps the checkout-preference API of the payment gateway with
// centralized auth, timeouts, and error mapping.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	logger      *logger.Logger
}

// PreferenceItem describes one order line inside a gateway preference.
type PreferenceItem struct {
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PreferenceRequest is the payload sent when creating a checkout preference.
type PreferenceRequest struct {
	ExternalReference string           `json:"external_reference"`
	Items             []PreferenceItem `json:"items"`
	CurrencyID        string           `json:"currency_id"`
	BackURL           string           `json:"back_url,omitempty"`
}

// Preference is the gateway's handle for a hosted checkout session.
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// Payment is the gateway's settled view of a preference, fetched server-side
// before any paid transition is applied.
type Payment struct {
	Status string `json:"status"`
	Method string `json:"payment_method_id"`
}

// APIError carries the gateway's error payload for non-2xx responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway responded %d: %s", e.StatusCode, e.Message)
}

// NewClient initializes the gateway wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.GatewayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     baseURL,
		accessToken: accessToken,
		logger:      logg,
	}

	logg.Info(ctx, "payment gateway client initialized")
	return c, nil
}

// CreatePreference registers a checkout preference for the given order
// snapshot and returns the hosted checkout handle.
func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	if req.ExternalReference == "" {
		return nil, errors.New("external reference is required")
	}
	if len(req.Items) == 0 {
		return nil, errors.New("at least one item is required")
	}

	var pref Preference
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", req, &pref); err != nil {
		return nil, err
	}
	if pref.ID == "" || pref.InitPoint == "" {
		return nil, errors.New("gateway returned an incomplete preference")
	}
	return &pref, nil
}

// GetPayment fetches the authoritative payment state for a preference.
func (c *Client) GetPayment(ctx context.Context, preferenceID string) (*Payment, error) {
	if strings.TrimSpace(preferenceID) == "" {
		return nil, errors.New("preference id is required")
	}

	var payment Payment
	path := fmt.Sprintf("/v1/payments/%s", preferenceID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CentsToAmount converts integer cents into the decimal unit amount the
// gateway expects.
func CentsToAmount(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding gateway request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling gateway: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding gateway response: %w", err)
	}
	return nil
}
