package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable covers every transport or provider-side failure. The caller
// decides whether to retry; no retries happen here.
var ErrUnavailable = errors.New("payment gateway unavailable")

// Provider status vocabulary. Khalti reports more states than these; anything
// unrecognized is treated as a failure by the caller.
const (
	StatusCompleted = "Completed"
	StatusPending   = "Pending"
	StatusInitiated = "Initiated"
	StatusExpired   = "Expired"
	StatusCanceled  = "User canceled"
	StatusRefunded  = "Refunded"
)

type InitiateRequest struct {
	// Amount is in minor units (paisa).
	Amount            int64
	PurchaseOrderID   string
	PurchaseOrderName string
	RedirectURL       string
}

type InitiateResponse struct {
	Pidx       string
	PaymentURL string
	ExpiresAt  time.Time
}

type LookupResponse struct {
	Pidx          string
	TotalAmount   int64
	Status        string
	TransactionID string
}

// Gateway is the capability interface for the payment provider. Exactly one
// implementation exists today (Khalti); the booking engine never depends on
// the concrete client.
type Gateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (InitiateResponse, error)
	Lookup(ctx context.Context, pidx string) (LookupResponse, error)
}

const DefaultKhaltiBaseURL = "https://a.khalti.com/api/v2"

// KhaltiClient talks to the Khalti e-payment API with a bearer secret key.
type KhaltiClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewKhaltiClient(baseURL, secretKey string) *KhaltiClient {
	if baseURL == "" {
		baseURL = DefaultKhaltiBaseURL
	}
	return &KhaltiClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (k *KhaltiClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Key "+k.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: khalti returned %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func (k *KhaltiClient) Initiate(ctx context.Context, req InitiateRequest) (InitiateResponse, error) {
	payload := map[string]any{
		"amount":              req.Amount,
		"purchase_order_id":   req.PurchaseOrderID,
		"purchase_order_name": req.PurchaseOrderName,
		"website_url":         req.RedirectURL,
		"return_url":          req.RedirectURL,
	}

	var raw struct {
		Pidx       string `json:"pidx"`
		PaymentURL string `json:"payment_url"`
		ExpiresAt  string `json:"expires_at"`
	}
	if err := k.post(ctx, "/epayment/initiate/", payload, &raw); err != nil {
		return InitiateResponse{}, err
	}

	expiresAt, err := parseKhaltiTime(raw.ExpiresAt)
	if err != nil {
		return InitiateResponse{}, fmt.Errorf("%w: parse expires_at %q: %v", ErrUnavailable, raw.ExpiresAt, err)
	}

	return InitiateResponse{
		Pidx:       raw.Pidx,
		PaymentURL: raw.PaymentURL,
		ExpiresAt:  expiresAt,
	}, nil
}

func (k *KhaltiClient) Lookup(ctx context.Context, pidx string) (LookupResponse, error) {
	var raw struct {
		Pidx          string `json:"pidx"`
		TotalAmount   int64  `json:"total_amount"`
		Status        string `json:"status"`
		TransactionID string `json:"transaction_id"`
	}
	if err := k.post(ctx, "/epayment/lookup/", map[string]string{"pidx": pidx}, &raw); err != nil {
		return LookupResponse{}, err
	}

	return LookupResponse{
		Pidx:          raw.Pidx,
		TotalAmount:   raw.TotalAmount,
		Status:        raw.Status,
		TransactionID: raw.TransactionID,
	}, nil
}

// Khalti timestamps carry sub-second precision and a +05:45 offset.
func parseKhaltiTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
