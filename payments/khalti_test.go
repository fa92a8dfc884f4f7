package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{1000, 100000},
		{999.99, 99999},
		{0.01, 1},
		{0.005, 1},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMinorUnits(tt.price))
	}
}

func TestKhaltiClient_Initiate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epayment/initiate/", r.URL.Path)
		assert.Equal(t, "Key test-secret", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(100000), body["amount"])
		assert.Equal(t, "ref-1", body["purchase_order_id"])

		json.NewEncoder(w).Encode(map[string]string{
			"pidx":        "pidx-1",
			"payment_url": "https://pay.khalti.com/?pidx=pidx-1",
			"expires_at":  "2030-01-01T12:00:00.000000+05:45",
		})
	}))
	defer srv.Close()

	client := NewKhaltiClient(srv.URL, "test-secret")
	resp, err := client.Initiate(context.Background(), InitiateRequest{
		Amount:            100000,
		PurchaseOrderID:   "ref-1",
		PurchaseOrderName: "Everest Base Camp Trek - Classic 5 Day",
		RedirectURL:       "https://localhost/return",
	})
	require.NoError(t, err)

	assert.Equal(t, "pidx-1", resp.Pidx)
	assert.Equal(t, "https://pay.khalti.com/?pidx=pidx-1", resp.PaymentURL)
	assert.Equal(t, 2030, resp.ExpiresAt.Year())
}

func TestKhaltiClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epayment/lookup/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pidx-1", body["pidx"])

		json.NewEncoder(w).Encode(map[string]any{
			"pidx":           "pidx-1",
			"total_amount":   100000,
			"status":         "Completed",
			"transaction_id": "txn-9",
		})
	}))
	defer srv.Close()

	client := NewKhaltiClient(srv.URL, "test-secret")
	resp, err := client.Lookup(context.Background(), "pidx-1")
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, resp.Status)
	assert.Equal(t, int64(100000), resp.TotalAmount)
	assert.Equal(t, "txn-9", resp.TransactionID)
}

func TestKhaltiClient_ProviderErrorsWrapUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewKhaltiClient(srv.URL, "test-secret")

	_, err := client.Initiate(context.Background(), InitiateRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = client.Lookup(context.Background(), "pidx-1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestKhaltiClient_TransportErrorWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewKhaltiClient(srv.URL, "test-secret")
	_, err := client.Lookup(context.Background(), "pidx-1")
	assert.ErrorIs(t, err, ErrUnavailable)
}
