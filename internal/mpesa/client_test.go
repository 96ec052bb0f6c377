package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		APIKey:      "key",
		APISecret:   "secret",
		Shortcode:   "174379",
		Passkey:     "passkey",
		AuthURL:     srv.URL + "/oauth/v1/generate?grant_type=client_credentials",
		STKPushURL:  srv.URL + "/mpesa/stkpush/v1/processrequest",
		CallbackURL: "https://example.test/api/payment-callback",
		Timeout:     2 * time.Second,
	}, NewMemoryTokenCache())
	client.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	}
	return client, srv
}

func TestAccessTokenFetchesAndCaches(t *testing.T) {
	calls := 0
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("key:secret"))
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-1",
			"expires_in":   "3599",
		})
	})

	token, err := client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	token, err = client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, 1, calls, "second call should hit the cache")
}

func TestAccessTokenUpstreamFailure(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"errorMessage": "Invalid credentials"})
	})

	_, err := client.AccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsUpstreamAuth(err))
}

func TestSTKPushBuildsDocumentedPayload(t *testing.T) {
	var got stkPushRequest
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
			return
		}
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"MerchantRequestID": "m-1",
			"CheckoutRequestID": "ws_CO_123",
			"ResponseCode":      "0",
		})
	})

	checkoutID, err := client.STKPush(context.Background(), "254712345678", decimal.NewFromInt(500), "A1", "Consultation")
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_123", checkoutID)

	assert.Equal(t, "174379", got.BusinessShortCode)
	assert.Equal(t, "CustomerPayBillOnline", got.TransactionType)
	assert.Equal(t, "500", got.Amount)
	assert.Equal(t, "254712345678", got.PhoneNumber)
	assert.Equal(t, "254712345678", got.PartyA)
	assert.Equal(t, "https://example.test/api/payment-callback", got.CallBackURL)
	assert.Equal(t, "20240601123045", got.Timestamp)
	wantPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "passkey" + "20240601123045"))
	assert.Equal(t, wantPassword, got.Password)
}

func TestSTKPushRejected(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"errorCode": "400.002.02", "errorMessage": "Bad Request - Invalid Amount"})
	})

	_, err := client.STKPush(context.Background(), "254712345678", decimal.NewFromInt(0), "A1", "Consultation")
	require.Error(t, err)
	assert.True(t, domain.IsUpstreamRequest(err))
}

func TestSTKPushMissingCheckoutID(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"ResponseCode": "0"})
	})

	_, err := client.STKPush(context.Background(), "254712345678", decimal.NewFromInt(10), "A1", "Consultation")
	require.Error(t, err)
	assert.True(t, domain.IsUpstreamRequest(err))
}

func TestReceiptReference(t *testing.T) {
	raw := `{
      "Body": {"stkCallback": {
        "MerchantRequestID": "m-1",
        "CheckoutRequestID": "ws_CO_123",
        "ResultCode": 0,
        "ResultDesc": "The service request is processed successfully.",
        "CallbackMetadata": {"Item": [
          {"Name": "Amount", "Value": 500.0},
          {"Name": "MpesaReceiptNumber", "Value": "R123XYZ"},
          {"Name": "PhoneNumber", "Value": 254712345678}
        ]}
      }}
    }`

	var env CallbackEnvelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	cb := env.Body.STKCallback
	assert.True(t, cb.Success())
	assert.Equal(t, "ws_CO_123", cb.CheckoutRequestID)
	assert.Equal(t, "R123XYZ", cb.ReceiptReference())
}

func TestReceiptReferenceAbsent(t *testing.T) {
	cb := STKCallback{ResultCode: 1032, ResultDesc: "Request cancelled by user"}
	assert.False(t, cb.Success())
	assert.Equal(t, "", cb.ReceiptReference())
}
