package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type stubPusher struct {
	checkoutID string
	err        error
	lastPhone  string
}

func (p *stubPusher) STKPush(_ context.Context, phone string, _ decimal.Decimal, _, _ string) (string, error) {
	p.lastPhone = phone
	return p.checkoutID, p.err
}

func setupPaymentRouter(t *testing.T, pusher *stubPusher) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := PaymentHandler{
		Payments:     repositories.PaymentRepository{DB: db},
		Appointments: repositories.AppointmentRepository{DB: db},
		Pusher:       pusher,
	}

	r := gin.New()
	r.POST("/api/initiate-stk-push", h.InitiateSTKPush)
	r.POST("/api/payment-callback", h.PaymentCallback)
	r.GET("/api/payment-status/:checkout_request_id", h.PaymentStatus)
	return r, mock
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func paymentRow(checkoutID, appointmentID, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "checkout_request_id", "appointment_id", "phone_number",
		"amount", "status", "receipt_reference", "raw_callback",
		"created_at", "updated_at",
	}).AddRow(1, checkoutID, appointmentID, "254712345678", "500.00", status, "", "", now, now)
}

func TestInitiateSTKPushHappyPath(t *testing.T) {
	pusher := &stubPusher{checkoutID: "ws_CO_X"}
	r, mock := setupPaymentRouter(t, pusher)

	mock.ExpectExec("INSERT INTO payments").
		WithArgs("ws_CO_X", "A1", "254712345678", "500.00").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := doJSON(r, http.MethodPost, "/api/initiate-stk-push",
		`{"phone":"254712345678","amount":500,"appointment_id":"A1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp["checkout_request_id"] != "ws_CO_X" {
		t.Fatalf("checkout_request_id = %v", resp["checkout_request_id"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitiateSTKPushMissingFields(t *testing.T) {
	r, _ := setupPaymentRouter(t, &stubPusher{checkoutID: "ws_CO_X"})

	for _, body := range []string{
		`{"amount":500,"appointment_id":"A1"}`,
		`{"phone":"254712345678","appointment_id":"A1"}`,
		`{"phone":"254712345678","amount":500}`,
	} {
		w := doJSON(r, http.MethodPost, "/api/initiate-stk-push", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestInitiateSTKPushUpstreamFailure(t *testing.T) {
	pusher := &stubPusher{err: domain.UpstreamAuthError{}}
	r, _ := setupPaymentRouter(t, pusher)

	w := doJSON(r, http.MethodPost, "/api/initiate-stk-push",
		`{"phone":"254712345678","amount":500,"appointment_id":"A1"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

const callbackSuccess = `{
  "Body": {"stkCallback": {
    "MerchantRequestID": "m-1",
    "CheckoutRequestID": "ws_CO_X",
    "ResultCode": 0,
    "ResultDesc": "The service request is processed successfully.",
    "CallbackMetadata": {"Item": [
      {"Name": "Amount", "Value": 500.0},
      {"Name": "MpesaReceiptNumber", "Value": "R123"},
      {"Name": "PhoneNumber", "Value": 254712345678}
    ]}
  }}
}`

func assertAck(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("callback status = %d, want 200", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid ack json: %v", err)
	}
	if resp["ResultCode"] != float64(0) || resp["ResultDesc"] != "Accepted" {
		t.Fatalf("unexpected ack payload: %s", w.Body.String())
	}
}

func TestPaymentCallbackCompletes(t *testing.T) {
	r, mock := setupPaymentRouter(t, &stubPusher{})

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs("ws_CO_X").
		WillReturnRows(paymentRow("ws_CO_X", "7", "pending"))
	mock.ExpectExec("UPDATE payments").
		WithArgs("completed", "R123", sqlmock.AnyArg(), "ws_CO_X").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE appointments SET paid = 1").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assertAck(t, doJSON(r, http.MethodPost, "/api/payment-callback", callbackSuccess))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentCallbackUnknownIDStillAcks(t *testing.T) {
	r, mock := setupPaymentRouter(t, &stubPusher{})

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs("ws_CO_X").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	assertAck(t, doJSON(r, http.MethodPost, "/api/payment-callback", callbackSuccess))
}

func TestPaymentCallbackMalformedStillAcks(t *testing.T) {
	r, _ := setupPaymentRouter(t, &stubPusher{})
	assertAck(t, doJSON(r, http.MethodPost, "/api/payment-callback", `{not json`))
}

func TestPaymentCallbackDuplicateDoesNotOverwrite(t *testing.T) {
	r, mock := setupPaymentRouter(t, &stubPusher{})

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs("ws_CO_X").
		WillReturnRows(paymentRow("ws_CO_X", "7", "completed"))
	mock.ExpectExec("UPDATE payments").
		WithArgs("completed", "R123", sqlmock.AnyArg(), "ws_CO_X").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs("ws_CO_X").
		WillReturnRows(paymentRow("ws_CO_X", "7", "completed"))
	// No appointment update follows a no-op terminalization.

	assertAck(t, doJSON(r, http.MethodPost, "/api/payment-callback", callbackSuccess))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPaymentStatus(t *testing.T) {
	r, mock := setupPaymentRouter(t, &stubPusher{})

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs("ws_CO_X").
		WillReturnRows(paymentRow("ws_CO_X", "7", "completed"))

	w := doJSON(r, http.MethodGet, "/api/payment-status/ws_CO_X", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp["status"] != "completed" || resp["checkout_request_id"] != "ws_CO_X" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs("ws_CO_missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w = doJSON(r, http.MethodGet, "/api/payment-status/ws_CO_missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
