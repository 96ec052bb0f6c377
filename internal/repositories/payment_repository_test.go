package repositories

import (
	"testing"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func newPaymentRepo(t *testing.T) (PaymentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return PaymentRepository{DB: db}, mock
}

func TestCreateInsertsPendingWithFixedScale(t *testing.T) {
	repo, mock := newPaymentRepo(t)

	mock.ExpectExec("INSERT INTO payments").
		WithArgs("ws_CO_1", "9", "254712345678", "500.00").
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := repo.Create(models.PaymentRecord{
		CheckoutRequestID: "ws_CO_1",
		AppointmentID:     "9",
		PhoneNumber:       "254712345678",
		Amount:            decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateRejectsMissingCheckoutID(t *testing.T) {
	repo, _ := newPaymentRepo(t)

	_, err := repo.Create(models.PaymentRecord{Amount: decimal.NewFromInt(10)})
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestTerminalizeMatchesOnlyPendingRows(t *testing.T) {
	repo, mock := newPaymentRepo(t)

	mock.ExpectExec("UPDATE payments").
		WithArgs("completed", "R123", "{}", "ws_CO_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.Terminalize("ws_CO_1", models.PaymentCompleted, "R123", "{}")
	if err != nil {
		t.Fatalf("Terminalize error: %v", err)
	}
	if !applied {
		t.Fatal("applied = false, want true")
	}

	mock.ExpectExec("UPDATE payments").
		WithArgs("failed", nil, "{}", "ws_CO_1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err = repo.Terminalize("ws_CO_1", models.PaymentFailed, "", "{}")
	if err != nil {
		t.Fatalf("Terminalize error: %v", err)
	}
	if applied {
		t.Fatal("applied = true for already-terminal row, want false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTerminalizeRejectsNonTerminalStatus(t *testing.T) {
	repo, _ := newPaymentRepo(t)

	_, err := repo.Terminalize("ws_CO_1", models.PaymentPending, "", "{}")
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestGetByCheckoutIDNotFound(t *testing.T) {
	repo, mock := newPaymentRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs("ws_CO_missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByCheckoutID("ws_CO_missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}
