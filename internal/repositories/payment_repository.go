package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"

	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	DB *sql.DB
}

const paymentColumns = `id,
       checkout_request_id,
       COALESCE(appointment_id,''),
       COALESCE(phone_number,''),
       COALESCE(amount,'0'),
       status,
       COALESCE(receipt_reference,''),
       COALESCE(raw_callback,''),
       created_at,
       updated_at`

// Create persists a fresh pending record. Called only after the provider
// acknowledged the push request, so a failure here never leaves a dangling
// provider-side transaction without a row.
func (r PaymentRepository) Create(rec models.PaymentRecord) (int64, error) {
	if rec.CheckoutRequestID == "" {
		return 0, domain.ValidationError{Field: "checkout_request_id", Msg: "required"}
	}

	res, err := r.DB.Exec(`
        INSERT INTO payments (checkout_request_id, appointment_id, phone_number, amount, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, 'pending', NOW(), NOW())
    `, rec.CheckoutRequestID, rec.AppointmentID, rec.PhoneNumber, rec.Amount.StringFixed(2))
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// GetByCheckoutID looks a record up by its provider correlation id.
func (r PaymentRepository) GetByCheckoutID(checkoutID string) (models.PaymentRecord, error) {
	var (
		rec    models.PaymentRecord
		amount string
		status string
	)
	err := r.DB.QueryRow(`
        SELECT `+paymentColumns+`
        FROM payments
        WHERE checkout_request_id = ?
        LIMIT 1
    `, checkoutID).Scan(
		&rec.ID,
		&rec.CheckoutRequestID,
		&rec.AppointmentID,
		&rec.PhoneNumber,
		&amount,
		&status,
		&rec.ReceiptReference,
		&rec.RawCallback,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PaymentRecord{}, domain.NotFoundError{Resource: "payment"}
		}
		return models.PaymentRecord{}, fmt.Errorf("query payment: %w", err)
	}

	rec.Status = models.PaymentStatus(status)
	if amt, perr := decimal.NewFromString(amount); perr == nil {
		rec.Amount = amt
	}
	return rec, nil
}

// Terminalize moves a pending record to a terminal status. The WHERE clause
// is the compare-and-set that enforces at-most-one transition: duplicate or
// late callbacks match zero rows and report applied=false.
func (r PaymentRepository) Terminalize(checkoutID string, status models.PaymentStatus, receiptRef, rawCallback string) (bool, error) {
	if !status.Terminal() {
		return false, domain.ValidationError{Field: "status", Msg: "must be terminal"}
	}

	res, err := r.DB.Exec(`
        UPDATE payments
        SET status = ?, receipt_reference = ?, raw_callback = ?, updated_at = NOW()
        WHERE checkout_request_id = ? AND status = 'pending'
    `, string(status), nullIfEmpty(receiptRef), rawCallback, checkoutID)
	if err != nil {
		return false, fmt.Errorf("terminalize payment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("terminalize payment rows: %w", err)
	}
	return affected > 0, nil
}

// ListAll returns payment history newest first, for the admin transactions
// view.
func (r PaymentRepository) ListAll(limit int) ([]models.PaymentRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	rows, err := r.DB.Query(`
        SELECT `+paymentColumns+`
        FROM payments
        ORDER BY created_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := []models.PaymentRecord{}
	for rows.Next() {
		var (
			rec    models.PaymentRecord
			amount string
			status string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.CheckoutRequestID,
			&rec.AppointmentID,
			&rec.PhoneNumber,
			&amount,
			&status,
			&rec.ReceiptReference,
			&rec.RawCallback,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		rec.Status = models.PaymentStatus(status)
		if amt, perr := decimal.NewFromString(amount); perr == nil {
			rec.Amount = amt
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CompletedTotals returns count and sum of completed payments for admin stats.
func (r PaymentRepository) CompletedTotals() (int64, decimal.Decimal, error) {
	var (
		count int64
		sum   string
	)
	err := r.DB.QueryRow(`
        SELECT COUNT(*), COALESCE(SUM(amount), 0)
        FROM payments
        WHERE status = 'completed'
    `).Scan(&count, &sum)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("payment totals: %w", err)
	}

	total, perr := decimal.NewFromString(sum)
	if perr != nil {
		total = decimal.Zero
	}
	return count, total, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
