package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
	"github.com/WayneCarlG/meet-a-vet/internal/mpesa"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/utils"

	"github.com/shopspring/decimal"
)

// StkPusher is the slice of the Daraja client the payment service needs.
type StkPusher interface {
	STKPush(ctx context.Context, phone string, amount decimal.Decimal, accountRef, description string) (string, error)
}

// PaymentService owns the payment lifecycle: it creates pending records at
// initiation and is the only mutator on the reconciliation path.
type PaymentService struct {
	Payments     repositories.PaymentRepository
	Appointments repositories.AppointmentRepository
	Pusher       StkPusher
	RequestID    string
}

// Initiate validates the request, dispatches the push-payment and persists
// the pending record keyed by the provider's CheckoutRequestID. Persistence
// happens only after provider acknowledgment, so a failed push leaves
// nothing behind.
func (s PaymentService) Initiate(ctx context.Context, phone string, amount decimal.Decimal, appointmentID string) (string, error) {
	phone = strings.TrimSpace(phone)
	appointmentID = strings.TrimSpace(appointmentID)

	if phone == "" {
		return "", domain.ValidationError{Field: "phone", Msg: "required"}
	}
	if appointmentID == "" {
		return "", domain.ValidationError{Field: "appointment_id", Msg: "required"}
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return "", domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}

	msisdn, err := utils.NormalizeMSISDN(phone)
	if err != nil {
		return "", domain.ValidationError{Field: "phone", Msg: err.Error(), Err: err}
	}

	checkoutID, err := s.Pusher.STKPush(ctx, msisdn, amount, appointmentID, "Vet consultation")
	if err != nil {
		return "", err
	}

	if _, err := s.Payments.Create(models.PaymentRecord{
		CheckoutRequestID: checkoutID,
		AppointmentID:     appointmentID,
		PhoneNumber:       msisdn,
		Amount:            amount,
	}); err != nil {
		// The provider already accepted the push; surface the persistence
		// failure so the client does not poll an id we cannot resolve.
		return "", domain.InternalError{Msg: "failed to persist payment record", Err: err}
	}

	utils.LogEvent(s.RequestID, "payment", "initiate", "checkout_request_id="+checkoutID)
	return checkoutID, nil
}

// Reconcile applies a provider callback to its pending record. Errors are
// returned for logging only; the HTTP layer always acknowledges success so
// the provider stops redelivering.
func (s PaymentService) Reconcile(cb mpesa.STKCallback, rawPayload []byte) error {
	checkoutID := strings.TrimSpace(cb.CheckoutRequestID)
	if checkoutID == "" {
		return domain.ValidationError{Field: "CheckoutRequestID", Msg: "missing from callback"}
	}

	rec, err := s.Payments.GetByCheckoutID(checkoutID)
	if err != nil {
		if domain.IsNotFound(err) {
			utils.LogEvent(s.RequestID, "payment", "reconcile_unknown", "checkout_request_id="+checkoutID)
			return nil
		}
		return err
	}

	status := models.PaymentFailed
	receipt := ""
	if cb.Success() {
		status = models.PaymentCompleted
		receipt = cb.ReceiptReference()
	}

	applied, err := s.Payments.Terminalize(checkoutID, status, receipt, string(rawPayload))
	if err != nil {
		return err
	}
	if !applied {
		// Duplicate or late delivery for an already-terminal record; the
		// first transition stands. Re-read so the log shows the status that
		// won, not the pre-update snapshot.
		if current, cerr := s.Payments.GetByCheckoutID(checkoutID); cerr == nil {
			rec = current
		}
		utils.LogEvent(s.RequestID, "payment", "reconcile_noop",
			fmt.Sprintf("checkout_request_id=%s status=%s", checkoutID, rec.Status))
		return nil
	}

	utils.LogEvent(s.RequestID, "payment", "reconcile",
		fmt.Sprintf("checkout_request_id=%s result_code=%d status=%s", checkoutID, cb.ResultCode, status))

	if status == models.PaymentCompleted {
		s.markAppointmentPaid(rec.AppointmentID)
	}
	return nil
}

// markAppointmentPaid is a best-effort cross-entity update; the payment
// record stays authoritative if it fails.
func (s PaymentService) markAppointmentPaid(appointmentID string) {
	id, err := strconv.ParseInt(strings.TrimSpace(appointmentID), 10, 64)
	if err != nil || id <= 0 {
		utils.LogEvent(s.RequestID, "payment", "mark_paid_skip", "appointment_id="+appointmentID)
		return
	}
	if err := s.Appointments.MarkPaid(id); err != nil {
		utils.LogEvent(s.RequestID, "payment", "mark_paid_failed",
			fmt.Sprintf("appointment_id=%d err=%v", id, err))
	}
}

// Status is the pure read backing the client's polling loop.
func (s PaymentService) Status(checkoutID string) (models.PaymentRecord, error) {
	checkoutID = strings.TrimSpace(checkoutID)
	if checkoutID == "" {
		return models.PaymentRecord{}, domain.ValidationError{Field: "checkout_request_id", Msg: "required"}
	}
	return s.Payments.GetByCheckoutID(checkoutID)
}
