package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ReceiptService renders a PDF receipt for a completed payment.
type ReceiptService struct {
	Payments     repositories.PaymentRepository
	Appointments repositories.AppointmentRepository
	RequestID    string
}

func (s ReceiptService) GenerateReceipt(checkoutID string) ([]byte, string, error) {
	rec, err := s.Payments.GetByCheckoutID(checkoutID)
	if err != nil {
		return nil, "", err
	}
	if rec.Status != models.PaymentCompleted {
		return nil, "", domain.ConflictError{Resource: "payment", Msg: "receipt available only for completed payments"}
	}

	appt := models.Appointment{}
	if id, perr := strconv.ParseInt(strings.TrimSpace(rec.AppointmentID), 10, 64); perr == nil && id > 0 {
		if a, aerr := s.Appointments.GetByID(id); aerr == nil {
			appt = a
		}
	}

	utils.LogEvent(s.RequestID, "receipt", "generate", "checkout_request_id="+checkoutID)
	return buildReceiptPDF(rec, appt)
}

func buildReceiptPDF(rec models.PaymentRecord, appt models.Appointment) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "MEET-A-VET PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt No     : %s", safe(rec.ReceiptReference, rec.CheckoutRequestID)),
		fmt.Sprintf("Checkout Ref   : %s", rec.CheckoutRequestID),
		fmt.Sprintf("Phone          : %s", safe(rec.PhoneNumber, "-")),
		fmt.Sprintf("Amount         : KES %s", rec.Amount.StringFixed(2)),
		fmt.Sprintf("Paid At        : %s", rec.UpdatedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Appointment    : #%s", safe(rec.AppointmentID, "-")),
	}
	if appt.ID != 0 {
		lines = append(lines,
			fmt.Sprintf("Scheduled For  : %s", safe(appt.ScheduledAt, "-")),
			fmt.Sprintf("Reason         : %s", safe(appt.Reason, "-")),
		)
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This receipt confirms payment for a veterinary teleconsultation. Keep it for your records.", "", "", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", utils.SafeFilenamePart(safe(rec.ReceiptReference, rec.CheckoutRequestID)))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
