package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
)

type AppointmentRepository struct {
	DB *sql.DB
}

const appointmentColumns = `id,
       farmer_id,
       vet_id,
       COALESCE(animal_id,0),
       COALESCE(scheduled_at,''),
       COALESCE(reason,''),
       COALESCE(status,''),
       COALESCE(paid,0),
       created_at,
       updated_at`

func scanAppointment(row interface{ Scan(...any) error }) (models.Appointment, error) {
	var a models.Appointment
	err := row.Scan(
		&a.ID,
		&a.FarmerID,
		&a.VetID,
		&a.AnimalID,
		&a.ScheduledAt,
		&a.Reason,
		&a.Status,
		&a.Paid,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r AppointmentRepository) Create(a models.Appointment) (int64, error) {
	res, err := r.DB.Exec(`
        INSERT INTO appointments (farmer_id, vet_id, animal_id, scheduled_at, reason, status, paid, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, 'requested', 0, NOW(), NOW())
    `, a.FarmerID, a.VetID, zeroToNull(a.AnimalID), a.ScheduledAt, a.Reason)
	if err != nil {
		return 0, fmt.Errorf("insert appointment: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r AppointmentRepository) GetByID(id int64) (models.Appointment, error) {
	a, err := scanAppointment(r.DB.QueryRow(`SELECT `+appointmentColumns+` FROM appointments WHERE id = ? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Appointment{}, domain.NotFoundError{Resource: "appointment"}
		}
		return models.Appointment{}, fmt.Errorf("query appointment: %w", err)
	}
	return a, nil
}

// ListForUser scopes the listing by role: farmers see appointments they
// booked, vets see appointments assigned to them, admins see everything.
func (r AppointmentRepository) ListForUser(userID int64, role string) ([]models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	args := []any{}

	switch {
	case role == models.RoleAdmin:
		// no filter
	case models.IsVetRole(role):
		query += ` WHERE vet_id = ?`
		args = append(args, userID)
	default:
		query += ` WHERE farmer_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY scheduled_at DESC, id DESC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	out := []models.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r AppointmentRepository) UpdateStatus(id int64, status string) error {
	res, err := r.DB.Exec(`UPDATE appointments SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
	}
	return nil
}

// MarkPaid flags the appointment after a successful payment reconciliation.
// Idempotent: repeat calls match the same row.
func (r AppointmentRepository) MarkPaid(id int64) error {
	res, err := r.DB.Exec(`UPDATE appointments SET paid = 1, updated_at = NOW() WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark appointment paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
	}
	return nil
}

func (r AppointmentRepository) Delete(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "appointment"}
	}
	return nil
}

func (r AppointmentRepository) Count() (int64, error) {
	var count int64
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM appointments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return count, nil
}

func zeroToNull(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
