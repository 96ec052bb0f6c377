package models

import "time"

const (
	AppointmentRequested = "requested"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// ValidAppointmentTransition enforces the booking lifecycle:
// requested -> confirmed -> completed, with cancellation allowed from any
// non-terminal state.
func ValidAppointmentTransition(from, to string) bool {
	switch from {
	case AppointmentRequested:
		return to == AppointmentConfirmed || to == AppointmentCancelled
	case AppointmentConfirmed:
		return to == AppointmentCompleted || to == AppointmentCancelled
	}
	return false
}

type Appointment struct {
	ID          int64     `json:"id"`
	FarmerID    int64     `json:"farmer_id"`
	VetID       int64     `json:"vet_id"`
	AnimalID    int64     `json:"animal_id,omitempty"`
	ScheduledAt string    `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
