package models

import "testing"

func TestValidAppointmentTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{AppointmentRequested, AppointmentConfirmed, true},
		{AppointmentRequested, AppointmentCancelled, true},
		{AppointmentRequested, AppointmentCompleted, false},
		{AppointmentConfirmed, AppointmentCompleted, true},
		{AppointmentConfirmed, AppointmentCancelled, true},
		{AppointmentConfirmed, AppointmentRequested, false},
		{AppointmentCompleted, AppointmentCancelled, false},
		{AppointmentCancelled, AppointmentConfirmed, false},
		{"bogus", AppointmentConfirmed, false},
	}
	for _, c := range cases {
		if got := ValidAppointmentTransition(c.from, c.to); got != c.want {
			t.Errorf("ValidAppointmentTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	if PaymentPending.Terminal() {
		t.Error("pending reported terminal")
	}
	if !PaymentCompleted.Terminal() || !PaymentFailed.Terminal() {
		t.Error("completed/failed should be terminal")
	}
}
