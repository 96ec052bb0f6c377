package services

import (
	"testing"
	"time"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"

	rtctokenbuilder "github.com/AgoraIO-Community/go-tokenbuilder/rtctokenbuilder"
	"github.com/DATA-DOG/go-sqlmock"
)

func newVideoService(t *testing.T) (VideoService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return VideoService{
		Appointments: repositories.AppointmentRepository{DB: db},
		AppID:        "app-id",
		Certificate:  "certificate",
		TokenTTL:     time.Hour,
		RequestID:    "test-req",
	}, mock
}

func appointmentRow(id, farmerID, vetID int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "farmer_id", "vet_id", "animal_id", "scheduled_at",
		"reason", "status", "paid", "created_at", "updated_at",
	}).AddRow(id, farmerID, vetID, 0, "2026-09-01 10:00:00", "checkup", "confirmed", 0, now, now)
}

func TestIssueTokenPrivilegeExpiresInFuture(t *testing.T) {
	svc, mock := newVideoService(t)

	var gotChannel string
	var gotUID, gotExpire uint32
	svc.BuildToken = func(appID, cert, channel string, uid uint32, role rtctokenbuilder.Role, privilegeExpiredTs uint32) (string, error) {
		gotChannel = channel
		gotUID = uid
		gotExpire = privilegeExpiredTs
		return "signed-token", nil
	}

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(int64(3)).
		WillReturnRows(appointmentRow(3, 5, 9))

	tok, err := svc.IssueToken(3, 5, "farmer")
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	if tok.Token != "signed-token" || tok.Channel != "appt-3" || tok.UID != 5 {
		t.Fatalf("unexpected token payload: %+v", tok)
	}

	now := time.Now().Unix()
	if int64(gotExpire) <= now {
		t.Fatalf("privilege expiry %d is not in the future (now %d)", gotExpire, now)
	}
	if int64(gotExpire) > now+int64(time.Hour.Seconds())+60 {
		t.Fatalf("privilege expiry %d is further out than the token TTL", gotExpire)
	}
	if gotChannel != "appt-3" || gotUID != 5 {
		t.Fatalf("builder called with channel=%q uid=%d", gotChannel, gotUID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIssueTokenRejectsNonParticipant(t *testing.T) {
	svc, mock := newVideoService(t)
	svc.BuildToken = func(string, string, string, uint32, rtctokenbuilder.Role, uint32) (string, error) {
		t.Fatal("builder must not run for a non-participant")
		return "", nil
	}

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(int64(3)).
		WillReturnRows(appointmentRow(3, 5, 9))

	_, err := svc.IssueToken(3, 42, "farmer")
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestIssueTokenUnconfigured(t *testing.T) {
	svc, _ := newVideoService(t)
	svc.AppID = ""

	if _, err := svc.IssueToken(3, 5, "farmer"); err == nil {
		t.Fatal("expected error when video credentials are missing")
	}
}
