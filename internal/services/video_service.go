package services

import (
	"fmt"
	"time"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/utils"

	rtctokenbuilder "github.com/AgoraIO-Community/go-tokenbuilder/rtctokenbuilder"
)

// VideoService issues Agora RTC tokens for consultation calls. Both call
// parties derive the same channel name from the appointment id.
type VideoService struct {
	Appointments repositories.AppointmentRepository
	AppID        string
	Certificate  string
	TokenTTL     time.Duration
	RequestID    string

	// BuildToken overrides the Agora token builder in tests; nil means the
	// real one.
	BuildToken func(appID, certificate, channel string, uid uint32, role rtctokenbuilder.Role, privilegeExpiredTs uint32) (string, error)
}

type CallToken struct {
	Token     string    `json:"token"`
	Channel   string    `json:"channel"`
	AppID     string    `json:"app_id"`
	UID       uint32    `json:"uid"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken hands out a call token to a participant of the appointment.
func (s VideoService) IssueToken(appointmentID, userID int64, role string) (CallToken, error) {
	if s.AppID == "" || s.Certificate == "" {
		return CallToken{}, domain.InternalError{Msg: "video calling is not configured"}
	}

	appt, err := s.Appointments.GetByID(appointmentID)
	if err != nil {
		return CallToken{}, err
	}
	if role != models.RoleAdmin && appt.FarmerID != userID && appt.VetID != userID {
		return CallToken{}, domain.ValidationError{Field: "appointment_id", Msg: "not a participant of this appointment"}
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	channel := fmt.Sprintf("appt-%d", appt.ID)
	uid := uint32(userID)
	expiresAt := time.Now().Add(ttl)

	build := s.BuildToken
	if build == nil {
		build = rtctokenbuilder.BuildTokenWithUID
	}

	// The builder takes an absolute Unix expiry, not a duration.
	token, err := build(s.AppID, s.Certificate, channel, uid,
		rtctokenbuilder.RolePublisher, uint32(expiresAt.Unix()))
	if err != nil {
		return CallToken{}, domain.InternalError{Msg: "failed to build call token", Err: err}
	}

	utils.LogEvent(s.RequestID, "video", "issue_token", fmt.Sprintf("appointment_id=%d uid=%d", appt.ID, uid))
	return CallToken{
		Token:     token,
		Channel:   channel,
		AppID:     s.AppID,
		UID:       uid,
		ExpiresAt: expiresAt,
	}, nil
}
