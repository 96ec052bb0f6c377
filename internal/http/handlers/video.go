package handlers

import (
	"net/http"
	"time"

	"github.com/WayneCarlG/meet-a-vet/internal/http/middleware"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/services"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	Appointments repositories.AppointmentRepository
	AppID        string
	Certificate  string
	TokenTTL     time.Duration
}

type videoTokenRequest struct {
	AppointmentID int64 `json:"appointment_id"`
}

// POST /api/video/token
func (h VideoHandler) IssueToken(c *gin.Context) {
	var req videoTokenRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.AppointmentID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "appointment_id is required")
		return
	}

	svc := services.VideoService{
		Appointments: h.Appointments,
		AppID:        h.AppID,
		Certificate:  h.Certificate,
		TokenTTL:     h.TokenTTL,
		RequestID:    middleware.GetRequestID(c),
	}

	token, err := svc.IssueToken(req.AppointmentID, middleware.AuthUserID(c), middleware.AuthUserRole(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}
