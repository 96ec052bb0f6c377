package handlers

import (
	"net/http"
	"strings"

	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
	"github.com/WayneCarlG/meet-a-vet/internal/http/middleware"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/utils"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	Appointments repositories.AppointmentRepository
	Users        repositories.UserRepository
}

type createAppointmentRequest struct {
	VetID       int64  `json:"vet_id"`
	AnimalID    int64  `json:"animal_id"`
	ScheduledAt string `json:"scheduled_at"`
	Reason      string `json:"reason"`
}

// POST /api/appointments — farmers book a vet.
func (h AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.ScheduledAt = strings.TrimSpace(req.ScheduledAt)
	if req.VetID <= 0 || req.ScheduledAt == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "vet_id and scheduled_at are required")
		return
	}
	if _, err := utils.ParseDateTime(req.ScheduledAt); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "scheduled_at must be YYYY-MM-DD HH:MM:SS")
		return
	}

	vet, err := h.Users.GetByID(req.VetID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !models.IsVetRole(vet.Role) {
		respondError(c, http.StatusBadRequest, "validation_error", "vet_id does not refer to a vet account")
		return
	}

	appt := models.Appointment{
		FarmerID:    middleware.AuthUserID(c),
		VetID:       req.VetID,
		AnimalID:    req.AnimalID,
		ScheduledAt: req.ScheduledAt,
		Reason:      utils.NormalizeSpace(req.Reason),
		Status:      models.AppointmentRequested,
	}

	id, err := h.Appointments.Create(appt)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	appt.ID = id

	utils.LogEvent(middleware.GetRequestID(c), "appointments", "create", "appointment booked")
	c.JSON(http.StatusCreated, gin.H{"message": "appointment requested", "appointment": appt})
}

// GET /api/appointments — scoped by role.
func (h AppointmentHandler) List(c *gin.Context) {
	appts, err := h.Appointments.ListForUser(middleware.AuthUserID(c), middleware.AuthUserRole(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// GET /api/appointments/:id
func (h AppointmentHandler) GetByID(c *gin.Context) {
	appt, ok := h.loadVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

type updateAppointmentRequest struct {
	Status string `json:"status"`
}

// PUT /api/appointments/:id — lifecycle transitions only.
func (h AppointmentHandler) Update(c *gin.Context) {
	appt, ok := h.loadVisible(c)
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	to := strings.ToLower(strings.TrimSpace(req.Status))
	if !models.ValidAppointmentTransition(appt.Status, to) {
		respondError(c, http.StatusBadRequest, "invalid_transition",
			"cannot move appointment from "+appt.Status+" to "+to)
		return
	}

	if err := h.Appointments.UpdateStatus(appt.ID, to); err != nil {
		RespondDomainError(c, err)
		return
	}
	appt.Status = to

	utils.LogEvent(middleware.GetRequestID(c), "appointments", "update_status", "status="+to)
	c.JSON(http.StatusOK, gin.H{"message": "appointment updated", "appointment": appt})
}

// DELETE /api/appointments/:id — admin only (router enforces the role).
func (h AppointmentHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := h.Appointments.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment deleted"})
}

func (h AppointmentHandler) loadVisible(c *gin.Context) (models.Appointment, bool) {
	id, ok := PathID(c, "id")
	if !ok {
		return models.Appointment{}, false
	}

	appt, err := h.Appointments.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return models.Appointment{}, false
	}

	userID := middleware.AuthUserID(c)
	role := middleware.AuthUserRole(c)
	if role != models.RoleAdmin && appt.FarmerID != userID && appt.VetID != userID {
		respondError(c, http.StatusForbidden, "forbidden", "not a participant of this appointment")
		return models.Appointment{}, false
	}
	return appt, true
}
