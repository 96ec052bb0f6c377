package handlers

import (
	"net/http"

	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
	"github.com/WayneCarlG/meet-a-vet/internal/http/middleware"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Users        repositories.UserRepository
	Appointments repositories.AppointmentRepository
	Payments     repositories.PaymentRepository
}

// GET /api/admin/stats
func (h AdminHandler) Stats(c *gin.Context) {
	farmers, err := h.Users.CountByRole(models.RoleFarmer)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	surgeons, err := h.Users.CountByRole(models.RoleSurgeon)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	paras, err := h.Users.CountByRole(models.RoleParaprofessional)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	appointments, err := h.Appointments.Count()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	completed, revenue, err := h.Payments.CompletedTotals()
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"farmers":            farmers,
		"surgeons":           surgeons,
		"paraprofessionals":  paras,
		"appointments":       appointments,
		"payments_completed": completed,
		"revenue_kes":        revenue,
	})
}

// GET /api/admin/farmers
func (h AdminHandler) ListFarmers(c *gin.Context) {
	h.listRole(c, models.RoleFarmer)
}

// GET /api/admin/surgeons
func (h AdminHandler) ListSurgeons(c *gin.Context) {
	h.listRole(c, models.RoleSurgeon, models.RoleParaprofessional)
}

func (h AdminHandler) listRole(c *gin.Context, roles ...string) {
	users, err := h.Users.ListByRole(roles...)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// GET /api/admin/transactions
func (h AdminHandler) ListTransactions(c *gin.Context) {
	payments, err := h.Payments.ListAll(0)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": payments})
}

// DELETE /api/admin/users/:id
func (h AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if id == middleware.AuthUserID(c) {
		respondError(c, http.StatusBadRequest, "validation_error", "cannot delete your own account")
		return
	}

	if err := h.Users.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "admin", "delete_user", "user removed")
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
