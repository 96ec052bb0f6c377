package handlers

import (
	"net/http"
	"strings"

	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
	"github.com/WayneCarlG/meet-a-vet/internal/http/middleware"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	Users repositories.UserRepository
}

// GET /api/users/:id — self or admin.
func (h UserHandler) GetByID(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if !h.canAccess(c, id) {
		return
	}

	user, err := h.Users.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToPublic()})
}

type updateUserRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Specialty       string `json:"specialty"`
	County          string `json:"county"`
	ConsultationFee *int64 `json:"consultation_fee"`
	Password        string `json:"password"`
}

// PUT /api/users/:id — self or admin. Empty fields keep current values.
func (h UserHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if !h.canAccess(c, id) {
		return
	}

	var req updateUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := h.Users.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if name := utils.NormalizeSpace(req.Name); name != "" {
		user.Name = name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = phone
	}
	if specialty := strings.TrimSpace(req.Specialty); specialty != "" {
		user.Specialty = specialty
	}
	if county := strings.TrimSpace(req.County); county != "" {
		user.County = county
	}
	if req.ConsultationFee != nil && *req.ConsultationFee >= 0 {
		user.ConsultationFee = *req.ConsultationFee
	}

	if err := h.Users.Update(user); err != nil {
		RespondDomainError(c, err)
		return
	}

	if req.Password != "" {
		if len(req.Password) < 8 {
			respondError(c, http.StatusBadRequest, "validation_error", "password must be at least 8 characters")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "hash_failed", "failed to hash password")
			return
		}
		if err := h.Users.UpdatePassword(id, string(hash)); err != nil {
			RespondDomainError(c, err)
			return
		}
	}

	utils.LogEvent(middleware.GetRequestID(c), "users", "update", "id updated")
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "user": user.ToPublic()})
}

func (h UserHandler) canAccess(c *gin.Context, targetID int64) bool {
	if middleware.AuthUserRole(c) == models.RoleAdmin || middleware.AuthUserID(c) == targetID {
		return true
	}
	respondError(c, http.StatusForbidden, "forbidden", "cannot access another user's account")
	return false
}

// GET /api/vets — public directory of vet accounts.
func (h UserHandler) ListVets(c *gin.Context) {
	vets, err := h.Users.ListByRole(models.RoleSurgeon, models.RoleParaprofessional)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]models.PublicUser, 0, len(vets))
	for i := range vets {
		out = append(out, vets[i].ToPublic())
	}
	c.JSON(http.StatusOK, out)
}
