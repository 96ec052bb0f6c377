package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
	"github.com/WayneCarlG/meet-a-vet/internal/http/middleware"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Users     repositories.UserRepository
	JWTSecret []byte
	TokenTTL  time.Duration
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	Specialty       string `json:"specialty"`
	County          string `json:"county"`
	ConsultationFee int64  `json:"consultation_fee"`
}

// POST /api/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Name = utils.NormalizeSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	switch {
	case req.Name == "":
		respondError(c, http.StatusBadRequest, "validation_error", "name is required")
		return
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		respondError(c, http.StatusBadRequest, "validation_error", "a valid email is required")
		return
	case len(req.Password) < 8:
		respondError(c, http.StatusBadRequest, "validation_error", "password must be at least 8 characters")
		return
	case !models.IsRegistrableRole(req.Role):
		respondError(c, http.StatusBadRequest, "validation_error", "role must be farmer, surgeon or paraprofessional")
		return
	}

	exists, err := h.Users.EmailExists(req.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists {
		respondError(c, http.StatusBadRequest, "email_taken", "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "hash_failed", "failed to hash password")
		return
	}

	user := models.User{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           strings.TrimSpace(req.Phone),
		PasswordHash:    string(hash),
		Role:            req.Role,
		Specialty:       strings.TrimSpace(req.Specialty),
		County:          strings.TrimSpace(req.County),
		ConsultationFee: req.ConsultationFee,
	}

	id, err := h.Users.Create(user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	user.ID = id

	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", "email="+user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"user":    user.ToPublic(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/login
func (h AuthHandler) Login(c *gin.Context) {
	h.login(c, false)
}

// POST /api/admin-login
func (h AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, true)
}

func (h AuthHandler) login(c *gin.Context, adminOnly bool) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := h.Users.GetByEmail(req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusUnauthorized, "bad_credentials", "email or password is incorrect")
			return
		}
		RespondDomainError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "bad_credentials", "email or password is incorrect")
		return
	}

	if adminOnly && user.Role != models.RoleAdmin {
		respondError(c, http.StatusForbidden, "not_admin", "account is not an administrator")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(h.TokenTTL).Unix(),
	})
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "token_failed", "failed to sign token")
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "email="+user.Email)
	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  user.ToPublic(),
	})
}
