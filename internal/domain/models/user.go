package models

import "time"

// Account roles. Admin accounts are seeded, never self-registered.
const (
	RoleFarmer           = "farmer"
	RoleSurgeon          = "surgeon"
	RoleParaprofessional = "paraprofessional"
	RoleAdmin            = "admin"
)

func IsRegistrableRole(role string) bool {
	switch role {
	case RoleFarmer, RoleSurgeon, RoleParaprofessional:
		return true
	}
	return false
}

func IsVetRole(role string) bool {
	return role == RoleSurgeon || role == RoleParaprofessional
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Specialty    string    `json:"specialty"`
	County       string    `json:"county"`
	// Consultation fee in whole KES; only meaningful for vet roles.
	ConsultationFee int64     `json:"consultation_fee"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type PublicUser struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Role            string    `json:"role"`
	Specialty       string    `json:"specialty,omitempty"`
	County          string    `json:"county,omitempty"`
	ConsultationFee int64     `json:"consultation_fee,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		Role:            u.Role,
		Specialty:       u.Specialty,
		County:          u.County,
		ConsultationFee: u.ConsultationFee,
		CreatedAt:       u.CreatedAt,
	}
}
