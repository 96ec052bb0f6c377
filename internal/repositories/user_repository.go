package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id,
       COALESCE(name,''),
       COALESCE(email,''),
       COALESCE(phone,''),
       COALESCE(password_hash,''),
       COALESCE(role,''),
       COALESCE(specialty,''),
       COALESCE(county,''),
       COALESCE(consultation_fee,0),
       created_at,
       updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
		&u.Specialty,
		&u.County,
		&u.ConsultationFee,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r UserRepository) Create(u models.User) (int64, error) {
	res, err := r.DB.Exec(`
        INSERT INTO users (name, email, phone, password_hash, role, specialty, county, consultation_fee, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.Specialty, u.County, u.ConsultationFee)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r UserRepository) GetByID(id int64) (models.User, error) {
	u, err := scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r UserRepository) GetByEmail(email string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r UserRepository) EmailExists(email string) (bool, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

// Update rewrites mutable profile fields. Password changes go through
// UpdatePassword so re-hashing stays in one place.
func (r UserRepository) Update(u models.User) error {
	res, err := r.DB.Exec(`
        UPDATE users
        SET name = ?, phone = ?, specialty = ?, county = ?, consultation_fee = ?, updated_at = NOW()
        WHERE id = ?
    `, u.Name, u.Phone, u.Specialty, u.County, u.ConsultationFee, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean a no-change write; verify existence.
		if _, err := r.GetByID(u.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r UserRepository) UpdatePassword(id int64, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash = ?, updated_at = NOW() WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r UserRepository) Delete(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}

func (r UserRepository) ListByRole(roles ...string) ([]models.User, error) {
	if len(roles) == 0 {
		return []models.User{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(roles)), ",")
	args := make([]any, 0, len(roles))
	for _, role := range roles {
		args = append(args, role)
	}

	rows, err := r.DB.Query(`SELECT `+userColumns+` FROM users WHERE role IN (`+placeholders+`) ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UserRepository) CountByRole(role string) (int64, error) {
	var count int64
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
