package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/domain/models"
)

type AnimalRepository struct {
	DB *sql.DB
}

const animalColumns = `id,
       owner_id,
       COALESCE(name,''),
       COALESCE(species,''),
       COALESCE(breed,''),
       COALESCE(age_months,0),
       COALESCE(notes,''),
       created_at,
       updated_at`

func scanAnimal(row interface{ Scan(...any) error }) (models.Animal, error) {
	var a models.Animal
	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Name,
		&a.Species,
		&a.Breed,
		&a.AgeMonths,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r AnimalRepository) Create(a models.Animal) (int64, error) {
	res, err := r.DB.Exec(`
        INSERT INTO animals (owner_id, name, species, breed, age_months, notes, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, a.OwnerID, a.Name, a.Species, a.Breed, a.AgeMonths, a.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert animal: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r AnimalRepository) GetByID(id int64) (models.Animal, error) {
	a, err := scanAnimal(r.DB.QueryRow(`SELECT `+animalColumns+` FROM animals WHERE id = ? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Animal{}, domain.NotFoundError{Resource: "animal"}
		}
		return models.Animal{}, fmt.Errorf("query animal: %w", err)
	}
	return a, nil
}

func (r AnimalRepository) ListByOwner(ownerID int64) ([]models.Animal, error) {
	rows, err := r.DB.Query(`SELECT `+animalColumns+` FROM animals WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	defer rows.Close()

	out := []models.Animal{}
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r AnimalRepository) Update(a models.Animal) error {
	res, err := r.DB.Exec(`
        UPDATE animals
        SET name = ?, species = ?, breed = ?, age_months = ?, notes = ?, updated_at = NOW()
        WHERE id = ? AND owner_id = ?
    `, a.Name, a.Species, a.Breed, a.AgeMonths, a.Notes, a.ID, a.OwnerID)
	if err != nil {
		return fmt.Errorf("update animal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r AnimalRepository) Delete(id, ownerID int64) error {
	res, err := r.DB.Exec(`DELETE FROM animals WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "animal"}
	}
	return nil
}
