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

type AnimalHandler struct {
	Animals repositories.AnimalRepository
}

type animalRequest struct {
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	AgeMonths int    `json:"age_months"`
	Notes     string `json:"notes"`
}

// GET /api/animals — the farmer's own herd.
func (h AnimalHandler) List(c *gin.Context) {
	animals, err := h.Animals.ListByOwner(middleware.AuthUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"animals": animals})
}

// POST /api/animals
func (h AnimalHandler) Create(c *gin.Context) {
	var req animalRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Name = utils.NormalizeSpace(req.Name)
	req.Species = strings.TrimSpace(req.Species)
	if req.Name == "" || req.Species == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "name and species are required")
		return
	}
	if req.AgeMonths < 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "age_months cannot be negative")
		return
	}

	animal := models.Animal{
		OwnerID:   middleware.AuthUserID(c),
		Name:      req.Name,
		Species:   req.Species,
		Breed:     strings.TrimSpace(req.Breed),
		AgeMonths: req.AgeMonths,
		Notes:     strings.TrimSpace(req.Notes),
	}

	id, err := h.Animals.Create(animal)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	animal.ID = id

	c.JSON(http.StatusCreated, gin.H{"message": "animal added", "animal": animal})
}

// GET /api/animals/:id
func (h AnimalHandler) GetByID(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	animal, err := h.Animals.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if animal.OwnerID != middleware.AuthUserID(c) && middleware.AuthUserRole(c) != models.RoleAdmin {
		respondError(c, http.StatusForbidden, "forbidden", "not your animal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"animal": animal})
}

// PUT /api/animals/:id
func (h AnimalHandler) Update(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req animalRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	animal, err := h.Animals.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ownerID := middleware.AuthUserID(c)
	if animal.OwnerID != ownerID {
		respondError(c, http.StatusForbidden, "forbidden", "not your animal")
		return
	}

	if name := utils.NormalizeSpace(req.Name); name != "" {
		animal.Name = name
	}
	if species := strings.TrimSpace(req.Species); species != "" {
		animal.Species = species
	}
	if breed := strings.TrimSpace(req.Breed); breed != "" {
		animal.Breed = breed
	}
	if req.AgeMonths > 0 {
		animal.AgeMonths = req.AgeMonths
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		animal.Notes = notes
	}

	if err := h.Animals.Update(animal); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "animal updated", "animal": animal})
}

// DELETE /api/animals/:id
func (h AnimalHandler) Delete(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	if err := h.Animals.Delete(id, middleware.AuthUserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "animal removed"})
}
