package controllers

import (
	"errors"
	"net/http"

	"pawperfection/middleware"
	"pawperfection/models"
	"pawperfection/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PetController struct {
	pets    repository.PetRepository
	logger  *zap.Logger
	devMode bool
}

func NewPetController(pets repository.PetRepository, logger *zap.Logger, devMode bool) *PetController {
	return &PetController{pets: pets, logger: logger, devMode: devMode}
}

type petRequest struct {
	Name        string `json:"name" binding:"required"`
	Breed       string `json:"breed" binding:"required"`
	Age         int    `json:"age" binding:"required,min=0"`
	Gender      string `json:"gender" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (pc *PetController) CreatePet(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "All pet fields are required", nil)
		return
	}

	pet := &models.Pet{
		Name:        req.Name,
		Breed:       req.Breed,
		Age:         req.Age,
		Gender:      req.Gender,
		Description: req.Description,
		UserID:      user.ID,
	}
	if err := pc.pets.Create(c.Request.Context(), pet); err != nil {
		respondError(c, err, pc.devMode)
		return
	}
	respond(c, http.StatusCreated, "Pet added", pet)
}

func (pc *PetController) GetUserPets(c *gin.Context) {
	user := middleware.CurrentUser(c)

	pets, err := pc.pets.FindByUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, pc.devMode)
		return
	}
	respond(c, http.StatusOK, "Pets fetched", pets)
}

func (pc *PetController) GetPet(c *gin.Context) {
	user := middleware.CurrentUser(c)
	pet, ok := pc.ownedPet(c, user.ID)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "Pet fetched", pet)
}

func (pc *PetController) UpdatePet(c *gin.Context) {
	user := middleware.CurrentUser(c)
	pet, ok := pc.ownedPet(c, user.ID)
	if !ok {
		return
	}

	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "All pet fields are required", nil)
		return
	}

	pet.Name = req.Name
	pet.Breed = req.Breed
	pet.Age = req.Age
	pet.Gender = req.Gender
	pet.Description = req.Description
	if err := pc.pets.Update(c.Request.Context(), pet); err != nil {
		respondError(c, err, pc.devMode)
		return
	}
	respond(c, http.StatusOK, "Pet updated", pet)
}

func (pc *PetController) DeletePet(c *gin.Context) {
	user := middleware.CurrentUser(c)
	pet, ok := pc.ownedPet(c, user.ID)
	if !ok {
		return
	}

	if err := pc.pets.Delete(c.Request.Context(), pet.ID); err != nil {
		respondError(c, err, pc.devMode)
		return
	}
	respond(c, http.StatusOK, "Pet deleted", nil)
}

func (pc *PetController) ownedPet(c *gin.Context, userID uuid.UUID) (*models.Pet, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid pet id", nil)
		return nil, false
	}

	pet, err := pc.pets.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respond(c, http.StatusNotFound, "Pet not found", nil)
			return nil, false
		}
		respondError(c, err, pc.devMode)
		return nil, false
	}
	if pet.UserID != userID {
		respond(c, http.StatusForbidden, "Unauthorized to manage this pet", nil)
		return nil, false
	}
	return pet, true
}
