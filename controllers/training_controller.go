package controllers

import (
	"errors"
	"net/http"

	"pawperfection/models"
	"pawperfection/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TrainingController struct {
	programs repository.TrainingProgramRepository
	logger   *zap.Logger
	devMode  bool
}

func NewTrainingController(programs repository.TrainingProgramRepository, logger *zap.Logger, devMode bool) *TrainingController {
	return &TrainingController{programs: programs, logger: logger, devMode: devMode}
}

type trainingProgramRequest struct {
	Week      int      `json:"week" binding:"required,min=1"`
	Title     string   `json:"title" binding:"required"`
	Tasks     []string `json:"tasks" binding:"required,min=1"`
	Resources []string `json:"resources"`
	Price     float64  `json:"price" binding:"required,gt=0"`
}

func (tc *TrainingController) CreateProgram(c *gin.Context) {
	var req trainingProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Week, title, tasks and a positive price are required", nil)
		return
	}

	existing, err := tc.programs.FindByTitleAndWeek(c.Request.Context(), req.Title, req.Week)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err, tc.devMode)
		return
	}
	if existing != nil {
		respond(c, http.StatusConflict, "Training program already exists for this week", existing)
		return
	}

	program := &models.TrainingProgram{
		Week:      req.Week,
		Title:     req.Title,
		Tasks:     req.Tasks,
		Resources: req.Resources,
		Price:     req.Price,
	}
	if err := tc.programs.Create(c.Request.Context(), program); err != nil {
		respondError(c, err, tc.devMode)
		return
	}
	respond(c, http.StatusCreated, "Training program created", program)
}

func (tc *TrainingController) ListPrograms(c *gin.Context) {
	programs, err := tc.programs.List(c.Request.Context())
	if err != nil {
		respondError(c, err, tc.devMode)
		return
	}
	respond(c, http.StatusOK, "Training programs fetched", programs)
}

func (tc *TrainingController) GetProgram(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid training program id", nil)
		return
	}

	program, err := tc.programs.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respond(c, http.StatusNotFound, "Training program not found", nil)
			return
		}
		respondError(c, err, tc.devMode)
		return
	}
	respond(c, http.StatusOK, "Training program fetched", program)
}

func (tc *TrainingController) UpdateProgram(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid training program id", nil)
		return
	}

	var req trainingProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Week, title, tasks and a positive price are required", nil)
		return
	}

	program, err := tc.programs.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respond(c, http.StatusNotFound, "Training program not found", nil)
			return
		}
		respondError(c, err, tc.devMode)
		return
	}

	program.Week = req.Week
	program.Title = req.Title
	program.Tasks = req.Tasks
	program.Resources = req.Resources
	program.Price = req.Price
	if err := tc.programs.Update(c.Request.Context(), program); err != nil {
		respondError(c, err, tc.devMode)
		return
	}
	respond(c, http.StatusOK, "Training program updated", program)
}

func (tc *TrainingController) DeleteProgram(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid training program id", nil)
		return
	}

	if err := tc.programs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, tc.devMode)
		return
	}
	respond(c, http.StatusOK, "Training program deleted", nil)
}
