package controllers

import (
	"net/http"

	"pawperfection/models"
	"pawperfection/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FeedbackController struct {
	feedback repository.FeedbackRepository
	logger   *zap.Logger
	devMode  bool
}

func NewFeedbackController(feedback repository.FeedbackRepository, logger *zap.Logger, devMode bool) *FeedbackController {
	return &FeedbackController{feedback: feedback, logger: logger, devMode: devMode}
}

type feedbackRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=100"`
}

func (fc *FeedbackController) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "A valid email and a message up to 100 characters are required", nil)
		return
	}

	feedback := &models.Feedback{Email: req.Email, Message: req.Message}
	if err := fc.feedback.Create(c.Request.Context(), feedback); err != nil {
		respondError(c, err, fc.devMode)
		return
	}
	respond(c, http.StatusCreated, "Feedback submitted", feedback)
}

func (fc *FeedbackController) ListFeedback(c *gin.Context) {
	feedbacks, err := fc.feedback.List(c.Request.Context())
	if err != nil {
		respondError(c, err, fc.devMode)
		return
	}
	respond(c, http.StatusOK, "Feedback fetched", feedbacks)
}
