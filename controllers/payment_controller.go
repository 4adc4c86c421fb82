package controllers

import (
	"net/http"

	"pawperfection/middleware"
	"pawperfection/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentController struct {
	payments *services.PaymentService
	logger   *zap.Logger
	devMode  bool
}

func NewPaymentController(payments *services.PaymentService, logger *zap.Logger, devMode bool) *PaymentController {
	return &PaymentController{payments: payments, logger: logger, devMode: devMode}
}

type createPaymentRequest struct {
	Price             float64 `json:"price"`
	TrainingProgramID string  `json:"trainingProgramId"`
}

// CreatePayment opens a checkout session for a training program.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Price and training program id are required", nil)
		return
	}
	programID, err := uuid.Parse(req.TrainingProgramID)
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid training program id", nil)
		return
	}

	result, err := pc.payments.Create(c.Request.Context(), user, services.CreatePaymentInput{
		Price:             req.Price,
		TrainingProgramID: programID,
		IdempotencyKey:    c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		respondError(c, err, pc.devMode)
		return
	}

	if result.Existing {
		respond(c, http.StatusOK, "Payment already in progress", result)
		return
	}
	respond(c, http.StatusCreated, "Checkout session created", result)
}

type verifyPaymentRequest struct {
	SessionID string `json:"sessionId"`
}

// VerifyPayment reconciles a payment after the success redirect.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Session ID is required", nil)
		return
	}

	result, err := pc.payments.Verify(c.Request.Context(), user, req.SessionID)
	if err != nil {
		respondError(c, err, pc.devMode)
		return
	}
	respond(c, http.StatusOK, "Payment verified", result)
}

// GetPayment returns a single payment record for its owner.
func (pc *PaymentController) GetPayment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond(c, http.StatusBadRequest, "Invalid payment id", nil)
		return
	}

	payment, err := pc.payments.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err, pc.devMode)
		return
	}
	respond(c, http.StatusOK, "Payment fetched", payment)
}

// GetUserPayments lists the caller's payments, newest first.
func (pc *PaymentController) GetUserPayments(c *gin.Context) {
	user := middleware.CurrentUser(c)

	payments, err := pc.payments.ListForUser(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, pc.devMode)
		return
	}
	respond(c, http.StatusOK, "Payments fetched", payments)
}
