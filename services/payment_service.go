package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pawperfection/apperrors"
	"pawperfection/models"
	"pawperfection/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// checkoutSessionTTL is the provider-side expiry horizon; expiry is
// reported back only through the checkout.session.expired webhook.
const checkoutSessionTTL = 30 * time.Minute

type CreatePaymentInput struct {
	Price             float64
	TrainingProgramID uuid.UUID
	IdempotencyKey    string
}

type CreatePaymentResult struct {
	PaymentID uuid.UUID `json:"paymentId"`
	SessionID string    `json:"sessionId,omitempty"`
	URL       string    `json:"url,omitempty"`
	// Existing is true when an idempotency-key hit short-circuited the
	// call and no new session was requested.
	Existing bool `json:"-"`
}

type VerifyPaymentResult struct {
	Payment *models.Payment  `json:"payment"`
	Session *CheckoutSession `json:"session"`
	// WasUpdated is true when this call performed the pending→completed
	// transition, as opposed to finding it already applied by the
	// webhook path.
	WasUpdated bool `json:"wasUpdated"`
}

// PaymentService implements payment creation and the client-side
// verification path. Both it and the webhook path may race to apply the
// same terminal transition; each is idempotent on its own.
type PaymentService struct {
	payments    repository.PaymentRepository
	programs    repository.TrainingProgramRepository
	gateway     CheckoutGateway
	email       EmailService
	logger      *zap.Logger
	frontendURL string
	currency    string
}

func NewPaymentService(
	payments repository.PaymentRepository,
	programs repository.TrainingProgramRepository,
	gateway CheckoutGateway,
	email EmailService,
	logger *zap.Logger,
	frontendURL string,
	currency string,
) *PaymentService {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &PaymentService{
		payments:    payments,
		programs:    programs,
		gateway:     gateway,
		email:       email,
		logger:      logger,
		frontendURL: frontendURL,
		currency:    currency,
	}
}

// Create validates a purchase request, enforces the duplicate-purchase
// and idempotency rules, persists a pending payment record, and obtains
// a checkout session for it.
func (s *PaymentService) Create(ctx context.Context, user *models.User, in CreatePaymentInput) (*CreatePaymentResult, error) {
	if in.Price <= 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return nil, apperrors.Validation("Price must be a positive number")
	}
	if in.TrainingProgramID == uuid.Nil {
		return nil, apperrors.Validation("Price and training program id are required")
	}

	program, err := s.programs.FindByID(ctx, in.TrainingProgramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Training program not found")
		}
		return nil, err
	}

	existing, err := s.payments.FindCompleted(ctx, user.ID, in.TrainingProgramID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, &apperrors.DuplicatePurchaseError{PaymentID: existing.ID}
	}

	if in.IdempotencyKey != "" {
		prior, err := s.payments.FindByIdempotencyKey(ctx, user.ID, in.IdempotencyKey)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if prior != nil {
			s.logger.Info("Idempotency hit, returning existing payment",
				zap.String("payment_id", prior.ID.String()),
				zap.String("idempotency_key", in.IdempotencyKey),
			)
			result := &CreatePaymentResult{PaymentID: prior.ID, Existing: true}
			if prior.SessionID != models.SessionIDPending {
				result.SessionID = prior.SessionID
			}
			return result, nil
		}
	}

	payment := &models.Payment{
		UserID:            user.ID,
		TrainingProgramID: in.TrainingProgramID,
		Price:             in.Price,
		Currency:          s.currency,
		SessionID:         models.SessionIDPending,
		OrderID:           models.SessionIDPending,
		Status:            models.PaymentStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
		PaymentMethod:     models.PaymentMethodPending,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		payment.IdempotencyKey = &key
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	sess, err := s.gateway.CreateSession(ctx, CreateSessionParams{
		LineItem: CheckoutLineItem{
			Name:        fmt.Sprintf("Training Program - %s", program.Title),
			Description: fmt.Sprintf("Dog training course enrollment - Week %d", program.Week),
			Currency:    strings.ToLower(s.currency),
			UnitAmount:  int64(math.Round(in.Price * 100)),
		},
		SuccessURL: s.frontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL + "/payment/cancel",
		Metadata: map[string]string{
			"paymentId":         payment.ID.String(),
			"userId":            user.ID.String(),
			"trainingProgramId": in.TrainingProgramID.String(),
		},
		CustomerEmail:  user.Email,
		ExpiresAt:      time.Now().Add(checkoutSessionTTL),
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		// The record stays pending with sentinel ids; an expiry webhook
		// or manual cleanup reconciles it later.
		s.logger.Error("Checkout session creation failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return nil, apperrors.Gateway("Failed to create payment", err)
	}

	if err := s.payments.SetSessionIDs(ctx, payment.ID, sess.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Checkout session created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("session_id", sess.ID),
	)
	return &CreatePaymentResult{
		PaymentID: payment.ID,
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// Verify reconciles local state against the provider after the client's
// success redirect. Repeated calls after completion are read-only.
func (s *PaymentService) Verify(ctx context.Context, user *models.User, sessionID string) (*VerifyPaymentResult, error) {
	if sessionID == "" {
		return nil, apperrors.Validation("Session ID is required")
	}

	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperrors.NotFound("Payment session not found")
		}
		return nil, apperrors.Gateway("Failed to retrieve payment session", err)
	}

	payment, err := s.payments.FindBySessionOrOrderID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Payment record not found")
		}
		return nil, err
	}

	if payment.UserID != user.ID {
		return nil, apperrors.Forbidden("Unauthorized to verify this payment")
	}

	if sess.PaymentStatus != "paid" || payment.Status != models.PaymentStatusPending {
		return &VerifyPaymentResult{Payment: payment, Session: sess, WasUpdated: false}, nil
	}

	completed := models.PaymentStatusCompleted
	method := paymentMethodFrom(sess.PaymentMethodTypes)
	currency := currencyFrom(sess.Currency)
	now := time.Now()
	orderID := sess.ID
	if err := s.payments.ApplyUpdate(ctx, payment.ID, repository.PaymentUpdate{
		Status:        &completed,
		PaymentStatus: &completed,
		PaymentMethod: &method,
		OrderID:       &orderID,
		Currency:      &currency,
		PaymentDate:   &now,
	}); err != nil {
		return nil, err
	}

	updated, err := s.payments.FindByID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}

	// Best effort after the commit: an email failure never rolls back
	// the payment mutation.
	if program, perr := s.programs.FindByID(ctx, payment.TrainingProgramID); perr == nil {
		if err := s.email.SendPaymentConfirmation(ctx, PaymentEmailData{
			UserEmail:   user.Email,
			UserName:    user.DisplayName(),
			CourseTitle: program.Title,
			CourseWeek:  program.Week,
			Amount:      updated.Price,
			Currency:    updated.Currency,
			PaymentID:   updated.ID.String(),
			PaymentDate: now,
		}); err != nil {
			s.logger.Error("Failed to send confirmation email",
				zap.String("payment_id", updated.ID.String()),
				zap.Error(err),
			)
		}
	} else {
		s.logger.Warn("Skipping confirmation email, program lookup failed",
			zap.String("payment_id", updated.ID.String()),
			zap.Error(perr),
		)
	}

	return &VerifyPaymentResult{Payment: updated, Session: sess, WasUpdated: true}, nil
}

// Get returns a single payment record, owner-only.
func (s *PaymentService) Get(ctx context.Context, user *models.User, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Payment not found")
		}
		return nil, err
	}
	if payment.UserID != user.ID {
		return nil, apperrors.Forbidden("Unauthorized to view this payment")
	}
	return payment, nil
}

// ListForUser returns the caller's payment records, newest first.
func (s *PaymentService) ListForUser(ctx context.Context, user *models.User) ([]models.Payment, error) {
	return s.payments.FindByUser(ctx, user.ID)
}

func paymentMethodFrom(types []string) models.PaymentMethod {
	if len(types) == 0 {
		return models.PaymentMethodCard
	}
	switch types[0] {
	case "upi":
		return models.PaymentMethodUPI
	case "netbanking":
		return models.PaymentMethodNetbanking
	case "wallet":
		return models.PaymentMethodWallet
	default:
		return models.PaymentMethodCard
	}
}

func currencyFrom(currency string) string {
	if currency == "" {
		return models.DefaultCurrency
	}
	return strings.ToUpper(currency)
}
