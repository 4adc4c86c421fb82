package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pawperfection/models"
	"pawperfection/repository"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// Webhook event types this service reconciles. Anything else is
// acknowledged and dropped.
const (
	EventCheckoutCompleted      = "checkout.session.completed"
	EventCheckoutExpired        = "checkout.session.expired"
	EventPaymentIntentFailed    = "payment_intent.payment_failed"
	EventPaymentIntentCanceled  = "payment_intent.canceled"
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
)

// WebhookService applies provider-reported state transitions to payment
// records, independent of any client request. Handlers are safe to
// invoke more than once for the same event: deliveries are at-least-once
// and race with the client verification path by design.
type WebhookService struct {
	payments repository.PaymentRepository
	users    repository.UserRepository
	programs repository.TrainingProgramRepository
	email    EmailService
	logger   *zap.Logger
}

func NewWebhookService(
	payments repository.PaymentRepository,
	users repository.UserRepository,
	programs repository.TrainingProgramRepository,
	email EmailService,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		payments: payments,
		users:    users,
		programs: programs,
		email:    email,
		logger:   logger,
	}
}

// HandleEvent dispatches a signature-verified event. A returned error
// means the store mutation failed and the provider should retry the
// delivery; "no matching record" is not an error, since a retry would
// never make the record appear.
func (s *WebhookService) HandleEvent(ctx context.Context, event stripe.Event) error {
	s.logger.Info("Processing webhook event",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch string(event.Type) {
	case EventCheckoutCompleted:
		sess, err := unmarshalSession(event)
		if err != nil {
			s.logger.Error("Failed to unmarshal checkout session", zap.Error(err))
			return nil
		}
		return s.handleCheckoutCompleted(ctx, sess)
	case EventCheckoutExpired:
		sess, err := unmarshalSession(event)
		if err != nil {
			s.logger.Error("Failed to unmarshal checkout session", zap.Error(err))
			return nil
		}
		return s.handleCheckoutExpired(ctx, sess)
	case EventPaymentIntentFailed:
		pi, err := unmarshalIntent(event)
		if err != nil {
			s.logger.Error("Failed to unmarshal payment intent", zap.Error(err))
			return nil
		}
		return s.handleIntentTerminal(ctx, pi, models.PaymentStatusFailed, "Payment failed")
	case EventPaymentIntentCanceled:
		pi, err := unmarshalIntent(event)
		if err != nil {
			s.logger.Error("Failed to unmarshal payment intent", zap.Error(err))
			return nil
		}
		return s.handleIntentTerminal(ctx, pi, models.PaymentStatusCanceled, "Payment canceled by user")
	case EventPaymentIntentSucceeded:
		pi, err := unmarshalIntent(event)
		if err != nil {
			s.logger.Error("Failed to unmarshal payment intent", zap.Error(err))
			return nil
		}
		return s.handleIntentSucceeded(ctx, pi)
	default:
		s.logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		return nil
	}
}

func (s *WebhookService) handleCheckoutCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	payment, found := s.lookup(ctx, sess.ID)
	if !found {
		return nil
	}

	if payment.Status == models.PaymentStatusPending {
		completed := models.PaymentStatusCompleted
		method := paymentMethodFrom(sess.PaymentMethodTypes)
		currency := currencyFrom(string(sess.Currency))
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
			return err
		}
		s.logger.Info("Payment completed via webhook", zap.String("payment_id", payment.ID.String()))
	} else {
		s.logger.Info("Skipping duplicate checkout completion",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", string(payment.Status)),
		)
	}

	s.sendConfirmation(ctx, payment)
	return nil
}

func (s *WebhookService) handleCheckoutExpired(ctx context.Context, sess *stripe.CheckoutSession) error {
	payment, found := s.lookup(ctx, sess.ID)
	if !found {
		return nil
	}

	if !payment.Status.Terminal() {
		expired := models.PaymentStatusExpired
		currency := currencyFrom(string(sess.Currency))
		orderID := sess.ID
		if err := s.payments.ApplyUpdate(ctx, payment.ID, repository.PaymentUpdate{
			Status:        &expired,
			PaymentStatus: &expired,
			OrderID:       &orderID,
			Currency:      &currency,
		}); err != nil {
			return err
		}
		s.logger.Info("Payment session expired", zap.String("payment_id", payment.ID.String()))
	} else {
		s.logger.Info("Skipping expiry for terminal payment",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", string(payment.Status)),
		)
	}

	s.sendExpired(ctx, payment)
	s.sendCancellation(ctx, payment, "Payment session expired")
	return nil
}

func (s *WebhookService) handleIntentTerminal(ctx context.Context, pi *stripe.PaymentIntent, status models.PaymentStatus, reason string) error {
	payment, found := s.lookup(ctx, pi.ID)
	if !found {
		return nil
	}

	paymentStatus := status
	currency := currencyFrom(string(pi.Currency))
	orderID := pi.ID
	if err := s.payments.ApplyUpdate(ctx, payment.ID, repository.PaymentUpdate{
		Status:        &status,
		PaymentStatus: &paymentStatus,
		OrderID:       &orderID,
		Currency:      &currency,
	}); err != nil {
		return err
	}
	s.logger.Info("Payment transitioned via webhook",
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", string(status)),
	)

	s.sendCancellation(ctx, payment, reason)
	return nil
}

func (s *WebhookService) handleIntentSucceeded(ctx context.Context, pi *stripe.PaymentIntent) error {
	payment, found := s.lookup(ctx, pi.ID)
	if !found {
		return nil
	}

	if payment.Status != models.PaymentStatusCompleted {
		completed := models.PaymentStatusCompleted
		currency := currencyFrom(string(pi.Currency))
		now := time.Now()
		orderID := pi.ID
		if err := s.payments.ApplyUpdate(ctx, payment.ID, repository.PaymentUpdate{
			Status:        &completed,
			PaymentStatus: &completed,
			OrderID:       &orderID,
			Currency:      &currency,
			PaymentDate:   &now,
		}); err != nil {
			return err
		}
		s.logger.Info("Payment completed via payment intent", zap.String("payment_id", payment.ID.String()))
	} else {
		s.logger.Info("Skipping duplicate intent success",
			zap.String("payment_id", payment.ID.String()),
		)
	}

	s.sendConfirmation(ctx, payment)
	return nil
}

// lookup resolves a provider id to a payment record; a miss is logged
// and swallowed so the provider does not retry a delivery that can
// never match.
func (s *WebhookService) lookup(ctx context.Context, providerID string) (*models.Payment, bool) {
	payment, err := s.payments.FindBySessionOrOrderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Payment record not found for provider id",
				zap.String("provider_id", providerID),
			)
		} else {
			s.logger.Error("Payment lookup failed",
				zap.String("provider_id", providerID),
				zap.Error(err),
			)
		}
		return nil, false
	}
	return payment, true
}

func (s *WebhookService) sendConfirmation(ctx context.Context, payment *models.Payment) {
	data, ok := s.emailData(ctx, payment, "")
	if !ok {
		return
	}
	if err := s.email.SendPaymentConfirmation(ctx, data); err != nil {
		s.logger.Error("Failed to send confirmation email",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *WebhookService) sendCancellation(ctx context.Context, payment *models.Payment, reason string) {
	data, ok := s.emailData(ctx, payment, reason)
	if !ok {
		return
	}
	if err := s.email.SendPaymentCancellation(ctx, data); err != nil {
		s.logger.Error("Failed to send cancellation email",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *WebhookService) sendExpired(ctx context.Context, payment *models.Payment) {
	data, ok := s.emailData(ctx, payment, "Payment session expired")
	if !ok {
		return
	}
	if err := s.email.SendSessionExpired(ctx, data); err != nil {
		s.logger.Error("Failed to send session expired email",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *WebhookService) emailData(ctx context.Context, payment *models.Payment, reason string) (PaymentEmailData, bool) {
	user, err := s.users.FindByID(ctx, payment.UserID)
	if err != nil {
		s.logger.Warn("Skipping notification, user lookup failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return PaymentEmailData{}, false
	}
	program, err := s.programs.FindByID(ctx, payment.TrainingProgramID)
	if err != nil {
		s.logger.Warn("Skipping notification, program lookup failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return PaymentEmailData{}, false
	}
	return PaymentEmailData{
		UserEmail:   user.Email,
		UserName:    user.DisplayName(),
		CourseTitle: program.Title,
		CourseWeek:  program.Week,
		Amount:      payment.Price,
		Currency:    payment.Currency,
		PaymentID:   payment.ID.String(),
		PaymentDate: time.Now(),
		Reason:      reason,
	}, true
}

func unmarshalSession(event stripe.Event) (*stripe.CheckoutSession, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func unmarshalIntent(event stripe.Event) (*stripe.PaymentIntent, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, err
	}
	return &pi, nil
}
