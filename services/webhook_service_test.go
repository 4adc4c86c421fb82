package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pawperfection/models"
	"pawperfection/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

func newTestWebhookService(payments *MockPaymentRepository, users *MockUserRepository, programs *MockTrainingProgramRepository, email *MockEmailService) *WebhookService {
	return NewWebhookService(payments, users, programs, email, zap.NewNop())
}

func sessionEvent(t *testing.T, eventType, sessionID string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"id":                   sessionID,
		"currency":             "inr",
		"payment_method_types": []string{"card"},
	})
	assert.NoError(t, err)
	return stripe.Event{
		ID:   "evt_" + sessionID,
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func intentEvent(t *testing.T, eventType, intentID string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"id":       intentID,
		"currency": "inr",
	})
	assert.NoError(t, err)
	return stripe.Event{
		ID:   "evt_" + intentID,
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func expectEmailLookups(users *MockUserRepository, programs *MockTrainingProgramRepository, payment *models.Payment) {
	users.On("FindByID", mock.Anything, payment.UserID).
		Return(&models.User{ID: payment.UserID, Email: "owner@example.com"}, nil)
	programs.On("FindByID", mock.Anything, payment.TrainingProgramID).
		Return(&models.TrainingProgram{ID: payment.TrainingProgramID, Title: "Leash Manners", Week: 2}, nil)
}

func TestHandleEvent(t *testing.T) {
	t.Run("checkout.session.completed - pending payment is completed", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		mockUsers := new(MockUserRepository)
		mockPrograms := new(MockTrainingProgramRepository)
		mockEmail := new(MockEmailService)
		svc := newTestWebhookService(mockPayments, mockUsers, mockPrograms, mockEmail)

		payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), TrainingProgramID: uuid.New(), SessionID: "cs_1", Status: models.PaymentStatusPending}
		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "cs_1").Return(payment, nil).Once()
		mockPayments.On("ApplyUpdate", mock.Anything, payment.ID, mock.MatchedBy(func(u repository.PaymentUpdate) bool {
			return u.Status != nil && *u.Status == models.PaymentStatusCompleted &&
				u.PaymentDate != nil
		})).Return(nil).Once()
		expectEmailLookups(mockUsers, mockPrograms, payment)
		mockEmail.On("SendPaymentConfirmation", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		err := svc.HandleEvent(context.Background(), sessionEvent(t, EventCheckoutCompleted, "cs_1"))

		// Assert
		assert.NoError(t, err)
		mockPayments.AssertExpectations(t)
		mockEmail.AssertExpectations(t)
	})

	t.Run("checkout.session.completed - duplicate delivery leaves record alone", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		mockUsers := new(MockUserRepository)
		mockPrograms := new(MockTrainingProgramRepository)
		mockEmail := new(MockEmailService)
		svc := newTestWebhookService(mockPayments, mockUsers, mockPrograms, mockEmail)

		payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), TrainingProgramID: uuid.New(), SessionID: "cs_1", Status: models.PaymentStatusCompleted}
		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "cs_1").Return(payment, nil).Once()
		expectEmailLookups(mockUsers, mockPrograms, payment)
		mockEmail.On("SendPaymentConfirmation", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		err := svc.HandleEvent(context.Background(), sessionEvent(t, EventCheckoutCompleted, "cs_1"))

		// Assert
		assert.NoError(t, err)
		mockPayments.AssertNotCalled(t, "ApplyUpdate")
	})

	t.Run("checkout.session.expired - pending payment expires with both emails", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		mockUsers := new(MockUserRepository)
		mockPrograms := new(MockTrainingProgramRepository)
		mockEmail := new(MockEmailService)
		svc := newTestWebhookService(mockPayments, mockUsers, mockPrograms, mockEmail)

		payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), TrainingProgramID: uuid.New(), SessionID: "cs_1", Status: models.PaymentStatusPending}
		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "cs_1").Return(payment, nil).Once()
		mockPayments.On("ApplyUpdate", mock.Anything, payment.ID, mock.MatchedBy(func(u repository.PaymentUpdate) bool {
			return u.Status != nil && *u.Status == models.PaymentStatusExpired
		})).Return(nil).Once()
		expectEmailLookups(mockUsers, mockPrograms, payment)
		mockEmail.On("SendSessionExpired", mock.Anything, mock.Anything).Return(nil).Once()
		mockEmail.On("SendPaymentCancellation", mock.Anything, mock.MatchedBy(func(d PaymentEmailData) bool {
			return d.Reason == "Payment session expired"
		})).Return(nil).Once()

		// Act
		err := svc.HandleEvent(context.Background(), sessionEvent(t, EventCheckoutExpired, "cs_1"))

		// Assert
		assert.NoError(t, err)
		mockEmail.AssertExpectations(t)
	})

	t.Run("checkout.session.expired - completed payment is not reverted", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		mockUsers := new(MockUserRepository)
		mockPrograms := new(MockTrainingProgramRepository)
		mockEmail := new(MockEmailService)
		svc := newTestWebhookService(mockPayments, mockUsers, mockPrograms, mockEmail)

		payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), TrainingProgramID: uuid.New(), SessionID: "cs_1", Status: models.PaymentStatusCompleted}
		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "cs_1").Return(payment, nil).Once()
		expectEmailLookups(mockUsers, mockPrograms, payment)
		mockEmail.On("SendSessionExpired", mock.Anything, mock.Anything).Return(nil).Once()
		mockEmail.On("SendPaymentCancellation", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		err := svc.HandleEvent(context.Background(), sessionEvent(t, EventCheckoutExpired, "cs_1"))

		// Assert
		assert.NoError(t, err)
		mockPayments.AssertNotCalled(t, "ApplyUpdate")
	})

	t.Run("payment_intent.payment_failed - record marked failed", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		mockUsers := new(MockUserRepository)
		mockPrograms := new(MockTrainingProgramRepository)
		mockEmail := new(MockEmailService)
		svc := newTestWebhookService(mockPayments, mockUsers, mockPrograms, mockEmail)

		payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), TrainingProgramID: uuid.New(), OrderID: "pi_1", Status: models.PaymentStatusPending}
		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "pi_1").Return(payment, nil).Once()
		mockPayments.On("ApplyUpdate", mock.Anything, payment.ID, mock.MatchedBy(func(u repository.PaymentUpdate) bool {
			return u.Status != nil && *u.Status == models.PaymentStatusFailed
		})).Return(nil).Once()
		expectEmailLookups(mockUsers, mockPrograms, payment)
		mockEmail.On("SendPaymentCancellation", mock.Anything, mock.MatchedBy(func(d PaymentEmailData) bool {
			return d.Reason == "Payment failed"
		})).Return(nil).Once()

		// Act
		err := svc.HandleEvent(context.Background(), intentEvent(t, EventPaymentIntentFailed, "pi_1"))

		// Assert
		assert.NoError(t, err)
		mockPayments.AssertExpectations(t)
	})

	t.Run("payment_intent.canceled - record marked canceled", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		mockUsers := new(MockUserRepository)
		mockPrograms := new(MockTrainingProgramRepository)
		mockEmail := new(MockEmailService)
		svc := newTestWebhookService(mockPayments, mockUsers, mockPrograms, mockEmail)

		payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), TrainingProgramID: uuid.New(), OrderID: "pi_1", Status: models.PaymentStatusPending}
		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "pi_1").Return(payment, nil).Once()
		mockPayments.On("ApplyUpdate", mock.Anything, payment.ID, mock.MatchedBy(func(u repository.PaymentUpdate) bool {
			return u.Status != nil && *u.Status == models.PaymentStatusCanceled
		})).Return(nil).Once()
		expectEmailLookups(mockUsers, mockPrograms, payment)
		mockEmail.On("SendPaymentCancellation", mock.Anything, mock.MatchedBy(func(d PaymentEmailData) bool {
			return d.Reason == "Payment canceled by user"
		})).Return(nil).Once()

		// Act
		err := svc.HandleEvent(context.Background(), intentEvent(t, EventPaymentIntentCanceled, "pi_1"))

		// Assert
		assert.NoError(t, err)
		mockPayments.AssertExpectations(t)
	})

	t.Run("payment_intent.succeeded - completes a non-completed record", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		mockUsers := new(MockUserRepository)
		mockPrograms := new(MockTrainingProgramRepository)
		mockEmail := new(MockEmailService)
		svc := newTestWebhookService(mockPayments, mockUsers, mockPrograms, mockEmail)

		payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), TrainingProgramID: uuid.New(), OrderID: "pi_1", Status: models.PaymentStatusPending}
		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "pi_1").Return(payment, nil).Once()
		mockPayments.On("ApplyUpdate", mock.Anything, payment.ID, mock.MatchedBy(func(u repository.PaymentUpdate) bool {
			return u.Status != nil && *u.Status == models.PaymentStatusCompleted
		})).Return(nil).Once()
		expectEmailLookups(mockUsers, mockPrograms, payment)
		mockEmail.On("SendPaymentConfirmation", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		err := svc.HandleEvent(context.Background(), intentEvent(t, EventPaymentIntentSucceeded, "pi_1"))

		// Assert
		assert.NoError(t, err)
		mockPayments.AssertExpectations(t)
	})

	t.Run("missing record is acknowledged without error", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		mockEmail := new(MockEmailService)
		svc := newTestWebhookService(mockPayments, new(MockUserRepository), new(MockTrainingProgramRepository), mockEmail)

		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "cs_unknown").Return(nil, repository.ErrNotFound).Once()

		// Act
		err := svc.HandleEvent(context.Background(), sessionEvent(t, EventCheckoutCompleted, "cs_unknown"))

		// Assert
		assert.NoError(t, err)
		mockPayments.AssertNotCalled(t, "ApplyUpdate")
		mockEmail.AssertNotCalled(t, "SendPaymentConfirmation")
	})

	t.Run("store failure propagates so the provider redelivers", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		svc := newTestWebhookService(mockPayments, new(MockUserRepository), new(MockTrainingProgramRepository), new(MockEmailService))

		payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), TrainingProgramID: uuid.New(), SessionID: "cs_1", Status: models.PaymentStatusPending}
		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "cs_1").Return(payment, nil).Once()
		mockPayments.On("ApplyUpdate", mock.Anything, payment.ID, mock.Anything).Return(errors.New("db down")).Once()

		// Act
		err := svc.HandleEvent(context.Background(), sessionEvent(t, EventCheckoutCompleted, "cs_1"))

		// Assert
		assert.Error(t, err)
	})

	t.Run("email failure never fails the delivery", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		mockUsers := new(MockUserRepository)
		mockPrograms := new(MockTrainingProgramRepository)
		mockEmail := new(MockEmailService)
		svc := newTestWebhookService(mockPayments, mockUsers, mockPrograms, mockEmail)

		payment := &models.Payment{ID: uuid.New(), UserID: uuid.New(), TrainingProgramID: uuid.New(), SessionID: "cs_1", Status: models.PaymentStatusPending}
		mockPayments.On("FindBySessionOrOrderID", mock.Anything, "cs_1").Return(payment, nil).Once()
		mockPayments.On("ApplyUpdate", mock.Anything, payment.ID, mock.Anything).Return(nil).Once()
		expectEmailLookups(mockUsers, mockPrograms, payment)
		mockEmail.On("SendPaymentConfirmation", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

		// Act
		err := svc.HandleEvent(context.Background(), sessionEvent(t, EventCheckoutCompleted, "cs_1"))

		// Assert
		assert.NoError(t, err)
	})

	t.Run("unknown event type is a no-op", func(t *testing.T) {
		// Arrange
		mockPayments := new(MockPaymentRepository)
		svc := newTestWebhookService(mockPayments, new(MockUserRepository), new(MockTrainingProgramRepository), new(MockEmailService))

		// Act
		err := svc.HandleEvent(context.Background(), stripe.Event{
			Type: "customer.created",
			Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
		})

		// Assert
		assert.NoError(t, err)
		mockPayments.AssertNotCalled(t, "FindBySessionOrOrderID")
	})
}
