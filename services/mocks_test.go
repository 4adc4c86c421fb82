package services

import (
	"context"

	"pawperfection/models"
	"pawperfection/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v80"
)

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindBySessionOrOrderID(ctx context.Context, providerID string) (*models.Payment, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindCompleted(ctx context.Context, userID, trainingProgramID uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, userID, trainingProgramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Payment, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SetSessionIDs(ctx context.Context, id uuid.UUID, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

func (m *MockPaymentRepository) ApplyUpdate(ctx context.Context, id uuid.UUID, update repository.PaymentUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

// --- Mock TrainingProgramRepository ---
type MockTrainingProgramRepository struct {
	mock.Mock
}

func (m *MockTrainingProgramRepository) Create(ctx context.Context, program *models.TrainingProgram) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockTrainingProgramRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.TrainingProgram, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingProgram), args.Error(1)
}

func (m *MockTrainingProgramRepository) FindByTitleAndWeek(ctx context.Context, title string, week int) (*models.TrainingProgram, error) {
	args := m.Called(ctx, title, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingProgram), args.Error(1)
}

func (m *MockTrainingProgramRepository) List(ctx context.Context) ([]models.TrainingProgram, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrainingProgram), args.Error(1)
}

func (m *MockTrainingProgramRepository) Update(ctx context.Context, program *models.TrainingProgram) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockTrainingProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockUserRepository) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserRepository) FindRefreshToken(ctx context.Context, tokenID string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockUserRepository) RevokeRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockUserRepository) RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock CheckoutGateway ---
type MockCheckoutGateway struct {
	mock.Mock
}

func (m *MockCheckoutGateway) CreateSession(ctx context.Context, p CreateSessionParams) (*CheckoutSession, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockCheckoutGateway) RetrieveSession(ctx context.Context, id string) (*CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockCheckoutGateway) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	args := m.Called(payload, sigHeader)
	return args.Get(0).(stripe.Event), args.Error(1)
}

// --- Mock EmailService ---
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPaymentConfirmation(ctx context.Context, data PaymentEmailData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockEmailService) SendPaymentCancellation(ctx context.Context, data PaymentEmailData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockEmailService) SendSessionExpired(ctx context.Context, data PaymentEmailData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
