package repository

import (
	"context"
	"errors"
	"time"

	"pawperfection/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned by all repositories when no row matches.
var ErrNotFound = errors.New("record not found")

// PaymentUpdate is the field group a status transition writes. Nil fields
// are left untouched. Both storage backends translate it to their native
// update form.
type PaymentUpdate struct {
	Status        *models.PaymentStatus
	PaymentStatus *models.PaymentStatus
	PaymentMethod *models.PaymentMethod
	OrderID       *string
	Currency      *string
	PaymentDate   *time.Time
}

// PaymentRepository is the payment record store. Any storage engine
// implements this interface; gorm/Postgres and mongo-driver
// implementations ship in this package.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
	// FindBySessionOrOrderID resolves the record a provider callback refers
	// to; the id may be a checkout session id or a payment intent id.
	FindBySessionOrOrderID(ctx context.Context, providerID string) (*models.Payment, error)
	FindCompleted(ctx context.Context, userID, trainingProgramID uuid.UUID) (*models.Payment, error)
	FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Payment, error)
	// SetSessionIDs writes the provider session id into both join-key
	// columns once the checkout session exists.
	SetSessionIDs(ctx context.Context, id uuid.UUID, sessionID string) error
	ApplyUpdate(ctx context.Context, id uuid.UUID, update PaymentUpdate) error
}
