package repository

import (
	"context"
	"errors"
	"time"

	"pawperfection/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *gormPaymentRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *gormPaymentRepo) FindBySessionOrOrderID(ctx context.Context, providerID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("session_id = ? OR order_id = ?", providerID, providerID).
		First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *gormPaymentRepo) FindCompleted(ctx context.Context, userID, trainingProgramID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND training_program_id = ? AND status = ?",
			userID, trainingProgramID, models.PaymentStatusCompleted).
		First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *gormPaymentRepo) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *gormPaymentRepo) SetSessionIDs(ctx context.Context, id uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"session_id": sessionID,
			"order_id":   sessionID,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormPaymentRepo) ApplyUpdate(ctx context.Context, id uuid.UUID, update PaymentUpdate) error {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.PaymentStatus != nil {
		updates["payment_status"] = *update.PaymentStatus
	}
	if update.PaymentMethod != nil {
		updates["payment_method"] = *update.PaymentMethod
	}
	if update.OrderID != nil {
		updates["order_id"] = *update.OrderID
	}
	if update.Currency != nil {
		updates["currency"] = *update.Currency
	}
	if update.PaymentDate != nil {
		updates["payment_date"] = *update.PaymentDate
	}
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
