package repository

import (
	"context"

	"pawperfection/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PetRepository interface {
	Create(ctx context.Context, pet *models.Pet) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Pet, error)
	Update(ctx context.Context, pet *models.Pet) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormPetRepo struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) PetRepository {
	return &gormPetRepo{db: db}
}

func (r *gormPetRepo) Create(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Create(pet).Error
}

func (r *gormPetRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pet).Error; err != nil {
		return nil, translate(err)
	}
	return &pet, nil
}

func (r *gormPetRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Pet, error) {
	var pets []models.Pet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pets).Error
	return pets, err
}

func (r *gormPetRepo) Update(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Save(pet).Error
}

func (r *gormPetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Pet{}, "id = ?", id).Error
}
