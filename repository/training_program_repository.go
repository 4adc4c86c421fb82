package repository

import (
	"context"

	"pawperfection/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrainingProgramRepository interface {
	Create(ctx context.Context, program *models.TrainingProgram) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.TrainingProgram, error)
	FindByTitleAndWeek(ctx context.Context, title string, week int) (*models.TrainingProgram, error)
	List(ctx context.Context) ([]models.TrainingProgram, error)
	Update(ctx context.Context, program *models.TrainingProgram) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormTrainingProgramRepo struct {
	db *gorm.DB
}

func NewTrainingProgramRepository(db *gorm.DB) TrainingProgramRepository {
	return &gormTrainingProgramRepo{db: db}
}

func (r *gormTrainingProgramRepo) Create(ctx context.Context, program *models.TrainingProgram) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *gormTrainingProgramRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.TrainingProgram, error) {
	var program models.TrainingProgram
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&program).Error; err != nil {
		return nil, translate(err)
	}
	return &program, nil
}

func (r *gormTrainingProgramRepo) FindByTitleAndWeek(ctx context.Context, title string, week int) (*models.TrainingProgram, error) {
	var program models.TrainingProgram
	err := r.db.WithContext(ctx).
		Where("title = ? AND week = ?", title, week).
		First(&program).Error
	if err != nil {
		return nil, translate(err)
	}
	return &program, nil
}

func (r *gormTrainingProgramRepo) List(ctx context.Context) ([]models.TrainingProgram, error) {
	var programs []models.TrainingProgram
	err := r.db.WithContext(ctx).Order("week ASC").Find(&programs).Error
	return programs, err
}

func (r *gormTrainingProgramRepo) Update(ctx context.Context, program *models.TrainingProgram) error {
	return r.db.WithContext(ctx).Save(program).Error
}

func (r *gormTrainingProgramRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.TrainingProgram{}, "id = ?", id).Error
}
