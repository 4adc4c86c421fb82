package database

import (
	"fmt"

	"pawperfection/config"
	"pawperfection/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.PostgresHost, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB,
		cfg.PostgresPort, cfg.PostgresSSLMode, cfg.PostgresTimeZone)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Migrate runs schema migration. Beyond AutoMigrate it installs a partial
// unique index so at most one completed payment can exist per
// (user, training program) pair, and a per-user unique constraint on the
// idempotency key. Both close race windows the service-level pre-checks
// cannot.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Pet{},
		&models.TrainingProgram{},
		&models.Feedback{},
		&models.Payment{},
	); err != nil {
		return err
	}

	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_completed_once
		ON payments (user_id, training_program_id) WHERE status = 'completed'`).Error; err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_user_idem
		ON payments (user_id, idempotency_key) WHERE idempotency_key IS NOT NULL`).Error
}
