// Package store persists intake records through gorm.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"patient-intake/internal/models"
)

// PatientStore writes rows to the 'patients' table.
// Every Insert runs in its own transaction drawn from the gorm connection
// pool; no session is shared between requests.
type PatientStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *PatientStore {
	return &PatientStore{db: db}
}

// Migrate creates the patients table and its name index when they are absent.
func (s *PatientStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Patient{}); err != nil {
		return fmt.Errorf("migrate patients: %w", err)
	}
	return nil
}

// Insert writes one patient row and commits immediately.
func (s *PatientStore) Insert(ctx context.Context, name string, age int, diagnosis, record string) error {
	patient := models.Patient{
		Name:           name,
		Age:            age,
		Diagnosis:      diagnosis,
		FHIRIdentifier: record,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&patient).Error
	})
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *PatientStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close releases every pooled connection.
func (s *PatientStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}
