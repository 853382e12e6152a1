package repository

import (
	"health-concierge/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HospitalRepository interface {
	FindAll(db *gorm.DB) ([]entity.Hospital, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error)
	// Seed inserts the hospitals whose names are not stored yet and returns
	// how many were added.
	Seed(db *gorm.DB, hospitals []entity.Hospital) (int, error)
}
