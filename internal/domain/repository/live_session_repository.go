package repository

import (
	"health-concierge/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LiveSessionRepository interface {
	Create(db *gorm.DB, session *entity.LiveSession) error
	Update(db *gorm.DB, session *entity.LiveSession) error
	// FindActiveByAssistant returns the most recently started open window.
	FindActiveByAssistant(db *gorm.DB, assistantID uuid.UUID) (*entity.LiveSession, error)
	CountActiveByAssistant(db *gorm.DB, assistantID uuid.UUID) (int64, error)
	FindActiveByHospital(db *gorm.DB, hospitalID uuid.UUID) ([]entity.LiveSession, error)
}
