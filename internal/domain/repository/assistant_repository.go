package repository

import (
	"health-concierge/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssistantRepository interface {
	Create(db *gorm.DB, assistant *entity.Assistant) error
	Update(db *gorm.DB, assistant *entity.Assistant) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Assistant, error)
	// FindByIDForUpdate is FindByID holding a row lock until db's
	// transaction ends.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Assistant, error)
	FindAll(db *gorm.DB) ([]entity.Assistant, error)
	FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Assistant, error)
	// FindByEmailOrPhone matches either non-empty argument.
	FindByEmailOrPhone(db *gorm.DB, email, phone string) (*entity.Assistant, error)
}
