package repository

import (
	"errors"

	"health-concierge/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestFilter narrows a request listing. Zero fields do not filter.
type RequestFilter struct {
	Statuses    []entity.RequestStatus
	AssistantID *uuid.UUID
	PatientID   *uuid.UUID
}

// ErrStatusChanged is returned by a guarded update when the row no longer
// holds the expected status.
var ErrStatusChanged = errors.New("request status changed since it was read")

type RequestRepository interface {
	Create(db *gorm.DB, req entity.Request) error
	// Update writes req. A non-empty expected status makes the write
	// conditional on the stored status still being expected.
	Update(db *gorm.DB, req entity.Request, expected entity.RequestStatus) error
	FindByID(db *gorm.DB, kind entity.RequestKind, id uuid.UUID) (entity.Request, error)
	FindHospitalSessions(db *gorm.DB, filter RequestFilter) ([]entity.HospitalSession, error)
	FindHomeCareRequests(db *gorm.DB, filter RequestFilter) ([]entity.HomeCareRequest, error)
	FindHealthSuppliesRequests(db *gorm.DB, filter RequestFilter) ([]entity.HealthSuppliesRequest, error)
}
