package usecase

import (
	"context"
	"errors"
	"time"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"
	"health-concierge/internal/service"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrLiveSessionAlreadyActive = errors.New("assistant already has an active live session")
	ErrNoActiveLiveSession      = errors.New("assistant has no active live session")
)

type LiveSessionUsecase interface {
	GoLive(ctx context.Context, assistantID uuid.UUID, req *dto.GoLiveRequest) (*entity.LiveSession, error)
	// EndLive closes every open window of the assistant and returns the most
	// recent one.
	EndLive(ctx context.Context, assistantID uuid.UUID, notes string) (*entity.LiveSession, error)
	// GetActive returns nil when the assistant is offline.
	GetActive(ctx context.Context, assistantID uuid.UUID) (*entity.LiveSession, error)
}

type liveSessionUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	liveSessionRepo repository.LiveSessionRepository
	assistantRepo   repository.AssistantRepository
	hospitalRepo    repository.HospitalRepository
	events          service.EventService
	singleActive    bool
	now             func() time.Time
}

// NewLiveSessionUsecase builds the availability use case. With singleActive
// a second open window is refused; otherwise it is created alongside.
func NewLiveSessionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	liveSessionRepo repository.LiveSessionRepository,
	assistantRepo repository.AssistantRepository,
	hospitalRepo repository.HospitalRepository,
	events service.EventService,
	singleActive bool,
) LiveSessionUsecase {
	return &liveSessionUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		liveSessionRepo: liveSessionRepo,
		assistantRepo:   assistantRepo,
		hospitalRepo:    hospitalRepo,
		events:          events,
		singleActive:    singleActive,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (u *liveSessionUsecase) GoLive(ctx context.Context, assistantID uuid.UUID, req *dto.GoLiveRequest) (*entity.LiveSession, error) {
	if err := u.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	hospital, err := u.hospitalRepo.FindByID(db, req.HospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital: %+v", err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	tx := db.Begin()
	defer tx.Rollback()

	// Locking the assistant row serialises concurrent GoLive calls for the
	// same assistant, so the active count below cannot go stale.
	assistant, err := u.assistantRepo.FindByIDForUpdate(tx, assistantID)
	if err != nil {
		u.log.Warnf("Failed to find assistant: %+v", err)
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}

	if u.singleActive {
		active, err := u.liveSessionRepo.CountActiveByAssistant(tx, assistantID)
		if err != nil {
			u.log.Warnf("Failed to count live sessions: %+v", err)
			return nil, err
		}
		if active > 0 {
			return nil, ErrLiveSessionAlreadyActive
		}
	}

	session := &entity.LiveSession{
		AssistantID:  assistantID,
		HospitalID:   hospital.ID,
		HospitalName: hospital.Name,
		FromDate:     req.FromDate,
		FromTime:     req.FromTime,
		ToDate:       req.ToDate,
		ToTime:       req.ToTime,
		StartedAt:    u.now(),
	}
	if err := u.liveSessionRepo.Create(tx, session); err != nil {
		u.log.Warnf("Failed to create live session: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	_ = u.events.LiveSessionStarted(ctx, session)
	return session, nil
}

func (u *liveSessionUsecase) EndLive(ctx context.Context, assistantID uuid.UUID, notes string) (*entity.LiveSession, error) {
	db := u.db.WithContext(ctx)
	var latest *entity.LiveSession
	endedAt := u.now()

	for {
		session, err := u.liveSessionRepo.FindActiveByAssistant(db, assistantID)
		if err != nil {
			u.log.Warnf("Failed to find live session: %+v", err)
			return nil, err
		}
		if session == nil {
			break
		}

		session.EndedAt = &endedAt
		session.OfflineNotes = notes
		if err := u.liveSessionRepo.Update(db, session); err != nil {
			u.log.Warnf("Failed to end live session %s: %+v", session.ID, err)
			return nil, err
		}
		_ = u.events.LiveSessionEnded(ctx, session)
		if latest == nil {
			latest = session
		}
	}

	if latest == nil {
		return nil, ErrNoActiveLiveSession
	}
	return latest, nil
}

func (u *liveSessionUsecase) GetActive(ctx context.Context, assistantID uuid.UUID) (*entity.LiveSession, error) {
	session, err := u.liveSessionRepo.FindActiveByAssistant(u.db.WithContext(ctx), assistantID)
	if err != nil {
		u.log.Warnf("Failed to find live session: %+v", err)
		return nil, err
	}
	return session, nil
}
