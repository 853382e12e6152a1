package usecase

import (
	"context"
	"errors"

	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrHospitalNotFound = errors.New("hospital not found")

type HospitalUsecase interface {
	ListHospitals(ctx context.Context) ([]entity.Hospital, error)
	GetHospital(ctx context.Context, id uuid.UUID) (*entity.Hospital, error)
	// ListAssistantsAtHospital returns the assistants with an open live
	// window at the hospital.
	ListAssistantsAtHospital(ctx context.Context, id uuid.UUID) ([]entity.Assistant, error)
	SeedHospitals(ctx context.Context) (int, error)
}

type hospitalUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	hospitalRepo    repository.HospitalRepository
	assistantRepo   repository.AssistantRepository
	liveSessionRepo repository.LiveSessionRepository
}

func NewHospitalUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	hospitalRepo repository.HospitalRepository,
	assistantRepo repository.AssistantRepository,
	liveSessionRepo repository.LiveSessionRepository,
) HospitalUsecase {
	return &hospitalUsecase{
		db:              db,
		log:             log,
		hospitalRepo:    hospitalRepo,
		assistantRepo:   assistantRepo,
		liveSessionRepo: liveSessionRepo,
	}
}

func (u *hospitalUsecase) ListHospitals(ctx context.Context) ([]entity.Hospital, error) {
	hospitals, err := u.hospitalRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find hospitals: %+v", err)
		return nil, err
	}
	return hospitals, nil
}

func (u *hospitalUsecase) GetHospital(ctx context.Context, id uuid.UUID) (*entity.Hospital, error) {
	hospital, err := u.hospitalRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find hospital: %+v", err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}
	return hospital, nil
}

func (u *hospitalUsecase) ListAssistantsAtHospital(ctx context.Context, id uuid.UUID) ([]entity.Assistant, error) {
	if _, err := u.GetHospital(ctx, id); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	sessions, err := u.liveSessionRepo.FindActiveByHospital(db, id)
	if err != nil {
		u.log.Warnf("Failed to find live sessions for hospital %s: %+v", id, err)
		return nil, err
	}
	if len(sessions) == 0 {
		return []entity.Assistant{}, nil
	}

	seen := make(map[uuid.UUID]bool, len(sessions))
	ids := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		if !seen[s.AssistantID] {
			seen[s.AssistantID] = true
			ids = append(ids, s.AssistantID)
		}
	}

	assistants, err := u.assistantRepo.FindByIDs(db, ids)
	if err != nil {
		u.log.Warnf("Failed to find assistants: %+v", err)
		return nil, err
	}
	return assistants, nil
}

func (u *hospitalUsecase) SeedHospitals(ctx context.Context) (int, error) {
	added, err := u.hospitalRepo.Seed(u.db.WithContext(ctx), entity.DefaultHospitals)
	if err != nil {
		u.log.Warnf("Failed to seed hospitals: %+v", err)
		return 0, err
	}
	if added > 0 {
		u.log.Infof("Seeded %d hospitals", added)
	}
	return added, nil
}
