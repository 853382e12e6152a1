package usecase

import (
	"context"
	"errors"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"
	"health-concierge/internal/service"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrAssistantNotFound      = errors.New("assistant not found")
	ErrAssistantAlreadyExists = errors.New("an assistant with this email or phone already exists")
)

type AssistantUsecase interface {
	CreateAssistant(ctx context.Context, req *dto.CreateAssistantRequest) (*entity.Assistant, error)
	UpdateAssistant(ctx context.Context, id uuid.UUID, req *dto.UpdateAssistantRequest) (*entity.Assistant, error)
	GetAssistant(ctx context.Context, id uuid.UUID) (*entity.Assistant, error)
	ListAssistants(ctx context.Context) ([]entity.Assistant, error)
	// CheckExisting looks an assistant up by email or phone. It returns nil
	// when nothing matches, and queries nothing when both are empty.
	CheckExisting(ctx context.Context, email, phone string) (*entity.Assistant, error)
	GetAssistantBundle(ctx context.Context, id uuid.UUID) (*entity.AssistantBundle, error)
}

type assistantUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	assistantRepo   repository.AssistantRepository
	requestRepo     repository.RequestRepository
	liveSessionRepo repository.LiveSessionRepository
	events          service.EventService
}

func NewAssistantUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	assistantRepo repository.AssistantRepository,
	requestRepo repository.RequestRepository,
	liveSessionRepo repository.LiveSessionRepository,
	events service.EventService,
) AssistantUsecase {
	return &assistantUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		assistantRepo:   assistantRepo,
		requestRepo:     requestRepo,
		liveSessionRepo: liveSessionRepo,
		events:          events,
	}
}

func (u *assistantUsecase) CreateAssistant(ctx context.Context, req *dto.CreateAssistantRequest) (*entity.Assistant, error) {
	if err := u.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	existing, err := u.CheckExisting(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAssistantAlreadyExists
	}

	assistant := &entity.Assistant{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		Photo:              req.Photo,
		Role:               req.Role,
		IDPhoto:            req.IDPhoto,
		OtherDetails:       req.OtherDetails,
		Services:           entity.StringList(req.Services),
		PricingModel:       req.PricingModel,
		VerificationStatus: entity.VerificationPending,
	}
	if req.PricingModel == entity.PricingBespoke {
		assistant.RateRange = req.RateRange
	} else {
		assistant.Rate = req.Rate
	}

	db := u.db.WithContext(ctx)
	if err := u.assistantRepo.Create(db, assistant); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrAssistantAlreadyExists
		}
		u.log.Warnf("Failed to create assistant: %+v", err)
		return nil, err
	}

	stored, err := u.GetAssistant(ctx, assistant.ID)
	if err != nil {
		return nil, err
	}

	// The row is committed; a lost event does not undo it.
	_ = u.events.AssistantCreated(ctx, stored)
	return stored, nil
}

func (u *assistantUsecase) UpdateAssistant(ctx context.Context, id uuid.UUID, req *dto.UpdateAssistantRequest) (*entity.Assistant, error) {
	if err := u.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	assistant, err := u.GetAssistant(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil || req.Phone != nil {
		email, phone := "", ""
		if req.Email != nil && *req.Email != assistant.Email {
			email = *req.Email
		}
		if req.Phone != nil && *req.Phone != assistant.Phone {
			phone = *req.Phone
		}
		other, err := u.CheckExisting(ctx, email, phone)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrAssistantAlreadyExists
		}
	}

	applyAssistantUpdate(assistant, req)
	if !assistant.HasValidPricing() {
		var errs validator.Errors
		errs.Check(false, "pricingModel", "rate fields do not match the "+string(assistant.PricingModel)+" pricing model")
		return nil, errs
	}

	if err := u.assistantRepo.Update(u.db.WithContext(ctx), assistant); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrAssistantAlreadyExists
		}
		u.log.Warnf("Failed to update assistant: %+v", err)
		return nil, err
	}

	return u.GetAssistant(ctx, id)
}

func applyAssistantUpdate(a *entity.Assistant, req *dto.UpdateAssistantRequest) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&a.Name, req.Name)
	setString(&a.Email, req.Email)
	setString(&a.Phone, req.Phone)
	setString(&a.Address, req.Address)
	setString(&a.Photo, req.Photo)
	setString(&a.Role, req.Role)
	setString(&a.IDPhoto, req.IDPhoto)
	setString(&a.OtherDetails, req.OtherDetails)
	if req.Services != nil {
		a.Services = entity.StringList(req.Services)
	}
	if req.VerificationStatus != nil {
		a.VerificationStatus = *req.VerificationStatus
	}

	// Switching pricing model replaces both rate fields.
	if req.PricingModel != nil && *req.PricingModel != a.PricingModel {
		a.PricingModel = *req.PricingModel
		a.Rate, a.RateRange = nil, nil
	}
	if req.Rate != nil {
		a.Rate = req.Rate
	}
	if req.RateRange != nil {
		a.RateRange = req.RateRange
	}
	if a.PricingModel == entity.PricingBespoke {
		a.Rate = nil
	} else {
		a.RateRange = nil
	}
}

func (u *assistantUsecase) GetAssistant(ctx context.Context, id uuid.UUID) (*entity.Assistant, error) {
	assistant, err := u.assistantRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find assistant: %+v", err)
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}
	return assistant, nil
}

func (u *assistantUsecase) ListAssistants(ctx context.Context) ([]entity.Assistant, error) {
	assistants, err := u.assistantRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find assistants: %+v", err)
		return nil, err
	}
	return assistants, nil
}

func (u *assistantUsecase) CheckExisting(ctx context.Context, email, phone string) (*entity.Assistant, error) {
	if email == "" && phone == "" {
		return nil, nil
	}
	assistant, err := u.assistantRepo.FindByEmailOrPhone(u.db.WithContext(ctx), email, phone)
	if err != nil {
		u.log.Warnf("Failed to check for existing assistant: %+v", err)
		return nil, err
	}
	return assistant, nil
}

// GetAssistantBundle loads the profile, every request assigned to the
// assistant and the open live window concurrently.
func (u *assistantUsecase) GetAssistantBundle(ctx context.Context, id uuid.UUID) (*entity.AssistantBundle, error) {
	var bundle entity.AssistantBundle
	filter := repository.RequestFilter{AssistantID: &id}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := u.assistantRepo.FindByID(u.db.WithContext(gctx), id)
		bundle.Assistant = a
		return err
	})
	g.Go(func() error {
		sessions, err := u.requestRepo.FindHospitalSessions(u.db.WithContext(gctx), filter)
		bundle.HospitalSessions = sessions
		return err
	})
	g.Go(func() error {
		requests, err := u.requestRepo.FindHomeCareRequests(u.db.WithContext(gctx), filter)
		bundle.HomeCareRequests = requests
		return err
	})
	g.Go(func() error {
		orders, err := u.requestRepo.FindHealthSuppliesRequests(u.db.WithContext(gctx), filter)
		bundle.HealthSuppliesRequests = orders
		return err
	})
	g.Go(func() error {
		live, err := u.liveSessionRepo.FindActiveByAssistant(u.db.WithContext(gctx), id)
		bundle.LiveSession = live
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load assistant bundle for %s: %+v", id, err)
		return nil, err
	}
	if bundle.Assistant == nil {
		return nil, ErrAssistantNotFound
	}
	return &bundle, nil
}
