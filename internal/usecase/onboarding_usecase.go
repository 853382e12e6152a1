package usecase

import (
	"context"
	"errors"
	"fmt"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var ErrDraftIncomplete = errors.New("onboarding draft is incomplete")

type OnboardingUsecase interface {
	// GetDraft returns an empty draft when the device has none.
	GetDraft(ctx context.Context, deviceID string) (*entity.OnboardingDraft, error)
	UpdateDraft(ctx context.Context, deviceID string, updates entity.OnboardingDraft) (*entity.OnboardingDraft, error)
	ClearDraft(ctx context.Context, deviceID string) error
	// SubmitDraft creates the assistant the draft describes, binds it to the
	// device and deletes the draft.
	SubmitDraft(ctx context.Context, deviceID string) (*entity.Assistant, error)
}

type onboardingUsecase struct {
	log              *logrus.Logger
	draftStore       repository.DraftStore
	deviceStore      repository.DeviceStore
	assistantUsecase AssistantUsecase
}

func NewOnboardingUsecase(
	log *logrus.Logger,
	draftStore repository.DraftStore,
	deviceStore repository.DeviceStore,
	assistantUsecase AssistantUsecase,
) OnboardingUsecase {
	return &onboardingUsecase{
		log:              log,
		draftStore:       draftStore,
		deviceStore:      deviceStore,
		assistantUsecase: assistantUsecase,
	}
}

func (u *onboardingUsecase) GetDraft(ctx context.Context, deviceID string) (*entity.OnboardingDraft, error) {
	draft, err := u.draftStore.Get(ctx, deviceID)
	if err != nil {
		u.log.Warnf("Failed to load onboarding draft: %+v", err)
		return nil, err
	}
	if draft == nil {
		draft = &entity.OnboardingDraft{}
	}
	return draft, nil
}

func (u *onboardingUsecase) UpdateDraft(ctx context.Context, deviceID string, updates entity.OnboardingDraft) (*entity.OnboardingDraft, error) {
	draft, err := u.GetDraft(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	draft.Merge(updates)
	if err := u.draftStore.Save(ctx, deviceID, draft); err != nil {
		u.log.Warnf("Failed to save onboarding draft: %+v", err)
		return nil, err
	}
	return draft, nil
}

func (u *onboardingUsecase) ClearDraft(ctx context.Context, deviceID string) error {
	if err := u.draftStore.Delete(ctx, deviceID); err != nil {
		u.log.Warnf("Failed to delete onboarding draft: %+v", err)
		return err
	}
	return nil
}

func (u *onboardingUsecase) SubmitDraft(ctx context.Context, deviceID string) (*entity.Assistant, error) {
	draft, err := u.GetDraft(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	profile := draft.ToAssistant()
	req := &dto.CreateAssistantRequest{
		Name:         profile.Name,
		Email:        profile.Email,
		Phone:        profile.Phone,
		Address:      profile.Address,
		Photo:        profile.Photo,
		Role:         profile.Role,
		IDPhoto:      profile.IDPhoto,
		OtherDetails: profile.OtherDetails,
		Services:     profile.Services,
		PricingModel: profile.PricingModel,
		Rate:         profile.Rate,
		RateRange:    profile.RateRange,
	}

	assistant, err := u.assistantUsecase.CreateAssistant(ctx, req)
	if err != nil {
		if isValidationError(err) {
			return nil, fmt.Errorf("%w: %w", ErrDraftIncomplete, err)
		}
		return nil, err
	}

	ids := &entity.DeviceIdentifiers{Role: entity.RoleAssistant, AssistantID: &assistant.ID}
	if err := u.deviceStore.Save(ctx, deviceID, ids); err != nil {
		u.log.Warnf("Failed to bind assistant %s to device: %+v", assistant.ID, err)
		return nil, err
	}
	if err := u.draftStore.Delete(ctx, deviceID); err != nil {
		// The profile exists and the device points at it; a stale draft is
		// overwritten by the next onboarding.
		u.log.Warnf("Failed to delete submitted onboarding draft: %+v", err)
	}
	return assistant, nil
}
