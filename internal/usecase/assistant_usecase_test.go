package usecase

import (
	"context"
	"testing"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/infrastructure/messaging"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAssistantRequest(email, phone string) *dto.CreateAssistantRequest {
	rate := decimal.NewFromInt(60)
	return &dto.CreateAssistantRequest{
		Name:         "Abena Owusu",
		Email:        email,
		Phone:        phone,
		Role:         "Registered Nurse",
		Services:     []string{"General Care"},
		PricingModel: entity.PricingHourly,
		Rate:         &rate,
	}
}

func TestCreateAssistant(t *testing.T) {
	f := newFixture(t)
	uc := f.assistants()

	a, err := uc.CreateAssistant(context.Background(), createAssistantRequest("abena@example.com", "0241"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, entity.VerificationPending, a.VerificationStatus)
	assert.Nil(t, a.RateRange)
	f.publisher.AssertEventPublished(t, messaging.EventAssistantCreated)

	_, err = uc.CreateAssistant(context.Background(), createAssistantRequest("new@example.com", "0241"))
	assert.ErrorIs(t, err, ErrAssistantAlreadyExists)
}

func TestCreateAssistant_PricingRules(t *testing.T) {
	f := newFixture(t)
	uc := f.assistants()

	req := createAssistantRequest("p@example.com", "0242")
	req.Rate = nil
	_, err := uc.CreateAssistant(context.Background(), req)
	var errs validator.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Map(), "rate")

	req = createAssistantRequest("b@example.com", "0243")
	req.PricingModel = entity.PricingBespoke
	req.RateRange = &entity.RateRange{Min: decimal.NewFromInt(200), Max: decimal.NewFromInt(100)}
	_, err = uc.CreateAssistant(context.Background(), req)
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Map(), "rateRange")
}

func TestUpdateAssistant_SwitchPricingModel(t *testing.T) {
	f := newFixture(t)
	uc := f.assistants()
	ctx := context.Background()
	a, err := uc.CreateAssistant(ctx, createAssistantRequest("sw@example.com", "0244"))
	require.NoError(t, err)

	_, err = uc.UpdateAssistant(ctx, a.ID, &dto.UpdateAssistantRequest{PricingModel: ptr(entity.PricingBespoke)})
	var errs validator.Errors
	assert.ErrorAs(t, err, &errs)

	updated, err := uc.UpdateAssistant(ctx, a.ID, &dto.UpdateAssistantRequest{
		PricingModel: ptr(entity.PricingBespoke),
		RateRange:    &entity.RateRange{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(300)},
		Name:         ptr("Abena O."),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PricingBespoke, updated.PricingModel)
	assert.Nil(t, updated.Rate)
	require.NotNil(t, updated.RateRange)
	assert.Equal(t, "Abena O.", updated.Name)
	assert.Equal(t, "sw@example.com", updated.Email)
}

func TestCheckExisting(t *testing.T) {
	f := newFixture(t)
	uc := f.assistants()
	ctx := context.Background()
	a, err := uc.CreateAssistant(ctx, createAssistantRequest("chk@example.com", "0245"))
	require.NoError(t, err)

	byEmail, err := uc.CheckExisting(ctx, "chk@example.com", "")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, a.ID, byEmail.ID)

	byPhone, err := uc.CheckExisting(ctx, "", "0245")
	require.NoError(t, err)
	require.NotNil(t, byPhone)

	none, err := uc.CheckExisting(ctx, "", "")
	require.NoError(t, err)
	assert.Nil(t, none)

	miss, err := uc.CheckExisting(ctx, "nobody@example.com", "0000")
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestGetAssistantBundle(t *testing.T) {
	f := newFixture(t)
	a := f.assistant(t, "bundle@example.com", entity.PricingFixed, 70)
	h := f.hospital(t)
	ctx := context.Background()

	s := f.hospitalSession(t, entity.StatusPending)
	_, err := f.lifecycle(true).Transition(ctx, TransitionInput{
		Kind: entity.KindHospitalSession, ID: s.ID, Status: entity.StatusAccepted,
		Actor: Actor{Role: entity.RoleAssistant, ID: a.ID},
	})
	require.NoError(t, err)
	f.homeCare(t, entity.StatusPending)
	order := f.supplies(t, entity.StatusPending)
	_, err = f.lifecycle(true).Transition(ctx, TransitionInput{
		Kind: entity.KindHealthSupplies, ID: order.ID, Status: entity.StatusAssigned,
		Actor: Actor{Role: entity.RoleAssistant, ID: a.ID},
	})
	require.NoError(t, err)
	_, err = f.liveSessions(false).GoLive(ctx, a.ID, goLive(h.ID))
	require.NoError(t, err)

	bundle, err := f.assistants().GetAssistantBundle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, bundle.Assistant.ID)
	assert.Len(t, bundle.HospitalSessions, 1)
	assert.Empty(t, bundle.HomeCareRequests)
	require.Len(t, bundle.HealthSuppliesRequests, 1)
	assert.Equal(t, order.ID, bundle.HealthSuppliesRequests[0].ID)
	require.NotNil(t, bundle.LiveSession)

	_, err = f.assistants().GetAssistantBundle(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAssistantNotFound)
}
