package usecase

import (
	"context"
	"sync"
	"testing"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/infrastructure/messaging"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goLive(hospitalID uuid.UUID) *dto.GoLiveRequest {
	return &dto.GoLiveRequest{
		HospitalID: hospitalID,
		FromDate:   "2025-03-01",
		FromTime:   "08:00",
		ToDate:     "2025-03-01",
		ToTime:     "17:00",
	}
}

func TestGoLive_AllowMultipleOpensSecondWindow(t *testing.T) {
	f := newFixture(t)
	a := f.assistant(t, "live@example.com", entity.PricingFixed, 40)
	h := f.hospital(t)
	uc := f.liveSessions(false)
	ctx := context.Background()

	first, err := uc.GoLive(ctx, a.ID, goLive(h.ID))
	require.NoError(t, err)
	assert.Equal(t, h.Name, first.HospitalName)
	assert.True(t, first.IsActive())

	second, err := uc.GoLive(ctx, a.ID, goLive(h.ID))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	n, err := f.liveSessionRepo.CountActiveByAssistant(f.db, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 2, f.publisher.GetEventCountByKey(messaging.EventLiveSessionStarted))
}

func TestGoLive_SingleActiveRejectsSecondWindow(t *testing.T) {
	f := newFixture(t)
	a := f.assistant(t, "single@example.com", entity.PricingFixed, 40)
	h := f.hospital(t)
	uc := f.liveSessions(true)
	ctx := context.Background()

	_, err := uc.GoLive(ctx, a.ID, goLive(h.ID))
	require.NoError(t, err)

	_, err = uc.GoLive(ctx, a.ID, goLive(h.ID))
	assert.ErrorIs(t, err, ErrLiveSessionAlreadyActive)
}

func TestGoLive_Validation(t *testing.T) {
	f := newFixture(t)
	a := f.assistant(t, "val@example.com", entity.PricingFixed, 40)
	h := f.hospital(t)
	uc := f.liveSessions(false)

	req := goLive(h.ID)
	req.FromTime = "8am"
	_, err := uc.GoLive(context.Background(), a.ID, req)
	var errs validator.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Map(), "fromTime")

	_, err = uc.GoLive(context.Background(), uuid.New(), goLive(h.ID))
	assert.ErrorIs(t, err, ErrAssistantNotFound)

	_, err = uc.GoLive(context.Background(), a.ID, goLive(uuid.New()))
	assert.ErrorIs(t, err, ErrHospitalNotFound)
}

func TestEndLive_ClosesEveryOpenWindow(t *testing.T) {
	f := newFixture(t)
	a := f.assistant(t, "end@example.com", entity.PricingFixed, 40)
	h := f.hospital(t)
	uc := f.liveSessions(false)
	ctx := context.Background()

	_, err := uc.GoLive(ctx, a.ID, goLive(h.ID))
	require.NoError(t, err)
	_, err = uc.GoLive(ctx, a.ID, goLive(h.ID))
	require.NoError(t, err)

	ended, err := uc.EndLive(ctx, a.ID, "Shift over")
	require.NoError(t, err)
	require.NotNil(t, ended.EndedAt)
	assert.Equal(t, "Shift over", ended.OfflineNotes)

	active, err := uc.GetActive(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = uc.EndLive(ctx, a.ID, "")
	assert.ErrorIs(t, err, ErrNoActiveLiveSession)
	f.publisher.AssertEventPublished(t, messaging.EventLiveSessionEnded)
}

func TestGoLive_ConcurrentSingleActiveOpensOneWindow(t *testing.T) {
	f := newFixture(t)
	a := f.assistant(t, "rush@example.com", entity.PricingFixed, 40)
	h := f.hospital(t)
	uc := f.liveSessions(true)

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.GoLive(context.Background(), a.ID, goLive(h.ID))
		}(i)
	}
	wg.Wait()

	var opened int
	for _, err := range errs {
		if err == nil {
			opened++
			continue
		}
		assert.ErrorIs(t, err, ErrLiveSessionAlreadyActive)
	}
	assert.Equal(t, 1, opened)

	count, err := f.liveSessionRepo.CountActiveByAssistant(f.db, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
