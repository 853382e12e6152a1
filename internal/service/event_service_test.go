package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"health-concierge/internal/domain/entity"
	"health-concierge/internal/infrastructure/messaging"
	"health-concierge/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_RequestStatusChanged(t *testing.T) {
	pub := testutil.NewMockPublisher()
	svc := NewEventService(testutil.NewLogger(), pub)
	assistantID := uuid.New()
	req := &entity.HomeCareRequest{ID: uuid.New(), Status: entity.StatusAssigned, AssistantID: &assistantID}
	change := entity.StatusChange{
		Kind: entity.KindHomeCare,
		From: entity.StatusPending,
		To:   entity.StatusAssigned,
		At:   time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, svc.RequestStatusChanged(context.Background(), change, req))

	events := pub.GetEventsByKey(messaging.EventRequestStatusChanged)
	require.Len(t, events, 1)
	var payload messaging.RequestStatusChangedEvent
	require.NoError(t, json.Unmarshal(events[0].RawJSON, &payload))
	assert.Equal(t, "acknowledged", payload.Data.Canonical)
	assert.Equal(t, "pending", payload.Data.OldStatus)
	assert.Equal(t, assistantID.String(), payload.Data.AssistantID)
	assert.Equal(t, messaging.ServiceName, payload.ServiceName)
	assert.NotEmpty(t, payload.EventID)
}

func TestEventService_PublishFailureIsReturned(t *testing.T) {
	pub := testutil.NewMockPublisher()
	pub.Err = errors.New("channel closed")
	svc := NewEventService(testutil.NewLogger(), pub)

	err := svc.AssistantCreated(context.Background(), &entity.Assistant{ID: uuid.New(), Name: "Adwoa"})
	assert.ErrorIs(t, err, pub.Err)
	pub.AssertEventNotPublished(t, messaging.EventAssistantCreated)
}

func TestEventService_LiveSession(t *testing.T) {
	pub := testutil.NewMockPublisher()
	svc := NewEventService(testutil.NewLogger(), pub)
	ended := time.Date(2024, 7, 1, 17, 0, 0, 0, time.UTC)
	session := &entity.LiveSession{ID: uuid.New(), AssistantID: uuid.New(), HospitalID: uuid.New(), HospitalName: "Ridge Hospital", EndedAt: &ended}

	require.NoError(t, svc.LiveSessionStarted(context.Background(), session))
	require.NoError(t, svc.LiveSessionEnded(context.Background(), session))

	pub.AssertEventPublished(t, messaging.EventLiveSessionStarted)
	pub.AssertEventPublished(t, messaging.EventLiveSessionEnded)
}
