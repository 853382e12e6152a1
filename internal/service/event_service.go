package service

import (
	"context"

	"health-concierge/internal/domain/entity"
	"health-concierge/internal/infrastructure/messaging"

	"github.com/sirupsen/logrus"
)

// EventService publishes domain events after a write has been persisted.
// Publishing failures are logged and returned; callers decide whether the
// operation should still succeed.
type EventService interface {
	RequestCreated(ctx context.Context, req entity.Request, requesterName string) error
	RequestStatusChanged(ctx context.Context, change entity.StatusChange, req entity.Request) error
	AssistantCreated(ctx context.Context, assistant *entity.Assistant) error
	LiveSessionStarted(ctx context.Context, session *entity.LiveSession) error
	LiveSessionEnded(ctx context.Context, session *entity.LiveSession) error
}

type eventService struct {
	log       *logrus.Logger
	publisher messaging.PublisherInterface
}

func NewEventService(log *logrus.Logger, publisher messaging.PublisherInterface) EventService {
	return &eventService{
		log:       log,
		publisher: publisher,
	}
}

func (s *eventService) publish(ctx context.Context, routingKey string, event interface{}) error {
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.log.Warnf("Failed to publish %s event: %+v", routingKey, err)
		return err
	}
	return nil
}

func (s *eventService) RequestCreated(ctx context.Context, req entity.Request, requesterName string) error {
	tl := req.Timeline()
	return s.publish(ctx, messaging.EventRequestCreated, messaging.RequestCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventRequestCreated),
		Data: messaging.RequestCreatedData{
			RequestID:     req.RequestID().String(),
			Kind:          string(req.RequestKind()),
			Status:        string(tl.Status),
			RequesterName: requesterName,
			CreatedAt:     tl.CreatedAt,
		},
	})
}

func (s *eventService) RequestStatusChanged(ctx context.Context, change entity.StatusChange, req entity.Request) error {
	canonical, _ := change.Kind.Canonical(change.To)
	data := messaging.RequestStatusChangedData{
		RequestID: req.RequestID().String(),
		Kind:      string(change.Kind),
		OldStatus: string(change.From),
		NewStatus: string(change.To),
		Canonical: string(canonical),
		ChangedAt: change.At,
	}
	if id := req.AssignedAssistant(); id != nil {
		data.AssistantID = id.String()
	}
	return s.publish(ctx, messaging.EventRequestStatusChanged, messaging.RequestStatusChangedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventRequestStatusChanged),
		Data:      data,
	})
}

func (s *eventService) AssistantCreated(ctx context.Context, assistant *entity.Assistant) error {
	return s.publish(ctx, messaging.EventAssistantCreated, messaging.AssistantCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventAssistantCreated),
		Data: messaging.AssistantCreatedData{
			AssistantID:  assistant.ID.String(),
			Name:         assistant.Name,
			Email:        assistant.Email,
			Role:         assistant.Role,
			PricingModel: string(assistant.PricingModel),
		},
	})
}

func (s *eventService) LiveSessionStarted(ctx context.Context, session *entity.LiveSession) error {
	return s.publish(ctx, messaging.EventLiveSessionStarted, liveSessionEvent(messaging.EventLiveSessionStarted, session))
}

func (s *eventService) LiveSessionEnded(ctx context.Context, session *entity.LiveSession) error {
	return s.publish(ctx, messaging.EventLiveSessionEnded, liveSessionEvent(messaging.EventLiveSessionEnded, session))
}

func liveSessionEvent(eventType string, session *entity.LiveSession) messaging.LiveSessionEvent {
	return messaging.LiveSessionEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.LiveSessionData{
			LiveSessionID: session.ID.String(),
			AssistantID:   session.AssistantID.String(),
			HospitalID:    session.HospitalID.String(),
			HospitalName:  session.HospitalName,
			StartedAt:     session.StartedAt,
			EndedAt:       session.EndedAt,
		},
	}
}
