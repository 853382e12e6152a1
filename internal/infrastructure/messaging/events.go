package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys
const (
	EventRequestCreated       = "request.created"
	EventRequestStatusChanged = "request.status_changed"
	EventAssistantCreated     = "assistant.created"
	EventLiveSessionStarted   = "live_session.started"
	EventLiveSessionEnded     = "live_session.ended"
)

const ServiceName = "health-concierge"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: ServiceName,
	}
}

type RequestCreatedEvent struct {
	BaseEvent
	Data RequestCreatedData `json:"data"`
}

type RequestCreatedData struct {
	RequestID     string    `json:"request_id"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
	RequesterName string    `json:"requester_name"`
	CreatedAt     time.Time `json:"created_at"`
}

type RequestStatusChangedEvent struct {
	BaseEvent
	Data RequestStatusChangedData `json:"data"`
}

type RequestStatusChangedData struct {
	RequestID   string    `json:"request_id"`
	Kind        string    `json:"kind"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	Canonical   string    `json:"canonical_status"`
	AssistantID string    `json:"assistant_id,omitempty"`
	ChangedAt   time.Time `json:"changed_at"`
}

type AssistantCreatedEvent struct {
	BaseEvent
	Data AssistantCreatedData `json:"data"`
}

type AssistantCreatedData struct {
	AssistantID  string `json:"assistant_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PricingModel string `json:"pricing_model"`
}

type LiveSessionEvent struct {
	BaseEvent
	Data LiveSessionData `json:"data"`
}

type LiveSessionData struct {
	LiveSessionID string     `json:"live_session_id"`
	AssistantID   string     `json:"assistant_id"`
	HospitalID    string     `json:"hospital_id"`
	HospitalName  string     `json:"hospital_name"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
}
