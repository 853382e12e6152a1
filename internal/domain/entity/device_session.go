package entity

import "github.com/google/uuid"

// DeviceIdentifiers are the few values a device keeps locally to rehydrate
// its session. Profiles and requests are always re-fetched.
type DeviceIdentifiers struct {
	Role        UserRole   `json:"role"`
	AssistantID *uuid.UUID `json:"assistantId,omitempty"`
	PatientID   *uuid.UUID `json:"patientId,omitempty"`
}
