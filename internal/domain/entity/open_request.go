package entity

import (
	"time"

	"github.com/google/uuid"
)

// OpenRequest is the kind independent summary of a request still awaiting
// work, as listed to assistants.
type OpenRequest struct {
	ID               uuid.UUID       `json:"id"`
	Kind             RequestKind     `json:"kind"`
	KindLabel        string          `json:"kindLabel"`
	Title            string          `json:"title"`
	Subtitle         string          `json:"subtitle"`
	Location         string          `json:"location"`
	Status           RequestStatus   `json:"status"`
	CanonicalStatus  CanonicalStatus `json:"canonicalStatus"`
	CreatedAt        time.Time       `json:"createdAt"`
	EstimatedArrival string          `json:"estimatedArrival,omitempty"`
	RequesterName    string          `json:"requesterName"`
}

// OpenRequestSources holds the three per-kind open collections as fetched.
type OpenRequestSources struct {
	HospitalSessions       []HospitalSession       `json:"hospitalSessions"`
	HomeCareRequests       []HomeCareRequest       `json:"homeCareRequests"`
	HealthSuppliesRequests []HealthSuppliesRequest `json:"healthSuppliesRequests"`
}
