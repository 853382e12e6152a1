package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownStatus     = errors.New("status is not part of the request kind vocabulary")
	ErrInvalidTransition = errors.New("status transition is not allowed")
	ErrUnknownKind       = errors.New("unknown request kind")
)

// RequestKind is one of the three physical request record kinds.
type RequestKind string

const (
	KindHospitalSession RequestKind = "hospital-session"
	KindHomeCare        RequestKind = "home-care"
	KindHealthSupplies  RequestKind = "health-supplies"
)

// RequestKinds lists every kind in aggregation order.
var RequestKinds = []RequestKind{KindHospitalSession, KindHomeCare, KindHealthSupplies}

// RequestStatus is a raw, kind specific status value as stored.
type RequestStatus string

const (
	StatusPending        RequestStatus = "pending"
	StatusAccepted       RequestStatus = "accepted"
	StatusAssigned       RequestStatus = "assigned"
	StatusProcessing     RequestStatus = "processing"
	StatusInProgress     RequestStatus = "in-progress"
	StatusOutForDelivery RequestStatus = "out-for-delivery"
	StatusCompleted      RequestStatus = "completed"
	StatusDelivered      RequestStatus = "delivered"
	StatusDeclined       RequestStatus = "declined"
)

// CanonicalStatus is the kind independent lifecycle position.
type CanonicalStatus string

const (
	CanonicalSubmitted    CanonicalStatus = "submitted"
	CanonicalAcknowledged CanonicalStatus = "acknowledged"
	CanonicalInProgress   CanonicalStatus = "in-progress"
	CanonicalCompleted    CanonicalStatus = "completed"
	CanonicalDeclined     CanonicalStatus = "declined"
)

func (c CanonicalStatus) IsTerminal() bool {
	return c == CanonicalCompleted || c == CanonicalDeclined
}

type lifecycle struct {
	label      string
	vocabulary []RequestStatus
	canonical  map[RequestStatus]CanonicalStatus
	successors map[RequestStatus][]RequestStatus
	accept     RequestStatus
	open       []RequestStatus
	actors     []UserRole
}

var lifecycles = map[RequestKind]lifecycle{
	KindHospitalSession: {
		label:      "Hospital Session",
		vocabulary: []RequestStatus{StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusDeclined},
		canonical: map[RequestStatus]CanonicalStatus{
			StatusPending:    CanonicalSubmitted,
			StatusAccepted:   CanonicalAcknowledged,
			StatusInProgress: CanonicalInProgress,
			StatusCompleted:  CanonicalCompleted,
			StatusDeclined:   CanonicalDeclined,
		},
		successors: map[RequestStatus][]RequestStatus{
			StatusPending:    {StatusAccepted, StatusDeclined},
			StatusAccepted:   {StatusInProgress, StatusCompleted},
			StatusInProgress: {StatusCompleted},
		},
		accept: StatusAccepted,
		open:   []RequestStatus{StatusPending, StatusAccepted},
		actors: []UserRole{RoleAssistant},
	},
	KindHomeCare: {
		label:      "Home Care",
		vocabulary: []RequestStatus{StatusPending, StatusAssigned, StatusInProgress, StatusCompleted},
		canonical: map[RequestStatus]CanonicalStatus{
			StatusPending:    CanonicalSubmitted,
			StatusAssigned:   CanonicalAcknowledged,
			StatusInProgress: CanonicalInProgress,
			StatusCompleted:  CanonicalCompleted,
		},
		successors: map[RequestStatus][]RequestStatus{
			StatusPending:    {StatusAssigned},
			StatusAssigned:   {StatusInProgress, StatusCompleted},
			StatusInProgress: {StatusCompleted},
		},
		accept: StatusAssigned,
		open:   []RequestStatus{StatusPending, StatusAssigned},
		actors: []UserRole{RoleAssistant},
	},
	KindHealthSupplies: {
		label:      "Health Supplies",
		vocabulary: []RequestStatus{StatusPending, StatusProcessing, StatusAssigned, StatusOutForDelivery, StatusDelivered},
		canonical: map[RequestStatus]CanonicalStatus{
			StatusPending:        CanonicalSubmitted,
			StatusProcessing:     CanonicalAcknowledged,
			StatusAssigned:       CanonicalAcknowledged,
			StatusOutForDelivery: CanonicalInProgress,
			StatusDelivered:      CanonicalCompleted,
		},
		successors: map[RequestStatus][]RequestStatus{
			StatusPending:        {StatusProcessing, StatusAssigned},
			StatusProcessing:     {StatusAssigned},
			StatusAssigned:       {StatusOutForDelivery},
			StatusOutForDelivery: {StatusDelivered},
		},
		accept: StatusAssigned,
		open:   []RequestStatus{StatusPending, StatusProcessing},
		actors: []UserRole{RoleAssistant, RoleFulfillment},
	},
}

// ParseRequestKind accepts the kind tag or its plural route form.
func ParseRequestKind(s string) (RequestKind, error) {
	switch s {
	case string(KindHospitalSession), "hospital-sessions", "hospital":
		return KindHospitalSession, nil
	case string(KindHomeCare), "home-care-requests":
		return KindHomeCare, nil
	case string(KindHealthSupplies), "health-supplies-requests", "supplies":
		return KindHealthSupplies, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k RequestKind) IsValid() bool {
	_, ok := lifecycles[k]
	return ok
}

// Label is the human readable kind name shown in listings.
func (k RequestKind) Label() string {
	return lifecycles[k].label
}

// Statuses returns the kind's vocabulary in lifecycle order.
func (k RequestKind) Statuses() []RequestStatus {
	return append([]RequestStatus(nil), lifecycles[k].vocabulary...)
}

// OpenStatuses are the statuses listed to assistants browsing work.
func (k RequestKind) OpenStatuses() []RequestStatus {
	return append([]RequestStatus(nil), lifecycles[k].open...)
}

func (k RequestKind) IsKnownStatus(s RequestStatus) bool {
	_, ok := lifecycles[k].canonical[s]
	return ok
}

// Canonical maps a raw status onto the shared lattice.
func (k RequestKind) Canonical(s RequestStatus) (CanonicalStatus, bool) {
	c, ok := lifecycles[k].canonical[s]
	return c, ok
}

func (k RequestKind) IsTerminal(s RequestStatus) bool {
	c, ok := k.Canonical(s)
	return ok && c.IsTerminal()
}

// IsAcceptStatus reports whether s is the status that stamps the accepted
// (or assigned) timestamp.
func (k RequestKind) IsAcceptStatus(s RequestStatus) bool {
	return lifecycles[k].accept == s
}

func (k RequestKind) CanTransition(from, to RequestStatus) bool {
	for _, next := range lifecycles[k].successors[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (k RequestKind) AllowsActor(role UserRole) bool {
	for _, r := range lifecycles[k].actors {
		if r == role {
			return true
		}
	}
	return false
}

// StatusChange is the mutation a validated transition applies to a request.
type StatusChange struct {
	Kind          RequestKind
	From          RequestStatus
	To            RequestStatus
	At            time.Time
	StampAccepted bool
	StampClosed   bool
}

// Timeline is the status and timestamp view shared by all request kinds.
type Timeline struct {
	Status     RequestStatus
	CreatedAt  time.Time
	AcceptedAt *time.Time
	ClosedAt   *time.Time
}

// PlanTransition validates a move from the timeline's current status to
// target and works out which timestamps it sets. With strict false, the move
// is applied even out of terminal states or to non-successors; an unknown
// target is always rejected.
func PlanTransition(kind RequestKind, current Timeline, target RequestStatus, strict bool, now time.Time) (StatusChange, error) {
	if !kind.IsValid() {
		return StatusChange{}, ErrUnknownKind
	}
	if !kind.IsKnownStatus(target) {
		return StatusChange{}, fmt.Errorf("%w: %s %q", ErrUnknownStatus, kind, target)
	}
	if strict {
		if kind.IsTerminal(current.Status) {
			return StatusChange{}, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, current.Status)
		}
		if !kind.CanTransition(current.Status, target) {
			return StatusChange{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, target)
		}
	}

	change := StatusChange{
		Kind: kind,
		From: current.Status,
		To:   target,
		At:   now,
	}
	if kind.IsAcceptStatus(target) && current.AcceptedAt == nil {
		change.StampAccepted = true
	}
	if kind.IsTerminal(target) && current.ClosedAt == nil {
		change.StampClosed = true
	}
	return change, nil
}

// Request is implemented by the three request kinds.
type Request interface {
	RequestID() uuid.UUID
	RequestKind() RequestKind
	Timeline() Timeline
	ApplyStatusChange(change StatusChange)
	AssignedAssistant() *uuid.UUID
	AssignAssistant(id uuid.UUID)
}
