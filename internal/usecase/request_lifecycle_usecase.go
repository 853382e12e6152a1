package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"
	"health-concierge/internal/service"
	"health-concierge/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrActorNotAllowed   = errors.New("actor is not allowed to change this request")
	ErrUnknownStatus     = entity.ErrUnknownStatus
	ErrInvalidTransition = entity.ErrInvalidTransition
)

// Actor is who asks for a transition, as established by the bearer token
// or the device session.
type Actor struct {
	Role entity.UserRole
	ID   uuid.UUID
}

type TransitionInput struct {
	Kind   entity.RequestKind
	ID     uuid.UUID
	Status entity.RequestStatus
	Actor  Actor
	// InvoiceAmount replaces the computed invoice on completion. Bespoke
	// pricing cannot complete without it.
	InvoiceAmount *decimal.Decimal
	InvoiceReview string
}

type RequestLifecycleUsecase interface {
	Transition(ctx context.Context, in TransitionInput) (entity.Request, error)
}

// invoiced is implemented by the request kinds that bill on completion.
type invoiced interface {
	SetInvoice(amount decimal.Decimal, review string)
}

type requestLifecycleUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	requestRepo   repository.RequestRepository
	assistantRepo repository.AssistantRepository
	events        service.EventService
	openRequests  *service.OpenRequestsSync
	metrics       *metrics.Metrics
	strict        bool
	now           func() time.Time
}

// NewRequestLifecycleUsecase builds the transition use case. With strict
// false every known status overwrites the current one.
func NewRequestLifecycleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	requestRepo repository.RequestRepository,
	assistantRepo repository.AssistantRepository,
	events service.EventService,
	openRequests *service.OpenRequestsSync,
	metrics *metrics.Metrics,
	strict bool,
) RequestLifecycleUsecase {
	return &requestLifecycleUsecase{
		db:            db,
		log:           log,
		requestRepo:   requestRepo,
		assistantRepo: assistantRepo,
		events:        events,
		openRequests:  openRequests,
		metrics:       metrics,
		strict:        strict,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (u *requestLifecycleUsecase) Transition(ctx context.Context, in TransitionInput) (entity.Request, error) {
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownKind, in.Kind)
	}
	if !in.Kind.IsKnownStatus(in.Status) {
		u.metrics.ObserveTransition(string(in.Kind), string(in.Status), metrics.ResultRejected)
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownStatus, in.Kind, in.Status)
	}

	db := u.db.WithContext(ctx)
	req, err := u.requestRepo.FindByID(db, in.Kind, in.ID)
	if err != nil {
		u.log.Warnf("Failed to find %s request %s: %+v", in.Kind, in.ID, err)
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}

	if err := u.authorize(req, in.Actor); err != nil {
		u.metrics.ObserveTransition(string(in.Kind), string(in.Status), metrics.ResultRejected)
		return nil, err
	}

	change, err := entity.PlanTransition(in.Kind, req.Timeline(), in.Status, u.strict, u.now())
	if err != nil {
		u.metrics.ObserveTransition(string(in.Kind), string(in.Status), metrics.ResultRejected)
		return nil, err
	}

	req.ApplyStatusChange(change)
	if in.Kind.IsAcceptStatus(in.Status) && req.AssignedAssistant() == nil && in.Actor.Role == entity.RoleAssistant {
		req.AssignAssistant(in.Actor.ID)
	}

	if err := u.invoice(db, req, in); err != nil {
		u.metrics.ObserveTransition(string(in.Kind), string(in.Status), metrics.ResultRejected)
		return nil, err
	}

	// Under the strict policy the write only lands if nobody moved the
	// request since it was read; the loser of a race is rejected.
	var expected entity.RequestStatus
	if u.strict {
		expected = change.From
	}
	if err := u.requestRepo.Update(db, req, expected); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			u.metrics.ObserveTransition(string(in.Kind), string(in.Status), metrics.ResultRejected)
			return nil, fmt.Errorf("%w: %s request %s left %s concurrently", ErrInvalidTransition, in.Kind, in.ID, change.From)
		}
		u.metrics.ObserveTransition(string(in.Kind), string(in.Status), metrics.ResultFailed)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		u.log.Warnf("Failed to update %s request %s: %+v", in.Kind, in.ID, err)
		return nil, err
	}

	stored, err := u.requestRepo.FindByID(db, in.Kind, in.ID)
	if err != nil {
		u.log.Warnf("Failed to re-read %s request %s: %+v", in.Kind, in.ID, err)
		return nil, err
	}
	if stored == nil {
		return nil, ErrRequestNotFound
	}

	u.metrics.ObserveTransition(string(in.Kind), string(in.Status), metrics.ResultApplied)
	u.openRequests.Invalidate(ctx)
	// The row is committed; a lost event does not undo it.
	_ = u.events.RequestStatusChanged(ctx, change, stored)
	return stored, nil
}

// authorize checks the actor's role against the kind. Under the strict
// policy an assistant may not move a request assigned to someone else.
func (u *requestLifecycleUsecase) authorize(req entity.Request, actor Actor) error {
	if !req.RequestKind().AllowsActor(actor.Role) {
		return fmt.Errorf("%w: role %q", ErrActorNotAllowed, actor.Role)
	}
	if u.strict && actor.Role == entity.RoleAssistant {
		if assigned := req.AssignedAssistant(); assigned != nil && *assigned != actor.ID {
			return fmt.Errorf("%w: assigned to another assistant", ErrActorNotAllowed)
		}
	}
	return nil
}

// invoice prices a hospital session or home-care request moving to
// completed. Without an assistant rate the request completes unbilled.
func (u *requestLifecycleUsecase) invoice(db *gorm.DB, req entity.Request, in TransitionInput) error {
	target, ok := req.(invoiced)
	if !ok {
		return nil
	}
	if c, _ := in.Kind.Canonical(in.Status); c != entity.CanonicalCompleted {
		return nil
	}

	var assistant *entity.Assistant
	if id := req.AssignedAssistant(); id != nil && in.InvoiceAmount == nil {
		a, err := u.assistantRepo.FindByID(db, *id)
		if err != nil {
			u.log.Warnf("Failed to find assistant %s for invoice: %+v", *id, err)
			return err
		}
		assistant = a
	}

	tl := req.Timeline()
	start := tl.CreatedAt
	if tl.AcceptedAt != nil {
		start = *tl.AcceptedAt
	}
	end := u.now()
	if tl.ClosedAt != nil {
		end = *tl.ClosedAt
	}

	amount, err := service.CalculateInvoice(assistant, start, end, in.InvoiceAmount)
	switch {
	case err == nil:
		target.SetInvoice(amount, in.InvoiceReview)
		return nil
	case errors.Is(err, service.ErrInvoiceAmountRequired):
		return err
	default:
		u.log.Warnf("Completing %s request %s without invoice: %+v", in.Kind, in.ID, err)
		return nil
	}
}
