package usecase

import (
	"context"
	"errors"

	"health-concierge/internal/converter"
	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"
	"health-concierge/internal/service"
	"health-concierge/pkg/metrics"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("request not found")

type RequestUsecase interface {
	SubmitHospitalSession(ctx context.Context, req *dto.HospitalSessionRequest) (*entity.HospitalSession, error)
	SubmitHomeCareRequest(ctx context.Context, req *dto.HomeCareRequestForm) (*entity.HomeCareRequest, error)
	SubmitHealthSuppliesRequest(ctx context.Context, req *dto.HealthSuppliesRequestForm) (*entity.HealthSuppliesRequest, error)
	GetRequest(ctx context.Context, kind entity.RequestKind, id uuid.UUID) (entity.Request, error)
	// GetAllOpen lists every open request of every kind, newest first.
	GetAllOpen(ctx context.Context) ([]entity.OpenRequest, error)
	// WarmOpenRequests fills the open-requests cache from the store.
	WarmOpenRequests(ctx context.Context) error
	// GetAllOpenRaw returns the open collections in store shape, keyed by
	// table, for clients that aggregate themselves.
	GetAllOpenRaw(ctx context.Context) (map[string][]converter.Record, error)
	ListPatientRequests(ctx context.Context, patientID uuid.UUID) (*entity.OpenRequestSources, error)
}

type requestUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	validator     *validator.CustomValidator
	requestRepo   repository.RequestRepository
	hospitalRepo  repository.HospitalRepository
	assistantRepo repository.AssistantRepository
	events        service.EventService
	openRequests  *service.OpenRequestsSync
	metrics       *metrics.Metrics
}

func NewRequestUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	requestRepo repository.RequestRepository,
	hospitalRepo repository.HospitalRepository,
	assistantRepo repository.AssistantRepository,
	events service.EventService,
	openRequests *service.OpenRequestsSync,
	metrics *metrics.Metrics,
) RequestUsecase {
	return &requestUsecase{
		db:            db,
		log:           log,
		validator:     validator,
		requestRepo:   requestRepo,
		hospitalRepo:  hospitalRepo,
		assistantRepo: assistantRepo,
		events:        events,
		openRequests:  openRequests,
		metrics:       metrics,
	}
}

func (u *requestUsecase) SubmitHospitalSession(ctx context.Context, req *dto.HospitalSessionRequest) (*entity.HospitalSession, error) {
	if err := u.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	hospital, err := u.hospitalRepo.FindByID(db, req.HospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital: %+v", err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}
	if req.AssistantID != nil {
		if err := u.ensureAssistant(db, *req.AssistantID); err != nil {
			return nil, err
		}
	}

	session := &entity.HospitalSession{
		PatientID:          req.PatientID,
		PatientName:        req.PatientName,
		PatientGender:      req.PatientGender,
		PatientAgeRange:    req.PatientAgeRange,
		SpecialService:     req.SpecialService,
		HospitalID:         hospital.ID,
		HospitalName:       hospital.Name,
		AssistantID:        req.AssistantID,
		Status:             entity.StatusPending,
		RequesterName:      req.RequesterName,
		IsRequesterPatient: req.IsRequesterPatient,
		EstimatedArrival:   req.EstimatedArrival,
		Location:           req.Location,
		HasInsurance:       req.HasInsurance,
		InsuranceProvider:  req.InsuranceProvider,
		HasCard:            req.HasCard,
		Notes:              req.Notes,
	}

	stored, err := u.submit(ctx, session, session.RequesterName)
	if err != nil {
		return nil, err
	}
	return stored.(*entity.HospitalSession), nil
}

func (u *requestUsecase) SubmitHomeCareRequest(ctx context.Context, req *dto.HomeCareRequestForm) (*entity.HomeCareRequest, error) {
	if err := u.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	request := &entity.HomeCareRequest{
		ProfileID:        req.ProfileID,
		Address:          req.Address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		IsPatient:        *req.IsPatient,
		PatientGender:    req.PatientGender,
		PatientAge:       req.PatientAge,
		Services:         entity.StringList(req.Services),
		IsAtLocation:     *req.IsAtLocation,
		ContactPerson:    req.ContactPerson,
		PatientName:      req.PatientName,
		RequesterName:    req.RequesterName,
		RequesterContact: req.RequesterContact,
		Status:           entity.StatusPending,
		ScheduledAt:      req.ScheduledAt,
		Notes:            req.Notes,
	}

	stored, err := u.submit(ctx, request, request.RequesterName)
	if err != nil {
		return nil, err
	}
	return stored.(*entity.HomeCareRequest), nil
}

func (u *requestUsecase) SubmitHealthSuppliesRequest(ctx context.Context, req *dto.HealthSuppliesRequestForm) (*entity.HealthSuppliesRequest, error) {
	if err := u.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	request := &entity.HealthSuppliesRequest{
		ProfileID:          req.ProfileID,
		HasPrescription:    *req.HasPrescription,
		PrescriptionImages: entity.StringList(req.PrescriptionImages),
		ItemsNeeded:        req.ItemsNeeded,
		DeliveryAddress:    req.DeliveryAddress,
		Urgency:            req.Urgency,
		RecipientType:      req.RecipientType,
		RecipientName:      req.RecipientName,
		RecipientGender:    req.RecipientGender,
		RecipientAge:       req.RecipientAge,
		RequesterName:      req.RequesterName,
		Status:             entity.StatusPending,
		Notes:              req.Notes,
	}
	if request.PrescriptionImages == nil {
		request.PrescriptionImages = entity.StringList{}
	}
	if req.Urgency == entity.UrgencyFlexible {
		request.FlexibleDate = req.FlexibleDate
	}

	stored, err := u.submit(ctx, request, request.RequesterName)
	if err != nil {
		return nil, err
	}
	return stored.(*entity.HealthSuppliesRequest), nil
}

// submit persists a new request and returns it as stored.
func (u *requestUsecase) submit(ctx context.Context, req entity.Request, requesterName string) (entity.Request, error) {
	db := u.db.WithContext(ctx)
	if err := u.requestRepo.Create(db, req); err != nil {
		u.log.Warnf("Failed to create %s request: %+v", req.RequestKind(), err)
		return nil, err
	}

	stored, err := u.GetRequest(ctx, req.RequestKind(), req.RequestID())
	if err != nil {
		return nil, err
	}

	u.metrics.ObserveSubmission(string(req.RequestKind()))
	u.openRequests.Invalidate(ctx)
	// The row is committed; a lost event does not undo it.
	_ = u.events.RequestCreated(ctx, stored, requesterName)
	return stored, nil
}

func (u *requestUsecase) ensureAssistant(db *gorm.DB, id uuid.UUID) error {
	assistant, err := u.assistantRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find assistant: %+v", err)
		return err
	}
	if assistant == nil {
		return ErrAssistantNotFound
	}
	return nil
}

func (u *requestUsecase) GetRequest(ctx context.Context, kind entity.RequestKind, id uuid.UUID) (entity.Request, error) {
	req, err := u.requestRepo.FindByID(u.db.WithContext(ctx), kind, id)
	if err != nil {
		if errors.Is(err, entity.ErrUnknownKind) {
			return nil, err
		}
		u.log.Warnf("Failed to find %s request %s: %+v", kind, id, err)
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (u *requestUsecase) GetAllOpen(ctx context.Context) ([]entity.OpenRequest, error) {
	items, err := u.openRequests.Get(ctx, u.loadOpen)
	if err != nil {
		u.log.Warnf("Failed to load open requests: %+v", err)
		return nil, err
	}
	return items, nil
}

func (u *requestUsecase) WarmOpenRequests(ctx context.Context) error {
	return u.openRequests.SyncOnStartup(ctx, u.loadOpen)
}

func (u *requestUsecase) loadOpen(ctx context.Context) ([]entity.OpenRequest, error) {
	src, err := u.fetchOpen(ctx)
	if err != nil {
		return nil, err
	}
	return service.AggregateOpenRequests(src.HospitalSessions, src.HomeCareRequests, src.HealthSuppliesRequests), nil
}

func (u *requestUsecase) GetAllOpenRaw(ctx context.Context) (map[string][]converter.Record, error) {
	src, err := u.fetchOpen(ctx)
	if err != nil {
		u.log.Warnf("Failed to load open requests: %+v", err)
		return nil, err
	}
	return converter.OpenRequestSourcesToRecords(src), nil
}

// fetchOpen runs the three per-kind open queries concurrently. The first
// failure cancels the others and is returned.
func (u *requestUsecase) fetchOpen(ctx context.Context) (*entity.OpenRequestSources, error) {
	var src entity.OpenRequestSources

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := u.requestRepo.FindHospitalSessions(u.db.WithContext(gctx), repository.RequestFilter{
			Statuses: entity.KindHospitalSession.OpenStatuses(),
		})
		src.HospitalSessions = rows
		return err
	})
	g.Go(func() error {
		rows, err := u.requestRepo.FindHomeCareRequests(u.db.WithContext(gctx), repository.RequestFilter{
			Statuses: entity.KindHomeCare.OpenStatuses(),
		})
		src.HomeCareRequests = rows
		return err
	})
	g.Go(func() error {
		rows, err := u.requestRepo.FindHealthSuppliesRequests(u.db.WithContext(gctx), repository.RequestFilter{
			Statuses: entity.KindHealthSupplies.OpenStatuses(),
		})
		src.HealthSuppliesRequests = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

func (u *requestUsecase) ListPatientRequests(ctx context.Context, patientID uuid.UUID) (*entity.OpenRequestSources, error) {
	var src entity.OpenRequestSources
	filter := repository.RequestFilter{PatientID: &patientID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := u.requestRepo.FindHospitalSessions(u.db.WithContext(gctx), filter)
		src.HospitalSessions = rows
		return err
	})
	g.Go(func() error {
		rows, err := u.requestRepo.FindHomeCareRequests(u.db.WithContext(gctx), filter)
		src.HomeCareRequests = rows
		return err
	})
	g.Go(func() error {
		rows, err := u.requestRepo.FindHealthSuppliesRequests(u.db.WithContext(gctx), filter)
		src.HealthSuppliesRequests = rows
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load requests for patient %s: %+v", patientID, err)
		return nil, err
	}
	return &src, nil
}
