package usecase

import (
	"context"
	"errors"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrPatientNotFound = errors.New("patient not found")

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*entity.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*entity.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
}

type patientUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	validator   *validator.CustomValidator
	patientRepo repository.PatientRepository
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	patientRepo repository.PatientRepository,
) PatientUsecase {
	return &patientUsecase{
		db:          db,
		log:         log,
		validator:   validator,
		patientRepo: patientRepo,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*entity.Patient, error) {
	if err := u.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		Name:              req.Name,
		Contact:           req.Contact,
		Location:          req.Location,
		IsPatient:         req.IsPatient,
		HasInsurance:      req.HasInsurance,
		InsuranceProvider: req.InsuranceProvider,
		InsuranceNumber:   req.InsuranceNumber,
		HasCard:           req.HasCard,
		CardPhoto:         req.CardPhoto,
		CardDetails:       req.CardDetails,
		IDPhoto:           req.IDPhoto,
	}

	if err := u.patientRepo.Create(u.db.WithContext(ctx), patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	return u.GetPatient(ctx, patient.ID)
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*entity.Patient, error) {
	if err := u.validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	patient, err := u.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&patient.Name, req.Name)
	setString(&patient.Contact, req.Contact)
	setString(&patient.Location, req.Location)
	setBool(&patient.IsPatient, req.IsPatient)
	setBool(&patient.HasInsurance, req.HasInsurance)
	setString(&patient.InsuranceProvider, req.InsuranceProvider)
	setString(&patient.InsuranceNumber, req.InsuranceNumber)
	setBool(&patient.HasCard, req.HasCard)
	setString(&patient.CardPhoto, req.CardPhoto)
	setString(&patient.CardDetails, req.CardDetails)
	setString(&patient.IDPhoto, req.IDPhoto)

	if err := u.patientRepo.Update(u.db.WithContext(ctx), patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	return u.GetPatient(ctx, id)
}

func (u *patientUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}
