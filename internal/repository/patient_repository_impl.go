package repository

import (
	"health-concierge/internal/converter"
	"health-concierge/internal/domain/entity"
	domainRepo "health-concierge/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct {
	table  recordTable
	mapper *converter.Mapper
}

func NewPatientRepository(mapper *converter.Mapper) domainRepo.PatientRepository {
	return &patientRepository{
		table:  recordTable{name: entity.Patient{}.TableName()},
		mapper: mapper,
	}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = now()
	}
	return r.table.insert(db, converter.PatientToRecord(patient))
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	affected, err := r.table.update(db, patient.ID.String(), converter.PatientToRecord(patient))
	if err != nil {
		return err
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	rec, err := r.table.findOne(r.table.query(db).Where("id = ?", id.String()))
	if err != nil || rec == nil {
		return nil, err
	}
	return r.mapper.PatientFromRecord(rec)
}
