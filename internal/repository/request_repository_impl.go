package repository

import (
	"fmt"

	"health-concierge/internal/converter"
	"health-concierge/internal/domain/entity"
	domainRepo "health-concierge/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// requestTables names each kind's table and the column linking it to a
// patient profile.
var requestTables = map[entity.RequestKind]struct {
	table      recordTable
	patientCol string
}{
	entity.KindHospitalSession: {recordTable{name: entity.HospitalSession{}.TableName()}, "patient_id"},
	entity.KindHomeCare:        {recordTable{name: entity.HomeCareRequest{}.TableName()}, "profile_id"},
	entity.KindHealthSupplies:  {recordTable{name: entity.HealthSuppliesRequest{}.TableName()}, "profile_id"},
}

type requestRepository struct {
	mapper *converter.Mapper
}

func NewRequestRepository(mapper *converter.Mapper) domainRepo.RequestRepository {
	return &requestRepository{mapper: mapper}
}

func tableFor(kind entity.RequestKind) (recordTable, string, error) {
	t, ok := requestTables[kind]
	if !ok {
		return recordTable{}, "", fmt.Errorf("%w: %q", entity.ErrUnknownKind, kind)
	}
	return t.table, t.patientCol, nil
}

// Create assigns an id and creation time when missing, then inserts.
func (r *requestRepository) Create(db *gorm.DB, req entity.Request) error {
	table, _, err := tableFor(req.RequestKind())
	if err != nil {
		return err
	}
	switch v := req.(type) {
	case *entity.HospitalSession:
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now()
		}
	case *entity.HomeCareRequest:
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now()
		}
	case *entity.HealthSuppliesRequest:
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now()
		}
	}
	rec, err := converter.RequestToRecord(req)
	if err != nil {
		return err
	}
	return table.insert(db, rec)
}

func (r *requestRepository) Update(db *gorm.DB, req entity.Request, expected entity.RequestStatus) error {
	table, _, err := tableFor(req.RequestKind())
	if err != nil {
		return err
	}
	rec, err := converter.RequestToRecord(req)
	if err != nil {
		return err
	}
	scoped := db
	if expected != "" {
		scoped = db.Where("status = ?", string(expected))
	}
	affected, err := table.update(scoped, req.RequestID().String(), rec)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	if expected == "" {
		return gorm.ErrRecordNotFound
	}

	current, err := table.findOne(table.query(db).Where("id = ?", req.RequestID().String()))
	if err != nil {
		return err
	}
	if current == nil {
		return gorm.ErrRecordNotFound
	}
	return domainRepo.ErrStatusChanged
}

func (r *requestRepository) FindByID(db *gorm.DB, kind entity.RequestKind, id uuid.UUID) (entity.Request, error) {
	table, _, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rec, err := table.findOne(table.query(db).Where("id = ?", id.String()))
	if err != nil || rec == nil {
		return nil, err
	}
	return r.mapper.RequestFromRecord(kind, rec)
}

func (r *requestRepository) findRecords(db *gorm.DB, kind entity.RequestKind, filter domainRepo.RequestFilter) ([]converter.Record, error) {
	table, patientCol, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	q := table.query(db)
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(filter.Statuses))
	}
	if filter.AssistantID != nil {
		q = q.Where("assistant_id = ?", filter.AssistantID.String())
	}
	if filter.PatientID != nil {
		q = q.Where(patientCol+" = ?", filter.PatientID.String())
	}
	return table.find(q.Order("created_at DESC"))
}

func (r *requestRepository) FindHospitalSessions(db *gorm.DB, filter domainRepo.RequestFilter) ([]entity.HospitalSession, error) {
	recs, err := r.findRecords(db, entity.KindHospitalSession, filter)
	if err != nil {
		return nil, err
	}
	out := make([]entity.HospitalSession, 0, len(recs))
	for _, rec := range recs {
		s, err := r.mapper.HospitalSessionFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *requestRepository) FindHomeCareRequests(db *gorm.DB, filter domainRepo.RequestFilter) ([]entity.HomeCareRequest, error) {
	recs, err := r.findRecords(db, entity.KindHomeCare, filter)
	if err != nil {
		return nil, err
	}
	out := make([]entity.HomeCareRequest, 0, len(recs))
	for _, rec := range recs {
		h, err := r.mapper.HomeCareRequestFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, nil
}

func (r *requestRepository) FindHealthSuppliesRequests(db *gorm.DB, filter domainRepo.RequestFilter) ([]entity.HealthSuppliesRequest, error) {
	recs, err := r.findRecords(db, entity.KindHealthSupplies, filter)
	if err != nil {
		return nil, err
	}
	out := make([]entity.HealthSuppliesRequest, 0, len(recs))
	for _, rec := range recs {
		s, err := r.mapper.HealthSuppliesRequestFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}
