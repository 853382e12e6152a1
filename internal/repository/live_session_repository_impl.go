package repository

import (
	"health-concierge/internal/converter"
	"health-concierge/internal/domain/entity"
	domainRepo "health-concierge/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type liveSessionRepository struct {
	table  recordTable
	mapper *converter.Mapper
}

func NewLiveSessionRepository(mapper *converter.Mapper) domainRepo.LiveSessionRepository {
	return &liveSessionRepository{
		table:  recordTable{name: entity.LiveSession{}.TableName()},
		mapper: mapper,
	}
}

func (r *liveSessionRepository) Create(db *gorm.DB, session *entity.LiveSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = now()
	}
	return r.table.insert(db, converter.LiveSessionToRecord(session))
}

func (r *liveSessionRepository) Update(db *gorm.DB, session *entity.LiveSession) error {
	affected, err := r.table.update(db, session.ID.String(), converter.LiveSessionToRecord(session))
	if err != nil {
		return err
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *liveSessionRepository) FindActiveByAssistant(db *gorm.DB, assistantID uuid.UUID) (*entity.LiveSession, error) {
	rec, err := r.table.findOne(r.table.query(db).
		Where("assistant_id = ? AND ended_at IS NULL", assistantID.String()).
		Order("started_at DESC"))
	if err != nil || rec == nil {
		return nil, err
	}
	return r.mapper.LiveSessionFromRecord(rec)
}

func (r *liveSessionRepository) CountActiveByAssistant(db *gorm.DB, assistantID uuid.UUID) (int64, error) {
	var count int64
	err := r.table.query(db).
		Where("assistant_id = ? AND ended_at IS NULL", assistantID.String()).
		Count(&count).Error
	return count, err
}

func (r *liveSessionRepository) FindActiveByHospital(db *gorm.DB, hospitalID uuid.UUID) ([]entity.LiveSession, error) {
	recs, err := r.table.find(r.table.query(db).
		Where("hospital_id = ? AND ended_at IS NULL", hospitalID.String()).
		Order("started_at DESC"))
	if err != nil {
		return nil, err
	}
	out := make([]entity.LiveSession, 0, len(recs))
	for _, rec := range recs {
		l, err := r.mapper.LiveSessionFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, nil
}
