package repository

import (
	"health-concierge/internal/converter"
	"health-concierge/internal/domain/entity"
	domainRepo "health-concierge/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type assistantRepository struct {
	table  recordTable
	mapper *converter.Mapper
}

func NewAssistantRepository(mapper *converter.Mapper) domainRepo.AssistantRepository {
	return &assistantRepository{
		table:  recordTable{name: entity.Assistant{}.TableName()},
		mapper: mapper,
	}
}

func (r *assistantRepository) Create(db *gorm.DB, assistant *entity.Assistant) error {
	if assistant.ID == uuid.Nil {
		assistant.ID = uuid.New()
	}
	if assistant.CreatedAt.IsZero() {
		assistant.CreatedAt = now()
	}
	return r.table.insert(db, converter.AssistantToRecord(assistant))
}

func (r *assistantRepository) Update(db *gorm.DB, assistant *entity.Assistant) error {
	affected, err := r.table.update(db, assistant.ID.String(), converter.AssistantToRecord(assistant))
	if err != nil {
		return err
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assistantRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Assistant, error) {
	rec, err := r.table.findOne(r.table.query(db).Where("id = ?", id.String()))
	if err != nil || rec == nil {
		return nil, err
	}
	return r.mapper.AssistantFromRecord(rec)
}

func (r *assistantRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Assistant, error) {
	q := r.table.query(db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id.String())
	rec, err := r.table.findOne(q)
	if err != nil || rec == nil {
		return nil, err
	}
	return r.mapper.AssistantFromRecord(rec)
}

func (r *assistantRepository) FindAll(db *gorm.DB) ([]entity.Assistant, error) {
	recs, err := r.table.find(r.table.query(db).Order("created_at DESC"))
	if err != nil {
		return nil, err
	}
	return r.mapper.AssistantsFromRecords(recs)
}

func (r *assistantRepository) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Assistant, error) {
	if len(ids) == 0 {
		return []entity.Assistant{}, nil
	}
	recs, err := r.table.find(r.table.query(db).Where("id IN ?", uuidStrings(ids)).Order("name ASC"))
	if err != nil {
		return nil, err
	}
	return r.mapper.AssistantsFromRecords(recs)
}

func (r *assistantRepository) FindByEmailOrPhone(db *gorm.DB, email, phone string) (*entity.Assistant, error) {
	q := r.table.query(db)
	switch {
	case email != "" && phone != "":
		q = q.Where("email = ? OR phone = ?", email, phone)
	case email != "":
		q = q.Where("email = ?", email)
	case phone != "":
		q = q.Where("phone = ?", phone)
	default:
		return nil, nil
	}
	rec, err := r.table.findOne(q.Order("created_at ASC"))
	if err != nil || rec == nil {
		return nil, err
	}
	return r.mapper.AssistantFromRecord(rec)
}
