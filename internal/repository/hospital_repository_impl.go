package repository

import (
	"health-concierge/internal/converter"
	"health-concierge/internal/domain/entity"
	domainRepo "health-concierge/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type hospitalRepository struct {
	table  recordTable
	mapper *converter.Mapper
}

func NewHospitalRepository(mapper *converter.Mapper) domainRepo.HospitalRepository {
	return &hospitalRepository{
		table:  recordTable{name: entity.Hospital{}.TableName()},
		mapper: mapper,
	}
}

func (r *hospitalRepository) FindAll(db *gorm.DB) ([]entity.Hospital, error) {
	recs, err := r.table.find(r.table.query(db).Order("name ASC"))
	if err != nil {
		return nil, err
	}
	hospitals := make([]entity.Hospital, 0, len(recs))
	for _, rec := range recs {
		h, err := r.mapper.HospitalFromRecord(rec)
		if err != nil {
			return nil, err
		}
		hospitals = append(hospitals, *h)
	}
	return hospitals, nil
}

func (r *hospitalRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Hospital, error) {
	rec, err := r.table.findOne(r.table.query(db).Where("id = ?", id.String()))
	if err != nil || rec == nil {
		return nil, err
	}
	return r.mapper.HospitalFromRecord(rec)
}

func (r *hospitalRepository) Seed(db *gorm.DB, hospitals []entity.Hospital) (int, error) {
	added := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, h := range hospitals {
			var count int64
			if err := r.table.query(tx).Where("name = ?", h.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if h.ID == uuid.Nil {
				h.ID = uuid.New()
			}
			if err := r.table.insert(tx, converter.HospitalToRecord(&h)); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
