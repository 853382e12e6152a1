package repository

import (
	"health-concierge/internal/converter"

	"gorm.io/gorm"
)

// recordTable reads and writes plain column maps against one table. The
// mapper owns the conversion to and from entities.
type recordTable struct {
	name string
}

func (t recordTable) query(db *gorm.DB) *gorm.DB {
	return db.Table(t.name)
}

func (t recordTable) insert(db *gorm.DB, rec converter.Record) error {
	return t.query(db).Create(map[string]interface{}(rec)).Error
}

// update writes every column of rec except the key to the row with id.
func (t recordTable) update(db *gorm.DB, id string, rec converter.Record) (int64, error) {
	values := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		if k == "id" || k == "created_at" {
			continue
		}
		values[k] = v
	}
	result := t.query(db).Where("id = ?", id).Updates(values)
	return result.RowsAffected, result.Error
}

func (t recordTable) find(db *gorm.DB) ([]converter.Record, error) {
	var rows []map[string]interface{}
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	recs := make([]converter.Record, len(rows))
	for i, row := range rows {
		recs[i] = converter.Record(row)
	}
	return recs, nil
}

// findOne returns nil when no row matches.
func (t recordTable) findOne(db *gorm.DB) (converter.Record, error) {
	recs, err := t.find(db.Limit(1))
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return recs[0], nil
}
