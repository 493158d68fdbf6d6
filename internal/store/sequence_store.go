package store

import (
	"context"
	"errors"

	"landregistry/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const SequenceLandID = "land_id"

type SequenceStore struct{ db *gorm.DB }

func (s *Store) Sequences() *SequenceStore { return &SequenceStore{db: s.DB} }

// Ensure creates the named sequence row at zero if it does not exist yet.
func (sq *SequenceStore) Ensure(ctx context.Context, name string) error {
	return sq.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.IDSequence{Name: name, Value: 0}).Error
}

// Next advances the sequence and returns the new value. The UPDATE takes a
// row lock, so callers running inside the same transaction as their insert
// get unique, monotonically increasing values even under concurrent load.
func (sq *SequenceStore) Next(ctx context.Context, name string) (int64, error) {
	db := sq.db.WithContext(ctx)

	res := db.Model(&domain.IDSequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, errors.New("sequence not initialized: " + name)
	}

	var seq domain.IDSequence
	if err := db.First(&seq, "name = ?", name).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}
