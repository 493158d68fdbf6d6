package store

import (
	"context"
	"errors"

	"landregistry/internal/domain"

	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// AutoMigrate creates the registry schema and seeds the landId sequence.
func (s *Store) AutoMigrate(ctx context.Context) error {
	db := s.DB.WithContext(ctx)
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.PasswordCredential{},
		&domain.Land{},
		&domain.IDSequence{},
	); err != nil {
		return err
	}
	return s.Sequences().Ensure(ctx, SequenceLandID)
}
