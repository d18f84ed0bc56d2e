// Package store is the database access layer. Each method maps to one domain
// access function and returns apperrors kinds instead of raw gorm errors.
package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"food-truck-api/apperrors"
)

// Store is the explicitly constructed handle passed to every service.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.Transient("store.Ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.Transient("store.Ping", err)
	}
	return nil
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate converts a gorm error into an apperrors kind. resource and id
// describe the record for not-found messages.
func translate(op, resource, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource, id)
	case isDuplicate(err):
		return apperrors.Conflict(resource + " already exists")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.Transient(op, err)
	default:
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Transient(op, err)
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}
