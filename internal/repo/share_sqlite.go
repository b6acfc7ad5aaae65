package repo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"github.com/tbourn/giftfndr-backend/internal/domain"
)

// SQLiteShareStore persists share records in the "shares" table.
// Timestamps are written in UTC so that text comparison in SQLite orders
// them correctly.
type SQLiteShareStore struct {
	db *gorm.DB
}

// NewSQLiteShareStore wraps an open, migrated database.
func NewSQLiteShareStore(db *gorm.DB) *SQLiteShareStore {
	return &SQLiteShareStore{db: db}
}

// Insert creates the row and maps primary-key conflicts to ErrDuplicate.
func (s *SQLiteShareStore) Insert(ctx context.Context, rec domain.ShareRecord) error {
	row := rec.Clone()
	row.CreatedAt = row.CreatedAt.UTC()
	if row.Results == nil {
		row.Results = []domain.Suggestion{}
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return errors.WithStack(ErrDuplicate)
		}
		return errors.Wrap(err, "insert share")
	}
	return nil
}

// Get loads one record by id.
func (s *SQLiteShareStore) Get(ctx context.Context, id string) (domain.ShareRecord, error) {
	var rec domain.ShareRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ShareRecord{}, errors.WithStack(ErrNotFound)
	}
	if err != nil {
		return domain.ShareRecord{}, errors.Wrap(err, "get share")
	}
	return rec, nil
}

// Sweep deletes rows created before cutoff.
func (s *SQLiteShareStore) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff.UTC()).
		Delete(&domain.ShareRecord{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "sweep shares")
	}
	return res.RowsAffected, nil
}

// Count returns the number of rows in the table.
func (s *SQLiteShareStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.ShareRecord{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count shares")
	}
	return n, nil
}
