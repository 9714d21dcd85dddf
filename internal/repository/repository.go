package repository

import (
	"context"

	"alcyxob/painrelief/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrCorrupt      = RepositoryError("stored data could not be decoded")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PainRecordRepository stores one session's pain history, newest first.
// Records are never edited; they are only prepended or cleared in bulk.
type PainRecordRepository interface {
	List(ctx context.Context, sessionID string) ([]domain.PainRecord, error)
	Prepend(ctx context.Context, sessionID string, record domain.PainRecord) ([]domain.PainRecord, error)
	Clear(ctx context.Context, sessionID string) error
}
