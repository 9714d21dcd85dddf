package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/repository"
	"alcyxob/painrelief/internal/storage"
)

// kvPainRecordRepository keeps the whole history of a session as one JSON
// array under storage.SessionKey(prefix, session).
type kvPainRecordRepository struct {
	store  storage.KeyValueStore
	prefix string

	// Serialises read-modify-write per process. Cross-process writers
	// are last-write-wins.
	mu sync.Mutex
}

// NewPainRecordRepository creates a PainRecordRepository over store.
func NewPainRecordRepository(store storage.KeyValueStore, prefix string) repository.PainRecordRepository {
	return &kvPainRecordRepository{store: store, prefix: prefix}
}

func (r *kvPainRecordRepository) key(sessionID string) string {
	return storage.SessionKey(r.prefix, sessionID)
}

// List returns the stored history, newest first. A session with nothing
// stored has an empty history.
func (r *kvPainRecordRepository) List(ctx context.Context, sessionID string) ([]domain.PainRecord, error) {
	return r.load(ctx, sessionID)
}

func (r *kvPainRecordRepository) load(ctx context.Context, sessionID string) ([]domain.PainRecord, error) {
	raw, err := r.store.Get(ctx, r.key(sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		return []domain.PainRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	var records []domain.PainRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCorrupt, err)
	}
	if records == nil {
		records = []domain.PainRecord{}
	}
	return records, nil
}

// Prepend stores record at the head of the history and returns the new
// history. Nothing is written if the current history cannot be read.
func (r *kvPainRecordRepository) Prepend(ctx context.Context, sessionID string, record domain.PainRecord) ([]domain.PainRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	records = append([]domain.PainRecord{record}, records...)

	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, r.key(sessionID), raw); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUpdateFailed, err)
	}
	return records, nil
}

// Clear removes the session's key entirely.
func (r *kvPainRecordRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Remove(ctx, r.key(sessionID))
}
