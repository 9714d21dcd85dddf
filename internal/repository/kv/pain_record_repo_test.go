package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/repository"
	"alcyxob/painrelief/internal/storage"
)

type brokenStore struct {
	storage.KeyValueStore
	setErr error
}

func (b brokenStore) Set(context.Context, string, []byte) error { return b.setErr }

func record(id string, region domain.BodyRegion, intensity int) domain.PainRecord {
	return domain.PainRecord{
		ID:        id,
		Region:    region,
		Intensity: intensity,
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestEmptyHistory(t *testing.T) {
	repo := NewPainRecordRepository(storage.NewMemoryStore(), "")
	got, err := repo.List(context.Background(), "s1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil history, got %#v", got)
	}
}

func TestPrependKeepsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewPainRecordRepository(store, "test-")

	if _, err := repo.Prepend(ctx, "s1", record("a", domain.RegionNeck, 3)); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Prepend(ctx, "s1", record("b", domain.RegionKneeLeft, 6)); err != nil {
		t.Fatal(err)
	}
	got, err := repo.List(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected order %+v", got)
	}
	if got[1].Region != domain.RegionNeck || !got[1].Timestamp.Equal(record("", "", 0).Timestamp) {
		t.Errorf("record did not round-trip: %+v", got[1])
	}

	if _, err := store.Get(ctx, "test-s1-data"); err != nil {
		t.Errorf("expected data under the namespaced key: %v", err)
	}
	other, _ := repo.List(ctx, "s2")
	if len(other) != 0 {
		t.Error("sessions must not share history")
	}
}

func TestClearRemovesKey(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewPainRecordRepository(store, "")
	_, _ = repo.Prepend(ctx, "s1", record("a", domain.RegionHead, 2))

	if err := repo.Clear(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 {
		t.Errorf("expected the key to be removed, %d keys left", store.Len())
	}
}

func TestCorruptData(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = store.Set(ctx, storage.SessionKey("", "s1"), []byte("{not json"))
	repo := NewPainRecordRepository(store, "")

	if _, err := repo.List(ctx, "s1"); !errors.Is(err, repository.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
	if _, err := repo.Prepend(ctx, "s1", record("a", domain.RegionHead, 2)); !errors.Is(err, repository.ErrCorrupt) {
		t.Errorf("prepend over corrupt data: expected ErrCorrupt, got %v", err)
	}
}

func TestWriteFailure(t *testing.T) {
	repo := NewPainRecordRepository(brokenStore{
		KeyValueStore: storage.NewMemoryStore(),
		setErr:        errors.New("disk full"),
	}, "")
	if _, err := repo.Prepend(context.Background(), "s1", record("a", domain.RegionHead, 2)); !errors.Is(err, repository.ErrUpdateFailed) {
		t.Errorf("expected ErrUpdateFailed, got %v", err)
	}
}
