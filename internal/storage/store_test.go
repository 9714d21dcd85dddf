package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestSessionKey(t *testing.T) {
	if got := SessionKey("", "abc"); got != "painrelief-abc-data" {
		t.Errorf("got %q", got)
	}
	if got := SessionKey("x:", "abc"); got != "x:abc-data" {
		t.Errorf("got %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	in := []byte("value")
	if err := m.Set(ctx, "k", in); err != nil {
		t.Fatal(err)
	}
	in[0] = 'X'
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "value" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	got[0] = 'Y'
	again, _ := m.Get(ctx, "k")
	if string(again) != "value" {
		t.Error("store must not alias returned slices")
	}
	if err := m.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove(ctx, "k"); err != nil {
		t.Errorf("removing a missing key should succeed, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty store, got %d keys", m.Len())
	}
}

func TestSealedRoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	s, err := NewSealed(inner, "correct horse")
	if err != nil {
		t.Fatal(err)
	}

	plain := []byte(`[{"region":"neck","intensity":4}]`)
	if err := s.Set(ctx, "a", plain); err != nil {
		t.Fatal(err)
	}
	raw, _ := inner.Get(ctx, "a")
	if bytes.Contains(raw, []byte("neck")) {
		t.Error("inner store holds plaintext")
	}
	got, err := s.Get(ctx, "a")
	if err != nil || !bytes.Equal(got, plain) {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound to pass through, got %v", err)
	}
}

func TestSealedDetectsTampering(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	s, _ := NewSealed(inner, "correct horse")
	_ = s.Set(ctx, "a", []byte("payload"))

	raw, _ := inner.Get(ctx, "a")
	raw[len(raw)-1] ^= 0x01
	_ = inner.Set(ctx, "a", raw)
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrSealed) {
		t.Errorf("flipped bit: expected ErrSealed, got %v", err)
	}

	_ = s.Set(ctx, "b", []byte("payload"))
	moved, _ := inner.Get(ctx, "b")
	_ = inner.Set(ctx, "c", moved)
	if _, err := s.Get(ctx, "c"); !errors.Is(err, ErrSealed) {
		t.Errorf("moved value: expected ErrSealed, got %v", err)
	}

	other, _ := NewSealed(inner, "battery staple")
	if _, err := other.Get(ctx, "b"); !errors.Is(err, ErrSealed) {
		t.Errorf("wrong secret: expected ErrSealed, got %v", err)
	}

	_ = inner.Set(ctx, "short", []byte("x"))
	if _, err := s.Get(ctx, "short"); !errors.Is(err, ErrSealed) {
		t.Errorf("short value: expected ErrSealed, got %v", err)
	}
}

func TestNewSealedRequiresSecret(t *testing.T) {
	if _, err := NewSealed(NewMemoryStore(), ""); err == nil {
		t.Error("expected error for empty secret")
	}
}
