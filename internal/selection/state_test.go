package selection

import (
	"testing"

	"alcyxob/painrelief/internal/domain"
)

func TestNewStateDefaults(t *testing.T) {
	s := New()
	if s.SelectedRegion() != nil {
		t.Error("expected no selection")
	}
	if s.PainIntensity() != DefaultIntensity {
		t.Errorf("expected intensity %d, got %d", DefaultIntensity, s.PainIntensity())
	}
}

func TestSelectRegionReadBack(t *testing.T) {
	s := New()
	for _, r := range domain.AllRegions() {
		r := r
		s.SelectRegion(&r)
		got := s.SelectedRegion()
		if got == nil || *got != r {
			t.Fatalf("selected %s, read back %v", r, got)
		}
	}
	s.SelectRegion(nil)
	if s.SelectedRegion() != nil {
		t.Error("SelectRegion(nil) must clear the selection")
	}
}

func TestSelectRegionCopiesInput(t *testing.T) {
	s := New()
	r := domain.RegionChest
	s.SelectRegion(&r)
	r = domain.RegionHead
	if got := s.SelectedRegion(); *got != domain.RegionChest {
		t.Errorf("state must not alias the caller's value, got %s", *got)
	}
}

func TestClearThenDefaultIntensity(t *testing.T) {
	s := New()
	r := domain.RegionBackLower
	s.SelectRegion(&r)
	s.SetPainIntensity(9)

	s.SelectRegion(nil)
	s.SetPainIntensity(5)
	snap := s.Snapshot()
	if snap.Region != nil || snap.Intensity != 5 {
		t.Errorf("expected (nil, 5), got (%v, %d)", snap.Region, snap.Intensity)
	}
}

func TestSetPainIntensityClamps(t *testing.T) {
	s := New()
	s.SetPainIntensity(0)
	if s.PainIntensity() != MinIntensity {
		t.Errorf("expected clamp to %d, got %d", MinIntensity, s.PainIntensity())
	}
	s.SetPainIntensity(11)
	if s.PainIntensity() != MaxIntensity {
		t.Errorf("expected clamp to %d, got %d", MaxIntensity, s.PainIntensity())
	}
}

func TestListenersSeeEveryChange(t *testing.T) {
	s := New()
	var seen []Snapshot
	s.Subscribe(func(snap Snapshot) { seen = append(seen, snap) })

	r := domain.RegionNeck
	s.SelectRegion(&r)
	s.SetPainIntensity(7)
	s.Reset()

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(seen))
	}
	if seen[1].Intensity != 7 || seen[1].Region == nil || *seen[1].Region != r {
		t.Errorf("unexpected second snapshot %+v", seen[1])
	}
	if seen[2].HasSelection() || seen[2].Intensity != DefaultIntensity {
		t.Errorf("reset should notify (nil, 5), got %+v", seen[2])
	}
}
