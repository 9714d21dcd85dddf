// Package selection holds the single source of truth for what the user has
// picked and how much it hurts.
package selection

import (
	"sync"

	"alcyxob/painrelief/internal/domain"
)

const (
	MinIntensity     = 1
	MaxIntensity     = 10
	DefaultIntensity = 5
)

// Snapshot is an immutable copy of the state.
type Snapshot struct {
	Region    *domain.BodyRegion `json:"selectedRegion"`
	Intensity int                `json:"painIntensity"`
}

// HasSelection reports whether a region is selected.
func (s Snapshot) HasSelection() bool { return s.Region != nil }

// Listener is notified after every change, outside the state lock.
type Listener func(Snapshot)

// State is the mutable selection record. It is handed by reference to the
// components that read it (picker, mesh highlight, recommendations).
type State struct {
	mu        sync.Mutex
	region    *domain.BodyRegion
	intensity int
	listeners []Listener
}

// New returns a state in its reset position: nothing selected, intensity 5.
func New() *State {
	return &State{intensity: DefaultIntensity}
}

// Subscribe registers fn for change notifications.
func (s *State) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SelectRegion sets (or with nil, clears) the selected region.
func (s *State) SelectRegion(region *domain.BodyRegion) {
	s.mu.Lock()
	if region == nil {
		s.region = nil
	} else {
		r := *region
		s.region = &r
	}
	snap, listeners := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	notify(listeners, snap)
}

// SetPainIntensity stores n clamped to [1,10].
func (s *State) SetPainIntensity(n int) {
	s.mu.Lock()
	s.intensity = Clamp(n)
	snap, listeners := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	notify(listeners, snap)
}

// Reset returns to (nil, 5); used after a save or a clear-all.
func (s *State) Reset() {
	s.mu.Lock()
	s.region = nil
	s.intensity = DefaultIntensity
	snap, listeners := s.snapshotLocked(), s.listeners
	s.mu.Unlock()
	notify(listeners, snap)
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SelectedRegion returns the selected region or nil.
func (s *State) SelectedRegion() *domain.BodyRegion {
	return s.Snapshot().Region
}

// PainIntensity returns the current intensity.
func (s *State) PainIntensity() int {
	return s.Snapshot().Intensity
}

func (s *State) snapshotLocked() Snapshot {
	snap := Snapshot{Intensity: s.intensity}
	if s.region != nil {
		r := *s.region
		snap.Region = &r
	}
	return snap
}

func notify(listeners []Listener, snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}

// Clamp forces n into the valid intensity range.
func Clamp(n int) int {
	if n < MinIntensity {
		return MinIntensity
	}
	if n > MaxIntensity {
		return MaxIntensity
	}
	return n
}
