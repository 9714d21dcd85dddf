package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/geometry"
	"alcyxob/painrelief/internal/interaction"
	"alcyxob/painrelief/internal/platform/logger"
	"alcyxob/painrelief/internal/recommend"
	"alcyxob/painrelief/internal/render"
	"alcyxob/painrelief/internal/repository"
	"alcyxob/painrelief/internal/selection"
)

// --- Error Definitions ---
var (
	ErrNothingSelected = errors.New("no region selected")
	ErrInvalidRegion   = errors.New("invalid body region")
	ErrInvalidCamera   = errors.New("invalid camera")
)

// TrackerService hands out one Tracker per anonymous session.
type TrackerService interface {
	Tracker(ctx context.Context, sessionID string) (*Tracker, error)
	Drop(sessionID string)
	// EvictIdle drops trackers not used for maxIdle and reports how many
	// went. Stored records stay; an evicted session reloads them.
	EvictIdle(maxIdle time.Duration) int
	Active() int
	Engine() *recommend.Engine
}

type trackerEntry struct {
	tracker  *Tracker
	lastUsed time.Time
}

type trackerService struct {
	engine  *recommend.Engine
	records repository.PainRecordRepository
	log     *logger.Logger
	now     func() time.Time

	mu       sync.Mutex
	trackers map[string]*trackerEntry
}

// NewTrackerService creates the per-session registry.
func NewTrackerService(engine *recommend.Engine, records repository.PainRecordRepository, log *logger.Logger) TrackerService {
	if log == nil {
		log = logger.Nop()
	}
	return &trackerService{
		engine:   engine,
		records:  records,
		log:      log.With("service", "TrackerService"),
		now:      time.Now,
		trackers: make(map[string]*trackerEntry),
	}
}

func (s *trackerService) Engine() *recommend.Engine { return s.engine }

func (s *trackerService) lookup(sessionID string) (*Tracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.trackers[sessionID]
	if !ok {
		return nil, false
	}
	e.lastUsed = s.now()
	return e.tracker, true
}

// Tracker returns the session's tracker, creating it on first use. A new
// tracker starts from the stored history; if that cannot be read the
// session starts empty. The history is read without holding the registry
// lock; when two requests race, the first tracker stored wins.
func (s *trackerService) Tracker(ctx context.Context, sessionID string) (*Tracker, error) {
	if t, ok := s.lookup(sessionID); ok {
		return t, nil
	}

	t, err := NewTracker(sessionID, s.engine, s.records, s.log)
	if err != nil {
		return nil, err
	}
	history, err := s.records.List(ctx, sessionID)
	if err != nil {
		t.log.Warn("could not load stored history, starting empty", "error", err)
	} else {
		t.loadHistory(history)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.trackers[sessionID]; ok {
		e.lastUsed = s.now()
		return e.tracker, nil
	}
	s.trackers[sessionID] = &trackerEntry{tracker: t, lastUsed: s.now()}
	return t, nil
}

// Drop forgets the in-memory state of a session. Stored records stay.
func (s *trackerService) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trackers, sessionID)
}

func (s *trackerService) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, e := range s.trackers {
		if e.lastUsed.Before(cutoff) {
			delete(s.trackers, id)
			evicted++
		}
	}
	return evicted
}

func (s *trackerService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trackers)
}

// RunEviction calls EvictIdle every interval until ctx is done.
func RunEviction(ctx context.Context, svc TrackerService, interval, maxIdle time.Duration, log *logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := svc.EvictIdle(maxIdle); n > 0 {
				log.Debug("evicted idle trackers", "count", n, "active", svc.Active())
			}
		}
	}
}

// Tracker is one session's aggregate: selection, figure, picker, idle
// animation, recommendations and pain history. It is safe for concurrent
// use.
type Tracker struct {
	sessionID string
	engine    *recommend.Engine
	records   repository.PainRecordRepository
	log       *logger.Logger
	now       func() time.Time

	state *selection.State

	// mu guards the figure, the picker, the animator and the history.
	mu       sync.Mutex
	scene    *anatomy.Scene
	picker   *interaction.Picker
	animator anatomy.Animator
	history  []domain.PainRecord

	// recsMu guards the recommendation options and list.
	recsMu sync.RWMutex
	opts   recommend.Options
	recs   []domain.Exercise
}

// NewTracker builds a tracker with an empty history.
func NewTracker(sessionID string, engine *recommend.Engine, records repository.PainRecordRepository, log *logger.Logger) (*Tracker, error) {
	if log == nil {
		log = logger.Nop()
	}
	scene, err := anatomy.Build()
	if err != nil {
		return nil, err
	}
	t := &Tracker{
		sessionID: sessionID,
		engine:    engine,
		records:   records,
		log:       log.With("session_id", sessionID),
		now:       time.Now,
		state:     selection.New(),
		scene:     scene,
		history:   []domain.PainRecord{},
		opts:      recommend.Options{Pattern: domain.PatternAcute},
		recs:      []domain.Exercise{},
	}
	t.picker = interaction.NewPicker(scene, t.state, t.log)
	t.state.Subscribe(t.refreshRecommendations)
	return t, nil
}

func (t *Tracker) refreshRecommendations(snap selection.Snapshot) {
	t.recsMu.Lock()
	defer t.recsMu.Unlock()
	t.recs = t.recommendFor(snap, t.opts)
}

func (t *Tracker) recommendFor(snap selection.Snapshot, opts recommend.Options) []domain.Exercise {
	if snap.Region == nil {
		return []domain.Exercise{}
	}
	return t.engine.RecommendWith(*snap.Region, snap.Intensity, opts)
}

// updateOptions applies fn to the options and recomputes the list.
func (t *Tracker) updateOptions(fn func(*recommend.Options)) {
	t.recsMu.Lock()
	defer t.recsMu.Unlock()
	fn(&t.opts)
	t.recs = t.recommendFor(t.state.Snapshot(), t.opts)
}

// loadHistory replaces the in-memory history with records read from
// storage, newest first.
func (t *Tracker) loadHistory(history []domain.PainRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append([]domain.PainRecord{}, history...)
	t.setPatternLocked()
}

// setPatternLocked derives the pain pattern from the history. Callers hold
// t.mu.
func (t *Tracker) setPatternLocked() {
	pattern := PainPatternOf(t.history, t.now())
	t.updateOptions(func(o *recommend.Options) { o.Pattern = pattern })
}

// SetEquipment stores what the user has at hand. Nil lifts the
// restriction; an empty list limits recommendations to exercises that
// need nothing.
func (t *Tracker) SetEquipment(equipment []string) {
	var kit []string
	if equipment != nil {
		kit = normalizeEquipment(equipment)
	}
	t.updateOptions(func(o *recommend.Options) { o.Equipment = kit })
}

// Equipment returns the stored equipment preference, nil when unrestricted.
func (t *Tracker) Equipment() []string {
	t.recsMu.RLock()
	defer t.recsMu.RUnlock()
	if t.opts.Equipment == nil {
		return nil
	}
	return append([]string{}, t.opts.Equipment...)
}

// PainPattern reports whether recent history reads as acute or chronic.
func (t *Tracker) PainPattern() domain.PainPattern {
	t.recsMu.RLock()
	defer t.recsMu.RUnlock()
	return t.opts.Pattern
}

// RecommendationsFor computes the list for the current selection with a
// one-off equipment list in place of the stored preference.
func (t *Tracker) RecommendationsFor(equipment []string) []domain.Exercise {
	snap := t.state.Snapshot()
	t.recsMu.RLock()
	opts := t.opts
	t.recsMu.RUnlock()
	opts.Equipment = nil
	if equipment != nil {
		opts.Equipment = normalizeEquipment(equipment)
	}
	return t.recommendFor(snap, opts)
}

func normalizeEquipment(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SessionID identifies the tracker's session.
func (t *Tracker) SessionID() string { return t.sessionID }

// Selection returns the current selection.
func (t *Tracker) Selection() selection.Snapshot { return t.state.Snapshot() }

// SelectRegion selects region directly, bypassing hit-testing.
func (t *Tracker) SelectRegion(region domain.BodyRegion) error {
	if !region.IsValid() {
		return ErrInvalidRegion
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.SelectRegion(&region)
	return nil
}

// ClearSelection deselects without touching the intensity.
func (t *Tracker) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.SelectRegion(nil)
}

// SetPainIntensity stores n clamped to [1,10] and returns the stored value.
func (t *Tracker) SetPainIntensity(n int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.SetPainIntensity(n)
	return t.state.PainIntensity()
}

func (t *Tracker) handleFor(region domain.BodyRegion) (anatomy.Handle, error) {
	h, ok := t.scene.HandleOf(region)
	if !ok {
		return anatomy.NoHandle, ErrInvalidRegion
	}
	return h, nil
}

// PointerEnter reports the pointer entering the part for region.
func (t *Tracker) PointerEnter(region domain.BodyRegion) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, err := t.handleFor(region)
	if err != nil {
		return err
	}
	t.picker.PointerEnter(h)
	return nil
}

// PointerLeave reports the pointer leaving the part for region.
func (t *Tracker) PointerLeave(region domain.BodyRegion) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, err := t.handleFor(region)
	if err != nil {
		return err
	}
	t.picker.PointerLeave(h)
	return nil
}

// Click reports a click on the part for region.
func (t *Tracker) Click(region domain.BodyRegion) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, err := t.handleFor(region)
	if err != nil {
		return err
	}
	t.picker.Click(h)
	return nil
}

// SetViewport tells the tracker the size of the client's drawing surface.
func (t *Tracker) SetViewport(width, height float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scene.SetViewport(width, height)
}

// SetCamera moves the pick camera to match the client's orbit.
func (t *Tracker) SetCamera(position, target geometry.Vector3) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.scene.SetCamera(position, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCamera, err)
	}
	return nil
}

// PointerMoveAt hit-tests a viewport pixel and updates the hover.
func (t *Tracker) PointerMoveAt(x, y float64) *domain.BodyRegion {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.picker.PointerMoveAt(x, y)
	return t.hoveredLocked()
}

// ClickAt hit-tests a viewport pixel and selects the region under it.
func (t *Tracker) ClickAt(x, y float64) (domain.BodyRegion, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.picker.ClickAt(x, y)
}

func (t *Tracker) hoveredLocked() *domain.BodyRegion {
	if r, ok := t.scene.RegionOf(t.picker.Hovered()); ok {
		return &r
	}
	return nil
}

// AdvanceAnimation steps the idle sway by dt.
func (t *Tracker) AdvanceAnimation(dt time.Duration) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.animator.Step(t.scene, dt, t.state.Snapshot().HasSelection())
	return t.scene.Yaw()
}

// SetReducedMotion turns the idle sway off (true) or back on.
func (t *Tracker) SetReducedMotion(reduced bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.animator.SetReducedMotion(reduced)
	if reduced {
		t.animator.Step(t.scene, 0, true)
	}
}

// Recommendations returns the list for the current selection; empty when
// nothing is selected.
func (t *Tracker) Recommendations() []domain.Exercise {
	t.recsMu.RLock()
	defer t.recsMu.RUnlock()
	out := make([]domain.Exercise, len(t.recs))
	copy(out, t.recs)
	return out
}

// Save records the current selection, newest first, and resets the
// selection. A storage failure is logged; the record is kept in memory.
func (t *Tracker) Save(ctx context.Context, metadata map[string]string) (domain.PainRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.state.Snapshot()
	if snap.Region == nil {
		return domain.PainRecord{}, ErrNothingSelected
	}
	record := domain.PainRecord{
		ID:        uuid.NewString(),
		Region:    *snap.Region,
		Intensity: snap.Intensity,
		Timestamp: t.now().UTC(),
	}
	if len(metadata) > 0 {
		record.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			record.Metadata[k] = v
		}
	}

	t.history = append([]domain.PainRecord{record}, t.history...)
	t.setPatternLocked()
	if _, err := t.records.Prepend(ctx, t.sessionID, record); err != nil {
		t.log.Warn("failed to persist pain record, kept in memory", "record_id", record.ID, "error", err)
	}
	t.state.Reset()
	return record, nil
}

// ClearAll drops every record for the session and resets the selection.
func (t *Tracker) ClearAll(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = []domain.PainRecord{}
	t.setPatternLocked()
	if err := t.records.Clear(ctx, t.sessionID); err != nil {
		t.log.Warn("failed to clear stored records", "error", err)
	}
	t.state.Reset()
}

// History returns the session's records, newest first.
func (t *Tracker) History() []domain.PainRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.PainRecord, len(t.history))
	copy(out, t.history)
	return out
}

// Insights summarises the session's history.
func (t *Tracker) Insights(loc *time.Location) Insights {
	return ComputeInsights(t.History(), loc)
}

// SceneView is everything a client needs to draw the figure.
type SceneView struct {
	PoseVersion     int                `json:"poseVersion"`
	Selection       selection.Snapshot `json:"selection"`
	Hovered         *domain.BodyRegion `json:"hovered"`
	Yaw             float64            `json:"yaw"`
	Camera          geometry.Camera    `json:"camera"`
	PainPattern     domain.PainPattern `json:"painPattern"`
	Equipment       []string           `json:"equipment"`
	ReducedMotion   bool               `json:"reducedMotion"`
	Parts           []anatomy.Part     `json:"parts"`
	Recommendations []domain.Exercise  `json:"recommendations"`
}

// Snapshot returns the current view model.
func (t *Tracker) Snapshot() SceneView {
	t.mu.Lock()
	view := SceneView{
		PoseVersion:   t.scene.Version(),
		Selection:     t.state.Snapshot(),
		Hovered:       t.hoveredLocked(),
		Yaw:           t.scene.Yaw(),
		Camera:        t.scene.Camera(),
		ReducedMotion: t.animator.ReducedMotion(),
		Parts:         t.scene.Parts(),
	}
	t.mu.Unlock()
	view.PainPattern = t.PainPattern()
	view.Equipment = t.Equipment()
	view.Recommendations = t.Recommendations()
	return view
}

// RenderPreview draws the figure as a PNG of the given size.
func (t *Tracker) RenderPreview(width, height int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return render.PNG(t.scene, width, height)
}
