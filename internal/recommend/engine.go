// Package recommend picks exercises for a painful region from a fixed
// catalog.
package recommend

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// MaxRecommendations caps every result list.
const MaxRecommendations = 3

// Intensity thresholds for the severity policy.
const (
	SevereThreshold   = 7
	ModerateThreshold = 4
)

var (
	ErrInvalidCatalog = errors.New("invalid exercise catalog")
	ErrNotFound       = errors.New("exercise not found")
)

// categoryPriority orders mild-pain results.
var categoryPriority = map[domain.ExerciseCategory]int{
	domain.CategoryStretch:    0,
	domain.CategoryMobility:   1,
	domain.CategoryStrength:   2,
	domain.CategoryRelaxation: 3,
}

type catalogFile struct {
	Version   int               `yaml:"version"`
	Exercises []domain.Exercise `yaml:"exercises"`
}

// Engine answers recommendation queries over an immutable catalog. It is
// safe for concurrent use.
type Engine struct {
	version   int
	exercises []domain.Exercise
	byID      map[string]int
}

// Default returns an engine over the embedded catalog.
func Default() (*Engine, error) {
	return Load(defaultCatalog)
}

// Load parses and validates a catalog in YAML form.
func Load(data []byte) (*Engine, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	e, err := New(cf.Exercises)
	if err != nil {
		return nil, err
	}
	e.version = cf.Version
	return e, nil
}

// New validates exercises and builds an engine over a private copy.
func New(exercises []domain.Exercise) (*Engine, error) {
	e := &Engine{
		exercises: make([]domain.Exercise, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}
	copy(e.exercises, exercises)
	for i, ex := range e.exercises {
		if err := validate(ex); err != nil {
			return nil, err
		}
		if _, dup := e.byID[ex.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, ex.ID)
		}
		e.byID[ex.ID] = i
	}
	return e, nil
}

func validate(ex domain.Exercise) error {
	switch {
	case ex.ID == "":
		return fmt.Errorf("%w: exercise without id", ErrInvalidCatalog)
	case ex.Title == "":
		return fmt.Errorf("%w: %s: missing title", ErrInvalidCatalog, ex.ID)
	case !ex.Tier.IsValid():
		return fmt.Errorf("%w: %s: unknown tier %q", ErrInvalidCatalog, ex.ID, ex.Tier)
	case !ex.Category.IsValid():
		return fmt.Errorf("%w: %s: unknown category %q", ErrInvalidCatalog, ex.ID, ex.Category)
	case len(ex.Targets.Primary) == 0:
		return fmt.Errorf("%w: %s: no primary target", ErrInvalidCatalog, ex.ID)
	}
	for _, r := range ex.Targets.All() {
		if !r.IsValid() {
			return fmt.Errorf("%w: %s: target %q: %v", ErrInvalidCatalog, ex.ID, r, domain.ErrUnknownRegion)
		}
	}
	for _, p := range ex.Patterns {
		if !p.IsValid() {
			return fmt.Errorf("%w: %s: unknown pain pattern %q", ErrInvalidCatalog, ex.ID, p)
		}
	}
	return nil
}

// Version is the catalog version.
func (e *Engine) Version() int { return e.version }

// Exercises returns the catalog in authored order.
func (e *Engine) Exercises() []domain.Exercise {
	out := make([]domain.Exercise, len(e.exercises))
	copy(out, e.exercises)
	return out
}

// Exercise looks up a catalog entry by id.
func (e *Engine) Exercise(id string) (domain.Exercise, error) {
	i, ok := e.byID[id]
	if !ok {
		return domain.Exercise{}, ErrNotFound
	}
	return e.exercises[i], nil
}

// Options narrow the candidate pool before the severity policy runs.
type Options struct {
	// Equipment the user has. Nil means no restriction; an empty list
	// allows only exercises that need nothing.
	Equipment []string
	// Pattern of recent pain. Empty matches every exercise.
	Pattern domain.PainPattern
}

func (o Options) allows(ex domain.Exercise) bool {
	return ex.UsableWith(o.Equipment) && ex.Suits(o.Pattern)
}

// Recommend returns at most MaxRecommendations exercises for region at
// intensity, with no equipment or pain pattern restriction.
func (e *Engine) Recommend(region domain.BodyRegion, intensity int) []domain.Exercise {
	return e.RecommendWith(region, intensity, Options{})
}

// RecommendWith returns at most MaxRecommendations exercises for region at
// intensity, drawn only from exercises opts allows.
//
// Exercises targeting the region or one of its neighbours are ranked by
// severity: at 7 and above only gentle-tier entries qualify, from 4 to 6
// gentler tiers come first, and below 4 entries are ordered stretch,
// mobility, strength, relaxation. Short lists are topped up from the
// relaxation pool regardless of region, still gentle-only when severe.
// Results are deterministic for a given catalog.
func (e *Engine) RecommendWith(region domain.BodyRegion, intensity int, opts Options) []domain.Exercise {
	related := anatomy.RelatedRegions(region)

	var matched []domain.Exercise
	for _, ex := range e.exercises {
		if ex.TargetsAny(related) && opts.allows(ex) {
			matched = append(matched, ex)
		}
	}

	severe := intensity >= SevereThreshold
	switch {
	case severe:
		matched = gentleOnly(matched)
	case intensity >= ModerateThreshold:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Tier.Rank() < matched[j].Tier.Rank()
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return categoryPriority[matched[i].Category] < categoryPriority[matched[j].Category]
		})
	}

	if len(matched) > MaxRecommendations {
		matched = matched[:MaxRecommendations]
	}
	return e.backfill(matched, severe, opts)
}

func (e *Engine) backfill(out []domain.Exercise, severe bool, opts Options) []domain.Exercise {
	if out == nil {
		out = []domain.Exercise{}
	}
	for _, ex := range e.exercises {
		if len(out) >= MaxRecommendations {
			break
		}
		if ex.Category != domain.CategoryRelaxation {
			continue
		}
		if severe && ex.Tier != domain.TierGentle {
			continue
		}
		if !opts.allows(ex) || containsID(out, ex.ID) {
			continue
		}
		out = append(out, ex)
	}
	return out
}

func gentleOnly(in []domain.Exercise) []domain.Exercise {
	var out []domain.Exercise
	for _, ex := range in {
		if ex.Tier == domain.TierGentle {
			out = append(out, ex)
		}
	}
	return out
}

func containsID(list []domain.Exercise, id string) bool {
	for _, ex := range list {
		if ex.ID == id {
			return true
		}
	}
	return false
}
