// internal/domain/exercise.go
package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// ExerciseCategory groups exercises by what they do.
type ExerciseCategory string

const (
	CategoryStretch    ExerciseCategory = "stretch"
	CategoryMobility   ExerciseCategory = "mobility"
	CategoryStrength   ExerciseCategory = "strength"
	CategoryRelaxation ExerciseCategory = "relaxation"
)

// SeverityTier is the coarse difficulty classification used to gate
// recommendations by reported pain level.
type SeverityTier string

const (
	TierGentle   SeverityTier = "gentle"
	TierModerate SeverityTier = "moderate"
	TierIntense  SeverityTier = "intense"
)

// Rank orders tiers from gentlest (0) upward. Unknown tiers sort last.
func (t SeverityTier) Rank() int {
	switch t {
	case TierGentle:
		return 0
	case TierModerate:
		return 1
	case TierIntense:
		return 2
	}
	return 3
}

// IsValid reports whether t is one of the defined tiers.
func (t SeverityTier) IsValid() bool {
	return t.Rank() < 3
}

// IsValid reports whether c is one of the defined categories.
func (c ExerciseCategory) IsValid() bool {
	switch c {
	case CategoryStretch, CategoryMobility, CategoryStrength, CategoryRelaxation:
		return true
	}
	return false
}

// PainPattern describes how often pain has been reported lately.
type PainPattern string

const (
	PatternAcute   PainPattern = "acute"
	PatternChronic PainPattern = "chronic"
)

// IsValid reports whether p is one of the defined patterns.
func (p PainPattern) IsValid() bool {
	return p == PatternAcute || p == PatternChronic
}

// NoEquipment is the equipment entry for exercises that need nothing.
const NoEquipment = "none"

// TargetRegions splits the regions an exercise works into primary and
// secondary sets. Both count when matching against a selection.
type TargetRegions struct {
	Primary   []BodyRegion `yaml:"primary" json:"primary"`
	Secondary []BodyRegion `yaml:"secondary,omitempty" json:"secondary,omitempty"`
}

// All returns primary followed by secondary regions.
func (t TargetRegions) All() []BodyRegion {
	out := make([]BodyRegion, 0, len(t.Primary)+len(t.Secondary))
	out = append(out, t.Primary...)
	return append(out, t.Secondary...)
}

// Exercise is an immutable catalog entry. The catalog is loaded once and
// never modified at runtime.
type Exercise struct {
	ID          string           `yaml:"id" json:"id"`
	Title       string           `yaml:"title" json:"title"`
	Description string           `yaml:"description" json:"description"`
	Steps       []string         `yaml:"steps" json:"steps"`
	Duration    string           `yaml:"duration" json:"duration"` // e.g. "5-7 minutes"
	Tier        SeverityTier     `yaml:"tier" json:"tier"`
	Category    ExerciseCategory `yaml:"category" json:"category"`
	Targets     TargetRegions    `yaml:"targets" json:"targets"`
	Equipment   []string         `yaml:"equipment,omitempty" json:"equipment,omitempty"` // any one of these will do
	Patterns    []PainPattern    `yaml:"pain_patterns,omitempty" json:"painPatterns,omitempty"`
	SafetyNotes []string         `yaml:"safety_notes,omitempty" json:"safetyNotes,omitempty"`
}

var leadingNumber = regexp.MustCompile(`(\d+)`)

// defaultExerciseSeconds is used when Duration has no number in it.
const defaultExerciseSeconds = 300

// DurationSeconds reads the first number in Duration as minutes, which is
// how the session timer sizes an exercise ("5-7 minutes" -> 300).
func (e Exercise) DurationSeconds() int {
	m := leadingNumber.FindString(e.Duration)
	if m == "" {
		return defaultExerciseSeconds
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes <= 0 {
		return defaultExerciseSeconds
	}
	return minutes * 60
}

// TargetsAny reports whether the exercise works any region in set.
func (e Exercise) TargetsAny(set []BodyRegion) bool {
	for _, r := range e.Targets.All() {
		for _, s := range set {
			if r == s {
				return true
			}
		}
	}
	return false
}

// UsableWith reports whether the exercise can be done with the available
// equipment. A nil list means no restriction. Exercises that list nothing,
// or list "none", are always usable.
func (e Exercise) UsableWith(available []string) bool {
	if available == nil || len(e.Equipment) == 0 {
		return true
	}
	for _, need := range e.Equipment {
		need = strings.ToLower(need)
		if need == NoEquipment {
			return true
		}
		for _, have := range available {
			if strings.EqualFold(have, need) {
				return true
			}
		}
	}
	return false
}

// Suits reports whether the exercise fits pattern. Exercises without
// patterns suit every pattern, and an empty pattern matches everything.
func (e Exercise) Suits(pattern PainPattern) bool {
	if pattern == "" || len(e.Patterns) == 0 {
		return true
	}
	for _, p := range e.Patterns {
		if p == pattern {
			return true
		}
	}
	return false
}
