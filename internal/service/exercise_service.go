package service

import (
	"errors"

	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/recommend"
	"alcyxob/painrelief/internal/selection"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("exercise filter validation failed")
)

// ExerciseFilter narrows a catalog listing. Zero fields match everything.
type ExerciseFilter struct {
	Region   domain.BodyRegion
	Category domain.ExerciseCategory
	Tier     domain.SeverityTier
}

// ExerciseService is the read-only view of the exercise catalog and the
// region graph.
type ExerciseService interface {
	ListExercises(filter ExerciseFilter) ([]domain.Exercise, error)
	GetExerciseByID(id string) (domain.Exercise, error)
	Recommend(region domain.BodyRegion, intensity int, equipment []string) ([]domain.Exercise, error)
	RelatedRegions(region domain.BodyRegion) ([]domain.BodyRegion, error)
}

type exerciseService struct {
	engine *recommend.Engine
}

// NewExerciseService creates a new ExerciseService over engine's catalog.
func NewExerciseService(engine *recommend.Engine) ExerciseService {
	return &exerciseService{engine: engine}
}

// ListExercises returns catalog entries matching filter, in catalog order.
// A region filter matches direct targets only, not neighbours.
func (s *exerciseService) ListExercises(filter ExerciseFilter) ([]domain.Exercise, error) {
	if filter.Region != "" && !filter.Region.IsValid() {
		return nil, ErrInvalidRegion
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, ErrValidationFailed
	}
	if filter.Tier != "" && !filter.Tier.IsValid() {
		return nil, ErrValidationFailed
	}

	out := []domain.Exercise{}
	for _, ex := range s.engine.Exercises() {
		if filter.Region != "" && !ex.TargetsAny([]domain.BodyRegion{filter.Region}) {
			continue
		}
		if filter.Category != "" && ex.Category != filter.Category {
			continue
		}
		if filter.Tier != "" && ex.Tier != filter.Tier {
			continue
		}
		out = append(out, ex)
	}
	return out, nil
}

// GetExerciseByID retrieves a single catalog entry.
func (s *exerciseService) GetExerciseByID(id string) (domain.Exercise, error) {
	ex, err := s.engine.Exercise(id)
	if err != nil {
		if errors.Is(err, recommend.ErrNotFound) {
			return domain.Exercise{}, ErrExerciseNotFound
		}
		return domain.Exercise{}, err
	}
	return ex, nil
}

// Recommend is a stateless query, independent of any session. Intensity
// is clamped to [1,10]. A nil equipment list means no restriction. With
// no history to go on, chronic-only exercises are left out.
func (s *exerciseService) Recommend(region domain.BodyRegion, intensity int, equipment []string) ([]domain.Exercise, error) {
	if !region.IsValid() {
		return nil, ErrInvalidRegion
	}
	opts := recommend.Options{Pattern: domain.PatternAcute}
	if equipment != nil {
		opts.Equipment = normalizeEquipment(equipment)
	}
	return s.engine.RecommendWith(region, selection.Clamp(intensity), opts), nil
}

func (s *exerciseService) RelatedRegions(region domain.BodyRegion) ([]domain.BodyRegion, error) {
	if !region.IsValid() {
		return nil, ErrInvalidRegion
	}
	return anatomy.RelatedRegions(region), nil
}
