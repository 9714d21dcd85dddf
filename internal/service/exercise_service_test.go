package service

import (
	"errors"
	"testing"

	"alcyxob/painrelief/internal/domain"
)

func TestListExercisesFilters(t *testing.T) {
	svc := NewExerciseService(newEngine(t))

	all, err := svc.ListExercises(ExerciseFilter{})
	if err != nil || len(all) == 0 {
		t.Fatalf("ListExercises: %d, %v", len(all), err)
	}
	relax, _ := svc.ListExercises(ExerciseFilter{Category: domain.CategoryRelaxation})
	for _, ex := range relax {
		if ex.Category != domain.CategoryRelaxation {
			t.Errorf("%s leaked through category filter", ex.ID)
		}
	}
	feet, _ := svc.ListExercises(ExerciseFilter{Region: domain.RegionFootLeft, Tier: domain.TierGentle})
	if len(feet) == 0 {
		t.Error("expected gentle foot exercises")
	}

	if _, err := svc.ListExercises(ExerciseFilter{Region: "tail"}); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("expected ErrInvalidRegion, got %v", err)
	}
	if _, err := svc.ListExercises(ExerciseFilter{Tier: "extreme"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestGetExerciseByID(t *testing.T) {
	svc := NewExerciseService(newEngine(t))
	if _, err := svc.GetExerciseByID("neck-stretch-1"); err != nil {
		t.Errorf("GetExerciseByID: %v", err)
	}
	if _, err := svc.GetExerciseByID("missing"); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("expected ErrExerciseNotFound, got %v", err)
	}
}

func TestRecommendClampsIntensity(t *testing.T) {
	svc := NewExerciseService(newEngine(t))
	high, _ := svc.Recommend(domain.RegionBackLower, 42, nil)
	for _, ex := range high {
		if ex.Tier != domain.TierGentle {
			t.Errorf("out-of-range intensity should be treated as severe, got %s", ex.ID)
		}
	}
	if _, err := svc.RelatedRegions("tail"); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("expected ErrInvalidRegion, got %v", err)
	}
}

func TestRecommendWithEquipment(t *testing.T) {
	svc := NewExerciseService(newEngine(t))

	if _, err := svc.Recommend("tail", 3, nil); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("expected ErrInvalidRegion, got %v", err)
	}

	unrestricted, err := svc.Recommend(domain.RegionBackLower, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !containsExercise(unrestricted, "knee-to-chest-1") {
		t.Errorf("unrestricted list = %v", unrestricted)
	}

	bare, _ := svc.Recommend(domain.RegionBackLower, 3, []string{})
	for _, ex := range bare {
		if !ex.UsableWith([]string{}) {
			t.Errorf("%s needs %v", ex.ID, ex.Equipment)
		}
	}

	knee, _ := svc.Recommend(domain.RegionKneeLeft, 5, []string{"WALL"})
	if containsExercise(knee, "wall-sit-1") {
		t.Error("chronic-only exercises need a history")
	}
	if !containsExercise(knee, "calf-stretch-1") {
		t.Errorf("wall list = %v", knee)
	}
}
