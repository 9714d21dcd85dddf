package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/selection"
	"alcyxob/painrelief/internal/service"
)

// ExerciseHandler exposes the read-only catalog and the region graph.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// RegionResponse describes one body region.
type RegionResponse struct {
	ID          domain.BodyRegion   `json:"id"`
	DisplayName string              `json:"displayName"`
	Related     []domain.BodyRegion `json:"related"`
}

// ExerciseResponse adds the timer length to a catalog entry.
type ExerciseResponse struct {
	domain.Exercise
	DurationSeconds int `json:"durationSeconds"`
}

// MapExercisesToResponse converts catalog entries to response DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i, ex := range exercises {
		responses[i] = ExerciseResponse{Exercise: ex, DurationSeconds: ex.DurationSeconds()}
	}
	return responses
}

// ListRegions godoc
// @Summary List body regions
// @Description Every selectable region, head to toe, with its neighbours.
// @Tags Regions
// @Produce json
// @Success 200 {array} RegionResponse
// @Router /regions [get]
func (h *ExerciseHandler) ListRegions(c *gin.Context) {
	regions := domain.AllRegions()
	out := make([]RegionResponse, 0, len(regions))
	for _, r := range regions {
		related, err := h.exerciseService.RelatedRegions(r)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		out = append(out, RegionResponse{ID: r, DisplayName: r.DisplayName(), Related: related})
	}
	c.JSON(http.StatusOK, out)
}

// GetRelatedRegions godoc
// @Summary Neighbours of a region
// @Tags Regions
// @Produce json
// @Param region path string true "Region id"
// @Success 200 {array} string
// @Failure 400 {object} gin.H "Unknown region"
// @Router /regions/{region}/related [get]
func (h *ExerciseHandler) GetRelatedRegions(c *gin.Context) {
	region, ok := parseRegion(c, c.Param("region"))
	if !ok {
		return
	}
	related, err := h.exerciseService.RelatedRegions(region)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, related)
}

// ListExercises godoc
// @Summary List catalog exercises
// @Tags Exercises
// @Produce json
// @Param region query string false "Direct target region"
// @Param category query string false "stretch, mobility, strength or relaxation"
// @Param tier query string false "gentle, moderate or intense"
// @Success 200 {array} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid filter"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filter := service.ExerciseFilter{
		Region:   domain.BodyRegion(c.Query("region")),
		Category: domain.ExerciseCategory(c.Query("category")),
		Tier:     domain.SeverityTier(c.Query("tier")),
	}
	exercises, err := h.exerciseService.ListExercises(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// RecommendExercises godoc
// @Summary Recommend exercises without a session
// @Description Stateless recommendation for a region and intensity. Chronic-only exercises are left out.
// @Tags Exercises
// @Produce json
// @Param region query string true "Body region"
// @Param intensity query int false "Pain intensity 1-10, default 5"
// @Param equipment query string false "Comma separated equipment list; empty means none"
// @Success 200 {array} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid query"
// @Router /exercises/recommend [get]
func (h *ExerciseHandler) RecommendExercises(c *gin.Context) {
	region, ok := parseRegion(c, c.Query("region"))
	if !ok {
		return
	}
	intensity, err := queryInt(c, "intensity", selection.DefaultIntensity)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid intensity")
		return
	}
	equipment, _ := queryEquipment(c)
	exercises, err := h.exerciseService.Recommend(region, intensity, equipment)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise godoc
// @Summary Get one exercise
// @Tags Exercises
// @Produce json
// @Param id path string true "Exercise id"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	ex, err := h.exerciseService.GetExerciseByID(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExerciseResponse{Exercise: ex, DurationSeconds: ex.DurationSeconds()})
}
