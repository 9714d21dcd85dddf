package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/geometry"
	"alcyxob/painrelief/internal/service"
)

// Preview defaults when the client does not ask for a size.
const (
	defaultPreviewWidth  = 400
	defaultPreviewHeight = 600
)

// SceneHandler drives a session's figure, pointer and selection.
type SceneHandler struct {
	trackerService service.TrackerService
}

// NewSceneHandler creates a new SceneHandler.
func NewSceneHandler(trackerService service.TrackerService) *SceneHandler {
	return &SceneHandler{trackerService: trackerService}
}

// --- DTOs ---

// RegionRequest names a body region, e.g. {"region":"neck"}.
type RegionRequest struct {
	Region string `json:"region" binding:"required"`
}

// SelectionRequest selects a region and optionally sets the intensity.
type SelectionRequest struct {
	Region    string `json:"region" binding:"required"`
	Intensity *int   `json:"intensity"`
}

// IntensityRequest sets the pain intensity. Values are clamped to [1,10].
type IntensityRequest struct {
	Intensity *int `json:"intensity" binding:"required"`
}

// CameraRequest is the client's camera pose in figure space.
type CameraRequest struct {
	Position geometry.Vector3 `json:"position"`
	Target   geometry.Vector3 `json:"target"`
}

// PointRequest is a screen position. Width and Height, when given,
// describe the client's viewport; Camera, when given, its current orbit.
// Both stick for later requests.
type PointRequest struct {
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width" binding:"omitempty,gt=0"`
	Height float64        `json:"height" binding:"omitempty,gt=0"`
	Camera *CameraRequest `json:"camera"`
}

// FrameRequest advances the idle animation by DeltaMs milliseconds.
type FrameRequest struct {
	DeltaMs int64 `json:"deltaMs" binding:"min=0"`
}

// MotionRequest toggles the reduced motion preference.
type MotionRequest struct {
	Reduced *bool `json:"reduced" binding:"required"`
}

// PointerResponse reports what is under the pointer after a move or click.
type PointerResponse struct {
	Region *domain.BodyRegion `json:"region"`
}

// EquipmentRequest stores what the user has at hand. An empty list limits
// recommendations to exercises that need nothing.
type EquipmentRequest struct {
	Equipment []string `json:"equipment" binding:"required"`
}

// EquipmentResponse echoes the stored preference; null means unrestricted.
type EquipmentResponse struct {
	Equipment []string `json:"equipment"`
}

// FrameResponse reports the figure rotation after a frame.
type FrameResponse struct {
	Yaw float64 `json:"yaw"`
}

// tracker resolves the caller's session tracker or aborts the request.
func (h *SceneHandler) tracker(c *gin.Context) (*service.Tracker, bool) {
	return sessionTracker(c, h.trackerService)
}

func sessionTracker(c *gin.Context, svc service.TrackerService) (*service.Tracker, bool) {
	sessionID, err := getSessionIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify session from token.")
		return nil, false
	}
	t, err := svc.Tracker(c.Request.Context(), sessionID)
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	return t, true
}

func parseRegion(c *gin.Context, raw string) (domain.BodyRegion, bool) {
	region, err := domain.ParseRegion(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Unknown body region: "+raw)
		return "", false
	}
	return region, true
}

// --- Handler Methods ---

// GetScene godoc
// @Summary Get the figure
// @Description Returns parts with their current materials, the selection and recommendations.
// @Tags Scene
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.SceneView
// @Router /scene [get]
func (h *SceneHandler) GetScene(c *gin.Context) {
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, t.Snapshot())
}

// AdvanceFrame godoc
// @Summary Advance the idle animation
// @Tags Scene
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param frame body FrameRequest true "Elapsed time"
// @Success 200 {object} FrameResponse
// @Router /scene/frame [post]
func (h *SceneHandler) AdvanceFrame(c *gin.Context) {
	var req FrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	yaw := t.AdvanceAnimation(time.Duration(req.DeltaMs) * time.Millisecond)
	c.JSON(http.StatusOK, FrameResponse{Yaw: yaw})
}

// SetMotion godoc
// @Summary Set the reduced motion preference
// @Tags Scene
// @Accept json
// @Security BearerAuth
// @Param motion body MotionRequest true "Preference"
// @Success 204
// @Router /scene/motion [put]
func (h *SceneHandler) SetMotion(c *gin.Context) {
	var req MotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	t.SetReducedMotion(*req.Reduced)
	c.Status(http.StatusNoContent)
}

// SetCamera godoc
// @Summary Set the camera pose
// @Description Moves the camera used for picking and previews, e.g. after the client orbits the figure.
// @Tags Scene
// @Accept json
// @Security BearerAuth
// @Param camera body CameraRequest true "Position and target"
// @Success 200 {object} geometry.Camera
// @Failure 400 {object} gin.H "Degenerate camera"
// @Router /scene/camera [put]
func (h *SceneHandler) SetCamera(c *gin.Context) {
	var req CameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	if err := t.SetCamera(req.Position, req.Target); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Snapshot().Camera)
}

// regionPointer handles the enter/leave/click routes, which only differ
// in the tracker method they call.
func (h *SceneHandler) regionPointer(apply func(*service.Tracker, domain.BodyRegion) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
		region, ok := parseRegion(c, req.Region)
		if !ok {
			return
		}
		t, ok := h.tracker(c)
		if !ok {
			return
		}
		if err := apply(t, region); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, t.Selection())
	}
}

// PointerEnter godoc
// @Summary Pointer entered a region
// @Tags Pointer
// @Security BearerAuth
// @Param body body RegionRequest true "Region"
// @Success 200 {object} selection.Snapshot
// @Router /pointer/enter [post]
func (h *SceneHandler) PointerEnter(c *gin.Context) {
	h.regionPointer((*service.Tracker).PointerEnter)(c)
}

// PointerLeave godoc
// @Summary Pointer left a region
// @Tags Pointer
// @Security BearerAuth
// @Param body body RegionRequest true "Region"
// @Success 200 {object} selection.Snapshot
// @Router /pointer/leave [post]
func (h *SceneHandler) PointerLeave(c *gin.Context) {
	h.regionPointer((*service.Tracker).PointerLeave)(c)
}

// PointerClick godoc
// @Summary Region clicked
// @Tags Pointer
// @Security BearerAuth
// @Param body body RegionRequest true "Region"
// @Success 200 {object} selection.Snapshot
// @Router /pointer/click [post]
func (h *SceneHandler) PointerClick(c *gin.Context) {
	h.regionPointer((*service.Tracker).Click)(c)
}

func (h *SceneHandler) bindPoint(c *gin.Context) (*service.Tracker, PointRequest, bool) {
	var req PointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return nil, req, false
	}
	t, ok := h.tracker(c)
	if !ok {
		return nil, req, false
	}
	if req.Width > 0 && req.Height > 0 {
		t.SetViewport(req.Width, req.Height)
	}
	if req.Camera != nil {
		if err := t.SetCamera(req.Camera.Position, req.Camera.Target); err != nil {
			writeServiceError(c, err)
			return nil, req, false
		}
	}
	return t, req, true
}

// PointerMoveAt godoc
// @Summary Hover by screen position
// @Tags Pointer
// @Security BearerAuth
// @Param body body PointRequest true "Position"
// @Success 200 {object} PointerResponse
// @Router /pointer/move-at [post]
func (h *SceneHandler) PointerMoveAt(c *gin.Context) {
	t, req, ok := h.bindPoint(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, PointerResponse{Region: t.PointerMoveAt(req.X, req.Y)})
}

// PointerClickAt godoc
// @Summary Click by screen position
// @Description Selects the region under the point. Empty space is a no-op.
// @Tags Pointer
// @Security BearerAuth
// @Param body body PointRequest true "Position"
// @Success 200 {object} PointerResponse
// @Router /pointer/click-at [post]
func (h *SceneHandler) PointerClickAt(c *gin.Context) {
	t, req, ok := h.bindPoint(c)
	if !ok {
		return
	}
	resp := PointerResponse{}
	if region, hit := t.ClickAt(req.X, req.Y); hit {
		resp.Region = &region
	}
	c.JSON(http.StatusOK, resp)
}

// SetSelection godoc
// @Summary Select a region
// @Tags Selection
// @Security BearerAuth
// @Param body body SelectionRequest true "Region and optional intensity"
// @Success 200 {object} selection.Snapshot
// @Router /selection [put]
func (h *SceneHandler) SetSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	region, ok := parseRegion(c, req.Region)
	if !ok {
		return
	}
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	if err := t.SelectRegion(region); err != nil {
		writeServiceError(c, err)
		return
	}
	if req.Intensity != nil {
		t.SetPainIntensity(*req.Intensity)
	}
	c.JSON(http.StatusOK, t.Selection())
}

// ClearSelection godoc
// @Summary Clear the selection
// @Tags Selection
// @Security BearerAuth
// @Success 200 {object} selection.Snapshot
// @Router /selection [delete]
func (h *SceneHandler) ClearSelection(c *gin.Context) {
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	t.ClearSelection()
	c.JSON(http.StatusOK, t.Selection())
}

// SetIntensity godoc
// @Summary Set the pain intensity
// @Tags Selection
// @Security BearerAuth
// @Param body body IntensityRequest true "Intensity, clamped to 1..10"
// @Success 200 {object} selection.Snapshot
// @Router /selection/intensity [put]
func (h *SceneHandler) SetIntensity(c *gin.Context) {
	var req IntensityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	t.SetPainIntensity(*req.Intensity)
	c.JSON(http.StatusOK, t.Selection())
}

// GetRecommendations godoc
// @Summary Recommendations for the current selection
// @Description Empty list when nothing is selected. equipment, when present, replaces the stored preference for this call; an empty value means no equipment.
// @Tags Selection
// @Produce json
// @Security BearerAuth
// @Param equipment query string false "Comma separated equipment list"
// @Success 200 {array} domain.Exercise
// @Router /recommendations [get]
func (h *SceneHandler) GetRecommendations(c *gin.Context) {
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	if equipment, ok := queryEquipment(c); ok {
		c.JSON(http.StatusOK, t.RecommendationsFor(equipment))
		return
	}
	c.JSON(http.StatusOK, t.Recommendations())
}

// GetEquipment godoc
// @Summary Stored equipment preference
// @Tags Preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} EquipmentResponse
// @Router /preferences/equipment [get]
func (h *SceneHandler) GetEquipment(c *gin.Context) {
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, EquipmentResponse{Equipment: t.Equipment()})
}

// SetEquipment godoc
// @Summary Store the equipment at hand
// @Tags Preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param equipment body EquipmentRequest true "Equipment list"
// @Success 200 {object} EquipmentResponse
// @Failure 400 {object} map[string]string
// @Router /preferences/equipment [put]
func (h *SceneHandler) SetEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	t.SetEquipment(req.Equipment)
	c.JSON(http.StatusOK, EquipmentResponse{Equipment: t.Equipment()})
}

// ClearEquipment godoc
// @Summary Lift the equipment restriction
// @Tags Preferences
// @Security BearerAuth
// @Success 204
// @Router /preferences/equipment [delete]
func (h *SceneHandler) ClearEquipment(c *gin.Context) {
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	t.SetEquipment(nil)
	c.Status(http.StatusNoContent)
}

// GetPreview godoc
// @Summary Render the figure
// @Tags Scene
// @Produce png
// @Security BearerAuth
// @Param width query int false "Image width"
// @Param height query int false "Image height"
// @Success 200 {file} binary
// @Router /scene/preview.png [get]
func (h *SceneHandler) GetPreview(c *gin.Context) {
	width, err := queryInt(c, "width", defaultPreviewWidth)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid width")
		return
	}
	height, err := queryInt(c, "height", defaultPreviewHeight)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid height")
		return
	}
	t, ok := h.tracker(c)
	if !ok {
		return
	}
	png, err := t.RenderPreview(width, height)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// queryEquipment reads a comma separated equipment list. The second result
// is false when the parameter is absent.
func queryEquipment(c *gin.Context) ([]string, bool) {
	raw, ok := c.GetQuery("equipment")
	if !ok {
		return nil, false
	}
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, true
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
