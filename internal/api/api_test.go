package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/geometry"
	"alcyxob/painrelief/internal/recommend"
	"alcyxob/painrelief/internal/repository/kv"
	"alcyxob/painrelief/internal/selection"
	"alcyxob/painrelief/internal/service"
	"alcyxob/painrelief/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := recommend.Default()
	if err != nil {
		t.Fatalf("recommend.Default: %v", err)
	}
	repo := kv.NewPainRecordRepository(storage.NewMemoryStore(), storage.DefaultPrefix)
	router := gin.New()
	SetupRoutes(router,
		service.NewSessionService("test-secret", time.Hour),
		service.NewTrackerService(engine, repo, nil),
		service.NewExerciseService(engine),
	)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func startSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/v1/sessions", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /sessions = %d %s", w.Code, w.Body.String())
	}
	var resp SessionResponse
	decode(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("empty token")
	}
	return resp.Token
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)
	w := do(t, router, http.MethodGet, "/ping", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /ping = %d", w.Code)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"bad token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/scene", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			var body map[string]string
			decode(t, w, &body)
			if body["error"] == "" {
				t.Errorf("missing error message: %s", w.Body.String())
			}
		})
	}
}

func TestSelectRecommendSaveFlow(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router)

	w := do(t, router, http.MethodGet, "/api/v1/recommendations", token, nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("recommendations with nothing selected = %d %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPut, "/api/v1/selection", token, gin.H{"region": "neck", "intensity": 3})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /selection = %d %s", w.Code, w.Body.String())
	}
	var snap selection.Snapshot
	decode(t, w, &snap)
	if snap.Region == nil || *snap.Region != domain.RegionNeck || snap.Intensity != 3 {
		t.Fatalf("selection = %+v", snap)
	}

	w = do(t, router, http.MethodGet, "/api/v1/recommendations", token, nil)
	var recs []domain.Exercise
	decode(t, w, &recs)
	if len(recs) == 0 || len(recs) > recommend.MaxRecommendations {
		t.Fatalf("got %d recommendations", len(recs))
	}
	if recs[0].ID != "neck-stretch-1" {
		t.Errorf("first recommendation = %s", recs[0].ID)
	}

	w = do(t, router, http.MethodPut, "/api/v1/selection/intensity", token, gin.H{"intensity": 42})
	decode(t, w, &snap)
	if snap.Intensity != selection.MaxIntensity {
		t.Errorf("intensity = %d, want clamped %d", snap.Intensity, selection.MaxIntensity)
	}

	w = do(t, router, http.MethodPost, "/api/v1/records", token, gin.H{"metadata": gin.H{"triggers": "desk"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /records = %d %s", w.Code, w.Body.String())
	}
	var saved domain.PainRecord
	decode(t, w, &saved)
	if saved.Region != domain.RegionNeck || saved.Intensity != 10 || saved.Metadata["triggers"] != "desk" {
		t.Errorf("saved = %+v", saved)
	}

	w = do(t, router, http.MethodGet, "/api/v1/scene", token, nil)
	var view service.SceneView
	decode(t, w, &view)
	if view.Selection.Region != nil || view.Selection.Intensity != selection.DefaultIntensity {
		t.Errorf("selection not reset after save: %+v", view.Selection)
	}
	if len(view.Recommendations) != 0 {
		t.Errorf("recommendations after reset = %d", len(view.Recommendations))
	}

	w = do(t, router, http.MethodGet, "/api/v1/records", token, nil)
	var history []domain.PainRecord
	decode(t, w, &history)
	if len(history) != 1 || history[0].ID != saved.ID {
		t.Fatalf("history = %+v", history)
	}

	w = do(t, router, http.MethodGet, "/api/v1/records/insights", token, nil)
	var insights service.Insights
	decode(t, w, &insights)
	if insights.Total != 1 || insights.Triggers["desk"] != 1 {
		t.Errorf("insights = %+v", insights)
	}

	w = do(t, router, http.MethodDelete, "/api/v1/records", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE /records = %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/api/v1/records", token, nil)
	if w.Body.String() != "[]" {
		t.Errorf("history after clear = %s", w.Body.String())
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	router := newTestRouter(t)
	a := startSession(t, router)
	b := startSession(t, router)

	do(t, router, http.MethodPut, "/api/v1/selection", a, gin.H{"region": "chest"})
	w := do(t, router, http.MethodPost, "/api/v1/records", a, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("save = %d %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/v1/records", b, nil)
	if w.Body.String() != "[]" {
		t.Errorf("other session sees %s", w.Body.String())
	}
}

func TestSaveWithoutSelection(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router)

	w := do(t, router, http.MethodPost, "/api/v1/records", token, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestInvalidRequests(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"unknown region", http.MethodPut, "/api/v1/selection", gin.H{"region": "tail"}, http.StatusBadRequest},
		{"missing region", http.MethodPost, "/api/v1/pointer/click", gin.H{}, http.StatusBadRequest},
		{"missing intensity", http.MethodPut, "/api/v1/selection/intensity", gin.H{}, http.StatusBadRequest},
		{"negative frame", http.MethodPost, "/api/v1/scene/frame", gin.H{"deltaMs": -5}, http.StatusBadRequest},
		{"bad tier", http.MethodGet, "/api/v1/exercises?tier=extreme", nil, http.StatusBadRequest},
		{"bad region filter", http.MethodGet, "/api/v1/exercises?region=tail", nil, http.StatusBadRequest},
		{"unknown exercise", http.MethodGet, "/api/v1/exercises/nope", nil, http.StatusNotFound},
		{"unknown related", http.MethodGet, "/api/v1/regions/tail/related", nil, http.StatusBadRequest},
		{"bad time zone", http.MethodGet, "/api/v1/records/insights?tz=Mars/Olympus", nil, http.StatusBadRequest},
		{"zero preview", http.MethodGet, "/api/v1/scene/preview.png?width=0", nil, http.StatusBadRequest},
		{"non-numeric preview", http.MethodGet, "/api/v1/scene/preview.png?height=tall", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, tc.method, tc.path, token, tc.body)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestPointerByRegion(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router)

	do(t, router, http.MethodPost, "/api/v1/pointer/enter", token, gin.H{"region": "knee_left"})
	w := do(t, router, http.MethodGet, "/api/v1/scene", token, nil)
	var view service.SceneView
	decode(t, w, &view)
	if view.Hovered == nil || *view.Hovered != domain.RegionKneeLeft {
		t.Fatalf("hovered = %v", view.Hovered)
	}

	w = do(t, router, http.MethodPost, "/api/v1/pointer/click", token, gin.H{"region": "knee_left"})
	var snap selection.Snapshot
	decode(t, w, &snap)
	if snap.Region == nil || *snap.Region != domain.RegionKneeLeft {
		t.Fatalf("click did not select: %+v", snap)
	}

	w = do(t, router, http.MethodDelete, "/api/v1/selection", token, nil)
	decode(t, w, &snap)
	if snap.HasSelection() {
		t.Errorf("selection not cleared: %+v", snap)
	}
}

func TestClickAtScreenPosition(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router)

	scene, err := anatomy.Build()
	if err != nil {
		t.Fatal(err)
	}
	cam := scene.Camera().WithViewport(1024, 768)
	h, _ := scene.HandleOf(domain.RegionHandRight)
	part, _ := scene.Part(h)
	x, y, _, err := cam.Project(part.Position)
	if err != nil {
		t.Fatal(err)
	}

	w := do(t, router, http.MethodPost, "/api/v1/pointer/click-at", token,
		gin.H{"x": x, "y": y, "width": 1024, "height": 768})
	var resp PointerResponse
	decode(t, w, &resp)
	if resp.Region == nil || *resp.Region != domain.RegionHandRight {
		t.Fatalf("click-at = %s", w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/api/v1/pointer/click-at", token, gin.H{"x": 0, "y": 0})
	decode(t, w, &resp)
	if resp.Region != nil {
		t.Errorf("empty space hit %s", *resp.Region)
	}

	w = do(t, router, http.MethodGet, "/api/v1/scene", token, nil)
	var view service.SceneView
	decode(t, w, &view)
	if view.Selection.Region == nil || *view.Selection.Region != domain.RegionHandRight {
		t.Errorf("empty click changed selection: %+v", view.Selection)
	}
}

func TestFrameAndMotion(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router)

	w := do(t, router, http.MethodPost, "/api/v1/scene/frame", token, gin.H{"deltaMs": 500})
	var frame FrameResponse
	decode(t, w, &frame)
	if frame.Yaw == 0 {
		t.Errorf("idle figure did not rotate")
	}

	w = do(t, router, http.MethodPut, "/api/v1/scene/motion", token, gin.H{"reduced": true})
	if w.Code != http.StatusNoContent {
		t.Fatalf("PUT /scene/motion = %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/api/v1/scene", token, nil)
	var view service.SceneView
	decode(t, w, &view)
	if !view.ReducedMotion {
		t.Errorf("reduced motion not recorded")
	}
}

func TestCatalogRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/regions", "", nil)
	var regions []RegionResponse
	decode(t, w, &regions)
	if len(regions) != len(domain.AllRegions()) {
		t.Fatalf("regions = %d", len(regions))
	}
	if regions[0].ID != domain.RegionHead || regions[0].DisplayName != "Head" {
		t.Errorf("first region = %+v", regions[0])
	}

	w = do(t, router, http.MethodGet, "/api/v1/exercises/calf-stretch-1", "", nil)
	var ex ExerciseResponse
	decode(t, w, &ex)
	if ex.ID != "calf-stretch-1" || ex.DurationSeconds != 180 {
		t.Errorf("exercise = %+v", ex)
	}

	w = do(t, router, http.MethodGet, "/api/v1/exercises?category=relaxation", "", nil)
	var list []ExerciseResponse
	decode(t, w, &list)
	if len(list) == 0 {
		t.Fatal("no relaxation exercises")
	}
	for _, e := range list {
		if e.Category != domain.CategoryRelaxation {
			t.Errorf("%s has category %s", e.ID, e.Category)
		}
	}
}

func TestPreviewPNG(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router)

	w := do(t, router, http.MethodGet, "/api/v1/scene/preview.png?width=120&height=160", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("preview = %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Errorf("body is not a PNG")
	}
}

func TestClickAtFromRearCamera(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router)

	rear := CameraRequest{
		Position: geometry.NewVector3(0, 0.9, -3.2),
		Target:   geometry.NewVector3(0, 0.9, 0),
	}
	scene, err := anatomy.Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := scene.SetCamera(rear.Position, rear.Target); err != nil {
		t.Fatal(err)
	}
	h, _ := scene.HandleOf(domain.RegionBackLower)
	part, _ := scene.Part(h)
	x, y, _, err := scene.Camera().Project(part.Position)
	if err != nil {
		t.Fatal(err)
	}

	w := do(t, router, http.MethodPost, "/api/v1/pointer/click-at", token,
		gin.H{"x": x, "y": y, "camera": rear})
	var resp PointerResponse
	decode(t, w, &resp)
	if resp.Region == nil || *resp.Region != domain.RegionBackLower {
		t.Fatalf("click-at from behind = %s", w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/v1/scene", token, nil)
	var view service.SceneView
	decode(t, w, &view)
	if view.Camera.Position != rear.Position {
		t.Errorf("camera not kept: %+v", view.Camera)
	}

	w = do(t, router, http.MethodPut, "/api/v1/scene/camera", token,
		CameraRequest{Position: rear.Target, Target: rear.Target})
	if w.Code != http.StatusBadRequest {
		t.Errorf("degenerate camera = %d, want 400", w.Code)
	}
}

func recommendationIDs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d %s", w.Code, w.Body.String())
	}
	var list []domain.Exercise
	decode(t, w, &list)
	out := make([]string, len(list))
	for i, ex := range list {
		out[i] = ex.ID
	}
	return out
}

func hasID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func TestRecommendationsWithEquipment(t *testing.T) {
	router := newTestRouter(t)
	token := startSession(t, router)

	intensity := 3
	w := do(t, router, http.MethodPut, "/api/v1/selection", token, SelectionRequest{Region: "back_lower", Intensity: &intensity})
	if w.Code != http.StatusOK {
		t.Fatalf("select = %d %s", w.Code, w.Body.String())
	}

	stored := recommendationIDs(t, do(t, router, http.MethodGet, "/api/v1/recommendations", token, nil))
	if !hasID(stored, "knee-to-chest-1") {
		t.Fatalf("unrestricted list = %v", stored)
	}
	bare := recommendationIDs(t, do(t, router, http.MethodGet, "/api/v1/recommendations?equipment=", token, nil))
	if hasID(bare, "knee-to-chest-1") || len(bare) == 0 {
		t.Errorf("no-equipment list = %v", bare)
	}
	mat := recommendationIDs(t, do(t, router, http.MethodGet, "/api/v1/recommendations?equipment=chair,%20yoga_mat", token, nil))
	if !hasID(mat, "knee-to-chest-1") {
		t.Errorf("mat list = %v", mat)
	}

	w = do(t, router, http.MethodPut, "/api/v1/preferences/equipment", token, EquipmentRequest{Equipment: []string{}})
	if w.Code != http.StatusOK {
		t.Fatalf("set equipment = %d %s", w.Code, w.Body.String())
	}
	if got := recommendationIDs(t, do(t, router, http.MethodGet, "/api/v1/recommendations", token, nil)); hasID(got, "knee-to-chest-1") {
		t.Errorf("stored preference ignored: %v", got)
	}
	var view service.SceneView
	decode(t, do(t, router, http.MethodGet, "/api/v1/scene", token, nil), &view)
	if view.Equipment == nil || len(view.Equipment) != 0 || view.PainPattern != domain.PatternAcute {
		t.Errorf("scene equipment=%v pattern=%s", view.Equipment, view.PainPattern)
	}

	w = do(t, router, http.MethodPut, "/api/v1/preferences/equipment", token, map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing equipment = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodDelete, "/api/v1/preferences/equipment", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("clear equipment = %d", w.Code)
	}
	var pref EquipmentResponse
	decode(t, do(t, router, http.MethodGet, "/api/v1/preferences/equipment", token, nil), &pref)
	if pref.Equipment != nil {
		t.Errorf("equipment after clear = %v", pref.Equipment)
	}
}

func TestStatelessRecommendRoute(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/exercises/recommend?region=back_lower&intensity=9", "", nil)
	var severe []ExerciseResponse
	decode(t, w, &severe)
	if w.Code != http.StatusOK || len(severe) == 0 {
		t.Fatalf("recommend = %d %s", w.Code, w.Body.String())
	}
	for _, ex := range severe {
		if ex.Tier != domain.TierGentle || ex.DurationSeconds == 0 {
			t.Errorf("unexpected entry %+v", ex)
		}
	}

	w = do(t, router, http.MethodGet, "/api/v1/exercises/recommend?region=knee_left&equipment=wall", "", nil)
	var wall []ExerciseResponse
	decode(t, w, &wall)
	for _, ex := range wall {
		if !ex.UsableWith([]string{"wall"}) {
			t.Errorf("%s needs %v", ex.ID, ex.Equipment)
		}
	}

	for _, path := range []string{
		"/api/v1/exercises/recommend",
		"/api/v1/exercises/recommend?region=tail",
		"/api/v1/exercises/recommend?region=neck&intensity=high",
	} {
		if w := do(t, router, http.MethodGet, path, "", nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s = %d, want 400", path, w.Code)
		}
	}

	if w := do(t, router, http.MethodGet, "/api/v1/exercises/neck-stretch-1", "", nil); w.Code != http.StatusOK {
		t.Errorf("catalog lookup still routed by id, got %d", w.Code)
	}
}
