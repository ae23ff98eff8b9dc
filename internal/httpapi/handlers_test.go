package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"montage/internal/config"
	"montage/internal/db"
	"montage/internal/history"
	"montage/internal/ops"
)

func setupTest(t *testing.T) *Handlers {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := db.NewStore(database)
	mgr := history.NewManager(store, store, zerolog.Nop())
	if err := mgr.Load(context.Background()); err != nil {
		t.Fatalf("manager load: %v", err)
	}

	return &Handlers{
		db:      database,
		cfg:     config.DefaultConfig(),
		mgr:     mgr,
		version: "test",
	}
}

// seedTrack creates a video track and returns its id.
func seedTrack(t *testing.T, h *Handlers) int64 {
	t.Helper()
	out, err := ops.AddTrack(context.Background(), h.db, ops.AddTrackInput{Type: "video"})
	if err != nil {
		t.Fatalf("seed track: %v", err)
	}
	return out.Track.ID
}

// seedClip places a 60s-source video clip and returns its id.
func seedClip(t *testing.T, h *Handlers, trackID, startMs, endMs int64) int64 {
	t.Helper()
	out, err := ops.AddClip(context.Background(), h.db, h.cfg, h.mgr, ops.AddClipInput{
		TrackID:          trackID,
		SourcePath:       "/media/test.mp4",
		SourceDurationMs: 60_000,
		StartOnTrackMs:   startMs,
		EndOnTrackMs:     endMs,
	})
	if err != nil {
		t.Fatalf("seed clip: %v", err)
	}
	return out.Clip.ID
}

// decodeResponse unmarshals a JSON response body into a generic map.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v (body: %s)", err, rec.Body.String())
	}
	return body
}

// assertErrorCode checks the JSON error envelope carries the expected code.
func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	body := decodeResponse(t, rec)
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in response: %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("error code = %v, want %s", errObj["code"], code)
	}
}

// --- Root and status ---

func TestHandleRoot(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.HandleRoot(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeResponse(t, rec)
	if body["name"] != "montage" || body["version"] != "test" {
		t.Errorf("root = %v, want montage/test", body)
	}
}

func TestHandleStatus_EmptyProject(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/status", nil)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeResponse(t, rec)
	if body["tracks"].(float64) != 0 || body["clips"].(float64) != 0 {
		t.Errorf("empty project status = %v, want zeros", body)
	}
	if body["valid"] != true {
		t.Error("empty timeline should be valid")
	}
}

// --- Clips ---

func TestHandleAddClip(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)

	payload := `{"track_id": TRACK, "source_path": "/media/a.mp4", "source_duration_ms": 60000,
		"start_time_on_track_ms": 0, "end_time_on_track_ms": 5000}`
	payload = strings.Replace(payload, "TRACK", jsonInt(trackID), 1)

	req := httptest.NewRequest("POST", "/clips", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.HandleAddClip(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	body := decodeResponse(t, rec)
	c := body["clip"].(map[string]any)
	if c["id"].(float64) == 0 {
		t.Error("clip id was not assigned")
	}
	if body["can_undo"] != true {
		t.Error("can_undo should be true after an edit")
	}
}

func TestHandleAddClip_Errors(t *testing.T) {
	h := setupTest(t)
	seedTrack(t, h)

	// Malformed body
	req := httptest.NewRequest("POST", "/clips", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.HandleAddClip(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rec.Code)
	}
	assertErrorCode(t, rec, "INVALID_REQUEST")

	// Unknown track
	req = httptest.NewRequest("POST", "/clips", strings.NewReader(
		`{"track_id": 9999, "source_path": "/media/a.mp4", "source_duration_ms": 60000,
		  "start_time_on_track_ms": 0, "end_time_on_track_ms": 5000}`))
	rec = httptest.NewRecorder()
	h.HandleAddClip(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown track: status = %d, want 404", rec.Code)
	}
	assertErrorCode(t, rec, "NOT_FOUND")
}

func TestHandleGetClip(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	clipID := seedClip(t, h, trackID, 0, 5000)

	req := httptest.NewRequest("GET", "/clips/1", nil)
	req.SetPathValue("id", jsonInt(clipID))
	rec := httptest.NewRecorder()
	h.HandleGetClip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	c := decodeResponse(t, rec)["clip"].(map[string]any)
	if int64(c["id"].(float64)) != clipID {
		t.Errorf("clip id = %v, want %d", c["id"], clipID)
	}

	req = httptest.NewRequest("GET", "/clips/9999", nil)
	req.SetPathValue("id", "9999")
	rec = httptest.NewRecorder()
	h.HandleGetClip(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing clip: status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest("GET", "/clips/abc", nil)
	req.SetPathValue("id", "abc")
	rec = httptest.NewRecorder()
	h.HandleGetClip(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", rec.Code)
	}
}

func TestHandleMoveClip(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	first := seedClip(t, h, trackID, 0, 5000)
	second := seedClip(t, h, trackID, 10_000, 15_000)

	req := httptest.NewRequest("POST", "/clips/move", strings.NewReader(`{"start_time_on_track_ms": 3000}`))
	req.SetPathValue("id", jsonInt(second))
	rec := httptest.NewRecorder()
	h.HandleMoveClip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	body := decodeResponse(t, rec)
	moved := body["clip"].(map[string]any)
	if moved["start_time_on_track_ms"].(float64) != 3000 {
		t.Errorf("moved start = %v, want 3000", moved["start_time_on_track_ms"])
	}
	updates := body["updates"].([]any)
	if len(updates) != 1 || int64(updates[0].(map[string]any)["clip_id"].(float64)) != first {
		t.Errorf("updates = %v, want one trim of clip %d", updates, first)
	}
}

func TestHandleResizeClip(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	clipID := seedClip(t, h, trackID, 1000, 6000)

	req := httptest.NewRequest("POST", "/clips/resize", strings.NewReader(
		`{"start_time_on_track_ms": 2000, "end_time_on_track_ms": 6000}`))
	req.SetPathValue("id", jsonInt(clipID))
	rec := httptest.NewRecorder()
	h.HandleResizeClip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	resized := decodeResponse(t, rec)["clip"].(map[string]any)
	if resized["start_time_in_source_ms"].(float64) != 1000 {
		t.Errorf("source start = %v, want 1000 (follows the edge)", resized["start_time_in_source_ms"])
	}

	req = httptest.NewRequest("POST", "/clips/resize", strings.NewReader(
		`{"start_time_on_track_ms": 6000, "end_time_on_track_ms": 2000}`))
	req.SetPathValue("id", jsonInt(clipID))
	rec = httptest.NewRecorder()
	h.HandleResizeClip(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("inverted range: status = %d, want 400", rec.Code)
	}
}

func TestHandleSplitClip(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	clipID := seedClip(t, h, trackID, 0, 10_000)

	req := httptest.NewRequest("POST", "/clips/split", strings.NewReader(`{"at_track_ms": 4000}`))
	req.SetPathValue("id", jsonInt(clipID))
	rec := httptest.NewRecorder()
	h.HandleSplitClip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	body := decodeResponse(t, rec)
	left := body["left"].(map[string]any)
	right := body["right"].(map[string]any)
	if left["end_time_on_track_ms"].(float64) != 4000 || right["start_time_on_track_ms"].(float64) != 4000 {
		t.Errorf("fragments = %v / %v, want a cut at 4000", left, right)
	}

	req = httptest.NewRequest("POST", "/clips/split", strings.NewReader(`{"at_track_ms": 10000}`))
	req.SetPathValue("id", jsonInt(clipID))
	rec = httptest.NewRecorder()
	h.HandleSplitClip(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("boundary cut: status = %d, want 400", rec.Code)
	}
}

func TestHandleRippleMove_Conflict(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	seedClip(t, h, trackID, 0, 1000)
	mover := seedClip(t, h, trackID, 2000, 3000)

	req := httptest.NewRequest("POST", "/clips/ripple", strings.NewReader(`{"target_start_ms": 500}`))
	req.SetPathValue("id", jsonInt(mover))
	rec := httptest.NewRecorder()
	h.HandleRippleMove(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body: %s)", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, rec, "CONFLICT")
}

func TestHandlePreviewDrag(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	clipID := seedClip(t, h, trackID, 0, 5000)

	req := httptest.NewRequest("GET", "/clips/preview?target_start_ms=4000", nil)
	req.SetPathValue("id", jsonInt(clipID))
	rec := httptest.NewRecorder()
	h.HandlePreviewDrag(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	clips := decodeResponse(t, rec)["clips"].([]any)
	if clips[0].(map[string]any)["start_time_on_track_ms"].(float64) != 4000 {
		t.Error("projection should show the clip at 4000")
	}

	// The projection never persists.
	out, err := ops.GetClip(context.Background(), h.db, ops.GetClipInput{ClipID: clipID})
	if err != nil {
		t.Fatalf("GetClip: %v", err)
	}
	if out.Clip.StartOnTrackMs != 0 {
		t.Errorf("stored start = %d, want 0", out.Clip.StartOnTrackMs)
	}

	// target_start_ms is required.
	req = httptest.NewRequest("GET", "/clips/preview", nil)
	req.SetPathValue("id", jsonInt(clipID))
	rec = httptest.NewRecorder()
	h.HandlePreviewDrag(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing target_start_ms: status = %d, want 400", rec.Code)
	}
}

func TestHandleDeleteClip_ThenUndo(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	clipID := seedClip(t, h, trackID, 0, 5000)

	req := httptest.NewRequest("DELETE", "/clips/1", nil)
	req.SetPathValue("id", jsonInt(clipID))
	rec := httptest.NewRecorder()
	h.HandleDeleteClip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if decodeResponse(t, rec)["deleted"] != true {
		t.Error("deleted flag not set")
	}

	req = httptest.NewRequest("POST", "/undo", nil)
	rec = httptest.NewRecorder()
	h.HandleUndo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("undo status = %d, want 200", rec.Code)
	}
	body := decodeResponse(t, rec)
	if body["undone"] != true || body["action"] != "delete_clip" {
		t.Errorf("undo = %v, want undone delete_clip", body)
	}

	out, err := ops.GetClip(context.Background(), h.db, ops.GetClipInput{ClipID: clipID})
	if err != nil {
		t.Fatalf("clip not restored: %v", err)
	}
	if out.Clip.ID != clipID {
		t.Errorf("restored id = %d, want %d", out.Clip.ID, clipID)
	}
}

func TestHandleUpdateClip(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	clipID := seedClip(t, h, trackID, 0, 5000)

	req := httptest.NewRequest("PATCH", "/clips/1", strings.NewReader(`{"name": "renamed"}`))
	req.SetPathValue("id", jsonInt(clipID))
	rec := httptest.NewRecorder()
	h.HandleUpdateClip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	c := decodeResponse(t, rec)["clip"].(map[string]any)
	if c["name"] != "renamed" {
		t.Errorf("name = %v, want renamed", c["name"])
	}

	// An empty patch changes nothing and says so.
	req = httptest.NewRequest("PATCH", "/clips/1", strings.NewReader(`{}`))
	req.SetPathValue("id", jsonInt(clipID))
	rec = httptest.NewRecorder()
	h.HandleUpdateClip(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty patch: status = %d, want 400", rec.Code)
	}
}

// --- Queries ---

func TestHandleListClips(t *testing.T) {
	h := setupTest(t)
	videoTrack := seedTrack(t, h)
	audioTrack := seedTrack(t, h)
	seedClip(t, h, videoTrack, 0, 5000)
	seedClip(t, h, audioTrack, 0, 9000)

	req := httptest.NewRequest("GET", "/clips", nil)
	rec := httptest.NewRecorder()
	h.HandleListClips(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeResponse(t, rec)
	if body["count"].(float64) != 2 || body["duration_ms"].(float64) != 9000 {
		t.Errorf("all clips = %v, want count 2 duration 9000", body)
	}

	req = httptest.NewRequest("GET", "/clips?track_id="+jsonInt(videoTrack), nil)
	rec = httptest.NewRecorder()
	h.HandleListClips(rec, req)
	if decodeResponse(t, rec)["count"].(float64) != 1 {
		t.Error("track filter should return one clip")
	}
}

func TestHandleOverlapping(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	seedClip(t, h, trackID, 0, 5000)
	seedClip(t, h, trackID, 6000, 9000)

	req := httptest.NewRequest("GET", "/tracks/1/overlapping?start_ms=4000&end_ms=7000", nil)
	req.SetPathValue("id", jsonInt(trackID))
	rec := httptest.NewRecorder()
	h.HandleOverlapping(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if decodeResponse(t, rec)["count"].(float64) != 2 {
		t.Error("range [4000, 7000) should touch both clips")
	}

	req = httptest.NewRequest("GET", "/tracks/1/overlapping?start_ms=4000", nil)
	req.SetPathValue("id", jsonInt(trackID))
	rec = httptest.NewRecorder()
	h.HandleOverlapping(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing end_ms: status = %d, want 400", rec.Code)
	}
}

// --- Tracks ---

func TestHandleTracks(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("POST", "/tracks", strings.NewReader(`{"name": "Video 1"}`))
	rec := httptest.NewRecorder()
	h.HandleAddTrack(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	track := decodeResponse(t, rec)["track"].(map[string]any)
	if track["type"] != "video" {
		t.Errorf("untyped track defaulted to %v, want video", track["type"])
	}
	trackID := int64(track["id"].(float64))

	clipID := seedClip(t, h, trackID, 0, 5000)

	// A track that still has clips refuses deletion.
	req = httptest.NewRequest("DELETE", "/tracks/1", nil)
	req.SetPathValue("id", jsonInt(trackID))
	rec = httptest.NewRecorder()
	h.HandleDeleteTrack(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("occupied track: status = %d, want 409", rec.Code)
	}
	assertErrorCode(t, rec, "TRACK_NOT_EMPTY")

	if _, err := ops.DeleteClip(context.Background(), h.db, h.mgr, ops.DeleteClipInput{ClipID: clipID}); err != nil {
		t.Fatalf("DeleteClip: %v", err)
	}

	req = httptest.NewRequest("DELETE", "/tracks/1", nil)
	req.SetPathValue("id", jsonInt(trackID))
	rec = httptest.NewRecorder()
	h.HandleDeleteTrack(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty track: status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/tracks", nil)
	rec = httptest.NewRecorder()
	h.HandleListTracks(rec, req)
	if decodeResponse(t, rec)["count"].(float64) != 0 {
		t.Error("track should be gone")
	}
}

// --- History ---

func TestHandleHistory(t *testing.T) {
	h := setupTest(t)
	trackID := seedTrack(t, h)
	seedClip(t, h, trackID, 0, 1000)
	seedClip(t, h, trackID, 2000, 3000)
	seedClip(t, h, trackID, 4000, 5000)

	req := httptest.NewRequest("GET", "/history?limit=2", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeResponse(t, rec)
	if len(body["items"].([]any)) != 2 {
		t.Errorf("items = %v, want 2", body["items"])
	}
	if body["pagination"].(map[string]any)["total"].(float64) != 3 {
		t.Errorf("pagination = %v, want total 3", body["pagination"])
	}

	req = httptest.NewRequest("DELETE", "/history", nil)
	rec = httptest.NewRecorder()
	h.HandleClearHistory(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", rec.Code)
	}
	if decodeResponse(t, rec)["cleared"].(float64) != 3 {
		t.Error("clear should report 3 dropped entries")
	}
}

func TestHandleUndoRedo_EmptyStacks(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("POST", "/undo", nil)
	rec := httptest.NewRecorder()
	h.HandleUndo(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("undo status = %d, want 200", rec.Code)
	}
	if decodeResponse(t, rec)["undone"] != false {
		t.Error("undo on empty history should report undone=false")
	}

	req = httptest.NewRequest("POST", "/redo", nil)
	rec = httptest.NewRecorder()
	h.HandleRedo(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("redo status = %d, want 200", rec.Code)
	}
	if decodeResponse(t, rec)["redone"] != false {
		t.Error("redo with nothing to redo should report redone=false")
	}
}

// --- Server wiring ---

func TestServerRoutesAndHeaders(t *testing.T) {
	h := setupTest(t)
	srv := NewServer(h.db, h.cfg, h.mgr, "test", "127.0.0.1", 0)

	req := httptest.NewRequest("GET", "/status", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options header")
	}

	// Wrong method on a known path
	req = httptest.NewRequest("DELETE", "/status", nil)
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /status status = %d, want 405", rec.Code)
	}
}

// jsonInt renders an id for URLs and JSON payload templates.
func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
