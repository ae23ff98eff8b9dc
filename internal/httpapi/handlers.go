package httpapi

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"montage/internal/clip"
	"montage/internal/config"
	"montage/internal/errors"
	"montage/internal/history"
	"montage/internal/ops"
)

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	mgr     *history.Manager
	version string
}

// Request bodies. Field names match the clip entity's JSON fields, the same
// vocabulary the MCP tools use.

type addClipBody struct {
	TrackID          int64                  `json:"track_id"`
	Name             string                 `json:"name,omitempty"`
	Type             string                 `json:"type,omitempty"`
	SourcePath       string                 `json:"source_path"`
	SourceDurationMs int64                  `json:"source_duration_ms,omitempty"`
	StartOnTrackMs   int64                  `json:"start_time_on_track_ms"`
	EndOnTrackMs     int64                  `json:"end_time_on_track_ms"`
	StartInSourceMs  int64                  `json:"start_time_in_source_ms,omitempty"`
	EndInSourceMs    int64                  `json:"end_time_in_source_ms,omitempty"`
	Preview          *clip.PreviewTransform `json:"preview,omitempty"`
	Metadata         string                 `json:"metadata,omitempty"`
}

type moveClipBody struct {
	TrackID        int64 `json:"track_id,omitempty"`
	StartOnTrackMs int64 `json:"start_time_on_track_ms"`
}

type resizeClipBody struct {
	StartOnTrackMs  int64  `json:"start_time_on_track_ms"`
	EndOnTrackMs    int64  `json:"end_time_on_track_ms"`
	StartInSourceMs *int64 `json:"start_time_in_source_ms,omitempty"`
	EndInSourceMs   *int64 `json:"end_time_in_source_ms,omitempty"`
}

type splitClipBody struct {
	AtTrackMs int64 `json:"at_track_ms"`
}

type rippleMoveBody struct {
	TargetStartMs int64 `json:"target_start_ms"`
}

type updateClipBody struct {
	Name       *string                `json:"name,omitempty"`
	Type       *string                `json:"type,omitempty"`
	SourcePath *string                `json:"source_path,omitempty"`
	Preview    *clip.PreviewTransform `json:"preview,omitempty"`
	Metadata   *string                `json:"metadata,omitempty"`
}

type addTrackBody struct {
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	Position *int64 `json:"position,omitempty"`
}

// HandleRoot handles GET /. It identifies the service and its version.
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"name":    "montage",
		"version": h.version,
	})
}

// HandleStatus handles GET /status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Status(r.Context(), h.db, h.mgr)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleListTracks handles GET /tracks.
func (h *Handlers) HandleListTracks(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListTracks(r.Context(), h.db)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAddTrack handles POST /tracks.
func (h *Handlers) HandleAddTrack(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[addTrackBody](r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.AddTrack(r.Context(), h.db, ops.AddTrackInput{
		Name:     body.Name,
		Type:     body.Type,
		Position: body.Position,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, result)
}

// HandleDeleteTrack handles DELETE /tracks/{id}. Only empty tracks can go.
func (h *Handlers) HandleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.DeleteTrack(r.Context(), h.db, ops.DeleteTrackInput{TrackID: id})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleOverlapping handles GET /tracks/{id}/overlapping?start_ms=&end_ms=&exclude_id=.
func (h *Handlers) HandleOverlapping(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}
	startMs, err := requireInt64Param(r, "start_ms")
	if err != nil {
		renderError(w, err)
		return
	}
	endMs, err := requireInt64Param(r, "end_ms")
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Overlapping(r.Context(), h.db, ops.OverlappingInput{
		TrackID:   id,
		StartMs:   startMs,
		EndMs:     endMs,
		ExcludeID: parseInt64Param(r, "exclude_id", 0),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleListClips handles GET /clips?track_id=.
func (h *Handlers) HandleListClips(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListClips(r.Context(), h.db, ops.ListClipsInput{
		TrackID: parseInt64Param(r, "track_id", 0),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAddClip handles POST /clips.
func (h *Handlers) HandleAddClip(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[addClipBody](r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.AddClip(r.Context(), h.db, h.cfg, h.mgr, ops.AddClipInput{
		TrackID:          body.TrackID,
		Name:             body.Name,
		Type:             body.Type,
		SourcePath:       body.SourcePath,
		SourceDurationMs: body.SourceDurationMs,
		StartOnTrackMs:   body.StartOnTrackMs,
		EndOnTrackMs:     body.EndOnTrackMs,
		StartInSourceMs:  body.StartInSourceMs,
		EndInSourceMs:    body.EndInSourceMs,
		Preview:          body.Preview,
		Metadata:         body.Metadata,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, result)
}

// HandleGetClip handles GET /clips/{id}.
func (h *Handlers) HandleGetClip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.GetClip(r.Context(), h.db, ops.GetClipInput{ClipID: id})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleUpdateClip handles PATCH /clips/{id}. Placement fields are not
// patchable here; moves and resizes go through their own endpoints.
func (h *Handlers) HandleUpdateClip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}
	body, err := decodeBody[updateClipBody](r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.UpdateClip(r.Context(), h.db, h.mgr, ops.UpdateClipInput{
		ClipID:     id,
		Name:       body.Name,
		Type:       body.Type,
		SourcePath: body.SourcePath,
		Preview:    body.Preview,
		Metadata:   body.Metadata,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleDeleteClip handles DELETE /clips/{id}.
func (h *Handlers) HandleDeleteClip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.DeleteClip(r.Context(), h.db, h.mgr, ops.DeleteClipInput{ClipID: id})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleMoveClip handles POST /clips/{id}/move.
func (h *Handlers) HandleMoveClip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}
	body, err := decodeBody[moveClipBody](r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.MoveClip(r.Context(), h.db, h.cfg, h.mgr, ops.MoveClipInput{
		ClipID:         id,
		TrackID:        body.TrackID,
		StartOnTrackMs: body.StartOnTrackMs,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleResizeClip handles POST /clips/{id}/resize.
func (h *Handlers) HandleResizeClip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}
	body, err := decodeBody[resizeClipBody](r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.ResizeClip(r.Context(), h.db, h.cfg, h.mgr, ops.ResizeClipInput{
		ClipID:          id,
		StartOnTrackMs:  body.StartOnTrackMs,
		EndOnTrackMs:    body.EndOnTrackMs,
		StartInSourceMs: body.StartInSourceMs,
		EndInSourceMs:   body.EndInSourceMs,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleSplitClip handles POST /clips/{id}/split.
func (h *Handlers) HandleSplitClip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}
	body, err := decodeBody[splitClipBody](r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.SplitClip(r.Context(), h.db, h.mgr, ops.SplitClipInput{
		ClipID:    id,
		AtTrackMs: body.AtTrackMs,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleRippleMove handles POST /clips/{id}/ripple.
func (h *Handlers) HandleRippleMove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}
	body, err := decodeBody[rippleMoveBody](r)
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.RippleMove(r.Context(), h.db, h.mgr, ops.RippleMoveInput{
		ClipID:        id,
		TargetStartMs: body.TargetStartMs,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandlePreviewDrag handles GET /clips/{id}/preview?target_start_ms=&target_track_id=.
// A read, not an edit: the projection is never persisted.
func (h *Handlers) HandlePreviewDrag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, err)
		return
	}
	targetStartMs, err := requireInt64Param(r, "target_start_ms")
	if err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.PreviewDrag(r.Context(), h.db, ops.PreviewDragInput{
		ClipID:        id,
		TargetTrackID: parseInt64Param(r, "target_track_id", 0),
		TargetStartMs: targetStartMs,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleUndo handles POST /undo.
func (h *Handlers) HandleUndo(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Undo(r.Context(), h.mgr)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleRedo handles POST /redo.
func (h *Handlers) HandleRedo(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Redo(r.Context(), h.mgr)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleHistory handles GET /history?limit=&offset=.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	result, err := ops.History(r.Context(), h.db, ops.HistoryInput{
		Limit:  parseIntParam(r, "limit", 0),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleClearHistory handles DELETE /history.
func (h *Handlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ClearHistory(r.Context(), h.mgr)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// decodeBody decodes a JSON request body into a typed struct.
func decodeBody[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&v); err != nil {
		return v, errors.NewInvalidRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return v, nil
}

// pathID parses the {id} path segment as a positive integer id.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidRequest("id must be a positive integer")
	}
	return id, nil
}

// requireInt64Param parses a required integer query parameter.
func requireInt64Param(r *http.Request, name string) (int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, errors.NewInvalidRequest(name + " is required")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidRequest(name + " must be an integer")
	}
	return v, nil
}

// parseInt64Param parses an integer query parameter with a default value.
func parseInt64Param(r *http.Request, name string, defaultVal int64) int64 {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes an error as JSON using the error's own HTTP status.
// Internal error details are not exposed to prevent leaking sensitive info.
func renderError(w http.ResponseWriter, err error) {
	var mErr *errors.MontageError
	if !stderrors.As(err, &mErr) {
		mErr = errors.NewInternal(err)
	}

	errorObj := map[string]any{
		"code":    string(mErr.Code),
		"message": mErr.Message,
		"status":  mErr.Status,
	}
	if mErr.Code != errors.ErrInternal && mErr.Details != nil {
		errorObj["details"] = mErr.Details
	}

	renderJSON(w, mErr.Status, map[string]any{"error": errorObj})
}
