package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"montage/internal/clip"
	"montage/internal/config"
	"montage/internal/errors"
	"montage/internal/history"
	"montage/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
	mgr *history.Manager
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, mgr *history.Manager) *Handlers {
	return &Handlers{db: db, cfg: cfg, mgr: mgr}
}

// Request types for each tool

// AddClipRequest represents the arguments for add_clip.
type AddClipRequest struct {
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

// MoveClipRequest represents the arguments for move_clip.
type MoveClipRequest struct {
	ClipID         int64 `json:"clip_id"`
	TrackID        int64 `json:"track_id,omitempty"`
	StartOnTrackMs int64 `json:"start_time_on_track_ms"`
}

// ResizeClipRequest represents the arguments for resize_clip.
type ResizeClipRequest struct {
	ClipID          int64  `json:"clip_id"`
	StartOnTrackMs  int64  `json:"start_time_on_track_ms"`
	EndOnTrackMs    int64  `json:"end_time_on_track_ms"`
	StartInSourceMs *int64 `json:"start_time_in_source_ms,omitempty"`
	EndInSourceMs   *int64 `json:"end_time_in_source_ms,omitempty"`
}

// DeleteClipRequest represents the arguments for delete_clip.
type DeleteClipRequest struct {
	ClipID int64 `json:"clip_id"`
}

// SplitClipRequest represents the arguments for split_clip.
type SplitClipRequest struct {
	ClipID    int64 `json:"clip_id"`
	AtTrackMs int64 `json:"at_track_ms"`
}

// RippleMoveRequest represents the arguments for ripple_move.
type RippleMoveRequest struct {
	ClipID        int64 `json:"clip_id"`
	TargetStartMs int64 `json:"target_start_ms"`
}

// PreviewDragRequest represents the arguments for preview_drag.
type PreviewDragRequest struct {
	ClipID        int64 `json:"clip_id"`
	TargetTrackID int64 `json:"target_track_id,omitempty"`
	TargetStartMs int64 `json:"target_start_ms"`
}

// OverlappingRequest represents the arguments for overlapping.
type OverlappingRequest struct {
	TrackID   int64 `json:"track_id"`
	StartMs   int64 `json:"start_ms"`
	EndMs     int64 `json:"end_ms"`
	ExcludeID int64 `json:"exclude_id,omitempty"`
}

// ListClipsRequest represents the arguments for list_clips.
type ListClipsRequest struct {
	TrackID int64 `json:"track_id,omitempty"`
}

// GetClipRequest represents the arguments for get_clip.
type GetClipRequest struct {
	ClipID int64 `json:"clip_id"`
}

// AddTrackRequest represents the arguments for add_track.
type AddTrackRequest struct {
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	Position *int64 `json:"position,omitempty"`
}

// HistoryRequest represents the arguments for history.
type HistoryRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ImportCutlistRequest represents the arguments for import_cutlist.
type ImportCutlistRequest struct {
	Path string `json:"path"`
}

// ExportCutlistRequest represents the arguments for export_cutlist.
type ExportCutlistRequest struct {
	Path string `json:"path,omitempty"`
}

// Handler implementations

// HandleAddClip handles the add_clip tool call.
func (h *Handlers) HandleAddClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddClipRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.AddClip(ctx, h.db, h.cfg, h.mgr, ops.AddClipInput{
		TrackID:          input.TrackID,
		Name:             input.Name,
		Type:             input.Type,
		SourcePath:       input.SourcePath,
		SourceDurationMs: input.SourceDurationMs,
		StartOnTrackMs:   input.StartOnTrackMs,
		EndOnTrackMs:     input.EndOnTrackMs,
		StartInSourceMs:  input.StartInSourceMs,
		EndInSourceMs:    input.EndInSourceMs,
		Preview:          input.Preview,
		Metadata:         input.Metadata,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMoveClip handles the move_clip tool call.
func (h *Handlers) HandleMoveClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MoveClipRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.MoveClip(ctx, h.db, h.cfg, h.mgr, ops.MoveClipInput{
		ClipID:         input.ClipID,
		TrackID:        input.TrackID,
		StartOnTrackMs: input.StartOnTrackMs,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleResizeClip handles the resize_clip tool call.
func (h *Handlers) HandleResizeClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ResizeClipRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ResizeClip(ctx, h.db, h.cfg, h.mgr, ops.ResizeClipInput{
		ClipID:          input.ClipID,
		StartOnTrackMs:  input.StartOnTrackMs,
		EndOnTrackMs:    input.EndOnTrackMs,
		StartInSourceMs: input.StartInSourceMs,
		EndInSourceMs:   input.EndInSourceMs,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDeleteClip handles the delete_clip tool call.
func (h *Handlers) HandleDeleteClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteClipRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.DeleteClip(ctx, h.db, h.mgr, ops.DeleteClipInput{
		ClipID: input.ClipID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSplitClip handles the split_clip tool call.
func (h *Handlers) HandleSplitClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SplitClipRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.SplitClip(ctx, h.db, h.mgr, ops.SplitClipInput{
		ClipID:    input.ClipID,
		AtTrackMs: input.AtTrackMs,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRippleMove handles the ripple_move tool call.
func (h *Handlers) HandleRippleMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RippleMoveRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.RippleMove(ctx, h.db, h.mgr, ops.RippleMoveInput{
		ClipID:        input.ClipID,
		TargetStartMs: input.TargetStartMs,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePreviewDrag handles the preview_drag tool call.
func (h *Handlers) HandlePreviewDrag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PreviewDragRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.PreviewDrag(ctx, h.db, ops.PreviewDragInput{
		ClipID:        input.ClipID,
		TargetTrackID: input.TargetTrackID,
		TargetStartMs: input.TargetStartMs,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleOverlapping handles the overlapping tool call.
func (h *Handlers) HandleOverlapping(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[OverlappingRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Overlapping(ctx, h.db, ops.OverlappingInput{
		TrackID:   input.TrackID,
		StartMs:   input.StartMs,
		EndMs:     input.EndMs,
		ExcludeID: input.ExcludeID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleListClips handles the list_clips tool call.
func (h *Handlers) HandleListClips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListClipsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ListClips(ctx, h.db, ops.ListClipsInput{
		TrackID: input.TrackID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGetClip handles the get_clip tool call.
func (h *Handlers) HandleGetClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetClipRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.GetClip(ctx, h.db, ops.GetClipInput{
		ClipID: input.ClipID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleListTracks handles the list_tracks tool call.
func (h *Handlers) HandleListTracks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListTracks(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAddTrack handles the add_track tool call.
func (h *Handlers) HandleAddTrack(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddTrackRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.AddTrack(ctx, h.db, ops.AddTrackInput{
		Name:     input.Name,
		Type:     input.Type,
		Position: input.Position,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUndo handles the undo tool call.
func (h *Handlers) HandleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Undo(ctx, h.mgr)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRedo handles the redo tool call.
func (h *Handlers) HandleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Redo(ctx, h.mgr)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistory handles the history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.History(ctx, h.db, ops.HistoryInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleClearHistory handles the clear_history tool call.
func (h *Handlers) HandleClearHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ClearHistory(ctx, h.mgr)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStatus handles the status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Status(ctx, h.db, h.mgr)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImportCutlist handles the import_cutlist tool call.
func (h *Handlers) HandleImportCutlist(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportCutlistRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ImportCutlist(ctx, h.db, h.cfg, ops.ImportCutlistInput{
		Path: input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExportCutlist handles the export_cutlist tool call.
func (h *Handlers) HandleExportCutlist(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportCutlistRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ExportCutlist(ctx, h.db, h.cfg, ops.ExportCutlistInput{
		Path: input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var mErr *errors.MontageError
	if stderrors.As(err, &mErr) {
		// Keep context added by wrapping, e.g. fmt.Errorf("entries[2]: %w", err)
		message := mErr.Message
		if wrapped := err.Error(); wrapped != mErr.Error() {
			message = wrapped
		}
		errorObj := map[string]any{
			"code":    mErr.Code,
			"message": message,
			"status":  mErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if mErr.Code != errors.ErrInternal && mErr.Details != nil {
			errorObj["details"] = mErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
