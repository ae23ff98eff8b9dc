package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/config"
	"montage/internal/db"
	"montage/internal/errors"
	"montage/internal/history"
	"montage/internal/timeline"
)

// ResizeClipInput contains parameters for the ResizeClip operation. The
// source window follows the track edges by the same deltas unless explicit
// values are given.
type ResizeClipInput struct {
	ClipID          int64
	StartOnTrackMs  int64
	EndOnTrackMs    int64
	StartInSourceMs *int64
	EndInSourceMs   *int64
}

// ResizeClipOutput contains the result of the ResizeClip operation.
type ResizeClipOutput struct {
	Clip    clip.Clip         `json:"clip"`
	Clips   []clip.Clip       `json:"clips"`
	Updates []timeline.Update `json:"updates,omitempty"`
	Removed []int64           `json:"removed,omitempty"`
	OpID    string            `json:"op_id"`
	history.Flags
}

// ResizeClip changes a clip's track range. Moving the start or end edge
// shifts the matching source edge by the same amount, so resizing trims the
// media rather than stretching it; pass explicit source times to override.
func ResizeClip(ctx context.Context, database *sql.DB, cfg *config.Config, mgr *history.Manager, input ResizeClipInput) (*ResizeClipOutput, error) {
	if input.StartOnTrackMs < 0 {
		return nil, errors.NewInvalidRequest("start_on_track_ms must be >= 0")
	}
	if input.EndOnTrackMs <= input.StartOnTrackMs {
		return nil, errors.NewInvalidRequest("end_on_track_ms must be after start_on_track_ms")
	}

	before, err := db.AllClips(ctx, database)
	if err != nil {
		return nil, err
	}
	target, err := findClip(before, input.ClipID)
	if err != nil {
		return nil, err
	}

	srcStart := target.StartInSourceMs + (input.StartOnTrackMs - target.StartOnTrackMs)
	srcEnd := target.EndInSourceMs + (input.EndOnTrackMs - target.EndOnTrackMs)
	if input.StartInSourceMs != nil {
		srcStart = *input.StartInSourceMs
	}
	if input.EndInSourceMs != nil {
		srcEnd = *input.EndInSourceMs
	}

	result, err := timeline.Place(before, timeline.PlaceInput{
		ClipID:           target.ID,
		TrackID:          target.TrackID,
		Name:             target.Name,
		Type:             target.Type,
		SourcePath:       target.SourcePath,
		SourceDurationMs: target.SourceDurationMs,
		StartOnTrackMs:   input.StartOnTrackMs,
		EndOnTrackMs:     input.EndOnTrackMs,
		StartInSourceMs:  srcStart,
		EndInSourceMs:    srcEnd,
		Preview:          target.Preview,
		Metadata:         target.Metadata,
		MinDurationMs:    cfg.MinClipDurationMs,
	}, opLog())
	if err != nil {
		return nil, err
	}

	entry, err := mgr.Execute(ctx, history.NewResizeClip(before, result))
	if err != nil {
		return nil, err
	}

	return &ResizeClipOutput{
		Clip:    result.Clip,
		Clips:   result.Clips,
		Updates: result.Updates,
		Removed: result.Removed,
		OpID:    entry.OpID,
		Flags:   mgr.Flags(),
	}, nil
}
