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

// MoveClipInput contains parameters for the MoveClip operation.
type MoveClipInput struct {
	ClipID         int64
	TrackID        int64 // 0 keeps the clip on its current track
	StartOnTrackMs int64
}

// MoveClipOutput contains the result of the MoveClip operation.
type MoveClipOutput struct {
	Clip    clip.Clip         `json:"clip"`
	Clips   []clip.Clip       `json:"clips"`
	Updates []timeline.Update `json:"updates,omitempty"`
	Removed []int64           `json:"removed,omitempty"`
	OpID    string            `json:"op_id"`
	history.Flags
}

// MoveClip repositions a clip, preserving its duration and source window.
// Overlapped neighbors on the destination track are trimmed or removed and
// the whole change is one undoable history entry.
func MoveClip(ctx context.Context, database *sql.DB, cfg *config.Config, mgr *history.Manager, input MoveClipInput) (*MoveClipOutput, error) {
	if input.StartOnTrackMs < 0 {
		return nil, errors.NewInvalidRequest("start_on_track_ms must be >= 0")
	}

	before, err := db.AllClips(ctx, database)
	if err != nil {
		return nil, err
	}
	target, err := findClip(before, input.ClipID)
	if err != nil {
		return nil, err
	}

	trackID := input.TrackID
	if trackID == 0 {
		trackID = target.TrackID
	}
	if trackID != target.TrackID {
		if err := requireTrack(ctx, database, trackID); err != nil {
			return nil, err
		}
	}

	result, err := timeline.Place(before, timeline.PlaceInput{
		ClipID:           target.ID,
		TrackID:          trackID,
		Name:             target.Name,
		Type:             target.Type,
		SourcePath:       target.SourcePath,
		SourceDurationMs: target.SourceDurationMs,
		StartOnTrackMs:   input.StartOnTrackMs,
		EndOnTrackMs:     input.StartOnTrackMs + target.TrackDurationMs(),
		StartInSourceMs:  target.StartInSourceMs,
		EndInSourceMs:    target.EndInSourceMs,
		Preview:          target.Preview,
		Metadata:         target.Metadata,
		MinDurationMs:    cfg.MinClipDurationMs,
	}, opLog())
	if err != nil {
		return nil, err
	}

	entry, err := mgr.Execute(ctx, history.NewMoveClip(before, result))
	if err != nil {
		return nil, err
	}

	return &MoveClipOutput{
		Clip:    result.Clip,
		Clips:   result.Clips,
		Updates: result.Updates,
		Removed: result.Removed,
		OpID:    entry.OpID,
		Flags:   mgr.Flags(),
	}, nil
}
