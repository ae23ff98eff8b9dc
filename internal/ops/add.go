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

// AddClipInput contains parameters for the AddClip operation.
type AddClipInput struct {
	TrackID          int64
	Name             string
	Type             string // defaults to "video"
	SourcePath       string
	SourceDurationMs int64
	StartOnTrackMs   int64
	EndOnTrackMs     int64
	StartInSourceMs  int64
	EndInSourceMs    int64 // 0 means a window matching the track duration
	Preview          *clip.PreviewTransform
	Metadata         string
}

// AddClipOutput contains the result of the AddClip operation.
type AddClipOutput struct {
	Clip    clip.Clip         `json:"clip"`
	Clips   []clip.Clip       `json:"clips"`
	Updates []timeline.Update `json:"updates,omitempty"`
	Removed []int64           `json:"removed,omitempty"`
	OpID    string            `json:"op_id"`
	history.Flags
}

// AddClip places a new clip on a track, trimming or removing whatever it
// overlaps, and records the change in the edit history.
func AddClip(ctx context.Context, database *sql.DB, cfg *config.Config, mgr *history.Manager, input AddClipInput) (*AddClipOutput, error) {
	if err := requireTrack(ctx, database, input.TrackID); err != nil {
		return nil, err
	}
	if input.SourcePath == "" {
		return nil, errors.NewInvalidRequest("source_path is required")
	}
	clipType := input.Type
	if clipType == "" {
		clipType = "video"
	}
	if err := validateClipType(clipType); err != nil {
		return nil, err
	}
	if input.StartOnTrackMs < 0 {
		return nil, errors.NewInvalidRequest("start_on_track_ms must be >= 0")
	}
	if input.EndOnTrackMs <= input.StartOnTrackMs {
		return nil, errors.NewInvalidRequest("end_on_track_ms must be after start_on_track_ms")
	}
	if input.SourceDurationMs == 0 && clipType == "image" {
		// Stills have no intrinsic length; the on-track duration serves as
		// the media duration.
		input.SourceDurationMs = input.EndOnTrackMs - input.StartOnTrackMs
	}
	if input.SourceDurationMs <= 0 {
		return nil, errors.NewInvalidRequest("source_duration_ms must be > 0")
	}

	// Default window: play the source from srcStart for the clip's track
	// duration. The engine clamps it into the media.
	srcStart := input.StartInSourceMs
	srcEnd := input.EndInSourceMs
	if srcEnd == 0 {
		srcEnd = srcStart + (input.EndOnTrackMs - input.StartOnTrackMs)
	}

	before, err := db.AllClips(ctx, database)
	if err != nil {
		return nil, err
	}

	result, err := timeline.Place(before, timeline.PlaceInput{
		TrackID:          input.TrackID,
		Name:             input.Name,
		Type:             clipType,
		SourcePath:       input.SourcePath,
		SourceDurationMs: input.SourceDurationMs,
		StartOnTrackMs:   input.StartOnTrackMs,
		EndOnTrackMs:     input.EndOnTrackMs,
		StartInSourceMs:  srcStart,
		EndInSourceMs:    srcEnd,
		Preview:          input.Preview,
		Metadata:         input.Metadata,
		MinDurationMs:    cfg.MinClipDurationMs,
	}, opLog())
	if err != nil {
		return nil, err
	}

	cmd := history.NewAddClip(before, result)
	entry, err := mgr.Execute(ctx, cmd)
	if err != nil {
		return nil, err
	}

	// The engine worked with an unpersisted clip; patch in the row id the
	// command captured on insert.
	placed := result.Clip
	placed.ID = cmd.EntityID()
	clips := result.Clips
	for i := range clips {
		if clips[i].ID == 0 {
			clips[i].ID = placed.ID
		}
	}

	return &AddClipOutput{
		Clip:    placed,
		Clips:   clips,
		Updates: result.Updates,
		Removed: result.Removed,
		OpID:    entry.OpID,
		Flags:   mgr.Flags(),
	}, nil
}
