package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/errors"
	"montage/internal/history"
	"montage/internal/timeline"
)

// SplitClipInput contains parameters for the SplitClip operation.
type SplitClipInput struct {
	ClipID    int64
	AtTrackMs int64
}

// SplitClipOutput contains the result of the SplitClip operation.
type SplitClipOutput struct {
	Left  clip.Clip   `json:"left"`
	Right clip.Clip   `json:"right"`
	Clips []clip.Clip `json:"clips"`
	OpID  string      `json:"op_id"`
	history.Flags
}

// SplitClip cuts a clip into two at a track time strictly inside its range.
// The fragments play back the same media as the original; undo removes the
// right fragment and restores the original extent.
func SplitClip(ctx context.Context, database *sql.DB, mgr *history.Manager, input SplitClipInput) (*SplitClipOutput, error) {
	if input.ClipID <= 0 {
		return nil, errors.NewInvalidRequest("clip_id is required")
	}

	before, err := db.AllClips(ctx, database)
	if err != nil {
		return nil, err
	}
	target, err := findClip(before, input.ClipID)
	if err != nil {
		return nil, err
	}

	result, err := timeline.SplitAt(before, timeline.SplitInput{
		ClipID:    input.ClipID,
		AtTrackMs: input.AtTrackMs,
	}, opLog())
	if err != nil {
		return nil, err
	}

	cmd := history.NewSplitClip(target, result)
	entry, err := mgr.Execute(ctx, cmd)
	if err != nil {
		return nil, err
	}

	left := target
	result.Left.Fields.Apply(&left)
	right := result.Right
	right.ID = cmd.RightID()
	clips := result.Clips
	for i := range clips {
		if clips[i].ID == 0 {
			clips[i].ID = right.ID
		}
	}

	return &SplitClipOutput{
		Left:  left,
		Right: right,
		Clips: clips,
		OpID:  entry.OpID,
		Flags: mgr.Flags(),
	}, nil
}
