package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/history"
	"montage/internal/timeline"
)

// RippleMoveInput contains parameters for the RippleMove operation.
type RippleMoveInput struct {
	ClipID        int64
	TargetStartMs int64
}

// RippleMoveOutput contains the result of the RippleMove operation.
type RippleMoveOutput struct {
	Clip    clip.Clip         `json:"clip"`
	Clips   []clip.Clip       `json:"clips"`
	Updates []timeline.Update `json:"updates,omitempty"`
	OpID    string            `json:"op_id"`
	history.Flags
}

// RippleMove shifts a clip to a new start time and every later clip on the
// track with it, preserving the gaps between them. Nothing is trimmed or
// removed; a shift that would collide is rejected. The whole shift is one
// history entry, recorded as a move with neighbor updates.
func RippleMove(ctx context.Context, database *sql.DB, mgr *history.Manager, input RippleMoveInput) (*RippleMoveOutput, error) {
	before, err := db.AllClips(ctx, database)
	if err != nil {
		return nil, err
	}

	result, err := timeline.RippleMove(before, timeline.RippleInput{
		ClipID:        input.ClipID,
		TargetStartMs: input.TargetStartMs,
	}, opLog())
	if err != nil {
		return nil, err
	}

	// The ripple updates include the moved clip itself; the move command
	// carries the target separately, so only the followers ride along as
	// neighbor updates.
	neighbors := make([]timeline.Update, 0, len(result.Updates))
	for _, u := range result.Updates {
		if u.ClipID != input.ClipID {
			neighbors = append(neighbors, u)
		}
	}

	entry, err := mgr.Execute(ctx, history.NewMoveClip(before, &timeline.PlacementResult{
		Clip:    result.Clip,
		Clips:   result.Clips,
		Updates: neighbors,
	}))
	if err != nil {
		return nil, err
	}

	return &RippleMoveOutput{
		Clip:    result.Clip,
		Clips:   result.Clips,
		Updates: result.Updates,
		OpID:    entry.OpID,
		Flags:   mgr.Flags(),
	}, nil
}
