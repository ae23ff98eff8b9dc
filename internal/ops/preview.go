package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/timeline"
)

// PreviewDragInput contains parameters for the PreviewDrag operation.
type PreviewDragInput struct {
	ClipID        int64
	TargetTrackID int64 // 0 previews on the clip's current track
	TargetStartMs int64
}

// PreviewDragOutput contains the result of the PreviewDrag operation.
type PreviewDragOutput struct {
	Clips []clip.Clip `json:"clips"`
}

// PreviewDrag projects the arrangement a drop at the target position would
// produce. Nothing is persisted and no history is recorded, so callers can
// invoke it per pointer-move event.
func PreviewDrag(ctx context.Context, database *sql.DB, input PreviewDragInput) (*PreviewDragOutput, error) {
	clips, err := db.AllClips(ctx, database)
	if err != nil {
		return nil, err
	}
	target, err := findClip(clips, input.ClipID)
	if err != nil {
		return nil, err
	}

	trackID := input.TargetTrackID
	if trackID == 0 {
		trackID = target.TrackID
	}

	projected := timeline.PreviewDrag(clips, input.ClipID, trackID, input.TargetStartMs, opLog())
	return &PreviewDragOutput{Clips: projected}, nil
}
