package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/errors"
	"montage/internal/timeline"
)

// OverlappingInput contains parameters for the Overlapping operation.
type OverlappingInput struct {
	TrackID   int64
	StartMs   int64
	EndMs     int64
	ExcludeID int64 // 0 excludes nothing
}

// OverlappingOutput contains the result of the Overlapping operation.
type OverlappingOutput struct {
	Clips []clip.Clip `json:"clips"`
	Count int         `json:"count"`
}

// Overlapping reports which clips on a track intersect the half-open range
// [start_ms, end_ms). This is the raw collision query behind placement,
// exposed for UIs that want to show conflicts before committing.
func Overlapping(ctx context.Context, database *sql.DB, input OverlappingInput) (*OverlappingOutput, error) {
	if input.TrackID <= 0 {
		return nil, errors.NewInvalidRequest("track_id is required")
	}
	if input.EndMs <= input.StartMs {
		return nil, errors.NewInvalidRequest("end_ms must be after start_ms")
	}

	clips, err := db.ClipsForTrack(ctx, database, input.TrackID)
	if err != nil {
		return nil, err
	}

	hits := timeline.Overlapping(clips, input.TrackID, input.StartMs, input.EndMs, input.ExcludeID)
	if hits == nil {
		hits = []clip.Clip{}
	}

	return &OverlappingOutput{Clips: hits, Count: len(hits)}, nil
}
