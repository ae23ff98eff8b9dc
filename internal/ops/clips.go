package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/timeline"
)

// ListClipsInput contains parameters for the ListClips operation.
type ListClipsInput struct {
	TrackID int64 // 0 lists every track
}

// ListClipsOutput contains the result of the ListClips operation.
type ListClipsOutput struct {
	Clips      []clip.Clip `json:"clips"`
	Count      int         `json:"count"`
	DurationMs int64       `json:"duration_ms"`
}

// ListClips returns the timeline's clips in track order, either for one
// track or across all of them, with the total duration of the listed set.
func ListClips(ctx context.Context, database *sql.DB, input ListClipsInput) (*ListClipsOutput, error) {
	var (
		clips []clip.Clip
		err   error
	)
	if input.TrackID > 0 {
		clips, err = db.ClipsForTrack(ctx, database, input.TrackID)
	} else {
		clips, err = db.AllClips(ctx, database)
	}
	if err != nil {
		return nil, err
	}
	if clips == nil {
		clips = []clip.Clip{}
	}

	return &ListClipsOutput{
		Clips:      clips,
		Count:      len(clips),
		DurationMs: timeline.Duration(clips),
	}, nil
}
