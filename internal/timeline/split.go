package timeline

import (
	"slices"

	"github.com/rs/zerolog"

	"montage/internal/clip"
	"montage/internal/errors"
)

// SplitInput cuts one clip into two at a point on the track.
type SplitInput struct {
	ClipID    int64
	AtTrackMs int64
}

// SplitResult carries the trimmed left fragment (as an update to the
// existing clip), the new right fragment (unpersisted, no id), and the
// arrangement containing both.
type SplitResult struct {
	Left  Update      `json:"left"`
	Right clip.Clip   `json:"right"`
	Clips []clip.Clip `json:"clips"`
}

// SplitAt divides a clip at a track time strictly inside its range. The
// left fragment keeps the head of the source window and the right fragment
// continues from where the left one stops, so playing both back to back
// shows the same media as the original clip. This is the lossless
// counterpart to the trim that automatic placement applies when a new clip
// lands fully inside an existing one.
func SplitAt(clips []clip.Clip, in SplitInput, log zerolog.Logger) (*SplitResult, error) {
	idx := clip.IndexByID(clips, in.ClipID)
	if idx < 0 {
		return nil, errors.NewNotFound("clip", in.ClipID)
	}

	c := clips[idx]
	if in.AtTrackMs <= c.StartOnTrackMs || in.AtTrackMs >= c.EndOnTrackMs {
		return nil, errors.NewInvalidRequest("split point must fall strictly inside the clip's track range")
	}

	headMs := in.AtTrackMs - c.StartOnTrackMs

	// The source cut advances by the same amount as the track cut, pinned
	// inside the clip's window. A window shorter than the track range
	// leaves the right fragment with whatever source remains.
	cutInSource := c.StartInSourceMs + headMs
	if cutInSource > c.EndInSourceMs {
		cutInSource = c.EndInSourceMs
	}

	left := Update{
		ClipID: c.ID,
		Fields: clip.Fields{
			EndOnTrackMs:  clip.Int64(in.AtTrackMs),
			EndInSourceMs: clip.Int64(cutInSource),
		},
	}

	right := clip.Clip{
		TrackID:          c.TrackID,
		Name:             c.Name,
		Type:             c.Type,
		SourcePath:       c.SourcePath,
		SourceDurationMs: c.SourceDurationMs,
		StartInSourceMs:  cutInSource,
		EndInSourceMs:    c.EndInSourceMs,
		StartOnTrackMs:   in.AtTrackMs,
		EndOnTrackMs:     c.EndOnTrackMs,
		Metadata:         c.Metadata,
	}
	if c.Preview != nil {
		p := *c.Preview
		right.Preview = &p
	}

	working := slices.Clone(clips)
	left.Fields.Apply(&working[idx])
	working = append(working, right)
	clip.SortByTrackStart(working)

	log.Debug().
		Int64("clip_id", c.ID).
		Int64("at_ms", in.AtTrackMs).
		Msg("clip split")

	return &SplitResult{Left: left, Right: right, Clips: working}, nil
}
