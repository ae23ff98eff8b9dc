package timeline

import (
	"slices"

	"github.com/rs/zerolog"

	"montage/internal/clip"
	"montage/internal/errors"
)

// RippleInput moves a clip to a new start time on its own track while
// shifting every clip that starts after it by the same delta, preserving
// the gaps between them.
type RippleInput struct {
	ClipID        int64
	TargetStartMs int64
}

// RippleResult carries the shifted arrangement and the per-clip writes.
type RippleResult struct {
	Clip    clip.Clip   `json:"clip"`
	Clips   []clip.Clip `json:"clips"`
	Updates []Update    `json:"updates"`
}

// RippleMove shifts a clip and everything after it on the same track.
// Unlike Place it never trims or removes anything: if the shifted block
// would collide with a clip before it, the move is rejected.
func RippleMove(clips []clip.Clip, in RippleInput, log zerolog.Logger) (*RippleResult, error) {
	idx := clip.IndexByID(clips, in.ClipID)
	if idx < 0 {
		return nil, errors.NewNotFound("clip", in.ClipID)
	}
	if in.TargetStartMs < 0 {
		return nil, errors.NewInvalidRequest("ripple target start must be >= 0")
	}

	moved := clips[idx]
	delta := in.TargetStartMs - moved.StartOnTrackMs

	working := slices.Clone(clips)
	var updates []Update

	if delta == 0 {
		clip.SortByTrackStart(working)
		return &RippleResult{Clip: moved, Clips: working, Updates: nil}, nil
	}

	for i := range working {
		c := &working[i]
		if c.TrackID != moved.TrackID {
			continue
		}
		if c.ID != moved.ID && c.StartOnTrackMs < moved.StartOnTrackMs {
			continue
		}
		newStart := c.StartOnTrackMs + delta
		newEnd := c.EndOnTrackMs + delta
		updates = append(updates, Update{
			ClipID: c.ID,
			Fields: clip.Fields{
				StartOnTrackMs: clip.Int64(newStart),
				EndOnTrackMs:   clip.Int64(newEnd),
			},
		})
		c.StartOnTrackMs = newStart
		c.EndOnTrackMs = newEnd
	}

	// Shifting left can run the block into clips that were not moved.
	if check := clip.Check(working); !check.Valid {
		log.Debug().
			Int64("clip_id", in.ClipID).
			Int64("delta_ms", delta).
			Msg("ripple move rejected, block collides")
		return nil, errors.NewConflict("ripple move would overlap clips before the shifted block")
	}

	clip.SortByTrackStart(working)
	result := &RippleResult{Clips: working, Updates: updates}
	if i := clip.IndexByID(working, in.ClipID); i >= 0 {
		result.Clip = working[i]
	}
	return result, nil
}
