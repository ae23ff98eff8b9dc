// Package timeline computes conflict-free clip arrangements. Given a
// proposed placement and a snapshot of the current clips, the engine trims
// or removes overlapping neighbors on the target track and returns the new
// arrangement plus the storage writes needed to commit it. The engine does
// no I/O and holds no state; callers own serialization of commits.
package timeline

import (
	"slices"

	"github.com/rs/zerolog"

	"montage/internal/clip"
)

// PlaceInput is a proposed clip placement. ClipID is set when moving or
// resizing an existing clip (it is excluded from neighbor resolution) and
// zero when adding a new one.
type PlaceInput struct {
	ClipID           int64
	TrackID          int64
	Name             string
	Type             string
	SourcePath       string
	SourceDurationMs int64
	StartOnTrackMs   int64
	EndOnTrackMs     int64
	StartInSourceMs  int64
	EndInSourceMs    int64
	Preview          *clip.PreviewTransform
	Metadata         string

	// MinDurationMs is the track-duration floor; 0 means 1ms.
	MinDurationMs int64
}

// Update is one pending write against a stored clip.
type Update struct {
	ClipID int64       `json:"clip_id"`
	Fields clip.Fields `json:"fields"`
}

// PlacementResult describes a committed-shape arrangement. Clips is the
// optimistic in-memory view; Updates and Removed are the writes a caller
// must apply to storage to make that view durable.
type PlacementResult struct {
	Clip    clip.Clip   `json:"clip"`
	Clips   []clip.Clip `json:"clips"`
	Updates []Update    `json:"updates,omitempty"`
	Removed []int64     `json:"removed,omitempty"`
}

// Place resolves a proposed placement against the current clip set.
//
// The proposed track range is clamped to a strictly positive duration and
// the source window to [0, SourceDurationMs] before any neighbor is
// considered, so a violated precondition is corrected rather than rejected.
// Neighbors on the target track are then classified with ClassifyOverlap
// and trimmed or removed; trimming a neighbor's track range shortens its
// source window by the same number of milliseconds, clamped to stay inside
// the neighbor's media.
//
// A ClipID that is not present in clips is tolerated: the clip is appended
// to the working copy as if it were new, and a warning is logged because it
// means the caller's view has drifted from storage.
func Place(clips []clip.Clip, in PlaceInput, log zerolog.Logger) (*PlacementResult, error) {
	startMs, endMs := clip.ClampTrackRange(in.StartOnTrackMs, in.EndOnTrackMs, in.MinDurationMs)
	if endMs != in.EndOnTrackMs {
		log.Warn().
			Int64("clip_id", in.ClipID).
			Int64("proposed_start_ms", in.StartOnTrackMs).
			Int64("proposed_end_ms", in.EndOnTrackMs).
			Int64("end_ms", endMs).
			Msg("non-positive track duration corrected")
	}

	srcStart, srcEnd := clip.ClampSourceWindow(in.StartInSourceMs, in.EndInSourceMs, in.SourceDurationMs)
	if srcStart != in.StartInSourceMs || srcEnd != in.EndInSourceMs {
		log.Debug().
			Int64("clip_id", in.ClipID).
			Int64("source_start_ms", srcStart).
			Int64("source_end_ms", srcEnd).
			Int64("source_duration_ms", in.SourceDurationMs).
			Msg("source window clamped")
	}

	// Neighbor resolution. Updates to the same neighbor are merged so a
	// clip is written once per placement, not once per instruction.
	var (
		updateOrder []int64
		updateSet   = make(map[int64]clip.Fields)
		removed     []int64
		removedSet  = make(map[int64]bool)
	)

	queueUpdate := func(id int64, f clip.Fields) {
		if existing, ok := updateSet[id]; ok {
			updateSet[id] = existing.Merge(f)
			return
		}
		updateSet[id] = f
		updateOrder = append(updateOrder, id)
	}

	for _, n := range neighbors(clips, in.TrackID, in.ClipID) {
		switch ClassifyOverlap(n.StartOnTrackMs, n.EndOnTrackMs, startMs, endMs) {
		case OverlapNone:
			continue

		case OverlapRemove:
			if !removedSet[n.ID] {
				removedSet[n.ID] = true
				removed = append(removed, n.ID)
			}

		case OverlapTrimEnd:
			trimmed := n.EndOnTrackMs - startMs
			newSrcEnd := n.EndInSourceMs - trimmed
			if newSrcEnd < n.StartInSourceMs {
				newSrcEnd = n.StartInSourceMs
			}
			if newSrcEnd > n.SourceDurationMs {
				newSrcEnd = n.SourceDurationMs
			}
			queueUpdate(n.ID, clip.Fields{
				EndOnTrackMs:  clip.Int64(startMs),
				EndInSourceMs: clip.Int64(newSrcEnd),
			})

		case OverlapTrimStart:
			trimmed := endMs - n.StartOnTrackMs
			newSrcStart := n.StartInSourceMs + trimmed
			if newSrcStart < 0 {
				newSrcStart = 0
			}
			if newSrcStart > n.EndInSourceMs {
				newSrcStart = n.EndInSourceMs
			}
			queueUpdate(n.ID, clip.Fields{
				StartOnTrackMs:  clip.Int64(endMs),
				StartInSourceMs: clip.Int64(newSrcStart),
			})
		}
	}

	// Build the working copy: apply neighbor trims, drop removed clips,
	// then place the target.
	working := slices.Clone(clips)
	for i := range working {
		if f, ok := updateSet[working[i].ID]; ok {
			f.Apply(&working[i])
		}
	}
	if len(removedSet) > 0 {
		working = slices.DeleteFunc(working, func(c clip.Clip) bool {
			return removedSet[c.ID]
		})
	}

	placed := clip.Clip{
		ID:               in.ClipID,
		TrackID:          in.TrackID,
		Name:             in.Name,
		Type:             in.Type,
		SourcePath:       in.SourcePath,
		SourceDurationMs: in.SourceDurationMs,
		StartInSourceMs:  srcStart,
		EndInSourceMs:    srcEnd,
		StartOnTrackMs:   startMs,
		EndOnTrackMs:     endMs,
		Preview:          in.Preview,
		Metadata:         in.Metadata,
	}

	if in.ClipID != 0 {
		if idx := clip.IndexByID(working, in.ClipID); idx >= 0 {
			working[idx] = placed
		} else {
			log.Warn().
				Int64("clip_id", in.ClipID).
				Msg("clip id not in working set, inserting as new")
			working = append(working, placed)
		}
	} else {
		working = append(working, placed)
	}

	clip.SortByTrackStart(working)

	updates := make([]Update, 0, len(updateOrder))
	for _, id := range updateOrder {
		updates = append(updates, Update{ClipID: id, Fields: updateSet[id]})
	}

	return &PlacementResult{
		Clip:    placed,
		Clips:   working,
		Updates: updates,
		Removed: removed,
	}, nil
}

// Duration returns the timeline's total length: the latest clip end across
// all tracks, or 0 for an empty timeline.
func Duration(clips []clip.Clip) int64 {
	var max int64
	for _, c := range clips {
		if c.EndOnTrackMs > max {
			max = c.EndOnTrackMs
		}
	}
	return max
}

// neighbors returns the clips on trackID other than excludeID, ordered by
// start time.
func neighbors(clips []clip.Clip, trackID, excludeID int64) []clip.Clip {
	var out []clip.Clip
	for _, c := range clips {
		if c.TrackID != trackID {
			continue
		}
		if excludeID != 0 && c.ID == excludeID {
			continue
		}
		out = append(out, c)
	}
	clip.SortByTrackStart(out)
	return out
}
