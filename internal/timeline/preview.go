package timeline

import (
	"slices"

	"github.com/rs/zerolog"

	"montage/internal/clip"
)

// PreviewDrag projects where the clips would land if clipID were moved to
// targetStartMs on targetTrackID, preserving the clip's on-track duration.
// It runs the same placement path a commit would, so the preview a UI draws
// during a drag is exactly the arrangement a drop would produce, but nothing
// is persisted and the input slice is never mutated.
//
// This is called per pointer-move event. Failure must not surface to the
// drag loop: an unknown clip id returns the input unchanged, and a placement
// error falls back to naively repositioning the dragged clip.
func PreviewDrag(clips []clip.Clip, clipID, targetTrackID, targetStartMs int64, log zerolog.Logger) []clip.Clip {
	idx := clip.IndexByID(clips, clipID)
	if idx < 0 {
		log.Warn().Int64("clip_id", clipID).Msg("drag preview for unknown clip id")
		return clips
	}

	dragged := clips[idx]
	targetEndMs := targetStartMs + dragged.TrackDurationMs()

	result, err := Place(clips, PlaceInput{
		ClipID:           dragged.ID,
		TrackID:          targetTrackID,
		Name:             dragged.Name,
		Type:             dragged.Type,
		SourcePath:       dragged.SourcePath,
		SourceDurationMs: dragged.SourceDurationMs,
		StartOnTrackMs:   targetStartMs,
		EndOnTrackMs:     targetEndMs,
		StartInSourceMs:  dragged.StartInSourceMs,
		EndInSourceMs:    dragged.EndInSourceMs,
		Preview:          dragged.Preview,
		Metadata:         dragged.Metadata,
	}, log)
	if err != nil {
		log.Warn().Err(err).Int64("clip_id", clipID).Msg("drag preview placement failed, using naive move")
		return naiveMove(clips, idx, targetTrackID, targetStartMs, targetEndMs)
	}

	return result.Clips
}

// naiveMove repositions one clip without resolving overlaps. Only used when
// placement fails, so the UI still has something coherent to draw mid-drag.
func naiveMove(clips []clip.Clip, idx int, trackID, startMs, endMs int64) []clip.Clip {
	out := slices.Clone(clips)
	out[idx].TrackID = trackID
	out[idx].StartOnTrackMs = startMs
	out[idx].EndOnTrackMs = endMs
	clip.SortByTrackStart(out)
	return out
}
