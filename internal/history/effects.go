package history

import (
	"context"

	"montage/internal/clip"
	"montage/internal/timeline"
)

// placeEffects is one side (before or after) of an engine placement applied
// to storage: the placement values on the target clip, the values written to
// each trimmed neighbor, and full snapshots of removed neighbors. The before
// side fills Removed so undo can re-insert those rows; the after side leaves
// it empty because re-executing only needs their ids.
type placeEffects struct {
	Target    clip.Fields       `json:"target"`
	Neighbors []timeline.Update `json:"neighbors,omitempty"`
	Removed   []clip.Clip       `json:"removed,omitempty"`
}

// captureEffects builds both sides of a move/resize from the clip set the
// engine resolved against and the result it produced.
func captureEffects(before []clip.Clip, result *timeline.PlacementResult) (old, new placeEffects) {
	new.Target = placementFields(result.Clip)
	new.Neighbors = result.Updates

	if idx := clip.IndexByID(before, result.Clip.ID); idx >= 0 {
		old.Target = placementFields(before[idx])
	}
	old.Neighbors = beforeUpdates(before, result.Updates)
	old.Removed = removedSnapshots(before, result.Removed)
	return old, new
}

// placementFields snapshots the engine-owned fields of a clip: its track and
// both time ranges. Non-placement attributes are out of scope for move and
// resize, so commands never write them.
func placementFields(c clip.Clip) clip.Fields {
	return clip.Fields{
		TrackID:         clip.Int64(c.TrackID),
		StartOnTrackMs:  clip.Int64(c.StartOnTrackMs),
		EndOnTrackMs:    clip.Int64(c.EndOnTrackMs),
		StartInSourceMs: clip.Int64(c.StartInSourceMs),
		EndInSourceMs:   clip.Int64(c.EndInSourceMs),
	}
}

// beforeUpdates captures, per pending update, the values it will overwrite.
func beforeUpdates(before []clip.Clip, updates []timeline.Update) []timeline.Update {
	var out []timeline.Update
	for _, u := range updates {
		if idx := clip.IndexByID(before, u.ClipID); idx >= 0 {
			out = append(out, timeline.Update{
				ClipID: u.ClipID,
				Fields: u.Fields.Before(before[idx]),
			})
		}
	}
	return out
}

// removedSnapshots collects full snapshots of the clips slated for removal.
func removedSnapshots(before []clip.Clip, removed []int64) []clip.Clip {
	var out []clip.Clip
	for _, id := range removed {
		if idx := clip.IndexByID(before, id); idx >= 0 {
			out = append(out, before[idx])
		}
	}
	return out
}

// applyEffects writes the after side of a placement: the target's new
// values, then neighbor trims, then removals.
func applyEffects(ctx context.Context, store ClipStore, clipID int64, side placeEffects, removed []clip.Clip) error {
	if err := store.UpdateClip(ctx, clipID, side.Target); err != nil {
		return err
	}
	for _, u := range side.Neighbors {
		if err := store.UpdateClip(ctx, u.ClipID, u.Fields); err != nil {
			return err
		}
	}
	for _, c := range removed {
		if err := store.DeleteClip(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// revertEffects restores the before side: the target's old values, neighbor
// values, then re-inserts removed clips under their original ids.
func revertEffects(ctx context.Context, store ClipStore, clipID int64, side placeEffects) error {
	if err := store.UpdateClip(ctx, clipID, side.Target); err != nil {
		return err
	}
	for _, u := range side.Neighbors {
		if err := store.UpdateClip(ctx, u.ClipID, u.Fields); err != nil {
			return err
		}
	}
	for _, c := range side.Removed {
		if err := store.RestoreClip(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
