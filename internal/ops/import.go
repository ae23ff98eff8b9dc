package ops

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"

	"montage/internal/config"
	"montage/internal/db"
	"montage/internal/errors"
	"montage/internal/timeline"
	"montage/pkg/cutlist"
)

// ImportCutlistInput contains parameters for the ImportCutlist operation.
type ImportCutlistInput struct {
	Path string
}

// ImportCutlistOutput contains the result of the ImportCutlist operation.
type ImportCutlistOutput struct {
	Path          string `json:"path"`
	TracksCreated int    `json:"tracks_created"`
	ClipsPlaced   int    `json:"clips_placed"`
	Trimmed       int    `json:"trimmed"`
	Removed       int    `json:"removed"`
	DurationMs    int64  `json:"duration_ms"`
}

// ImportCutlist seeds the timeline from a YAML cutlist. A track is created
// per document track and every clip goes through the placement engine, so
// imported clips obey the same non-overlap rules as interactive edits: a
// clip may trim or remove one listed earlier. The import is strict: any
// invalid clip fails the whole file before anything is written. Imports do
// not record history; clear-history semantics apply to the seeded state.
func ImportCutlist(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportCutlistInput) (*ImportCutlistOutput, error) {
	path, err := validateCutlistPath(input.Path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("cutlist file not found: %s", path))
	}

	doc, err := cutlist.Load(path)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	spec := doc.Framerate
	if spec == "" {
		spec = cfg.DefaultFramerate
	}
	fr, err := timeline.ParseFramerate(spec)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid framerate %q: %v", spec, err))
	}

	entries, err := doc.Resolve(fr.FrameToMs)
	if err != nil {
		var verrs cutlist.ValidationErrors
		if stderrors.As(err, &verrs) {
			merr := errors.NewInvalidRequest(fmt.Sprintf("cutlist validation failed with %d issue(s)", len(verrs)))
			merr.Details = map[string]any{"issues": verrs.Issues()}
			return nil, merr
		}
		return nil, errors.NewInvalidRequest(err.Error())
	}

	for _, t := range doc.Tracks {
		if err := validateTrackType(trackLaneType(t.Type)); err != nil {
			return nil, err
		}
	}

	// Track per document track, appended after whatever exists.
	base, err := db.CountTracks(ctx, database)
	if err != nil {
		return nil, err
	}
	trackIDs := make([]int64, len(doc.Tracks))
	for i, t := range doc.Tracks {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("Track %d", base+i+1)
		}
		track := db.Track{Name: name, Type: trackLaneType(t.Type), Position: int64(base + i)}
		if err := db.InsertTrack(ctx, database, &track); err != nil {
			return nil, err
		}
		trackIDs[i] = track.ID
	}

	working, err := db.AllClips(ctx, database)
	if err != nil {
		return nil, err
	}

	out := &ImportCutlistOutput{Path: path, TracksCreated: len(doc.Tracks)}
	log := opLog()

	for _, e := range entries {
		result, err := timeline.Place(working, timeline.PlaceInput{
			TrackID:          trackIDs[e.TrackIndex],
			Name:             e.Name,
			Type:             e.Type,
			SourcePath:       e.SourcePath,
			SourceDurationMs: e.SourceDurationMs,
			StartOnTrackMs:   e.StartOnTrackMs,
			EndOnTrackMs:     e.EndOnTrackMs,
			StartInSourceMs:  e.StartInSourceMs,
			EndInSourceMs:    e.EndInSourceMs,
			Metadata:         e.Metadata,
			MinDurationMs:    cfg.MinClipDurationMs,
		}, log)
		if err != nil {
			return nil, err
		}

		for _, u := range result.Updates {
			if err := db.UpdateClip(ctx, database, u.ClipID, u.Fields); err != nil {
				return nil, err
			}
			out.Trimmed++
		}
		for _, id := range result.Removed {
			if err := db.DeleteClip(ctx, database, id); err != nil {
				return nil, err
			}
			out.Removed++
		}
		id, err := db.InsertClip(ctx, database, result.Clip)
		if err != nil {
			return nil, err
		}
		out.ClipsPlaced++

		working = result.Clips
		for i := range working {
			if working[i].ID == 0 {
				working[i].ID = id
			}
		}
	}

	out.DurationMs = timeline.Duration(working)
	return out, nil
}

// trackLaneType maps a cutlist track type to a lane kind: image clips ride
// on video tracks.
func trackLaneType(t string) string {
	if t == "image" {
		return "video"
	}
	return t
}
