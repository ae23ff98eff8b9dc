// Package ops implements the editing operations behind every surface (CLI,
// MCP server, HTTP API). An operation validates its input, snapshots the
// stored clips, runs the placement engine where placement is involved, and
// commits mutations through the history manager so each one lands on the
// undo stack. Read operations go straight to the database.
package ops

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/errors"
	"montage/internal/logging"
)

// Pagination limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// clampLimit applies default and maximum bounds to a requested page size.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// validateClipType checks a clip media kind. Callers default empty input
// before validating, so an empty string reaching this point is rejected.
func validateClipType(t string) error {
	switch t {
	case "video", "audio", "image":
		return nil
	default:
		return errors.NewInvalidRequest("type must be one of: video, audio, image")
	}
}

// validateTrackType checks a track lane kind. Image clips sit on video
// tracks, so tracks only come in two kinds.
func validateTrackType(t string) error {
	switch t {
	case "video", "audio":
		return nil
	default:
		return errors.NewInvalidRequest("track type must be one of: video, audio")
	}
}

// requireTrack verifies the track exists before a clip is placed on it.
func requireTrack(ctx context.Context, database *sql.DB, trackID int64) error {
	if trackID <= 0 {
		return errors.NewInvalidRequest("track_id is required")
	}
	_, err := db.GetTrack(ctx, database, trackID)
	return err
}

// opLog returns the logger placement calls run under.
func opLog() zerolog.Logger {
	return logging.WithComponent("ops")
}

// findClip locates a clip in a snapshot or reports it missing.
func findClip(clips []clip.Clip, id int64) (clip.Clip, error) {
	if id <= 0 {
		return clip.Clip{}, errors.NewInvalidRequest("clip_id is required")
	}
	idx := clip.IndexByID(clips, id)
	if idx < 0 {
		return clip.Clip{}, errors.NewNotFound("clip", id)
	}
	return clips[idx], nil
}
