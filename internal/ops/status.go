package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/history"
	"montage/internal/timeline"
)

// StatusOutput summarizes the project: entity counts, timeline duration,
// history depth, and the result of auditing every stored clip against the
// timeline invariants.
type StatusOutput struct {
	Tracks     int            `json:"tracks"`
	Clips      int            `json:"clips"`
	DurationMs int64          `json:"duration_ms"`
	UndoDepth  int            `json:"undo_depth"`
	RedoDepth  int            `json:"redo_depth"`
	Valid      bool           `json:"valid"`
	Problems   []clip.Problem `json:"problems,omitempty"`
	history.Flags
}

// Status reports the current state of the project.
func Status(ctx context.Context, database *sql.DB, mgr *history.Manager) (*StatusOutput, error) {
	tracks, err := db.CountTracks(ctx, database)
	if err != nil {
		return nil, err
	}
	clips, err := db.AllClips(ctx, database)
	if err != nil {
		return nil, err
	}

	check := clip.Check(clips)
	undo, redo := mgr.Depth()

	return &StatusOutput{
		Tracks:     tracks,
		Clips:      len(clips),
		DurationMs: timeline.Duration(clips),
		UndoDepth:  undo,
		RedoDepth:  redo,
		Valid:      check.Valid,
		Problems:   check.Problems,
		Flags:      mgr.Flags(),
	}, nil
}
