package ops

import (
	"context"

	"montage/internal/history"
)

// ClearHistoryOutput contains the result of the ClearHistory operation.
type ClearHistoryOutput struct {
	Cleared int `json:"cleared"`
	history.Flags
}

// ClearHistory empties both stacks and the persisted change log. Clips and
// tracks are untouched; the timeline simply loses its undo past.
func ClearHistory(ctx context.Context, mgr *history.Manager) (*ClearHistoryOutput, error) {
	undo, redo := mgr.Depth()
	if err := mgr.ClearHistory(ctx); err != nil {
		return nil, err
	}
	return &ClearHistoryOutput{
		Cleared: undo + redo,
		Flags:   mgr.Flags(),
	}, nil
}
