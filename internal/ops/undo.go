package ops

import (
	"context"

	"montage/internal/history"
)

// UndoOutput contains the result of the Undo operation. Undone is false
// when there was nothing to undo.
type UndoOutput struct {
	Undone   bool           `json:"undone"`
	Action   history.Action `json:"action,omitempty"`
	EntityID int64          `json:"entity_id,omitempty"`
	OpID     string         `json:"op_id,omitempty"`
	history.Flags
}

// Undo reverts the most recent change and moves it to the redo stack. An
// empty undo stack is not an error.
func Undo(ctx context.Context, mgr *history.Manager) (*UndoOutput, error) {
	entry, err := mgr.Undo(ctx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &UndoOutput{Undone: false, Flags: mgr.Flags()}, nil
	}
	return &UndoOutput{
		Undone:   true,
		Action:   entry.Action,
		EntityID: entry.EntityID,
		OpID:     entry.OpID,
		Flags:    mgr.Flags(),
	}, nil
}
