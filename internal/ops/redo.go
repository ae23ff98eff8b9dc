package ops

import (
	"context"

	"montage/internal/history"
)

// RedoOutput contains the result of the Redo operation. Redone is false
// when there was nothing to redo.
type RedoOutput struct {
	Redone   bool           `json:"redone"`
	Action   history.Action `json:"action,omitempty"`
	EntityID int64          `json:"entity_id,omitempty"`
	OpID     string         `json:"op_id,omitempty"`
	history.Flags
}

// Redo re-applies the most recently undone change.
func Redo(ctx context.Context, mgr *history.Manager) (*RedoOutput, error) {
	entry, err := mgr.Redo(ctx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &RedoOutput{Redone: false, Flags: mgr.Flags()}, nil
	}
	return &RedoOutput{
		Redone:   true,
		Action:   entry.Action,
		EntityID: entry.EntityID,
		OpID:     entry.OpID,
		Flags:    mgr.Flags(),
	}, nil
}
