package history

import (
	"context"
	"encoding/json"

	"montage/internal/clip"
	"montage/internal/timeline"
)

// MoveClip relocates an existing clip, carrying the full placement the
// engine computed for it plus the before/after values of every neighbor the
// move trimmed or removed.
type MoveClip struct {
	clipID int64
	old    placeEffects
	new    placeEffects
}

// NewMoveClip captures a move. before is the clip set the engine resolved
// against; result is the placement it produced for the moved clip.
func NewMoveClip(before []clip.Clip, result *timeline.PlacementResult) *MoveClip {
	old, new := captureEffects(before, result)
	return &MoveClip{clipID: result.Clip.ID, old: old, new: new}
}

func (c *MoveClip) Action() Action  { return ActionMoveClip }
func (c *MoveClip) Entity() string  { return EntityClips }
func (c *MoveClip) EntityID() int64 { return c.clipID }

func (c *MoveClip) Execute(ctx context.Context, store ClipStore) error {
	return applyEffects(ctx, store, c.clipID, c.new, c.old.Removed)
}

func (c *MoveClip) Undo(ctx context.Context, store ClipStore) error {
	return revertEffects(ctx, store, c.clipID, c.old)
}

func (c *MoveClip) Snapshot() (json.RawMessage, json.RawMessage, error) {
	return marshalSides(c.old, c.new)
}

func decodeMoveClip(e Entry) (Command, error) {
	cmd := &MoveClip{clipID: e.EntityID}
	if err := unmarshalSide(e.Action, e.OldData, &cmd.old); err != nil {
		return nil, err
	}
	if err := unmarshalSide(e.Action, e.NewData, &cmd.new); err != nil {
		return nil, err
	}
	return cmd, nil
}
