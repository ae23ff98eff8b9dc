package history

import (
	"context"
	"encoding/json"

	"montage/internal/clip"
	"montage/internal/timeline"
)

// ResizeClip changes a clip's track range (and correspondingly its source
// window) in place. Same payload shape as MoveClip; the distinct action tag
// keeps the audit trail readable and lets UIs label history entries.
type ResizeClip struct {
	clipID int64
	old    placeEffects
	new    placeEffects
}

// NewResizeClip captures a resize against the pre-resize clip set.
func NewResizeClip(before []clip.Clip, result *timeline.PlacementResult) *ResizeClip {
	old, new := captureEffects(before, result)
	return &ResizeClip{clipID: result.Clip.ID, old: old, new: new}
}

func (c *ResizeClip) Action() Action  { return ActionResizeClip }
func (c *ResizeClip) Entity() string  { return EntityClips }
func (c *ResizeClip) EntityID() int64 { return c.clipID }

func (c *ResizeClip) Execute(ctx context.Context, store ClipStore) error {
	return applyEffects(ctx, store, c.clipID, c.new, c.old.Removed)
}

func (c *ResizeClip) Undo(ctx context.Context, store ClipStore) error {
	return revertEffects(ctx, store, c.clipID, c.old)
}

func (c *ResizeClip) Snapshot() (json.RawMessage, json.RawMessage, error) {
	return marshalSides(c.old, c.new)
}

func decodeResizeClip(e Entry) (Command, error) {
	cmd := &ResizeClip{clipID: e.EntityID}
	if err := unmarshalSide(e.Action, e.OldData, &cmd.old); err != nil {
		return nil, err
	}
	if err := unmarshalSide(e.Action, e.NewData, &cmd.new); err != nil {
		return nil, err
	}
	return cmd, nil
}
