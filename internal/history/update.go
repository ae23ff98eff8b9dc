package history

import (
	"context"
	"encoding/json"

	"montage/internal/clip"
)

// UpdateClip changes non-placement attributes of a clip: name, type, source
// path, preview transform, metadata. Placement changes must go through move
// or resize so the engine keeps the track conflict-free.
type UpdateClip struct {
	clipID int64
	old    clip.Fields
	new    clip.Fields
}

// NewUpdateClip captures a partial update against the clip's current state.
// Only the fields set in f are recorded on either side.
func NewUpdateClip(target clip.Clip, f clip.Fields) *UpdateClip {
	return &UpdateClip{
		clipID: target.ID,
		old:    f.Before(target),
		new:    f,
	}
}

func (c *UpdateClip) Action() Action  { return ActionUpdateClip }
func (c *UpdateClip) Entity() string  { return EntityClips }
func (c *UpdateClip) EntityID() int64 { return c.clipID }

func (c *UpdateClip) Execute(ctx context.Context, store ClipStore) error {
	return store.UpdateClip(ctx, c.clipID, c.new)
}

func (c *UpdateClip) Undo(ctx context.Context, store ClipStore) error {
	return store.UpdateClip(ctx, c.clipID, c.old)
}

func (c *UpdateClip) Snapshot() (json.RawMessage, json.RawMessage, error) {
	return marshalSides(c.old, c.new)
}

func decodeUpdateClip(e Entry) (Command, error) {
	cmd := &UpdateClip{clipID: e.EntityID}
	if err := unmarshalSide(e.Action, e.OldData, &cmd.old); err != nil {
		return nil, err
	}
	if err := unmarshalSide(e.Action, e.NewData, &cmd.new); err != nil {
		return nil, err
	}
	return cmd, nil
}
