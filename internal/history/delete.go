package history

import (
	"context"
	"encoding/json"

	"montage/internal/clip"
)

// DeleteClip removes a clip, keeping its full snapshot so undo can restore
// the row under its original id. The entry's new side is empty: there is no
// after-state to a deletion.
type DeleteClip struct {
	snapshot clip.Clip
}

// NewDeleteClip captures the clip about to be deleted.
func NewDeleteClip(c clip.Clip) *DeleteClip {
	return &DeleteClip{snapshot: c}
}

func (c *DeleteClip) Action() Action  { return ActionDeleteClip }
func (c *DeleteClip) Entity() string  { return EntityClips }
func (c *DeleteClip) EntityID() int64 { return c.snapshot.ID }

func (c *DeleteClip) Execute(ctx context.Context, store ClipStore) error {
	return store.DeleteClip(ctx, c.snapshot.ID)
}

func (c *DeleteClip) Undo(ctx context.Context, store ClipStore) error {
	return store.RestoreClip(ctx, c.snapshot)
}

func (c *DeleteClip) Snapshot() (json.RawMessage, json.RawMessage, error) {
	oldData, err := json.Marshal(c.snapshot)
	if err != nil {
		return nil, nil, err
	}
	return oldData, nil, nil
}

func decodeDeleteClip(e Entry) (Command, error) {
	if len(e.OldData) == 0 {
		return nil, malformed(e.Action, "delete entry has no clip snapshot")
	}
	cmd := &DeleteClip{}
	if err := unmarshalSide(e.Action, e.OldData, &cmd.snapshot); err != nil {
		return nil, err
	}
	return cmd, nil
}
