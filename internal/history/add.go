package history

import (
	"context"
	"encoding/json"

	"montage/internal/clip"
	"montage/internal/timeline"
)

// addState is one side of an add: the placed clip (after side only), the
// neighbor values in effect on that side, and full snapshots of the
// neighbors the placement removed (before side only).
type addState struct {
	Clip      *clip.Clip        `json:"clip,omitempty"`
	Neighbors []timeline.Update `json:"neighbors,omitempty"`
	Removed   []clip.Clip       `json:"removed,omitempty"`
}

// AddClip inserts a new clip. The first Execute assigns the clip its storage
// id; a redo after undo restores the same id so later entries in the log
// keep pointing at the right row.
type AddClip struct {
	old addState
	new addState
}

// NewAddClip captures an insertion against the pre-insert clip set.
func NewAddClip(before []clip.Clip, result *timeline.PlacementResult) *AddClip {
	placed := result.Clip
	return &AddClip{
		old: addState{
			Neighbors: beforeUpdates(before, result.Updates),
			Removed:   removedSnapshots(before, result.Removed),
		},
		new: addState{
			Clip:      &placed,
			Neighbors: result.Updates,
		},
	}
}

func (c *AddClip) Action() Action { return ActionAddClip }
func (c *AddClip) Entity() string { return EntityClips }

// EntityID is 0 until the first Execute persists the clip.
func (c *AddClip) EntityID() int64 {
	if c.new.Clip == nil {
		return 0
	}
	return c.new.Clip.ID
}

func (c *AddClip) Execute(ctx context.Context, store ClipStore) error {
	for _, u := range c.new.Neighbors {
		if err := store.UpdateClip(ctx, u.ClipID, u.Fields); err != nil {
			return err
		}
	}
	for _, r := range c.old.Removed {
		if err := store.DeleteClip(ctx, r.ID); err != nil {
			return err
		}
	}
	if c.new.Clip.ID == 0 {
		id, err := store.InsertClip(ctx, *c.new.Clip)
		if err != nil {
			return err
		}
		c.new.Clip.ID = id
		return nil
	}
	return store.RestoreClip(ctx, *c.new.Clip)
}

func (c *AddClip) Undo(ctx context.Context, store ClipStore) error {
	if c.new.Clip != nil && c.new.Clip.ID != 0 {
		if err := store.DeleteClip(ctx, c.new.Clip.ID); err != nil {
			return err
		}
	}
	for _, u := range c.old.Neighbors {
		if err := store.UpdateClip(ctx, u.ClipID, u.Fields); err != nil {
			return err
		}
	}
	for _, r := range c.old.Removed {
		if err := store.RestoreClip(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (c *AddClip) Snapshot() (json.RawMessage, json.RawMessage, error) {
	return marshalSides(c.old, c.new)
}

func decodeAddClip(e Entry) (Command, error) {
	cmd := &AddClip{}
	if err := unmarshalSide(e.Action, e.OldData, &cmd.old); err != nil {
		return nil, err
	}
	if err := unmarshalSide(e.Action, e.NewData, &cmd.new); err != nil {
		return nil, err
	}
	if cmd.new.Clip == nil {
		return nil, malformed(e.Action, "add entry has no clip payload")
	}
	return cmd, nil
}
