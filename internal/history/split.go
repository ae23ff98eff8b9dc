package history

import (
	"context"
	"encoding/json"

	"montage/internal/clip"
	"montage/internal/timeline"
)

// splitState is one side of a split: the left fragment's end fields (the
// original clip before the cut, or trimmed after it) and, on the after side,
// the right fragment as a full clip.
type splitState struct {
	Left  clip.Fields `json:"left"`
	Right *clip.Clip  `json:"right,omitempty"`
}

// SplitClip cuts one clip into two. Execute trims the original and inserts
// the right fragment; undo deletes the fragment and restores the original's
// end. Like AddClip, the fragment's id is captured on first Execute so redo
// restores the same row.
type SplitClip struct {
	clipID int64
	old    splitState
	new    splitState
}

// NewSplitClip captures a split of target as computed by the engine.
func NewSplitClip(target clip.Clip, result *timeline.SplitResult) *SplitClip {
	right := result.Right
	return &SplitClip{
		clipID: target.ID,
		old:    splitState{Left: result.Left.Fields.Before(target)},
		new:    splitState{Left: result.Left.Fields, Right: &right},
	}
}

func (c *SplitClip) Action() Action  { return ActionSplitClip }
func (c *SplitClip) Entity() string  { return EntityClips }
func (c *SplitClip) EntityID() int64 { return c.clipID }

// RightID returns the row id assigned to the right fragment, or 0 before
// the first Execute.
func (c *SplitClip) RightID() int64 {
	if c.new.Right == nil {
		return 0
	}
	return c.new.Right.ID
}

func (c *SplitClip) Execute(ctx context.Context, store ClipStore) error {
	if err := store.UpdateClip(ctx, c.clipID, c.new.Left); err != nil {
		return err
	}
	if c.new.Right.ID == 0 {
		id, err := store.InsertClip(ctx, *c.new.Right)
		if err != nil {
			return err
		}
		c.new.Right.ID = id
		return nil
	}
	return store.RestoreClip(ctx, *c.new.Right)
}

func (c *SplitClip) Undo(ctx context.Context, store ClipStore) error {
	if c.new.Right != nil && c.new.Right.ID != 0 {
		if err := store.DeleteClip(ctx, c.new.Right.ID); err != nil {
			return err
		}
	}
	return store.UpdateClip(ctx, c.clipID, c.old.Left)
}

func (c *SplitClip) Snapshot() (json.RawMessage, json.RawMessage, error) {
	return marshalSides(c.old, c.new)
}

func decodeSplitClip(e Entry) (Command, error) {
	cmd := &SplitClip{clipID: e.EntityID}
	if err := unmarshalSide(e.Action, e.OldData, &cmd.old); err != nil {
		return nil, err
	}
	if err := unmarshalSide(e.Action, e.NewData, &cmd.new); err != nil {
		return nil, err
	}
	if cmd.new.Right == nil {
		return nil, malformed(e.Action, "split entry has no right fragment")
	}
	return cmd, nil
}
