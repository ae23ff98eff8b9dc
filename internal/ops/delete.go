package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/errors"
	"montage/internal/history"
)

// DeleteClipInput contains parameters for the DeleteClip operation.
type DeleteClipInput struct {
	ClipID int64
}

// DeleteClipOutput contains the result of the DeleteClip operation.
type DeleteClipOutput struct {
	Deleted bool      `json:"deleted"`
	Clip    clip.Clip `json:"clip"`
	OpID    string    `json:"op_id"`
	history.Flags
}

// DeleteClip removes a clip from the timeline. The full row is snapshotted
// into the history entry so undo restores it under the same id.
func DeleteClip(ctx context.Context, database *sql.DB, mgr *history.Manager, input DeleteClipInput) (*DeleteClipOutput, error) {
	if input.ClipID <= 0 {
		return nil, errors.NewInvalidRequest("clip_id is required")
	}

	target, err := db.GetClip(ctx, database, input.ClipID)
	if err != nil {
		return nil, err
	}

	entry, err := mgr.Execute(ctx, history.NewDeleteClip(*target))
	if err != nil {
		return nil, err
	}

	return &DeleteClipOutput{
		Deleted: true,
		Clip:    *target,
		OpID:    entry.OpID,
		Flags:   mgr.Flags(),
	}, nil
}
