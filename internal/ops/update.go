package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/errors"
	"montage/internal/history"
)

// UpdateClipInput contains parameters for the UpdateClip operation. Nil
// fields are left unchanged. Placement (track and time ranges) is not
// updatable here; that is what MoveClip and ResizeClip are for.
type UpdateClipInput struct {
	ClipID     int64
	Name       *string
	Type       *string
	SourcePath *string
	Preview    *clip.PreviewTransform
	Metadata   *string
}

// UpdateClipOutput contains the result of the UpdateClip operation.
type UpdateClipOutput struct {
	Clip clip.Clip `json:"clip"`
	OpID string    `json:"op_id"`
	history.Flags
}

// UpdateClip edits a clip's non-placement attributes as one undoable change.
func UpdateClip(ctx context.Context, database *sql.DB, mgr *history.Manager, input UpdateClipInput) (*UpdateClipOutput, error) {
	if input.ClipID <= 0 {
		return nil, errors.NewInvalidRequest("clip_id is required")
	}
	if input.Type != nil {
		if err := validateClipType(*input.Type); err != nil {
			return nil, err
		}
	}
	if input.SourcePath != nil && *input.SourcePath == "" {
		return nil, errors.NewInvalidRequest("source_path must not be empty")
	}

	fields := clip.Fields{
		Name:       input.Name,
		Type:       input.Type,
		SourcePath: input.SourcePath,
		Preview:    input.Preview,
		Metadata:   input.Metadata,
	}
	if fields.IsZero() {
		return nil, errors.NewInvalidRequest("no fields to update")
	}

	target, err := db.GetClip(ctx, database, input.ClipID)
	if err != nil {
		return nil, err
	}

	entry, err := mgr.Execute(ctx, history.NewUpdateClip(*target, fields))
	if err != nil {
		return nil, err
	}

	updated := *target
	fields.Apply(&updated)

	return &UpdateClipOutput{
		Clip:  updated,
		OpID:  entry.OpID,
		Flags: mgr.Flags(),
	}, nil
}
