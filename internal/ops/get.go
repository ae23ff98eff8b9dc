package ops

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/db"
	"montage/internal/errors"
)

// GetClipInput contains parameters for the GetClip operation.
type GetClipInput struct {
	ClipID int64
}

// GetClipOutput contains the result of the GetClip operation.
type GetClipOutput struct {
	Clip clip.Clip `json:"clip"`
}

// GetClip retrieves a single clip by id.
func GetClip(ctx context.Context, database *sql.DB, input GetClipInput) (*GetClipOutput, error) {
	if input.ClipID <= 0 {
		return nil, errors.NewInvalidRequest("clip_id is required")
	}
	c, err := db.GetClip(ctx, database, input.ClipID)
	if err != nil {
		return nil, err
	}
	return &GetClipOutput{Clip: *c}, nil
}
