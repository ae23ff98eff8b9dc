package ops

import (
	"context"
	"database/sql"

	"montage/internal/db"
	"montage/internal/history"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// HistoryItem is one change-log entry without its payloads. The old/new
// snapshots can be large (full clip rows) and are an implementation detail
// of replay, so listings carry identity and provenance only.
type HistoryItem struct {
	ID        int64          `json:"id"`
	OpID      string         `json:"op_id"`
	Action    history.Action `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  int64          `json:"entity_id"`
	CreatedAt int64          `json:"created_at"`
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Items      []HistoryItem `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// History lists persisted change-log entries, newest first.
func History(ctx context.Context, database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	limit := clampLimit(input.Limit, DefaultHistoryLimit, MaxHistoryLimit)
	offset := max(input.Offset, 0)

	entries, total, err := db.ChangeEntriesPage(ctx, database, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			ID:        e.ID,
			OpID:      e.OpID,
			Action:    e.Action,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			CreatedAt: e.CreatedAt,
		})
	}

	return &HistoryOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}
