package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"montage/internal/clip"
	"montage/internal/errors"
	"montage/internal/history"
)

// Querier is the query surface shared by *sql.DB and *sql.Tx, so helpers
// work inside and outside transactions.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Track is a timeline lane. Clips reference tracks by id; a track's clips
// must not overlap, which the placement engine enforces before any write
// lands here.
type Track struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type"`
	Position int64  `json:"position"`
}

const clipColumns = `id, track_id, name, type, source_path,
	source_duration_ms, start_time_in_source_ms, end_time_in_source_ms,
	start_time_on_track_ms, end_time_on_track_ms, preview_json, metadata`

// InsertClip stores a new clip and returns its assigned row id.
func InsertClip(ctx context.Context, q Querier, c clip.Clip) (int64, error) {
	previewJSON, err := toPreviewJSON(c.Preview)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	query := `
		INSERT INTO clips (
			track_id, name, type, source_path,
			source_duration_ms, start_time_in_source_ms, end_time_in_source_ms,
			start_time_on_track_ms, end_time_on_track_ms,
			preview_json, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := q.ExecContext(ctx, query,
		c.TrackID, toNullString(c.Name), c.Type, c.SourcePath,
		c.SourceDurationMs, c.StartInSourceMs, c.EndInSourceMs,
		c.StartOnTrackMs, c.EndOnTrackMs,
		previewJSON, toNullString(c.Metadata), now, now,
	)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return id, nil
}

// RestoreClip re-inserts a previously deleted clip under its original id,
// so change-log entries recorded after the original insert keep resolving.
func RestoreClip(ctx context.Context, q Querier, c clip.Clip) error {
	previewJSON, err := toPreviewJSON(c.Preview)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()
	query := `
		INSERT INTO clips (
			id, track_id, name, type, source_path,
			source_duration_ms, start_time_in_source_ms, end_time_in_source_ms,
			start_time_on_track_ms, end_time_on_track_ms,
			preview_json, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.ExecContext(ctx, query,
		c.ID, c.TrackID, toNullString(c.Name), c.Type, c.SourcePath,
		c.SourceDurationMs, c.StartInSourceMs, c.EndInSourceMs,
		c.StartOnTrackMs, c.EndOnTrackMs,
		previewJSON, toNullString(c.Metadata), now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict("clip id already occupied")
		}
		return errors.NewInternal(err)
	}
	return nil
}

// GetClip retrieves a clip by id.
func GetClip(ctx context.Context, q Querier, id int64) (*clip.Clip, error) {
	row := q.QueryRowContext(ctx, `SELECT `+clipColumns+` FROM clips WHERE id = ?`, id)
	c, err := scanClip(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("clip", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return c, nil
}

// AllClips returns every clip ordered by track then start time, the order
// the placement engine expects its working set in.
func AllClips(ctx context.Context, q Querier) ([]clip.Clip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips
		ORDER BY track_id, start_time_on_track_ms, id`
	return queryClips(ctx, q, query)
}

// ClipsForTrack returns one track's clips ordered by start time.
func ClipsForTrack(ctx context.Context, q Querier, trackID int64) ([]clip.Clip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips
		WHERE track_id = ? ORDER BY start_time_on_track_ms, id`
	return queryClips(ctx, q, query, trackID)
}

// UpdateClip applies a partial update to a stored clip. Only the set fields
// are written; updated_at always advances.
func UpdateClip(ctx context.Context, q Querier, id int64, f clip.Fields) error {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if f.TrackID != nil {
		set("track_id", *f.TrackID)
	}
	if f.Name != nil {
		set("name", toNullString(*f.Name))
	}
	if f.Type != nil {
		set("type", *f.Type)
	}
	if f.SourcePath != nil {
		set("source_path", *f.SourcePath)
	}
	if f.SourceDurationMs != nil {
		set("source_duration_ms", *f.SourceDurationMs)
	}
	if f.StartInSourceMs != nil {
		set("start_time_in_source_ms", *f.StartInSourceMs)
	}
	if f.EndInSourceMs != nil {
		set("end_time_in_source_ms", *f.EndInSourceMs)
	}
	if f.StartOnTrackMs != nil {
		set("start_time_on_track_ms", *f.StartOnTrackMs)
	}
	if f.EndOnTrackMs != nil {
		set("end_time_on_track_ms", *f.EndOnTrackMs)
	}
	if f.Preview != nil {
		previewJSON, err := toPreviewJSON(f.Preview)
		if err != nil {
			return errors.NewInternal(err)
		}
		set("preview_json", previewJSON)
	}
	if f.Metadata != nil {
		set("metadata", toNullString(*f.Metadata))
	}
	set("updated_at", time.Now().Unix())

	query := `UPDATE clips SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("clip", id)
	}
	return nil
}

// DeleteClip removes a clip by id.
func DeleteClip(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM clips WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("clip", id)
	}
	return nil
}

// CountClips returns the number of stored clips.
func CountClips(ctx context.Context, q Querier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM clips`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// InsertTrack stores a new track and fills in its assigned id.
func InsertTrack(ctx context.Context, q Querier, t *Track) error {
	result, err := q.ExecContext(ctx,
		`INSERT INTO tracks (name, type, position) VALUES (?, ?, ?)`,
		toNullString(t.Name), t.Type, t.Position,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return errors.NewInternal(err)
	}
	t.ID = id
	return nil
}

// GetTrack retrieves a track by id.
func GetTrack(ctx context.Context, q Querier, id int64) (*Track, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, name, type, position FROM tracks WHERE id = ?`, id)

	var (
		t    Track
		name sql.NullString
	)
	err := row.Scan(&t.ID, &name, &t.Type, &t.Position)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("track", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	t.Name = name.String
	return &t, nil
}

// ListTracks returns all tracks ordered by position then id.
func ListTracks(ctx context.Context, q Querier) ([]Track, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, type, position FROM tracks ORDER BY position, id`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var (
			t    Track
			name sql.NullString
		)
		if err := rows.Scan(&t.ID, &name, &t.Type, &t.Position); err != nil {
			return nil, errors.NewInternal(err)
		}
		t.Name = name.String
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return tracks, nil
}

// DeleteTrack removes an empty track. A track that still holds clips is
// refused: callers must move or delete the clips first, there is no cascade.
func DeleteTrack(ctx context.Context, q Querier, id int64) error {
	var clips int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clips WHERE track_id = ?`, id).Scan(&clips)
	if err != nil {
		return errors.NewInternal(err)
	}
	if clips > 0 {
		return errors.NewTrackNotEmpty(id, clips)
	}

	result, err := q.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("track", id)
	}
	return nil
}

// CountTracks returns the number of stored tracks.
func CountTracks(ctx context.Context, q Querier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// AppendChange persists a change-log entry and fills in its row id.
func AppendChange(ctx context.Context, q Querier, e *history.Entry) error {
	result, err := q.ExecContext(ctx, `
		INSERT INTO change_log (op_id, entity, entity_id, action, old_data, new_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		e.OpID, e.Entity, e.EntityID, string(e.Action),
		toNullString(string(e.OldData)), toNullString(string(e.NewData)),
		e.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict("duplicate change-log op_id")
		}
		return errors.NewInternal(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.NewInternal(err)
	}
	e.ID = id
	return nil
}

// ChangeEntries returns every change-log entry oldest first, the order the
// history manager loads its undo stack in.
func ChangeEntries(ctx context.Context, q Querier) ([]history.Entry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, op_id, entity, entity_id, action, old_data, new_data, created_at
		FROM change_log ORDER BY id ASC
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ChangeEntriesPage returns one page of change-log entries newest first,
// plus the total entry count. This is the audit view; the manager never
// pages.
func ChangeEntriesPage(ctx context.Context, q Querier, limit, offset int) ([]history.Entry, int, error) {
	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM change_log`).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, op_id, entity, entity_id, action, old_data, new_data, created_at
		FROM change_log ORDER BY id DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// DeleteChanges removes every change-log entry.
func DeleteChanges(ctx context.Context, q Querier) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM change_log`); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanClip scans one clips row. created_at/updated_at are storage-only
// bookkeeping and stay out of the domain struct.
func scanClip(s scanner) (*clip.Clip, error) {
	var (
		c           clip.Clip
		name        sql.NullString
		previewJSON sql.NullString
		metadata    sql.NullString
	)

	err := s.Scan(
		&c.ID, &c.TrackID, &name, &c.Type, &c.SourcePath,
		&c.SourceDurationMs, &c.StartInSourceMs, &c.EndInSourceMs,
		&c.StartOnTrackMs, &c.EndOnTrackMs, &previewJSON, &metadata,
	)
	if err != nil {
		return nil, err
	}

	c.Name = name.String
	c.Metadata = metadata.String

	if previewJSON.Valid && previewJSON.String != "" {
		var p clip.PreviewTransform
		if err := json.Unmarshal([]byte(previewJSON.String), &p); err != nil {
			return nil, err
		}
		c.Preview = &p
	}
	return &c, nil
}

// queryClips runs a multi-row clip query and collects the results.
func queryClips(ctx context.Context, q Querier, query string, args ...any) ([]clip.Clip, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var clips []clip.Clip
	for rows.Next() {
		c, err := scanClip(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		clips = append(clips, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return clips, nil
}

// collectEntries scans change_log rows in query order.
func collectEntries(rows *sql.Rows) ([]history.Entry, error) {
	var entries []history.Entry
	for rows.Next() {
		var (
			e       history.Entry
			action  string
			oldData sql.NullString
			newData sql.NullString
		)
		err := rows.Scan(&e.ID, &e.OpID, &e.Entity, &e.EntityID, &action,
			&oldData, &newData, &e.CreatedAt)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		e.Action = history.Action(action)
		if oldData.Valid {
			e.OldData = []byte(oldData.String)
		}
		if newData.Valid {
			e.NewData = []byte(newData.String)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return entries, nil
}

// toPreviewJSON serializes a preview transform for the preview_json column.
// Zero transforms are stored as NULL: a snapshot of a clip that had no
// transform is the zero value, and writing it back must restore "absent".
func toPreviewJSON(p *clip.PreviewTransform) (sql.NullString, error) {
	if p == nil || p.IsZero() {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// toNullString stores empty strings as NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE or primary
// key constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
