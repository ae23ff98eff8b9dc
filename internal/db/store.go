package db

import (
	"context"
	"database/sql"

	"montage/internal/clip"
	"montage/internal/history"
)

// Store adapts the query helpers to the history package's storage
// interfaces. Commands and the manager only ever see this surface; the ops
// layer calls the package functions directly.
type Store struct {
	db *sql.DB
}

// NewStore wraps an initialized database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var (
	_ history.ClipStore = (*Store)(nil)
	_ history.LogStore  = (*Store)(nil)
)

func (s *Store) InsertClip(ctx context.Context, c clip.Clip) (int64, error) {
	return InsertClip(ctx, s.db, c)
}

func (s *Store) RestoreClip(ctx context.Context, c clip.Clip) error {
	return RestoreClip(ctx, s.db, c)
}

func (s *Store) UpdateClip(ctx context.Context, id int64, f clip.Fields) error {
	return UpdateClip(ctx, s.db, id, f)
}

func (s *Store) DeleteClip(ctx context.Context, id int64) error {
	return DeleteClip(ctx, s.db, id)
}

func (s *Store) AppendEntry(ctx context.Context, e *history.Entry) error {
	return AppendChange(ctx, s.db, e)
}

func (s *Store) Entries(ctx context.Context) ([]history.Entry, error) {
	return ChangeEntries(ctx, s.db)
}

func (s *Store) DeleteEntries(ctx context.Context) error {
	return DeleteChanges(ctx, s.db)
}
