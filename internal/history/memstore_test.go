package history

import (
	"context"
	stderrors "errors"
	"sort"

	"montage/internal/clip"
	"montage/internal/errors"
)

// memStore is an in-memory ClipStore+LogStore for exercising commands and
// the manager without SQLite. Error injection fields make one call class
// fail so the failure paths can be driven deterministically.
type memStore struct {
	nextClipID int64
	clips      map[int64]clip.Clip

	nextLogID int64
	entries   []Entry

	failUpdate bool
	failAppend bool
}

func newMemStore() *memStore {
	return &memStore{clips: make(map[int64]clip.Clip)}
}

// seed stores clips under their existing ids and bumps the id counter past
// them.
func (s *memStore) seed(clips ...clip.Clip) {
	for _, c := range clips {
		s.clips[c.ID] = c
		if c.ID > s.nextClipID {
			s.nextClipID = c.ID
		}
	}
}

// arrangement returns every stored clip sorted by track then start.
func (s *memStore) arrangement() []clip.Clip {
	out := make([]clip.Clip, 0, len(s.clips))
	for _, c := range s.clips {
		out = append(out, c)
	}
	clip.SortByTrackStart(out)
	return out
}

func (s *memStore) InsertClip(_ context.Context, c clip.Clip) (int64, error) {
	s.nextClipID++
	c.ID = s.nextClipID
	s.clips[c.ID] = c
	return c.ID, nil
}

func (s *memStore) RestoreClip(_ context.Context, c clip.Clip) error {
	if _, ok := s.clips[c.ID]; ok {
		return errors.NewConflict("clip id already occupied")
	}
	s.clips[c.ID] = c
	return nil
}

func (s *memStore) UpdateClip(_ context.Context, id int64, f clip.Fields) error {
	if s.failUpdate {
		return stderrors.New("injected update failure")
	}
	c, ok := s.clips[id]
	if !ok {
		return errors.NewNotFound("clip", id)
	}
	f.Apply(&c)
	s.clips[id] = c
	return nil
}

func (s *memStore) DeleteClip(_ context.Context, id int64) error {
	if _, ok := s.clips[id]; !ok {
		return errors.NewNotFound("clip", id)
	}
	delete(s.clips, id)
	return nil
}

func (s *memStore) AppendEntry(_ context.Context, e *Entry) error {
	if s.failAppend {
		return stderrors.New("injected append failure")
	}
	s.nextLogID++
	e.ID = s.nextLogID
	s.entries = append(s.entries, *e)
	return nil
}

func (s *memStore) Entries(_ context.Context) ([]Entry, error) {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) DeleteEntries(_ context.Context) error {
	s.entries = nil
	return nil
}
