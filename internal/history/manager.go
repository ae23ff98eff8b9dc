package history

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"montage/internal/errors"
)

// Flags is the observable undo/redo availability, recomputed on every stack
// mutation.
type Flags struct {
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// Manager owns the undo and redo stacks. Every public operation is
// mutex-serialized: the stacks are read-then-write state, so exactly one
// operation may be in flight at a time.
//
// Stacks hold persisted entries, not live commands. An entry is rehydrated
// into a command only when it is undone or redone, so a log row with an
// unknown action or corrupt payload costs nothing until someone actually
// reaches it.
type Manager struct {
	mu    sync.Mutex
	clips ClipStore
	logs  LogStore
	undo  []Entry
	redo  []Entry
	log   zerolog.Logger

	onChange func(Flags)
}

// NewManager wires a manager to its storage collaborators.
func NewManager(clips ClipStore, logs LogStore, log zerolog.Logger) *Manager {
	return &Manager{clips: clips, logs: logs, log: log}
}

// OnChange registers a flags observer, called after every stack mutation.
// fn runs while the manager's lock is held; it must not call back into the
// manager.
func (m *Manager) OnChange(fn func(Flags)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Load fills the undo stack from the persisted change log, oldest first.
// The redo stack always starts empty: the log records what happened, not
// what was un-happened.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.logs.Entries(ctx)
	if err != nil {
		return err
	}
	m.undo = entries
	m.redo = nil
	m.notify()
	m.log.Debug().Int("entries", len(entries)).Msg("history loaded")
	return nil
}

// Execute runs a command, persists its change-log entry, and pushes the
// persisted entry onto the undo stack. Any new action invalidates the
// future: the redo stack is cleared.
//
// Ordering is persist-then-push. A crash after the storage mutation but
// before the log append loses only the undo record for that one edit; a
// crash after the append is fully recoverable by Load.
func (m *Manager) Execute(ctx context.Context, cmd Command) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := cmd.Execute(ctx, m.clips); err != nil {
		return nil, err
	}

	oldData, newData, err := cmd.Snapshot()
	if err != nil {
		// The storage mutation already happened; only its history frame
		// is lost.
		m.log.Error().Err(err).Str("action", string(cmd.Action())).
			Msg("command snapshot failed, history frame dropped")
		return nil, errors.NewInternal(err)
	}

	opID, err := NewOpID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	e := Entry{
		OpID:      opID,
		Entity:    cmd.Entity(),
		EntityID:  cmd.EntityID(),
		Action:    cmd.Action(),
		OldData:   oldData,
		NewData:   newData,
		CreatedAt: time.Now().Unix(),
	}
	if err := m.logs.AppendEntry(ctx, &e); err != nil {
		m.log.Error().Err(err).Str("action", string(cmd.Action())).
			Msg("change log append failed, history frame dropped")
		return nil, err
	}

	m.undo = append(m.undo, e)
	m.redo = nil
	m.notify()

	m.log.Debug().Str("op_id", e.OpID).Str("action", string(e.Action)).
		Int64("entity_id", e.EntityID).Msg("command executed")
	return &e, nil
}

// Undo reverses the most recent entry and moves it to the redo stack.
// Returns (nil, nil) when there is nothing to undo.
//
// Decoding happens before the frame moves, so an unknown action or corrupt
// payload leaves both stacks untouched. A command that decodes but fails to
// apply still moves the frame: history stays consistent with itself even
// when it has diverged from storage, and the error tells the caller so.
func (m *Manager) Undo(ctx context.Context) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.undo) == 0 {
		return nil, nil
	}
	e := m.undo[len(m.undo)-1]

	cmd, err := Decode(e)
	if err != nil {
		return nil, err
	}

	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, e)
	m.notify()

	if err := cmd.Undo(ctx, m.clips); err != nil {
		m.log.Warn().Err(err).Str("op_id", e.OpID).Str("action", string(e.Action)).
			Msg("undo failed after frame moved to redo stack")
		return &e, err
	}

	m.log.Debug().Str("op_id", e.OpID).Str("action", string(e.Action)).Msg("undone")
	return &e, nil
}

// Redo re-applies the most recently undone entry and moves it back to the
// undo stack. Returns (nil, nil) when there is nothing to redo. Failure
// semantics mirror Undo.
func (m *Manager) Redo(ctx context.Context) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.redo) == 0 {
		return nil, nil
	}
	e := m.redo[len(m.redo)-1]

	cmd, err := Decode(e)
	if err != nil {
		return nil, err
	}

	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, e)
	m.notify()

	if err := cmd.Execute(ctx, m.clips); err != nil {
		m.log.Warn().Err(err).Str("op_id", e.OpID).Str("action", string(e.Action)).
			Msg("redo failed after frame moved to undo stack")
		return &e, err
	}

	m.log.Debug().Str("op_id", e.OpID).Str("action", string(e.Action)).Msg("redone")
	return &e, nil
}

// ClearHistory deletes every persisted entry and empties both stacks. Runs
// under the same lock as undo/redo, so no operation can observe rows gone
// but stacks populated, or the reverse.
func (m *Manager) ClearHistory(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.logs.DeleteEntries(ctx); err != nil {
		return err
	}
	m.undo = nil
	m.redo = nil
	m.notify()
	m.log.Debug().Msg("history cleared")
	return nil
}

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Flags returns both availability flags in one consistent read.
func (m *Manager) Flags() Flags {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Flags{CanUndo: len(m.undo) > 0, CanRedo: len(m.redo) > 0}
}

// Depth returns the current stack sizes.
func (m *Manager) Depth() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange(Flags{CanUndo: len(m.undo) > 0, CanRedo: len(m.redo) > 0})
	}
}
