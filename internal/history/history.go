// Package history makes timeline edits reversible. Every mutation is a
// Command that captures the state it overwrites, executes against a
// ClipStore, and serializes to a change-log entry; the Manager keeps the
// undo/redo stacks backed by those persisted entries, so history survives a
// process restart.
//
// Commands are typed variants rather than free-form field maps: each action
// has its own payload struct, and Decode dispatches on the action tag with
// an exhaustive switch. Adding an action without a decode arm is a
// compile-review failure, not a runtime surprise for whoever hits undo.
package history

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/oklog/ulid/v2"

	"montage/internal/clip"
	"montage/internal/errors"
)

// Action identifies a command variant in the change log.
type Action string

const (
	ActionAddClip    Action = "add_clip"
	ActionMoveClip   Action = "move_clip"
	ActionResizeClip Action = "resize_clip"
	ActionDeleteClip Action = "delete_clip"
	ActionUpdateClip Action = "update_clip"
	ActionSplitClip  Action = "split_clip"
)

// EntityClips is the table name recorded on clip change-log entries.
const EntityClips = "clips"

// Entry is one persisted change-log row: an executed command's action tag
// plus the JSON snapshots needed to replay it in either direction. Entries
// are append-only; OldData and NewData are opaque until a command is
// rehydrated from them at undo/redo time.
type Entry struct {
	ID        int64           `json:"id"`
	OpID      string          `json:"op_id"`
	Entity    string          `json:"entity"`
	EntityID  int64           `json:"entity_id"`
	Action    Action          `json:"action"`
	OldData   json.RawMessage `json:"old_data,omitempty"`
	NewData   json.RawMessage `json:"new_data,omitempty"`
	CreatedAt int64           `json:"created_at"`
}

// ClipStore is the storage collaborator commands write through. Keeping it
// an interface here (the consumer side) means commands never import a
// concrete storage type.
type ClipStore interface {
	// InsertClip stores a new clip and returns its assigned id.
	InsertClip(ctx context.Context, c clip.Clip) (int64, error)

	// RestoreClip re-inserts a previously deleted clip under its original id.
	RestoreClip(ctx context.Context, c clip.Clip) error

	// UpdateClip applies a partial update to a stored clip.
	UpdateClip(ctx context.Context, id int64, f clip.Fields) error

	// DeleteClip removes a clip by id.
	DeleteClip(ctx context.Context, id int64) error
}

// LogStore persists change-log entries.
type LogStore interface {
	// AppendEntry persists a new entry and fills in its row id.
	AppendEntry(ctx context.Context, e *Entry) error

	// Entries returns all persisted entries, oldest first.
	Entries(ctx context.Context) ([]Entry, error)

	// DeleteEntries removes every persisted entry.
	DeleteEntries(ctx context.Context) error
}

// Command is one reversible unit of work. Execute applies the captured
// after-state, Undo the before-state; both go through the injected
// ClipStore. Snapshot serializes the two states for the change log.
//
// A command's supported lifecycle is constructed -> executed -> undone ->
// executed (redo), repeatable. Executing twice without an intervening undo
// is a caller bug and its effect is unspecified.
type Command interface {
	Action() Action
	Entity() string
	EntityID() int64
	Execute(ctx context.Context, store ClipStore) error
	Undo(ctx context.Context, store ClipStore) error
	Snapshot() (oldData, newData json.RawMessage, err error)
}

// Decode rehydrates a live command from a persisted entry. Unknown actions
// and payloads that fail to parse are surfaced as errors here, at undo/redo
// time, so loading a log with a bad row still succeeds.
func Decode(e Entry) (Command, error) {
	switch e.Action {
	case ActionAddClip:
		return decodeAddClip(e)
	case ActionMoveClip:
		return decodeMoveClip(e)
	case ActionResizeClip:
		return decodeResizeClip(e)
	case ActionDeleteClip:
		return decodeDeleteClip(e)
	case ActionUpdateClip:
		return decodeUpdateClip(e)
	case ActionSplitClip:
		return decodeSplitClip(e)
	default:
		return nil, errors.NewUnknownAction(string(e.Action))
	}
}

// NewOpID returns a ULID for a change-log entry. ULIDs sort by creation
// time, so op ids keep the audit trail ordered even across row id resets.
func NewOpID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// unmarshalSide parses one side of an entry's payload. A nil side decodes
// to the zero value: some actions legitimately omit old or new data.
func unmarshalSide(action Action, data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.NewMalformedData(string(action), err)
	}
	return nil
}

// malformed reports a payload that parsed but is structurally unusable.
func malformed(action Action, reason string) error {
	return errors.NewMalformedData(string(action), stderrors.New(reason))
}

// marshalSides serializes the before/after payloads of a command.
func marshalSides(old, new any) (json.RawMessage, json.RawMessage, error) {
	oldData, err := json.Marshal(old)
	if err != nil {
		return nil, nil, err
	}
	newData, err := json.Marshal(new)
	if err != nil {
		return nil, nil, err
	}
	return oldData, newData, nil
}
