package registry

import (
	"context"
	"iter"
)

// Handle is an opaque reference to a registry variable.
type Handle uint32

// InvalidHandle is returned by Resolve when a name does not exist.
const InvalidHandle Handle = 0

// EventKind discriminates the events delivered by a registry client.
type EventKind int

const (
	// EventModified signals that the subject variable's value changed.
	EventModified EventKind = iota + 1

	// EventCreated signals that the subject variable was created.
	EventCreated
)

// String returns the event kind name for diagnostics.
func (k EventKind) String() string {
	switch k {
	case EventModified:
		return "modified"
	case EventCreated:
		return "created"
	default:
		return "unknown"
	}
}

// Event is one notification delivered by the registry.
type Event struct {
	Kind    EventKind
	Subject Handle
}

// Entry is one variable snapshot from the dirty set. Entries are
// materialized per save cycle and discarded after being written.
type Entry struct {
	// Name is the variable identifier; never empty.
	Name string

	// InstanceID qualifies multiple instances of the same name.
	// Zero means no instance qualifier.
	InstanceID int

	// Value is the variable's typed value at enumeration time.
	Value Value
}

// Client is the variable registry interface consumed by the save
// service. The registry itself (creation, typing, dirty-flagging)
// lives behind this interface; savesvc only reads from it.
type Client interface {
	// Resolve looks up a variable handle by name. A name that does
	// not exist is an error (errors.ErrVarNotFound).
	Resolve(name string) (Handle, error)

	// SubscribeModified requests modification notifications for the
	// given handle. A rejected subscription is an error
	// (errors.ErrSubscribeRejected).
	SubscribeModified(h Handle) error

	// WaitEvent blocks until the next event is delivered, the context
	// is cancelled, or the client is closed. Events for all
	// variables may be delivered; callers filter by subject.
	WaitEvent(ctx context.Context) (Event, error)

	// Dirty returns a lazy, finite sequence over the variables
	// modified since the last save. Each call snapshots the dirty
	// set fresh; iteration order is the registry's own.
	Dirty() iter.Seq[Entry]

	// Close releases the registry connection. WaitEvent calls in
	// flight return an error.
	Close() error
}
