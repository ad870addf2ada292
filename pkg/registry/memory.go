package registry

import (
	"context"
	"iter"
	"sync"

	"github.com/arthur-debert/savesvc/pkg/errors"
)

// eventBuffer bounds the number of undelivered events. A subscriber
// that lags further behind loses the oldest events, matching the
// best-effort queueing of OS-level signal delivery.
const eventBuffer = 64

// variable is one registry slot.
type variable struct {
	handle     Handle
	name       string
	instanceID int
	value      Value
	dirty      bool
}

// Memory is an in-process variable registry implementing Client.
// It backs tests and the embedded deployment mode where savesvc and
// the variable owners share a process.
type Memory struct {
	mu         sync.Mutex
	vars       []*variable
	byHandle   map[Handle]*variable
	byName     map[string]*variable
	next       Handle
	events     chan Event
	subscribed map[Handle]bool
	done       chan struct{}
	closed     bool
}

var _ Client = (*Memory)(nil)

// NewMemory creates an empty in-process registry.
func NewMemory() *Memory {
	return &Memory{
		byHandle:   make(map[Handle]*variable),
		byName:     make(map[string]*variable),
		next:       1,
		events:     make(chan Event, eventBuffer),
		subscribed: make(map[Handle]bool),
		done:       make(chan struct{}),
	}
}

// Define creates a variable with no instance qualifier.
func (m *Memory) Define(name string, v Value) Handle {
	return m.DefineInstance(name, 0, v)
}

// DefineInstance creates a variable with an instance qualifier.
// Defining a name that already exists returns the existing handle.
func (m *Memory) DefineInstance(name string, instanceID int, v Value) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing := m.lookup(name, instanceID); existing != nil {
		return existing.handle
	}

	va := &variable{
		handle:     m.next,
		name:       name,
		instanceID: instanceID,
		value:      v,
	}
	m.next++
	m.vars = append(m.vars, va)
	m.byHandle[va.handle] = va
	if instanceID == 0 {
		m.byName[name] = va
	}

	m.emit(Event{Kind: EventCreated, Subject: va.handle})
	return va.handle
}

// Set updates a variable's value, marks it dirty, and emits a
// modified event.
func (m *Memory) Set(name string, v Value) error {
	return m.SetInstance(name, 0, v)
}

// SetInstance updates an instance-qualified variable.
func (m *Memory) SetInstance(name string, instanceID int, v Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	va := m.lookup(name, instanceID)
	if va == nil {
		return errors.Newf(errors.ErrVarNotFound, "cannot set unknown variable %q", name)
	}

	va.value = v
	va.dirty = true
	m.emit(Event{Kind: EventModified, Subject: va.handle})
	return nil
}

// Touch emits a modified event for a variable without changing its
// value or dirty flag. This is how a trigger variable is fired.
func (m *Memory) Touch(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	va := m.byName[name]
	if va == nil {
		return errors.Newf(errors.ErrVarNotFound, "cannot touch unknown variable %q", name)
	}

	m.emit(Event{Kind: EventModified, Subject: va.handle})
	return nil
}

// ClearDirty drops the dirty flag on every variable.
func (m *Memory) ClearDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, va := range m.vars {
		va.dirty = false
	}
}

// Resolve implements Client.
func (m *Memory) Resolve(name string) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	va := m.byName[name]
	if va == nil {
		return InvalidHandle, errors.Newf(errors.ErrVarNotFound, "cannot find variable %q", name)
	}
	return va.handle, nil
}

// SubscribeModified implements Client.
func (m *Memory) SubscribeModified(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New(errors.ErrRegistryUnavailable, "registry is closed")
	}
	if _, ok := m.byHandle[h]; !ok {
		return errors.Newf(errors.ErrSubscribeRejected, "no variable for handle %d", h)
	}
	m.subscribed[h] = true
	return nil
}

// WaitEvent implements Client.
func (m *Memory) WaitEvent(ctx context.Context) (Event, error) {
	select {
	case ev := <-m.events:
		return ev, nil
	case <-m.done:
		return Event{}, errors.New(errors.ErrRegistryUnavailable, "registry is closed")
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Dirty implements Client. The snapshot is taken under the lock; the
// yielded entries carry copied values so the caller never observes a
// concurrent mutation.
func (m *Memory) Dirty() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		m.mu.Lock()
		var snapshot []Entry
		for _, va := range m.vars {
			if !va.dirty {
				continue
			}
			snapshot = append(snapshot, Entry{
				Name:       va.name,
				InstanceID: va.instanceID,
				Value:      va.value,
			})
		}
		m.mu.Unlock()

		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}

// Close implements Client.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

// lookup finds a variable by name and instance. Caller holds the lock.
func (m *Memory) lookup(name string, instanceID int) *variable {
	if instanceID == 0 {
		return m.byName[name]
	}
	for _, va := range m.vars {
		if va.name == name && va.instanceID == instanceID {
			return va
		}
	}
	return nil
}

// emit queues an event, dropping the oldest one when the buffer is
// full. Caller holds the lock.
func (m *Memory) emit(ev Event) {
	if m.closed {
		return
	}
	for {
		select {
		case m.events <- ev:
			return
		default:
		}
		select {
		case <-m.events:
		default:
		}
	}
}
