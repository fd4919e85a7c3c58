package service

import (
	"context"
	"sync"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// MoveDirection names the two directions an entity can move within a list.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// PendingList drives an ordered working set of entities through single-shot
// remote actions. Each entity is keyed by a unique id and carries at most
// one in-flight action at a time; a successful action removes or updates
// the entry in the same transition that drops its marker, so no refetch is
// needed. The list and its markers are owned exclusively by this type and
// mutated only through its methods.
type PendingList[T any] struct {
	key func(T) string

	mu         sync.Mutex
	items      []T
	inflight   map[string]struct{}
	loaded     bool
	loadSeq    uint64
	appliedSeq uint64
}

// NewPendingList returns an empty, not yet loaded list whose entities are
// keyed by the given id function.
func NewPendingList[T any](key func(T) string) *PendingList[T] {
	return &PendingList[T]{
		key:      key,
		inflight: make(map[string]struct{}),
	}
}

// BeginLoad opens a load cycle and returns its sequence number. Pass the
// number to CompleteLoad; of overlapping cycles only the highest sequence
// is applied, so a slow stale response can never clobber a fresher one.
func (l *PendingList[T]) BeginLoad() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadSeq++
	return l.loadSeq
}

// CompleteLoad replaces the whole list with the fetched items and clears
// every in-flight marker. Returns false when a fresher load already landed,
// in which case nothing is mutated.
func (l *PendingList[T]) CompleteLoad(seq uint64, items []T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq <= l.appliedSeq {
		return false
	}
	l.appliedSeq = seq
	l.items = make([]T, len(items))
	copy(l.items, items)
	l.inflight = make(map[string]struct{})
	l.loaded = true
	return true
}

// Load runs one full load cycle against fetch. On fetch error the list and
// its markers stay untouched.
func (l *PendingList[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	seq := l.BeginLoad()
	items, err := fetch(ctx)
	if err != nil {
		return err
	}
	l.CompleteLoad(seq, items)
	return nil
}

// Invoke runs perform against the entity and removes it from the list on
// success. A second call while the entity is in flight is rejected with
// domain.ErrAlreadyInFlight without reaching perform; an id not present in
// the list is a no-op. On failure the entry stays, only the marker clears,
// and the error is returned for display.
func (l *PendingList[T]) Invoke(ctx context.Context, id string, perform func(context.Context, string) error) error {
	if !l.begin(id) {
		return domain.ErrAlreadyInFlight
	}
	if _, ok := l.Get(id); !ok {
		l.end(id)
		return nil
	}

	err := perform(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inflight, id)
	if err != nil {
		return err
	}
	l.removeLocked(id)
	return nil
}

// InvokeUpdate runs perform against the entity and replaces the entry with
// the value perform returned. Guarding and failure behaviour match Invoke.
func (l *PendingList[T]) InvokeUpdate(ctx context.Context, id string, perform func(context.Context, string) (T, error)) error {
	if !l.begin(id) {
		return domain.ErrAlreadyInFlight
	}
	if _, ok := l.Get(id); !ok {
		l.end(id)
		return nil
	}

	updated, err := perform(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inflight, id)
	if err != nil {
		return err
	}
	for i := range l.items {
		if l.key(l.items[i]) == id {
			l.items[i] = updated
			break
		}
	}
	return nil
}

// Move swaps the entity with its immediate neighbour in the given
// direction. A pure transform: boundaries are a no-op and neither
// identities nor in-flight markers change. Reports whether a swap happened.
func (l *PendingList[T]) Move(id string, dir MoveDirection) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return false
	}
	switch dir {
	case MoveUp:
		if i == 0 {
			return false
		}
		l.items[i-1], l.items[i] = l.items[i], l.items[i-1]
	case MoveDown:
		if i == len(l.items)-1 {
			return false
		}
		l.items[i], l.items[i+1] = l.items[i+1], l.items[i]
	default:
		return false
	}
	return true
}

// Append adds the entity to the end of the list. False when an entity with
// the same id is already present.
func (l *PendingList[T]) Append(item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexLocked(l.key(item)) >= 0 {
		return false
	}
	l.items = append(l.items, item)
	return true
}

// Remove deletes the entity locally without any remote action. Its
// in-flight marker, if any, is dropped with it. Reports whether an entity
// was removed.
func (l *PendingList[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexLocked(id) < 0 {
		return false
	}
	l.removeLocked(id)
	delete(l.inflight, id)
	return true
}

// Items returns a copy of the current list in order.
func (l *PendingList[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Get returns the entity with the given id.
func (l *PendingList[T]) Get(id string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of entities currently held.
func (l *PendingList[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Loaded reports whether a load has completed. An empty loaded list is a
// distinct state from one that was never loaded.
func (l *PendingList[T]) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// InFlight reports whether the entity currently carries an action marker.
func (l *PendingList[T]) InFlight(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.inflight[id]
	return ok
}

// begin claims the in-flight marker for id. False when already claimed.
func (l *PendingList[T]) begin(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.inflight[id]; busy {
		return false
	}
	l.inflight[id] = struct{}{}
	return true
}

func (l *PendingList[T]) end(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inflight, id)
}

func (l *PendingList[T]) indexLocked(id string) int {
	for i := range l.items {
		if l.key(l.items[i]) == id {
			return i
		}
	}
	return -1
}

func (l *PendingList[T]) removeLocked(id string) {
	if i := l.indexLocked(id); i >= 0 {
		l.items = append(l.items[:i], l.items[i+1:]...)
	}
}
