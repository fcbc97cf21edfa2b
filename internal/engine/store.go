package engine

import (
	"sync"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

// EvalStore is the single source of truth for computed canvas state. It
// holds one immutable-per-commit EvalSnapshot which is replaced wholesale;
// nothing ever edits a committed snapshot field by field.
type EvalStore struct {
	mu      sync.RWMutex
	current *domain.EvalSnapshot

	subMu   sync.Mutex
	subs    map[int]func(*domain.EvalSnapshot)
	nextSub int
}

// NewEvalStore creates a store holding an empty committed snapshot.
func NewEvalStore() *EvalStore {
	return &EvalStore{
		current: domain.NewEvalSnapshot(),
		subs:    make(map[int]func(*domain.EvalSnapshot)),
	}
}

// Current returns the committed snapshot without copying. Callers must
// treat it as read-only; it is the basis batches capture at start.
func (s *EvalStore) Current() *domain.EvalSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Snapshot returns a deep copy safe for the host to hold on to.
func (s *EvalStore) Snapshot() *domain.EvalSnapshot {
	return s.Current().Clone()
}

// Replace swaps the committed snapshot unconditionally. Used for
// structural application, which always happens at the freshest version.
// Subscriber notification is returned as a deferred func: callers invoke
// it once their own locks are released, so a callback is always free to
// reenter the engine.
func (s *EvalStore) Replace(next *domain.EvalSnapshot) (notify func()) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return func() { s.notify(next) }
}

// CommitIf swaps the committed snapshot only when stillCurrent reports the
// committing batch has not been superseded. The check and the swap happen
// under the same lock, so two racing batches can never both win.
func (s *EvalStore) CommitIf(next *domain.EvalSnapshot, stillCurrent func() bool) bool {
	s.mu.Lock()
	if !stillCurrent() {
		s.mu.Unlock()
		return false
	}
	s.current = next
	s.mu.Unlock()
	s.notify(next)
	return true
}

// Subscribe registers a callback invoked with a copy of every newly
// committed snapshot. The returned function cancels the subscription.
func (s *EvalStore) Subscribe(fn func(*domain.EvalSnapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *EvalStore) notify(snap *domain.EvalSnapshot) {
	s.subMu.Lock()
	fns := make([]func(*domain.EvalSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	if len(fns) == 0 {
		return
	}
	// One shared copy; subscribers must not mutate it.
	view := snap.Clone()
	for _, fn := range fns {
		fn(view)
	}
}
