package reassign

import (
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/remote"
)

// Parent is an entity that owns children: a client or a task type.
type Parent struct {
	ID   string
	Name string
	// Aux is sent to the backend with every child re-pointed to this parent.
	Aux remote.Aux
}

// Child references exactly one parent.
type Child struct {
	ID    string
	Label string
}

// Session holds the pending resolutions for deleting one parent. It is owned
// by a single caller and is not safe for concurrent use.
type Session struct {
	ID       string
	Kind     domain.ParentKind
	Parent   Parent
	children []Child
	index    map[string]int
	state    map[string]Decision

	closed   bool
	progress progress
}

// progress tracks which commit steps already took effect, so a retried
// Commit resumes instead of repeating them.
type progress struct {
	localApplied        bool
	path                Path
	reassigned          []string
	deleted             []string
	skipped             []string
	removed             map[string]int64
	targets             map[string]Parent
	bulkSynced          bool
	childSynced         map[string]bool
	remoteParentDeleted bool
	localParentDeleted  bool
}

func newSession(id string, kind domain.ParentKind, parent Parent, children []Child) *Session {
	s := &Session{
		ID:       id,
		Kind:     kind,
		Parent:   parent,
		children: children,
		index:    make(map[string]int, len(children)),
		state:    make(map[string]Decision, len(children)),
	}
	for i, c := range children {
		s.index[c.ID] = i
	}
	s.progress.childSynced = make(map[string]bool)
	return s
}

// Children returns the children in session order.
func (s *Session) Children() []Child {
	out := make([]Child, len(s.children))
	copy(out, s.children)
	return out
}

// Resolution returns the current decision for childID.
func (s *Session) Resolution(childID string) (Decision, bool) {
	if _, ok := s.index[childID]; !ok {
		return Decision{}, false
	}
	return s.state[childID], true
}

// Unresolved returns the ids of children without a decision, in order.
func (s *Session) Unresolved() []string {
	var ids []string
	for _, c := range s.children {
		if s.state[c.ID].Kind == Unresolved {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// CanCommit reports whether every child is resolved. A parent without
// children can always be committed.
func (s *Session) CanCommit() bool {
	return len(s.Unresolved()) == 0
}

// Locked reports whether the local child mutations were already applied.
func (s *Session) Locked() bool {
	return s.progress.localApplied
}

// Closed reports whether the session was cancelled or finished.
func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) checkMutable() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.progress.localApplied {
		return ErrSessionLocked
	}
	return nil
}
