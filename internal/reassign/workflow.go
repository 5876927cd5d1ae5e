// Package reassign deletes a parent entity without orphaning its children.
// A Session collects one decision per child (re-point to another parent or
// delete with dependents); Commit applies them locally in one transaction,
// mirrors them to the system of record and then deletes the parent on both
// sides.
package reassign

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackson-sweet/opsapp-sub001/internal/db"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/eventbus"
	"github.com/jackson-sweet/opsapp-sub001/internal/logging"
	"github.com/jackson-sweet/opsapp-sub001/internal/remote"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
	"github.com/sirupsen/logrus"
)

// SystemOfRecord is the remote backend the local store is kept in step with.
type SystemOfRecord interface {
	UpdateChildParent(ctx context.Context, kind domain.ParentKind, childID, newParentID string, aux remote.Aux) error
	BulkUpdateChildParent(ctx context.Context, kind domain.ParentKind, childIDs []string, newParentID string, aux remote.Aux) error
	DeleteParent(ctx context.Context, kind domain.ParentKind, parentID string) error
}

// Notifier receives the completion event. Posting is fire-and-forget.
type Notifier interface {
	Post(ctx context.Context, name string, payload any)
}

type Deps struct {
	UoW      db.UnitOfWork
	Remote   SystemOfRecord
	Notifier Notifier
	Log      *logrus.Logger
	// Hierarchies defaults to the client and task type hierarchies.
	Hierarchies []Hierarchy
}

// Path is the strategy Commit used for the child mutations.
type Path string

const (
	PathEmpty        Path = "empty"
	PathBulkReassign Path = "bulk_reassign"
	PathBulkDelete   Path = "bulk_delete"
	PathMixed        Path = "mixed"
)

type CommitResult struct {
	Kind       domain.ParentKind
	ParentID   string
	Path       Path
	Reassigned []string
	Deleted    []string
	// Skipped lists children that disappeared before the commit.
	Skipped []string
	// Removed counts deleted rows per table, dependents included.
	Removed map[string]int64
}

// DeletedEvent is the payload of ClientDeleted and TaskTypeDeleted.
type DeletedEvent struct {
	Kind       domain.ParentKind
	ParentID   string
	ParentName string
	Reassigned int
	Deleted    int
}

// Workflow is stateless apart from its collaborators and may be shared.
type Workflow struct {
	uow         db.UnitOfWork
	remote      SystemOfRecord
	notifier    Notifier
	log         *logrus.Logger
	hierarchies map[domain.ParentKind]Hierarchy
}

func New(deps Deps) *Workflow {
	w := &Workflow{
		uow:         deps.UoW,
		remote:      deps.Remote,
		notifier:    deps.Notifier,
		log:         deps.Log,
		hierarchies: make(map[domain.ParentKind]Hierarchy),
	}
	if w.log == nil {
		w.log = logging.Nop()
	}
	hs := deps.Hierarchies
	if len(hs) == 0 {
		hs = []Hierarchy{ClientHierarchy{}, TaskTypeHierarchy{}}
	}
	for _, h := range hs {
		w.hierarchies[h.Kind()] = h
	}
	return w
}

func (w *Workflow) hierarchy(kind domain.ParentKind) (Hierarchy, error) {
	h, ok := w.hierarchies[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported parent kind %q", kind)
	}
	return h, nil
}

// BeginSession loads the parent and its children. Nothing is written.
func (w *Workflow) BeginSession(ctx context.Context, kind domain.ParentKind, parentID string) (*Session, error) {
	h, err := w.hierarchy(kind)
	if err != nil {
		return nil, err
	}

	var parent Parent
	var children []Child
	err = w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		parent, err = h.Parent(ctx, tx, parentID)
		if err != nil {
			return fmt.Errorf("loading %s: %w", kind, err)
		}
		children, err = h.Children(ctx, tx, parentID)
		if err != nil {
			return fmt.Errorf("listing children of %s %s: %w", kind, parentID, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	s := newSession(uuid.New().String(), kind, parent, children)
	w.log.WithFields(logrus.Fields{
		"session_id": s.ID,
		"kind":       kind,
		"parent_id":  parentID,
		"children":   len(children),
	}).Debug("reassign session started")
	return s, nil
}

// Targets returns every parent of the session's kind other than the one
// being deleted. An empty list is not an error.
func (w *Workflow) Targets(ctx context.Context, s *Session) ([]Parent, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	h, err := w.hierarchy(s.Kind)
	if err != nil {
		return nil, err
	}
	var targets []Parent
	err = w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		all, err := h.Parents(ctx, tx)
		if err != nil {
			return err
		}
		for _, p := range all {
			if p.ID != s.Parent.ID {
				targets = append(targets, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing targets: %w", ErrStore, err)
	}
	return targets, nil
}

// ResolveChild records a decision for one child, replacing any earlier one.
// On error the session is unchanged.
func (w *Workflow) ResolveChild(ctx context.Context, s *Session, childID string, d Decision) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if _, ok := s.index[childID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChild, childID)
	}
	switch d.Kind {
	case Reassigned:
		if err := w.validateTarget(ctx, s, d.TargetID); err != nil {
			return err
		}
	case MarkedForDeletion:
		d.TargetID = ""
	default:
		return fmt.Errorf("unsupported decision %s", d.Kind)
	}
	s.state[childID] = d
	return nil
}

// ApplyBulk reassigns every still unresolved child to targetID. Children
// resolved individually keep their decision.
func (w *Workflow) ApplyBulk(ctx context.Context, s *Session, targetID string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if err := w.validateTarget(ctx, s, targetID); err != nil {
		return err
	}
	for _, id := range s.Unresolved() {
		s.state[id] = ReassignTo(targetID)
	}
	return nil
}

// CancelSession discards the pending decisions. The store is not touched.
func (w *Workflow) CancelSession(s *Session) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	entry := w.log.WithFields(logrus.Fields{"session_id": s.ID, "kind": s.Kind, "parent_id": s.Parent.ID})
	if s.progress.localApplied {
		entry.Warn("reassign session cancelled after local changes were applied")
		return nil
	}
	entry.Debug("reassign session cancelled")
	return nil
}

func (w *Workflow) validateTarget(ctx context.Context, s *Session, targetID string) error {
	h, err := w.hierarchy(s.Kind)
	if err != nil {
		return err
	}
	return w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := checkTarget(ctx, tx, h, s, targetID)
		return err
	})
}

func checkTarget(ctx context.Context, tx db.DBTX, h Hierarchy, s *Session, targetID string) (Parent, error) {
	if targetID == "" {
		return Parent{}, fmt.Errorf("%w: no target given", ErrInvalidTarget)
	}
	if targetID == s.Parent.ID {
		return Parent{}, fmt.Errorf("%w: %s is the %s being deleted", ErrInvalidTarget, targetID, s.Kind)
	}
	p, err := h.Parent(ctx, tx, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return Parent{}, fmt.Errorf("%w: %s %s does not exist", ErrInvalidTarget, s.Kind, targetID)
	}
	if err != nil {
		return Parent{}, fmt.Errorf("%w: loading target: %w", ErrStore, err)
	}
	return p, nil
}

// Commit applies the session. The local child mutations commit in one
// transaction before any remote call. Commit detaches from ctx cancellation
// once started. On failure the session stays open and calling Commit again
// resumes at the step that failed.
func (w *Workflow) Commit(ctx context.Context, s *Session) (*CommitResult, error) {
	ctx = context.WithoutCancel(ctx)
	if s.closed {
		return nil, ErrSessionClosed
	}
	h, err := w.hierarchy(s.Kind)
	if err != nil {
		return nil, err
	}
	log := w.log.WithFields(logrus.Fields{"session_id": s.ID, "kind": s.Kind, "parent_id": s.Parent.ID})

	if !s.progress.localApplied {
		if n := len(s.Unresolved()); n > 0 {
			return nil, w.fail(s, log, StepLocalChildren, fmt.Errorf("%w: %d unresolved children", ErrNotReady, n))
		}
		if err := w.applyLocal(ctx, h, s); err != nil {
			return nil, w.fail(s, log, StepLocalChildren, err)
		}
		log.WithFields(logrus.Fields{
			"path":       s.progress.path,
			"reassigned": len(s.progress.reassigned),
			"deleted":    len(s.progress.deleted),
			"skipped":    len(s.progress.skipped),
		}).Debug("local child changes committed")
	}

	if err := w.syncRemoteChildren(ctx, s); err != nil {
		return nil, w.fail(s, log, StepRemoteChildren, err)
	}

	if !s.progress.remoteParentDeleted {
		if err := w.remote.DeleteParent(ctx, s.Kind, s.Parent.ID); err != nil {
			return nil, w.fail(s, log, StepRemoteParent, fmt.Errorf("deleting %s remotely: %w", s.Kind, err))
		}
		s.progress.remoteParentDeleted = true
		log.Debug("remote parent deleted")
	}

	if !s.progress.localParentDeleted {
		err := w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return h.DeleteParent(ctx, tx, s.Parent.ID)
		})
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, w.fail(s, log, StepLocalParent, fmt.Errorf("%w: deleting %s: %w", ErrStore, s.Kind, err))
		}
		s.progress.localParentDeleted = true
	}

	s.closed = true
	result := s.result()
	commitsTotal.WithLabelValues(string(s.Kind), string(result.Path), "ok").Inc()
	log.WithFields(logrus.Fields{
		"path":       result.Path,
		"reassigned": len(result.Reassigned),
		"deleted":    len(result.Deleted),
	}).Info("parent deleted")

	if w.notifier != nil {
		w.notifier.Post(ctx, eventName(s.Kind), DeletedEvent{
			Kind:       s.Kind,
			ParentID:   s.Parent.ID,
			ParentName: s.Parent.Name,
			Reassigned: len(result.Reassigned),
			Deleted:    len(result.Deleted),
		})
	}
	return result, nil
}

func (w *Workflow) fail(s *Session, log *logrus.Entry, step Step, err error) error {
	path := s.progress.path
	if path == "" {
		path = "none"
	}
	commitsTotal.WithLabelValues(string(s.Kind), string(path), "error").Inc()
	entry := log.WithField("step", step).WithError(err)
	if errors.Is(err, ErrNotReady) || errors.Is(err, ErrInvalidTarget) {
		entry.Warn("commit rejected")
	} else {
		entry.Error("commit failed")
	}
	return &CommitError{Step: step, Err: err}
}

// applyLocal re-reads the children inside the transaction, then re-points
// and deletes them according to the session's decisions.
func (w *Workflow) applyLocal(ctx context.Context, h Hierarchy, s *Session) error {
	var (
		applied []Child
		skipped []string
		path    Path
		targets map[string]Parent
		removed map[string]int64
	)
	err := w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		current, err := h.Children(ctx, tx, s.Parent.ID)
		if err != nil {
			return fmt.Errorf("%w: re-listing children: %w", ErrStore, err)
		}
		present := make(map[string]bool, len(current))
		for _, c := range current {
			if _, ok := s.index[c.ID]; !ok {
				return fmt.Errorf("%w: child %s was added after the session began", ErrNotReady, c.ID)
			}
			present[c.ID] = true
		}

		applied, skipped = nil, nil
		for _, c := range s.children {
			if present[c.ID] {
				applied = append(applied, c)
			} else {
				skipped = append(skipped, c.ID)
			}
		}

		targets = make(map[string]Parent)
		for _, c := range applied {
			d := s.state[c.ID]
			if d.Kind != Reassigned {
				continue
			}
			if _, seen := targets[d.TargetID]; seen {
				continue
			}
			p, err := checkTarget(ctx, tx, h, s, d.TargetID)
			if err != nil {
				return err
			}
			targets[d.TargetID] = p
		}

		path = s.pathFor(applied)
		removed = make(map[string]int64)
		reassign, del := s.partition(applied)

		switch path {
		case PathBulkReassign:
			if _, err := h.Repoint(ctx, tx, reassign, s.state[reassign[0]].TargetID); err != nil {
				return fmt.Errorf("%w: re-pointing children: %w", ErrStore, err)
			}
		case PathBulkDelete:
			if err := h.DeleteChildren(ctx, tx, del, removed); err != nil {
				return fmt.Errorf("%w: %w", ErrStore, err)
			}
		case PathMixed:
			for _, id := range reassign {
				if _, err := h.Repoint(ctx, tx, []string{id}, s.state[id].TargetID); err != nil {
					return fmt.Errorf("%w: re-pointing child %s: %w", ErrStore, id, err)
				}
			}
			if err := h.DeleteChildren(ctx, tx, del, removed); err != nil {
				return fmt.Errorf("%w: %w", ErrStore, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotReady) || errors.Is(err, ErrInvalidTarget) || errors.Is(err, ErrStore) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	reassign, del := s.partition(applied)
	s.progress = progress{
		localApplied: true,
		path:         path,
		reassigned:   reassign,
		deleted:      del,
		skipped:      skipped,
		removed:      removed,
		targets:      targets,
		childSynced:  make(map[string]bool),
	}
	kind := string(s.Kind)
	childrenTotal.WithLabelValues(kind, "reassigned").Add(float64(len(reassign)))
	childrenTotal.WithLabelValues(kind, "deleted").Add(float64(len(del)))
	return nil
}

// syncRemoteChildren mirrors the re-points to the system of record, skipping
// calls already acknowledged. Deleted children need no call: the backend
// removes children still attached to a deleted parent.
func (w *Workflow) syncRemoteChildren(ctx context.Context, s *Session) error {
	p := &s.progress
	switch p.path {
	case PathBulkReassign:
		if p.bulkSynced {
			return nil
		}
		target := p.targets[s.state[p.reassigned[0]].TargetID]
		if err := w.remote.BulkUpdateChildParent(ctx, s.Kind, p.reassigned, target.ID, target.Aux); err != nil {
			return fmt.Errorf("re-pointing %d children remotely: %w", len(p.reassigned), err)
		}
		p.bulkSynced = true
	case PathMixed:
		for _, id := range p.reassigned {
			if p.childSynced[id] {
				continue
			}
			target := p.targets[s.state[id].TargetID]
			if err := w.remote.UpdateChildParent(ctx, s.Kind, id, target.ID, target.Aux); err != nil {
				return fmt.Errorf("re-pointing child %s remotely: %w", id, err)
			}
			p.childSynced[id] = true
		}
	}
	return nil
}

func (s *Session) pathFor(applied []Child) Path {
	if len(applied) == 0 {
		return PathEmpty
	}
	reassign, del := s.partition(applied)
	switch {
	case len(del) == len(applied):
		return PathBulkDelete
	case len(reassign) == len(applied):
		target := s.state[reassign[0]].TargetID
		for _, id := range reassign[1:] {
			if s.state[id].TargetID != target {
				return PathMixed
			}
		}
		return PathBulkReassign
	default:
		return PathMixed
	}
}

func (s *Session) partition(children []Child) (reassign, del []string) {
	for _, c := range children {
		switch s.state[c.ID].Kind {
		case Reassigned:
			reassign = append(reassign, c.ID)
		case MarkedForDeletion:
			del = append(del, c.ID)
		}
	}
	return reassign, del
}

func (s *Session) result() *CommitResult {
	p := s.progress
	removed := make(map[string]int64, len(p.removed))
	for k, v := range p.removed {
		removed[k] = v
	}
	return &CommitResult{
		Kind:       s.Kind,
		ParentID:   s.Parent.ID,
		Path:       p.path,
		Reassigned: p.reassigned,
		Deleted:    p.deleted,
		Skipped:    p.skipped,
		Removed:    removed,
	}
}

func eventName(kind domain.ParentKind) string {
	if kind == domain.KindTaskType {
		return eventbus.TaskTypeDeleted
	}
	return eventbus.ClientDeleted
}
