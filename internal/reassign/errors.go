package reassign

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget is returned when a reassignment target is the parent
	// being deleted or does not exist.
	ErrInvalidTarget = errors.New("invalid reassignment target")

	// ErrNotReady is returned by Commit while a child is unresolved or a child
	// was added to the parent after the session began.
	ErrNotReady = errors.New("session not ready to commit")

	// ErrStore wraps local persistence failures during Commit.
	ErrStore = errors.New("local store failure")

	// ErrSessionClosed is returned by every call on a cancelled or finished
	// session.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionLocked is returned when resolutions change after the local
	// child mutations were applied.
	ErrSessionLocked = errors.New("session locked: child changes already applied")

	// ErrUnknownChild is returned for a child id that is not part of the session.
	ErrUnknownChild = errors.New("unknown child")
)

// Step names the commit phase an error occurred in.
type Step string

const (
	StepLocalChildren  Step = "local_children"
	StepRemoteChildren Step = "remote_children"
	StepRemoteParent   Step = "remote_parent"
	StepLocalParent    Step = "local_parent"
)

// CommitError reports the step a commit stopped at. Calling Commit again on
// the same session resumes from that step.
type CommitError struct {
	Step Step
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit stopped at %s: %v", e.Step, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
