package cli

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jackson-sweet/opsapp-sub001/internal/reassign"
	"github.com/jackson-sweet/opsapp-sub001/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitModel_DoneQuits(t *testing.T) {
	m := newCommitModel("Deleting client Acme", nil)
	assert.Contains(t, m.View(), "Deleting client Acme")

	res := &reassign.CommitResult{ParentID: "c1"}
	next, cmd := m.Update(commitDoneMsg{res: res})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	done := next.(commitModel)
	assert.True(t, done.done)
	assert.Same(t, res, done.res)
	assert.Empty(t, done.View())
}

func TestCommitModel_CtrlCDoesNotQuit(t *testing.T) {
	m := newCommitModel("Deleting client Acme", nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	updated := next.(commitModel)
	assert.False(t, updated.done)
	assert.Contains(t, updated.View(), "cannot be interrupted")
}

func TestCommitModel_RunReportsCommitOutcome(t *testing.T) {
	m := newCommitModel("x", func() (*reassign.CommitResult, error) {
		return nil, assert.AnError
	})

	msg := m.run()
	done, ok := msg.(commitDoneMsg)
	require.True(t, ok)
	assert.ErrorIs(t, done.err, assert.AnError)
}

func TestRunCommit_NonInteractiveRunsDirectly(t *testing.T) {
	app := &App{}
	calls := 0
	res, err := runCommit(app, nil, "x", func() (*reassign.CommitResult, error) {
		calls++
		return &reassign.CommitResult{}, nil
	})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, 1, calls)
}

func TestCommitModel_DrivenToCompletion(t *testing.T) {
	res := &reassign.CommitResult{ParentID: "c1"}
	d := teatest.New(t, newCommitModel("Deleting client Acme", func() (*reassign.CommitResult, error) {
		return res, nil
	}), teatest.WithCmdTimeout(50*time.Millisecond))

	d.DrainInit()

	require.True(t, d.Quitting)
	final := d.Model.(commitModel)
	assert.True(t, final.done)
	assert.Same(t, res, final.res)
	assert.Empty(t, d.View())
}

func TestCommitModel_CtrlCWhileRunning(t *testing.T) {
	release := make(chan struct{})
	d := teatest.New(t, newCommitModel("Deleting client Acme", func() (*reassign.CommitResult, error) {
		<-release
		return &reassign.CommitResult{}, nil
	}))
	defer close(release)

	d.DrainInit()
	d.PressCtrlC()

	assert.False(t, d.Quitting)
	assert.Contains(t, d.View(), "cannot be interrupted")
}
