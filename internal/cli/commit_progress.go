package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jackson-sweet/opsapp-sub001/internal/cli/formatter"
	"github.com/jackson-sweet/opsapp-sub001/internal/reassign"
)

type commitFunc func() (*reassign.CommitResult, error)

type commitDoneMsg struct {
	res *reassign.CommitResult
	err error
}

// commitModel shows a spinner while a commit runs. The commit itself is
// detached from cancellation, so ctrl+c only changes the label.
type commitModel struct {
	spinner spinner.Model
	label   string
	commit  commitFunc

	done bool
	res  *reassign.CommitResult
	err  error
}

func newCommitModel(label string, commit commitFunc) commitModel {
	return commitModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
		label:   label,
		commit:  commit,
	}
}

func (m commitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m commitModel) run() tea.Msg {
	res, err := m.commit()
	return commitDoneMsg{res: res, err: err}
}

func (m commitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case commitDoneMsg:
		m.done = true
		m.res, m.err = msg.res, msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.label = "Finishing, the deletion cannot be interrupted"
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m commitModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + formatter.Dim(m.label) + "\n"
}

// runCommit runs commit behind a spinner on interactive terminals and
// directly otherwise.
func runCommit(app *App, w io.Writer, label string, commit commitFunc) (*reassign.CommitResult, error) {
	if !app.interactive() || app.NoProgress {
		return commit()
	}
	final, err := tea.NewProgram(newCommitModel(label, commit), tea.WithOutput(w)).Run()
	if m, ok := final.(commitModel); ok && m.done {
		return m.res, m.err
	}
	if err != nil {
		return nil, fmt.Errorf("progress display: %w", err)
	}
	return nil, errors.New("progress display exited before the commit finished")
}
