package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/jackson-sweet/opsapp-sub001/internal/reassign"
)

// Prompter asks the user for input during interactive commands.
type Prompter interface {
	// Decide returns a decision for every child of parent.
	Decide(parent reassign.Parent, children []reassign.Child, targets []reassign.Parent) (map[string]reassign.Decision, error)
	Confirm(title, description string) (bool, error)
}

const (
	choiceDelete  = "delete"
	choiceEach    = "each"
	choiceMovePfx = "move:"
)

type huhPrompter struct{}

func (huhPrompter) Decide(parent reassign.Parent, children []reassign.Child, targets []reassign.Parent) (map[string]reassign.Decision, error) {
	var all string
	options := make([]huh.Option[string], 0, len(targets)+2)
	for _, t := range targets {
		options = append(options, huh.NewOption("Move all to "+t.Name, choiceMovePfx+t.ID))
	}
	options = append(options,
		huh.NewOption(fmt.Sprintf("Delete all %d", len(children)), choiceDelete),
		huh.NewOption("Decide for each", choiceEach),
	)

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("%s has %d linked items", parent.Name, len(children))).
			Description(childPreview(children)).
			Options(options...).
			Value(&all),
	)).WithTheme(opsHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return nil, err
	}

	decisions := make(map[string]reassign.Decision, len(children))
	if all != choiceEach {
		for _, c := range children {
			decisions[c.ID] = decisionFor(all)
		}
		return decisions, nil
	}

	perChild := make([]string, len(children))
	fields := make([]huh.Field, len(children))
	for i, c := range children {
		opts := make([]huh.Option[string], 0, len(targets)+1)
		for _, t := range targets {
			opts = append(opts, huh.NewOption("→ "+t.Name, choiceMovePfx+t.ID))
		}
		opts = append(opts, huh.NewOption("Delete", choiceDelete))
		fields[i] = huh.NewSelect[string]().Title(c.Label).Options(opts...).Value(&perChild[i])
	}
	form = huh.NewForm(huh.NewGroup(fields...)).WithTheme(opsHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return nil, err
	}
	for i, c := range children {
		decisions[c.ID] = decisionFor(perChild[i])
	}
	return decisions, nil
}

func (huhPrompter) Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).WithTheme(opsHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}

func decisionFor(choice string) reassign.Decision {
	if id, ok := strings.CutPrefix(choice, choiceMovePfx); ok {
		return reassign.ReassignTo(id)
	}
	return reassign.MarkForDeletion()
}

// childPreview lists the first few child labels.
func childPreview(children []reassign.Child) string {
	const maxShown = 5
	labels := make([]string, 0, maxShown)
	for i, c := range children {
		if i == maxShown {
			labels = append(labels, fmt.Sprintf("and %d more", len(children)-maxShown))
			break
		}
		labels = append(labels, c.Label)
	}
	return strings.Join(labels, ", ")
}
