package formatter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackson-sweet/opsapp-sub001/internal/reassign"
)

// FormatDeletePlan summarizes what committing the session will do.
// targetNames maps parent id to display name.
func FormatDeletePlan(s *reassign.Session, targetNames map[string]string) string {
	children := s.Children()
	var b strings.Builder
	fmt.Fprintf(&b, "Delete %s %s", kindLabel(string(s.Kind)), Bold(s.Parent.Name))
	if len(children) == 0 {
		b.WriteString(Dim(" (no children)"))
		return RenderBox("Delete", b.String())
	}
	b.WriteString("\n\n")

	headers := []string{"CHILD", "ACTION"}
	rows := make([][]string, 0, len(children))
	for _, c := range children {
		d, _ := s.Resolution(c.ID)
		rows = append(rows, []string{c.Label, decisionLabel(d, targetNames)})
	}
	b.WriteString(RenderTable(headers, rows))
	return RenderBox("Delete", b.String())
}

func decisionLabel(d reassign.Decision, targetNames map[string]string) string {
	switch d.Kind {
	case reassign.Reassigned:
		name := targetNames[d.TargetID]
		if name == "" {
			name = d.TargetID
		}
		return StyleGreen.Render("→ " + name)
	case reassign.MarkedForDeletion:
		return StyleRed.Render("✖ delete")
	default:
		return StyleYellow.Render("? unresolved")
	}
}

// FormatCommitResult reports a finished deletion.
func FormatCommitResult(res *reassign.CommitResult, parentName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Deleted %s %s", StyleGreen.Render("✔"), kindLabel(string(res.Kind)), Bold(parentName))
	var parts []string
	if n := len(res.Reassigned); n > 0 {
		parts = append(parts, fmt.Sprintf("%d reassigned", n))
	}
	if n := len(res.Deleted); n > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", n))
	}
	if n := len(res.Skipped); n > 0 {
		parts = append(parts, fmt.Sprintf("%d already gone", n))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	if len(res.Removed) > 0 {
		tables := make([]string, 0, len(res.Removed))
		for table := range res.Removed {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		removed := make([]string, 0, len(tables))
		for _, table := range tables {
			removed = append(removed, fmt.Sprintf("%s=%d", table, res.Removed[table]))
		}
		b.WriteString("\n  " + Dim("removed rows: "+strings.Join(removed, " ")))
	}
	return b.String()
}

// FormatCommitError reports the step a failed commit stopped at.
func FormatCommitError(err error) string {
	var ce *reassign.CommitError
	if !errors.As(err, &ce) {
		return fmt.Sprintf("%s %v", StyleRed.Render("✖"), err)
	}
	return fmt.Sprintf("%s %s failed: %v", StyleRed.Render("✖"), stepLabel(ce.Step), ce.Err)
}

func stepLabel(step reassign.Step) string {
	switch step {
	case reassign.StepLocalChildren:
		return "Updating children locally"
	case reassign.StepRemoteChildren:
		return "Syncing children to the server"
	case reassign.StepRemoteParent:
		return "Deleting on the server"
	case reassign.StepLocalParent:
		return "Deleting locally"
	default:
		return string(step)
	}
}

func kindLabel(kind string) string {
	return strings.ReplaceAll(kind, "_", " ")
}
