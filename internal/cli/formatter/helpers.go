package formatter

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	content = strings.TrimRight(content, "\n")
	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// OrDash renders empty values as a dim "--".
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}

// DateRange renders a project's schedule, "--" when unscheduled.
func DateRange(start, end *time.Time) string {
	const layout = "Jan 2, 2006"
	switch {
	case start == nil && end == nil:
		return Dim("--")
	case end == nil:
		return start.Format(layout)
	case start == nil:
		return "until " + end.Format(layout)
	default:
		return start.Format(layout) + " – " + end.Format(layout)
	}
}

// ProjectStatusPill returns a colored status indicator for a project.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectRFQ:
		return StyleBlue.Render("○ RFQ")
	case domain.ProjectEstimated:
		return StyleBlue.Render("◐ Estimated")
	case domain.ProjectAccepted:
		return StyleYellow.Render("◉ Accepted")
	case domain.ProjectInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectClosed:
		return StyleDim.Render("■ Closed")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// TaskStatusPill returns a colored status indicator for a task.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskBooked:
		return StyleBlue.Render("○ Booked")
	case domain.TaskInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.TaskCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.TaskCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}
