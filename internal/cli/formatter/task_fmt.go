package formatter

import (
	"fmt"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

// FormatTaskTypeList renders task types with their task counts.
func FormatTaskTypeList(types []*domain.TaskType, taskCounts map[string]int) string {
	headers := []string{"ID", "DISPLAY", "COLOR", "ORDER", "TASKS"}
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		name := Bold(t.Display)
		if t.IsDefault {
			name += Dim(" (default)")
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			name,
			Swatch(t.Color),
			fmt.Sprintf("%d", t.DisplayOrder),
			fmt.Sprintf("%d", taskCounts[t.ID]),
		})
	}
	return RenderBox("Task Types", RenderTable(headers, rows))
}

// FormatTaskList renders tasks. typeNames maps task type id to display name.
func FormatTaskList(tasks []*domain.Task, typeNames map[string]string) string {
	headers := []string{"#", "ID", "TYPE", "STATUS", "NOTES"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.TaskIndex),
			TruncID(t.ID),
			OrDash(typeNames[t.TaskTypeID]),
			TaskStatusPill(t.Status),
			OrDash(t.Notes),
		})
	}
	return RenderBox("Tasks", RenderTable(headers, rows))
}
