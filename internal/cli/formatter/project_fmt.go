package formatter

import (
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

// FormatProjectList renders projects. clientNames maps client id to name;
// a nil map omits the client column.
func FormatProjectList(projects []*domain.Project, clientNames map[string]string) string {
	return RenderBox("Projects", projectTable(projects, clientNames))
}

func projectTable(projects []*domain.Project, clientNames map[string]string) string {
	headers := []string{"ID", "TITLE", "STATUS", "SCHEDULE"}
	if clientNames != nil {
		headers = []string{"ID", "TITLE", "CLIENT", "STATUS", "SCHEDULE"}
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		row := []string{TruncID(p.ID), Bold(p.Title)}
		if clientNames != nil {
			row = append(row, OrDash(clientNames[p.ClientID]))
		}
		row = append(row, ProjectStatusPill(p.Status), DateRange(p.StartDate, p.EndDate))
		rows = append(rows, row)
	}
	return RenderTable(headers, rows)
}
