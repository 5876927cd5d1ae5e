package formatter

import (
	"fmt"
	"strings"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/dupcheck"
	"github.com/jackson-sweet/opsapp-sub001/internal/service"
)

// FormatClientList renders clients with their project counts.
func FormatClientList(clients []*domain.Client, projectCounts map[string]int) string {
	return RenderBox("Clients", clientTable(clients, projectCounts))
}

// FormatClientGroups renders the alphabetic client index.
func FormatClientGroups(groups []service.ClientGroup, projectCounts map[string]int) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(StyleHeader.Render(g.Initial))
		b.WriteString("\n")
		for _, c := range g.Clients {
			fmt.Fprintf(&b, "  %s  %s  %s\n", TruncID(c.ID), Bold(c.Name), Dim(projectCountLabel(projectCounts[c.ID])))
		}
	}
	return RenderBox("Clients", b.String())
}

func clientTable(clients []*domain.Client, projectCounts map[string]int) string {
	headers := []string{"ID", "NAME", "EMAIL", "PHONE", "PROJECTS"}
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			TruncID(c.ID),
			Bold(c.Name),
			OrDash(c.Email),
			OrDash(c.PhoneNumber),
			fmt.Sprintf("%d", projectCounts[c.ID]),
		})
	}
	return RenderTable(headers, rows)
}

// FormatClientDetail renders one client and its projects.
func FormatClientDetail(c *domain.Client, projects []*domain.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Bold(c.Name), TruncID(c.ID))
	fmt.Fprintf(&b, "%s %s\n", Dim("Email:  "), OrDash(c.Email))
	fmt.Fprintf(&b, "%s %s\n", Dim("Phone:  "), OrDash(c.PhoneNumber))
	fmt.Fprintf(&b, "%s %s\n", Dim("Address:"), OrDash(c.Address))
	if c.Notes != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Notes:  "), c.Notes)
	}
	b.WriteString("\n")
	b.WriteString(Header(projectCountLabel(len(projects))))
	b.WriteString("\n")
	if len(projects) == 0 {
		b.WriteString(Dim("No projects."))
	} else {
		b.WriteString(projectTable(projects, nil))
	}
	return RenderBox("Client", b.String())
}

// FormatDuplicateWarning lists existing entities that resemble name.
func FormatDuplicateWarning(entity, name string, matches []dupcheck.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q looks like an existing %s:\n", StyleYellow.Render("⚠"), name, entity)
	for _, m := range matches {
		fmt.Fprintf(&b, "  %s  %s  %s\n", TruncID(m.Candidate.ID), Bold(m.Candidate.Name),
			Dim(fmt.Sprintf("%.0f%% %s", m.Score*100, m.Reason)))
	}
	return b.String()
}

func projectCountLabel(n int) string {
	if n == 1 {
		return "1 project"
	}
	return fmt.Sprintf("%d projects", n)
}
