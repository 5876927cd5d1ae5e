package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/service"
)

// resolveID matches input against ids: an exact id wins, otherwise input
// must be the prefix of exactly one id.
func resolveID(entity, input string, ids []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s ID is required", entity)
	}
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", entity, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", entity, input, len(matches))
	}
}

func resolveClientID(ctx context.Context, app *App, input string) (string, error) {
	clients, err := app.Clients.List(ctx, service.ClientFilter{})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}
	return resolveID("client", input, ids)
}

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	projects, err := app.Projects.List(ctx, service.ProjectFilter{})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return resolveID("project", input, ids)
}

func resolveTaskTypeID(ctx context.Context, app *App, input string) (string, error) {
	types, err := app.TaskTypes.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(types))
	for i, t := range types {
		ids[i] = t.ID
	}
	return resolveID("task type", input, ids)
}

// resolveParentID resolves input against the parents of kind.
func resolveParentID(ctx context.Context, app *App, kind domain.ParentKind, input string) (string, error) {
	if kind == domain.KindTaskType {
		return resolveTaskTypeID(ctx, app, input)
	}
	return resolveClientID(ctx, app, input)
}

func listName(kind domain.ParentKind) string {
	if kind == domain.KindTaskType {
		return "task type"
	}
	return "client"
}
