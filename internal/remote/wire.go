package remote

import (
	"fmt"
	"net/url"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

// Aux carries denormalized fields the backend stores next to the foreign key.
type Aux map[string]string

// Aux keys sent with a re-point.
const (
	AuxClientName = "client_name"
	AuxTaskColor  = "task_color"
)

// Route describes the HTTP resources of one parent kind.
type Route struct {
	ChildCollection  string // "projects"
	ParentCollection string // "clients"
	ParentField      string // JSON field holding the parent id
}

var routes = map[domain.ParentKind]Route{
	domain.KindClient:   {ChildCollection: "projects", ParentCollection: "clients", ParentField: "client_id"},
	domain.KindTaskType: {ChildCollection: "tasks", ParentCollection: "task-types", ParentField: "task_type_id"},
}

// RouteFor returns the routes of kind.
func RouteFor(kind domain.ParentKind) (Route, error) {
	r, ok := routes[kind]
	if !ok {
		return Route{}, fmt.Errorf("unknown parent kind %q", kind)
	}
	return r, nil
}

const apiPrefix = "/api/v1"

func (r Route) childPath(id string) string {
	return apiPrefix + "/" + r.ChildCollection + "/" + url.PathEscape(id)
}

func (r Route) bulkPath() string {
	return apiPrefix + "/" + r.ChildCollection + "/reassign"
}

func (r Route) parentPath(id string) string {
	return apiPrefix + "/" + r.ParentCollection + "/" + url.PathEscape(id)
}

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

// EncodeRepoint builds the PATCH body for a single child.
func EncodeRepoint(r Route, parentID string, aux Aux) map[string]any {
	body := map[string]any{r.ParentField: parentID}
	if len(aux) > 0 {
		body["aux"] = aux
	}
	return body
}

// EncodeBulkRepoint builds the POST body for a batched re-point.
func EncodeBulkRepoint(r Route, ids []string, parentID string, aux Aux) map[string]any {
	body := EncodeRepoint(r, parentID, aux)
	body["ids"] = ids
	return body
}
