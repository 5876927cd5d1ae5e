package backend

import (
	"net/http"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/labstack/echo/v4"
)

type repointRequest struct {
	IDs        []string          `json:"ids"`
	ClientID   string            `json:"client_id"`
	TaskTypeID string            `json:"task_type_id"`
	Aux        map[string]string `json:"aux"`
}

func (r repointRequest) parentID(kind domain.ParentKind) string {
	if kind == domain.KindClient {
		return r.ClientID
	}
	return r.TaskTypeID
}

func parentField(kind domain.ParentKind) string {
	if kind == domain.KindClient {
		return "client_id"
	}
	return "task_type_id"
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// updateChild handles PATCH /api/v1/{projects,tasks}/:id
func (b *Backend) updateChild(kind domain.ParentKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req repointRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		}
		parentID := req.parentID(kind)
		if parentID == "" {
			return c.JSON(http.StatusBadRequest, errorBody(parentField(kind)+" is required"))
		}
		b.store.repoint(kind, []string{c.Param("id")}, parentID, req.Aux)
		return c.NoContent(http.StatusNoContent)
	}
}

// reassignChildren handles POST /api/v1/{projects,tasks}/reassign
func (b *Backend) reassignChildren(kind domain.ParentKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req repointRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		}
		parentID := req.parentID(kind)
		if parentID == "" {
			return c.JSON(http.StatusBadRequest, errorBody(parentField(kind)+" is required"))
		}
		if len(req.IDs) == 0 {
			return c.JSON(http.StatusBadRequest, errorBody("ids is required"))
		}
		b.store.repoint(kind, req.IDs, parentID, req.Aux)
		return c.JSON(http.StatusOK, map[string]int{"updated": len(req.IDs)})
	}
}

// deleteParent handles DELETE /api/v1/{clients,task-types}/:id. Deleting a
// missing parent succeeds so a retried commit converges.
func (b *Backend) deleteParent(kind domain.ParentKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		removed := b.store.deleteParent(kind, c.Param("id"))
		if len(removed) > 0 {
			b.log.WithField("kind", kind).WithField("children", len(removed)).Debug("cascaded parent delete")
		}
		return c.NoContent(http.StatusNoContent)
	}
}
