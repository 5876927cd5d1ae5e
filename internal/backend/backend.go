// Package backend is an in-memory development system of record. It serves
// the same routes the remote client calls, so the CLI can be exercised end
// to end without the production API.
package backend

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Route names used for metrics labels, fault injection and call counts.
const (
	RouteUpdateProject    = "update_project"
	RouteUpdateTask       = "update_task"
	RouteReassignProjects = "reassign_projects"
	RouteReassignTasks    = "reassign_tasks"
	RouteDeleteClient     = "delete_client"
	RouteDeleteTaskType   = "delete_task_type"
)

type Options struct {
	// Secret enables HS256 bearer auth on every API route when non-empty.
	Secret string
	Log    *logrus.Logger
}

type Backend struct {
	echo    *echo.Echo
	store   *store
	metrics *metrics
	log     *logrus.Logger

	mu     sync.Mutex
	faults map[string][]int
	calls  map[string]int
}

func New(opts Options) *Backend {
	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	reg := prometheus.NewRegistry()
	b := &Backend{
		echo:    echo.New(),
		store:   newStore(),
		metrics: newMetrics(reg),
		log:     log,
		faults:  make(map[string][]int),
		calls:   make(map[string]int),
	}
	b.echo.HideBanner = true
	b.echo.HidePort = true
	b.echo.Use(b.requestLogger())
	b.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	b.registerRoutes(opts.Secret)
	return b
}

func (b *Backend) registerRoutes(secret string) {
	api := b.echo.Group("/api/v1")
	mw := func(route string) []echo.MiddlewareFunc {
		chain := []echo.MiddlewareFunc{b.metrics.instrument(route)}
		if secret != "" {
			chain = append(chain, bearerAuth(secret))
		}
		return append(chain, b.track(route))
	}

	api.PATCH("/projects/:id", b.updateChild(domain.KindClient), mw(RouteUpdateProject)...)
	api.PATCH("/tasks/:id", b.updateChild(domain.KindTaskType), mw(RouteUpdateTask)...)
	api.POST("/projects/reassign", b.reassignChildren(domain.KindClient), mw(RouteReassignProjects)...)
	api.POST("/tasks/reassign", b.reassignChildren(domain.KindTaskType), mw(RouteReassignTasks)...)
	api.DELETE("/clients/:id", b.deleteParent(domain.KindClient), mw(RouteDeleteClient)...)
	api.DELETE("/task-types/:id", b.deleteParent(domain.KindTaskType), mw(RouteDeleteTaskType)...)
}

// Handler returns the HTTP handler serving every route.
func (b *Backend) Handler() http.Handler {
	return b.echo
}

// Start serves on addr until ctx is done.
func (b *Backend) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.echo.Start(addr)
	}()
	b.log.WithField("addr", addr).Info("dev backend listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return b.echo.Shutdown(shutdownCtx)
	}
}

// FailNext makes the next request to route answer status without being
// applied. Calls queue up.
func (b *Backend) FailNext(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[route] = append(b.faults[route], status)
}

// Calls returns how many requests reached route, failed ones included.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Seed registers a parent and children pointing at it.
func (b *Backend) Seed(kind domain.ParentKind, parentID string, childIDs ...string) {
	b.store.seed(kind, parentID, childIDs...)
}

// ChildParent returns the parent a child points at.
func (b *Backend) ChildParent(kind domain.ParentKind, childID string) (string, bool) {
	rec, ok := b.store.child(kind, childID)
	return rec.ParentID, ok
}

// ChildAux returns the auxiliary fields last stored for a child.
func (b *Backend) ChildAux(kind domain.ParentKind, childID string) map[string]string {
	rec, _ := b.store.child(kind, childID)
	return rec.Aux
}

// HasParent reports whether the parent exists.
func (b *Backend) HasParent(kind domain.ParentKind, parentID string) bool {
	return b.store.hasParent(kind, parentID)
}

func (b *Backend) track(route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			b.mu.Lock()
			b.calls[route]++
			var status int
			if q := b.faults[route]; len(q) > 0 {
				status = q[0]
				b.faults[route] = q[1:]
			}
			b.mu.Unlock()

			if status != 0 {
				return c.JSON(status, errorBody("injected failure"))
			}
			return next(c)
		}
	}
}

func (b *Backend) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			b.log.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
			}).Debug("backend request")
			return err
		}
	}
}
