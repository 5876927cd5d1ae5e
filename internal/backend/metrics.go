package backend

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "ops",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of dev backend requests broken down by route and status.",
		}, []string{"route", "status"}),
	}
}

// instrument counts every response of the named route.
func (m *metrics) instrument(route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
