package remote

import (
	"github.com/sirupsen/logrus"
)

// CallEvent records metadata about a single system-of-record call.
type CallEvent struct {
	Op        string
	Kind      string
	Items     int
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about remote calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events through logrus.
type LogObserver struct {
	log *logrus.Logger
}

// NewLogObserver creates an Observer that logs events to log.
func NewLogObserver(log *logrus.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	entry := o.log.WithFields(logrus.Fields{
		"op":         event.Op,
		"kind":       event.Kind,
		"items":      event.Items,
		"attempts":   event.Attempts,
		"latency_ms": event.LatencyMs,
	})
	if !event.Success {
		entry.WithField("error_code", event.ErrorCode).Warn("remote_call failed")
		return
	}
	entry.Info("remote_call")
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
