package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork indicates the backend could not be reached or the call
	// timed out.
	ErrNetwork = errors.New("system of record unreachable")

	// ErrServer is matched by every *ServerError.
	ErrServer = errors.New("system of record rejected the request")
)

// ServerError is returned when the backend answers with a non-2xx status.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.Status, e.Message)
}

func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// Retryable reports whether the status is worth another attempt.
func (e *ServerError) Retryable() bool {
	return e.Status >= 500
}

func errorCode(err error) string {
	var se *ServerError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "NETWORK"
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP_%d", se.Status)
	default:
		return "UNKNOWN"
	}
}
