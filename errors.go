package gatecv

import (
	"fmt"
	"log/slog"
)

// ErrorHandler receives non-fatal conditions: engine init failures that
// leave gate triggering disabled, binding warnings, hot-plug registration
// problems. Nothing routed here is fatal; every failure mode has a defined
// degraded state.
type ErrorHandler interface {
	HandleError(error)
}

// DefaultErrorHandler logs through slog.
type DefaultErrorHandler struct{}

func (DefaultErrorHandler) HandleError(err error) {
	slog.Error("gatecv", "err", err)
}

// ErrorHandlerFunc adapts a function to the ErrorHandler interface.
type ErrorHandlerFunc func(error)

func (f ErrorHandlerFunc) HandleError(err error) { f(err) }

// PanicErrorHandler panics on any error; useful during development.
type PanicErrorHandler struct{}

func (PanicErrorHandler) HandleError(err error) {
	panic(fmt.Sprintf("gatecv error: %v", err))
}
