package executor

import (
	"errors"
	"fmt"

	"github.com/poiesic/winregi/core"
)

var (
	// ErrUnsupportedPlatform is returned by System on non-Windows builds.
	ErrUnsupportedPlatform = errors.New("actions can only be executed on windows")

	// ErrElevationRequired indicates an action needs administrator rights the process does not have.
	ErrElevationRequired = errors.New("administrator privileges required")

	// ErrInvalidRegistryData indicates registry data that cannot be converted to its value type.
	ErrInvalidRegistryData = errors.New("invalid registry data")

	// ErrStatusUnavailable indicates an action whose effect cannot be read back.
	// Only registry writes can be.
	ErrStatusUnavailable = errors.New("status cannot be read for this action")

	// ErrExecutorRequired is returned when a wrapper is built around a nil executor.
	ErrExecutorRequired = errors.New("executor is required")
)

// ExecutionError describes a failed action. Diagnostic is the human-readable
// output of the failing mechanism, such as PowerShell's error stream.
type ExecutionError struct {
	Action     core.Action
	Diagnostic string
	Err        error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%s action %s failed", e.Action.Kind, e.Action.Id)
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Diagnostic returns the diagnostic text carried by err, falling back to the
// error message.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	var ee *ExecutionError
	if errors.As(err, &ee) && ee.Diagnostic != "" {
		return ee.Diagnostic
	}
	return err.Error()
}
