package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/winregi/core"
)

// System executes actions against the local machine.
type System struct {
	checkElevation bool
	elevated       func() bool
	read           valueReader
	logger         *slog.Logger
}

var (
	_ Executor     = (*System)(nil)
	_ StatusReader = (*System)(nil)
)

// SystemOption configures a System executor.
type SystemOption func(*System) error

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) SystemOption {
	return func(s *System) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// WithElevationCheck makes Execute refuse actions that RequiresAdmin when
// the process is not elevated, instead of letting the OS reject them.
func WithElevationCheck(enabled bool) SystemOption {
	return func(s *System) error {
		s.checkElevation = enabled
		return nil
	}
}

// NewSystem creates a System executor.
func NewSystem(opts ...SystemOption) (*System, error) {
	s := &System{
		checkElevation: true,
		elevated:       Elevated,
		read:           readRegistryValue,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "system-executor")
	return s, nil
}

// Execute runs action. Failures are returned as *ExecutionError.
func (s *System) Execute(ctx context.Context, action core.Action) error {
	if err := core.ValidateAction(&action); err != nil {
		return &ExecutionError{Action: action, Err: err}
	}
	if s.checkElevation && platformSupported && RequiresAdmin(action) && !s.elevated() {
		return &ExecutionError{
			Action:     action,
			Diagnostic: "restart as administrator to apply this setting",
			Err:        ErrElevationRequired,
		}
	}

	s.logger.Info("executing action", "action", action.Id, "kind", action.Kind)
	var err error
	switch action.Kind {
	case core.ActionKindRegistryWrite:
		err = s.writeRegistry(ctx, action)
	case core.ActionKindPowerShell:
		err = s.runPowerShell(ctx, action)
	case core.ActionKindControlPanel:
		err = s.openControlPanel(ctx, action)
	case core.ActionKindSettingsURI:
		err = s.openSettings(ctx, action)
	default:
		err = &ExecutionError{Action: action, Err: fmt.Errorf("%w: %d", core.ErrInvalidActionKind, action.Kind)}
	}
	if err != nil {
		s.logger.Warn("action failed", "action", action.Id, "err", err)
	}
	return err
}

// Status reads back the registry values a registry-write action sets. Other
// action kinds return ErrStatusUnavailable. Reading needs no elevation.
func (s *System) Status(ctx context.Context, action core.Action) (*ActionStatus, error) {
	status, err := readStatus(ctx, action, s.read)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("status read", "action", action.Id, "applied", status.Applied())
	return status, nil
}

// SupportsRollback reports true for reversible registry writes.
func (s *System) SupportsRollback(action core.Action) bool {
	return SupportsRollback(action)
}

// powerShellArgs builds the command line used for PowerShell actions.
func powerShellArgs(script string) []string {
	return []string{"-ExecutionPolicy", "Bypass", "-NoProfile", "-NonInteractive", "-Command", script}
}

// controlPanelArgs splits an applet reference such as "desk.cpl,,3" or
// "/name Microsoft.PowerOptions" into control.exe arguments.
func controlPanelArgs(applet string) []string {
	return strings.Fields(applet)
}
