package executor

import (
	"context"
	"log/slog"

	"github.com/poiesic/winregi/core"
)

// DryRun logs each action instead of running it and always succeeds.
type DryRun struct {
	logger *slog.Logger
}

var _ Executor = (*DryRun)(nil)

// NewDryRun creates a DryRun executor. A nil logger uses slog.Default().
func NewDryRun(logger *slog.Logger) *DryRun {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRun{logger: logger.With("component", "dry-run-executor")}
}

func (d *DryRun) Execute(ctx context.Context, action core.Action) error {
	if err := ctx.Err(); err != nil {
		return &ExecutionError{Action: action, Err: err}
	}
	d.logger.Info("would execute action",
		"action", action.Id,
		"kind", action.Kind,
		"targets", action.Targets(),
		"admin", RequiresAdmin(action))
	return nil
}

func (d *DryRun) SupportsRollback(action core.Action) bool {
	return SupportsRollback(action)
}
