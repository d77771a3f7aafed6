package apply

import (
	"context"

	"github.com/poiesic/winregi/core"
)

// ConfirmRequest describes the action a Confirmer is asked about.
type ConfirmRequest struct {
	Entry         *core.SettingEntry
	Action        core.Action
	RequiresAdmin bool
}

// Confirmer obtains a synchronous yes or no from the user before an
// auto-applied action runs. An error is treated as a refusal.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmRequest) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, req ConfirmRequest) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, req ConfirmRequest) (bool, error) {
	return f(ctx, req)
}
