package apply

import (
	"fmt"

	"github.com/poiesic/winregi/core"
)

// transitions lists the allowed state changes. Every mutation passes through
// ConfirmationPending, so nothing reaches the executor unconfirmed.
var transitions = map[core.ApplyState][]core.ApplyState{
	core.ApplyStateSuggested:           {core.ApplyStateConfirmationPending},
	core.ApplyStateConfirmationPending: {core.ApplyStateApplied, core.ApplyStateFailed, core.ApplyStateDeclined},
}

// Transition checks that from may move to to.
func Transition(from, to core.ApplyState) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
