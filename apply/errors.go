package apply

import "errors"

var (
	// ErrConfirmationRequired signals that the caller must obtain consent and
	// call Confirm with the returned ticket. It is not a failure.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrConfirmationDeclined indicates the user refused to apply the action.
	ErrConfirmationDeclined = errors.New("confirmation declined")

	// ErrActionExecutionFailed wraps the executor's error for a failed action.
	ErrActionExecutionFailed = errors.New("action execution failed")

	// ErrApplyInProgress indicates the same entry and action are already being applied.
	ErrApplyInProgress = errors.New("apply already in progress")

	// ErrTicketNotFound indicates an unknown, used or expired confirmation ticket.
	ErrTicketNotFound = errors.New("confirmation ticket not found")

	// ErrInvalidTransition indicates a state change the apply state machine does not allow.
	ErrInvalidTransition = errors.New("invalid apply state transition")

	// ErrCatalogRequired is returned when no catalog is provided.
	ErrCatalogRequired = errors.New("catalog is required")

	// ErrExecutorRequired is returned when no executor is provided.
	ErrExecutorRequired = errors.New("executor is required")

	// ErrConfirmerRequired is returned by auto-apply when no Confirmer is configured.
	ErrConfirmerRequired = errors.New("confirmer is required for auto-apply")

	// ErrInvalidTimeout is returned for a non-positive timeout or ticket TTL.
	ErrInvalidTimeout = errors.New("timeout must be greater than 0")

	// ErrNoActions is returned by ApplySequence when no action IDs are given.
	ErrNoActions = errors.New("no actions to apply")
)
