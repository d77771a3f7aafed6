package core

import (
	"strings"
	"time"
)

// ApplyState is a step in the confirmation state machine for an action.
type ApplyState int

const (
	// ApplyStateSuggested is the initial state of a ranked result's action.
	ApplyStateSuggested ApplyState = iota + 1
	// ApplyStateConfirmationPending waits for explicit user consent.
	ApplyStateConfirmationPending
	// ApplyStateApplied means the executor reported success.
	ApplyStateApplied
	// ApplyStateFailed means the executor reported failure or timed out.
	ApplyStateFailed
	// ApplyStateDeclined means the user refused the confirmation.
	ApplyStateDeclined
)

func (s ApplyState) String() string {
	switch s {
	case ApplyStateSuggested:
		return "suggested"
	case ApplyStateConfirmationPending:
		return "confirmation-pending"
	case ApplyStateApplied:
		return "applied"
	case ApplyStateFailed:
		return "failed"
	case ApplyStateDeclined:
		return "declined"
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s ApplyState) Terminal() bool {
	return s == ApplyStateApplied || s == ApplyStateFailed || s == ApplyStateDeclined
}

// Profile holds the preferences of one user.
type Profile struct {
	Id        ID
	Name      string
	AutoApply bool
	Favorites []string  // setting entry IDs, in the order they were added
	CreatedAt time.Time // When the profile was first stored
	UpdatedAt time.Time // When the profile was last stored
}

// ProfileID derives the content-based ID of a profile from its name.
// Names are case-insensitive.
func ProfileID(name string) ID {
	return IDFromContent("profile:" + strings.ToLower(strings.TrimSpace(name)))
}

// HistoryEntry records one search made under a profile.
type HistoryEntry struct {
	Id          ID
	ProfileId   ID
	Query       string
	ResultCount int
	Timestamp   time.Time
}

// AppliedAction records the terminal outcome of one apply attempt.
type AppliedAction struct {
	Id         ID
	ProfileId  ID
	EntryId    string
	ActionId   string
	State      ApplyState
	Diagnostic string
	Timestamp  time.Time
}
