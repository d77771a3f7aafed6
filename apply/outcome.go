package apply

import (
	"time"

	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/executor"
)

// Outcome is the state of one apply attempt.
type Outcome struct {
	Ticket        string // set while the outcome waits for confirmation
	EntryId       string
	ActionId      string
	ActionName    string
	Kind          core.ActionKind
	Risk          core.RiskLevel
	RequiresAdmin bool
	Rollback      bool // the executor can revert this action later
	State         core.ApplyState
	Diagnostic    string
	ExpiresAt     time.Time // ticket expiry, zero once the outcome is terminal
}

func newOutcome(entry *core.SettingEntry, action *core.Action, exec executor.Executor) *Outcome {
	return &Outcome{
		EntryId:       entry.Id,
		ActionId:      action.Id,
		ActionName:    action.Name,
		Kind:          action.Kind,
		Risk:          entry.Risk,
		RequiresAdmin: executor.RequiresAdmin(*action),
		Rollback:      exec.SupportsRollback(*action),
		State:         core.ApplyStateSuggested,
	}
}

func (o *Outcome) advance(to core.ApplyState) error {
	if err := Transition(o.State, to); err != nil {
		return err
	}
	o.State = to
	if to.Terminal() {
		o.Ticket = ""
		o.ExpiresAt = time.Time{}
	}
	return nil
}

// SequenceReport describes an ApplySequence run. Actions after the first
// one that did not apply are skipped, never executed.
type SequenceReport struct {
	Outcomes []*Outcome // one per attempted action, in order
	Applied  []string
	Failed   string // the action that failed or was declined, if any
	Pending  string // the action waiting on its confirmation ticket, if any
	Skipped  []string
}

// Complete reports whether every action was applied.
func (r *SequenceReport) Complete() bool {
	return r.Failed == "" && r.Pending == "" && len(r.Skipped) == 0
}
