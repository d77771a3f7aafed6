// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package apply mediates user consent before setting actions run.
//
// Every apply moves through a small state machine:
//
//	Suggested -> ConfirmationPending -> Applied | Failed | Declined
//
// Without auto-apply, Apply stops at ConfirmationPending and hands back a
// ticket; the caller asks the user and then calls Confirm or Decline. With
// auto-apply, a synchronous Confirmer is asked instead and the action runs
// in the same call. The executor is invoked at most once per confirmation
// and failures are never retried.
package apply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/executor"
	"github.com/poiesic/winregi/metrics"
	"github.com/poiesic/winregi/profile"
)

const (
	// DefaultTimeout bounds a single action's execution.
	DefaultTimeout = 30 * time.Second
	// DefaultTicketTTL is how long a confirmation ticket stays valid.
	DefaultTicketTTL = 5 * time.Minute
)

// Applier runs catalog actions through the confirmation state machine.
type Applier struct {
	catalog   catalog.Catalog
	executor  executor.Executor
	confirmer Confirmer
	timeout   time.Duration
	ticketTTL time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	inFlight map[pair]bool
	tickets  map[string]*ticket
}

type pair struct {
	entryID  string
	actionID string
}

type ticket struct {
	outcome *Outcome
	profile *profile.Profile
	action  core.Action
	expires time.Time
}

// Option configures an Applier.
type Option func(*Applier) error

// WithConfirmer sets the Confirmer used by auto-apply.
func WithConfirmer(c Confirmer) Option {
	return func(a *Applier) error {
		a.confirmer = c
		return nil
	}
}

// WithTimeout sets the execution timeout for a single action.
func WithTimeout(d time.Duration) Option {
	return func(a *Applier) error {
		if d <= 0 {
			return ErrInvalidTimeout
		}
		a.timeout = d
		return nil
	}
}

// WithTicketTTL sets how long confirmation tickets stay valid.
func WithTicketTTL(d time.Duration) Option {
	return func(a *Applier) error {
		if d <= 0 {
			return ErrInvalidTimeout
		}
		a.ticketTTL = d
		return nil
	}
}

// WithMetrics records apply outcomes. A nil Metrics records nothing.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Applier) error {
		a.metrics = m
		return nil
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Applier) error {
		if logger != nil {
			a.logger = logger
		}
		return nil
	}
}

// NewApplier creates an Applier over c and exec.
func NewApplier(c catalog.Catalog, exec executor.Executor, opts ...Option) (*Applier, error) {
	if c == nil {
		return nil, ErrCatalogRequired
	}
	if exec == nil {
		return nil, ErrExecutorRequired
	}
	a := &Applier{
		catalog:   c,
		executor:  exec,
		timeout:   DefaultTimeout,
		ticketTTL: DefaultTicketTTL,
		logger:    slog.Default(),
		now:       time.Now,
		inFlight:  make(map[pair]bool),
		tickets:   make(map[string]*ticket),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "applier")
	return a, nil
}

// Apply starts applying an entry's action for p, which may be nil.
//
// Without autoApply the executor is not touched: the returned Outcome is
// ConfirmationPending with a ticket, and the error wraps
// ErrConfirmationRequired. With autoApply the configured Confirmer is asked
// first; a refusal yields a Declined outcome and ErrConfirmationDeclined,
// and consent runs the action exactly once.
func (a *Applier) Apply(ctx context.Context, p *profile.Profile, entryID, actionID string, autoApply bool) (*Outcome, error) {
	entry, action, err := a.resolve(ctx, entryID, actionID)
	if err != nil {
		return nil, err
	}
	if autoApply && a.confirmer == nil {
		return nil, ErrConfirmerRequired
	}

	out := newOutcome(entry, action, a.executor)
	if err := out.advance(core.ApplyStateConfirmationPending); err != nil {
		return nil, err
	}

	if !autoApply {
		t := a.issue(out, p, *action)
		a.logger.Debug("confirmation requested", "entry", entryID, "action", actionID, "ticket", t.outcome.Ticket)
		return out, fmt.Errorf("%w: %s/%s", ErrConfirmationRequired, entryID, actionID)
	}

	release, err := a.acquire(pair{entryID, actionID})
	if err != nil {
		return nil, err
	}
	defer release()

	ok, err := a.confirmer.Confirm(ctx, ConfirmRequest{Entry: entry, Action: *action, RequiresAdmin: out.RequiresAdmin})
	if err != nil || !ok {
		if err != nil {
			out.Diagnostic = err.Error()
		}
		return a.decline(ctx, p, out)
	}

	return a.execute(ctx, p, out, *action)
}

// Confirm runs the action held by a pending ticket. Tickets are single use;
// unknown, used and expired tickets return ErrTicketNotFound.
func (a *Applier) Confirm(ctx context.Context, ticketID string) (*Outcome, error) {
	t, release, err := a.redeem(ticketID)
	if err != nil {
		return nil, err
	}
	defer release()
	return a.execute(ctx, t.profile, t.outcome, t.action)
}

// Decline refuses a pending ticket without running its action.
func (a *Applier) Decline(ctx context.Context, ticketID string) (*Outcome, error) {
	a.mu.Lock()
	t, ok := a.take(ticketID)
	a.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	out, err := a.decline(ctx, t.profile, t.outcome)
	if errors.Is(err, ErrConfirmationDeclined) {
		err = nil
	}
	return out, err
}

// Pending returns copies of the outcomes still waiting for confirmation,
// oldest ticket first.
func (a *Applier) Pending() []Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sweep()

	pending := make([]Outcome, 0, len(a.tickets))
	for _, t := range a.tickets {
		pending = append(pending, *t.outcome)
	}
	slices.SortFunc(pending, func(x, y Outcome) int { return x.ExpiresAt.Compare(y.ExpiresAt) })
	return pending
}

// ApplySequence applies actionIDs of one entry in order, each through Apply,
// and stops at the first action that does not reach Applied. Earlier actions
// are not rolled back; the report says which ones ran.
//
// Without autoApply the first action stops at ConfirmationPending: it is
// reported as Pending, not Failed, its ticket stays redeemable through
// Confirm, and the error wraps ErrConfirmationRequired.
func (a *Applier) ApplySequence(ctx context.Context, p *profile.Profile, entryID string, actionIDs []string, autoApply bool) (*SequenceReport, error) {
	if len(actionIDs) == 0 {
		return nil, ErrNoActions
	}
	// Resolve everything up front so a typo late in the list cannot leave
	// a half-applied sequence.
	for _, id := range actionIDs {
		if _, _, err := a.resolve(ctx, entryID, id); err != nil {
			return nil, err
		}
	}

	report := &SequenceReport{}
	for i, id := range actionIDs {
		out, err := a.Apply(ctx, p, entryID, id, autoApply)
		if out != nil {
			report.Outcomes = append(report.Outcomes, out)
		}
		if err == nil && out.State == core.ApplyStateApplied {
			report.Applied = append(report.Applied, id)
			continue
		}
		report.Skipped = slices.Clone(actionIDs[i+1:])
		if errors.Is(err, ErrConfirmationRequired) {
			report.Pending = id
			a.logger.Debug("sequence waiting for confirmation", "entry", entryID, "action", id, "ticket", out.Ticket)
			return report, err
		}
		report.Failed = id
		a.logger.Warn("sequence stopped", "entry", entryID, "action", id, "applied", report.Applied, "skipped", report.Skipped)
		return report, err
	}
	return report, nil
}

func (a *Applier) resolve(ctx context.Context, entryID, actionID string) (*core.SettingEntry, *core.Action, error) {
	entry, action, err := catalog.FindAction(ctx, a.catalog, entryID, actionID)
	if err == nil || errors.Is(err, catalog.ErrEntryNotFound) || errors.Is(err, catalog.ErrActionNotFound) {
		return entry, action, err
	}
	if errors.Is(err, catalog.ErrCatalogUnavailable) {
		return nil, nil, err
	}
	return nil, nil, fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, err)
}

func (a *Applier) execute(ctx context.Context, p *profile.Profile, out *Outcome, action core.Action) (*Outcome, error) {
	start := a.now()
	execCtx, cancel := context.WithTimeout(ctx, a.timeout)
	err := a.executor.Execute(execCtx, action)
	cancel()
	elapsed := a.now().Sub(start)

	if err != nil {
		out.Diagnostic = executor.Diagnostic(err)
		if errors.Is(err, context.DeadlineExceeded) {
			out.Diagnostic = fmt.Sprintf("timed out after %s", a.timeout)
		}
		if terr := out.advance(core.ApplyStateFailed); terr != nil {
			return nil, terr
		}
		a.finish(ctx, p, out, elapsed)
		return out, fmt.Errorf("%w: %s/%s: %w", ErrActionExecutionFailed, out.EntryId, out.ActionId, err)
	}

	if err := out.advance(core.ApplyStateApplied); err != nil {
		return nil, err
	}
	a.finish(ctx, p, out, elapsed)
	return out, nil
}

func (a *Applier) decline(ctx context.Context, p *profile.Profile, out *Outcome) (*Outcome, error) {
	if err := out.advance(core.ApplyStateDeclined); err != nil {
		return nil, err
	}
	a.finish(ctx, p, out, 0)
	return out, fmt.Errorf("%w: %s/%s", ErrConfirmationDeclined, out.EntryId, out.ActionId)
}

// finish logs, measures and records a terminal outcome.
func (a *Applier) finish(ctx context.Context, p *profile.Profile, out *Outcome, elapsed time.Duration) {
	a.metrics.ObserveApply(out.Kind.String(), out.State.String(), elapsed)
	a.logger.Info("apply finished", "entry", out.EntryId, "action", out.ActionId, "state", out.State, "elapsed", elapsed)

	if p == nil {
		return
	}
	record := &core.AppliedAction{
		EntryId:    out.EntryId,
		ActionId:   out.ActionId,
		State:      out.State,
		Diagnostic: out.Diagnostic,
		Timestamp:  a.now().UTC(),
	}
	if err := p.RecordApplied(context.WithoutCancel(ctx), record); err != nil {
		a.logger.Error("error recording applied action", "profile", p.Name(), "entry", out.EntryId, "err", err)
	}
}

func (a *Applier) issue(out *Outcome, p *profile.Profile, action core.Action) *ticket {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sweep()

	expires := a.now().Add(a.ticketTTL)
	out.Ticket = uuid.NewString()
	out.ExpiresAt = expires
	t := &ticket{outcome: out, profile: p, action: action, expires: expires}
	a.tickets[out.Ticket] = t
	return t
}

// redeem consumes a ticket and marks its pair in flight. A ticket whose pair
// is busy is left in place so it can be confirmed later.
func (a *Applier) redeem(id string) (*ticket, func(), error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	t, ok := a.tickets[id]
	if !ok || !a.now().Before(t.expires) {
		delete(a.tickets, id)
		return nil, nil, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
	}
	key := pair{t.outcome.EntryId, t.outcome.ActionId}
	if a.inFlight[key] {
		return nil, nil, fmt.Errorf("%w: %s/%s", ErrApplyInProgress, key.entryID, key.actionID)
	}
	delete(a.tickets, id)
	a.inFlight[key] = true
	return t, a.releaser(key), nil
}

// take removes a live ticket. The caller holds a.mu.
func (a *Applier) take(id string) (*ticket, bool) {
	t, ok := a.tickets[id]
	delete(a.tickets, id)
	if !ok || !a.now().Before(t.expires) {
		return nil, false
	}
	return t, true
}

// sweep drops expired tickets. The caller holds a.mu.
func (a *Applier) sweep() {
	now := a.now()
	for id, t := range a.tickets {
		if !now.Before(t.expires) {
			delete(a.tickets, id)
		}
	}
}

func (a *Applier) acquire(key pair) (func(), error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inFlight[key] {
		return nil, fmt.Errorf("%w: %s/%s", ErrApplyInProgress, key.entryID, key.actionID)
	}
	a.inFlight[key] = true
	return a.releaser(key), nil
}

func (a *Applier) releaser(key pair) func() {
	return func() {
		a.mu.Lock()
		delete(a.inFlight, key)
		a.mu.Unlock()
	}
}
