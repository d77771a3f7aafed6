package apply

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/executor"
	"github.com/poiesic/winregi/executor/mock"
	"github.com/poiesic/winregi/metrics"
	"github.com/poiesic/winregi/profile"
	"github.com/poiesic/winregi/storage/badger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const themeKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`

func testCatalog(t *testing.T) *catalog.Snapshot {
	t.Helper()
	dword := func(name, data string) core.RegistryValue {
		return core.RegistryValue{Path: themeKey, Name: name, Type: core.RegDword, Data: data}
	}
	s, err := catalog.NewSnapshot(
		[]*core.Category{{Id: "personalization", Name: "Personalization"}, {Id: "system", Name: "System"}},
		[]*core.SettingEntry{
			{
				Id:         "dark-mode",
				Name:       "Dark Mode",
				CategoryId: "personalization",
				Risk:       core.RiskReversible,
				Actions: []core.Action{
					{Id: "apps", Kind: core.ActionKindRegistryWrite, Registry: []core.RegistryValue{dword("AppsUseLightTheme", "0")}, Reversible: true, Default: true},
					{Id: "system", Kind: core.ActionKindRegistryWrite, Registry: []core.RegistryValue{dword("SystemUsesLightTheme", "0")}, Reversible: true},
					{Id: "open", Kind: core.ActionKindSettingsURI, URI: "ms-settings:colors"},
				},
			},
			{
				Id:         "disk-cleanup",
				Name:       "Disk Cleanup",
				CategoryId: "system",
				Risk:       core.RiskCaution,
				Actions: []core.Action{
					{Id: "clear-temp", Kind: core.ActionKindPowerShell, Script: `Remove-Item "$env:TEMP\*" -Recurse -Force`},
				},
			},
		},
	)
	require.NoError(t, err)
	return s
}

func yes() Confirmer {
	return ConfirmerFunc(func(context.Context, ConfirmRequest) (bool, error) { return true, nil })
}

func no() Confirmer {
	return ConfirmerFunc(func(context.Context, ConfirmRequest) (bool, error) { return false, nil })
}

func newTestApplier(t *testing.T, exec executor.Executor, opts ...Option) *Applier {
	t.Helper()
	a, err := NewApplier(testCatalog(t), exec, opts...)
	require.NoError(t, err)
	return a
}

func newTestProfile(t *testing.T) (*profile.Manager, *profile.Profile) {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	m, err := profile.NewManager(repos.Profiles, repos.History, repos.Applied)
	require.NoError(t, err)
	t.Cleanup(func() {
		m.Release()
		repos.Close()
	})
	p, err := m.Open(context.Background(), "tester")
	require.NoError(t, err)
	return m, p
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestNewApplier(t *testing.T) {
	_, err := NewApplier(nil, mock.NewMockExecutor())
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewApplier(testCatalog(t), nil)
	assert.ErrorIs(t, err, ErrExecutorRequired)

	_, err = NewApplier(testCatalog(t), mock.NewMockExecutor(), WithTimeout(0))
	assert.ErrorIs(t, err, ErrInvalidTimeout)

	_, err = NewApplier(testCatalog(t), mock.NewMockExecutor(), WithTicketTTL(-time.Second))
	assert.ErrorIs(t, err, ErrInvalidTimeout)

	a, err := NewApplier(testCatalog(t), mock.NewMockExecutor())
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, a.timeout)
	assert.Equal(t, DefaultTicketTTL, a.ticketTTL)
}

func TestTransition(t *testing.T) {
	allowed := [][2]core.ApplyState{
		{core.ApplyStateSuggested, core.ApplyStateConfirmationPending},
		{core.ApplyStateConfirmationPending, core.ApplyStateApplied},
		{core.ApplyStateConfirmationPending, core.ApplyStateFailed},
		{core.ApplyStateConfirmationPending, core.ApplyStateDeclined},
	}
	for _, tr := range allowed {
		assert.NoError(t, Transition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	rejected := [][2]core.ApplyState{
		{core.ApplyStateSuggested, core.ApplyStateApplied},
		{core.ApplyStateSuggested, core.ApplyStateFailed},
		{core.ApplyStateApplied, core.ApplyStateFailed},
		{core.ApplyStateFailed, core.ApplyStateConfirmationPending},
		{core.ApplyStateDeclined, core.ApplyStateApplied},
	}
	for _, tr := range rejected {
		assert.ErrorIs(t, Transition(tr[0], tr[1]), ErrInvalidTransition, "%s -> %s", tr[0], tr[1])
	}
}

func TestApplyWithoutAutoApplyNeverExecutes(t *testing.T) {
	exec := mock.NewMockExecutor()
	a := newTestApplier(t, exec, WithConfirmer(yes()))
	ctx := context.Background()

	for _, tc := range []struct{ entry, action string }{
		{"dark-mode", "apps"},
		{"dark-mode", "system"},
		{"dark-mode", "open"},
		{"disk-cleanup", "clear-temp"},
	} {
		out, err := a.Apply(ctx, nil, tc.entry, tc.action, false)
		assert.ErrorIs(t, err, ErrConfirmationRequired)
		require.NotNil(t, out)
		assert.Equal(t, core.ApplyStateConfirmationPending, out.State)
		assert.NotEmpty(t, out.Ticket)
		assert.False(t, out.ExpiresAt.IsZero())
	}

	assert.Zero(t, exec.CallCount())
	assert.Len(t, a.Pending(), 4)
}

func TestApplyWithAutoApplyExecutesOnce(t *testing.T) {
	exec := mock.NewMockExecutor()
	var asked []string
	confirmer := ConfirmerFunc(func(_ context.Context, req ConfirmRequest) (bool, error) {
		asked = append(asked, req.Entry.Id+"/"+req.Action.Id)
		return true, nil
	})
	a := newTestApplier(t, exec, WithConfirmer(confirmer), WithMetrics(metrics.New(prometheus.NewRegistry())))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		out, err := a.Apply(ctx, nil, "dark-mode", "apps", true)
		require.NoError(t, err)
		assert.Equal(t, core.ApplyStateApplied, out.State)
		assert.Empty(t, out.Ticket)
		assert.True(t, out.Rollback)
		assert.Equal(t, i, exec.CallCount())
	}
	assert.Equal(t, []string{"dark-mode/apps", "dark-mode/apps", "dark-mode/apps"}, asked)
	assert.Empty(t, a.Pending())
}

func TestApplyAutoApplyRequiresConfirmer(t *testing.T) {
	exec := mock.NewMockExecutor()
	a := newTestApplier(t, exec)

	_, err := a.Apply(context.Background(), nil, "dark-mode", "apps", true)
	assert.ErrorIs(t, err, ErrConfirmerRequired)
	assert.Zero(t, exec.CallCount())
}

func TestApplyDeclined(t *testing.T) {
	ctx := context.Background()

	t.Run("refused", func(t *testing.T) {
		exec := mock.NewMockExecutor()
		a := newTestApplier(t, exec, WithConfirmer(no()))

		out, err := a.Apply(ctx, nil, "disk-cleanup", "clear-temp", true)
		assert.ErrorIs(t, err, ErrConfirmationDeclined)
		require.NotNil(t, out)
		assert.Equal(t, core.ApplyStateDeclined, out.State)
		assert.Zero(t, exec.CallCount())
	})

	t.Run("confirmer error", func(t *testing.T) {
		exec := mock.NewMockExecutor()
		a := newTestApplier(t, exec, WithConfirmer(ConfirmerFunc(func(context.Context, ConfirmRequest) (bool, error) {
			return true, errors.New("terminal closed")
		})))

		out, err := a.Apply(ctx, nil, "disk-cleanup", "clear-temp", true)
		assert.ErrorIs(t, err, ErrConfirmationDeclined)
		assert.Equal(t, core.ApplyStateDeclined, out.State)
		assert.Equal(t, "terminal closed", out.Diagnostic)
		assert.Zero(t, exec.CallCount())
	})
}

func TestApplyExecutionFailure(t *testing.T) {
	exec := mock.NewMockExecutor()
	cause := errors.New("exit status 1")
	exec.ExecuteFunc = func(_ context.Context, action core.Action) error {
		return &executor.ExecutionError{Action: action, Diagnostic: "Access to the path is denied.", Err: cause}
	}
	a := newTestApplier(t, exec, WithConfirmer(yes()))

	out, err := a.Apply(context.Background(), nil, "disk-cleanup", "clear-temp", true)
	assert.ErrorIs(t, err, ErrActionExecutionFailed)
	assert.ErrorIs(t, err, cause)
	var ee *executor.ExecutionError
	assert.ErrorAs(t, err, &ee)

	require.NotNil(t, out)
	assert.Equal(t, core.ApplyStateFailed, out.State)
	assert.Equal(t, "Access to the path is denied.", out.Diagnostic)
	assert.Equal(t, 1, exec.CallCount(), "failures are not retried")
}

func TestApplyTimeout(t *testing.T) {
	exec := mock.NewMockExecutor()
	exec.ExecuteFunc = func(ctx context.Context, action core.Action) error {
		<-ctx.Done()
		return &executor.ExecutionError{Action: action, Err: ctx.Err()}
	}
	a := newTestApplier(t, exec, WithConfirmer(yes()), WithTimeout(20*time.Millisecond))

	out, err := a.Apply(context.Background(), nil, "disk-cleanup", "clear-temp", true)
	assert.ErrorIs(t, err, ErrActionExecutionFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, core.ApplyStateFailed, out.State)
	assert.Equal(t, "timed out after 20ms", out.Diagnostic)
	assert.Equal(t, 1, exec.CallCount())
}

func TestConfirmTicket(t *testing.T) {
	exec := mock.NewMockExecutor()
	a := newTestApplier(t, exec)
	ctx := context.Background()

	pending, err := a.Apply(ctx, nil, "dark-mode", "system", false)
	require.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Zero(t, exec.CallCount())

	out, err := a.Confirm(ctx, pending.Ticket)
	require.NoError(t, err)
	assert.Equal(t, core.ApplyStateApplied, out.State)
	assert.Equal(t, []string{"system"}, exec.Executed())

	_, err = a.Confirm(ctx, pending.Ticket)
	assert.ErrorIs(t, err, ErrTicketNotFound, "tickets are single use")
	_, err = a.Confirm(ctx, "no-such-ticket")
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.Equal(t, 1, exec.CallCount())
}

func TestTicketExpiry(t *testing.T) {
	exec := mock.NewMockExecutor()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	a := newTestApplier(t, exec, WithTicketTTL(time.Minute))
	a.now = clock.Now
	ctx := context.Background()

	first, _ := a.Apply(ctx, nil, "dark-mode", "apps", false)
	clock.Advance(30 * time.Second)
	second, _ := a.Apply(ctx, nil, "dark-mode", "system", false)

	pending := a.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, first.Ticket, pending[0].Ticket)

	clock.Advance(31 * time.Second)
	_, err := a.Confirm(ctx, first.Ticket)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.Len(t, a.Pending(), 1)

	clock.Advance(time.Minute)
	_, err = a.Decline(ctx, second.Ticket)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.Empty(t, a.Pending())
	assert.Zero(t, exec.CallCount())
}

func TestDeclineTicket(t *testing.T) {
	exec := mock.NewMockExecutor()
	_, p := newTestProfile(t)
	a := newTestApplier(t, exec)
	ctx := context.Background()

	pending, err := a.Apply(ctx, p, "disk-cleanup", "clear-temp", false)
	require.ErrorIs(t, err, ErrConfirmationRequired)

	out, err := a.Decline(ctx, pending.Ticket)
	require.NoError(t, err)
	assert.Equal(t, core.ApplyStateDeclined, out.State)
	assert.Zero(t, exec.CallCount())

	_, err = a.Confirm(ctx, pending.Ticket)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	log, err := p.Applied(ctx, 0)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, core.ApplyStateDeclined, log[0].State)
}

func TestApplyInProgress(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	exec := mock.NewMockExecutor()
	exec.ExecuteFunc = func(ctx context.Context, action core.Action) error {
		if action.Id == "apps" {
			once.Do(func() { close(started) })
			<-release
		}
		return nil
	}
	a := newTestApplier(t, exec, WithConfirmer(yes()))
	ctx := context.Background()

	ticket, err := a.Apply(ctx, nil, "dark-mode", "apps", false)
	require.ErrorIs(t, err, ErrConfirmationRequired)

	done := make(chan error, 1)
	go func() {
		_, err := a.Apply(ctx, nil, "dark-mode", "apps", true)
		done <- err
	}()
	<-started

	_, err = a.Apply(ctx, nil, "dark-mode", "apps", true)
	assert.ErrorIs(t, err, ErrApplyInProgress)

	_, err = a.Confirm(ctx, ticket.Ticket)
	assert.ErrorIs(t, err, ErrApplyInProgress)
	assert.Len(t, a.Pending(), 1, "a busy ticket stays redeemable")

	out, err := a.Apply(ctx, nil, "dark-mode", "system", true)
	require.NoError(t, err, "other actions are not blocked")
	assert.Equal(t, core.ApplyStateApplied, out.State)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 2, exec.CallCount())

	out, err = a.Confirm(ctx, ticket.Ticket)
	require.NoError(t, err)
	assert.Equal(t, core.ApplyStateApplied, out.State)
}

func TestApplyResolveErrors(t *testing.T) {
	exec := mock.NewMockExecutor()
	a := newTestApplier(t, exec, WithConfirmer(yes()))
	ctx := context.Background()

	_, err := a.Apply(ctx, nil, "missing", "apps", true)
	assert.ErrorIs(t, err, catalog.ErrEntryNotFound)

	_, err = a.Apply(ctx, nil, "dark-mode", "missing", true)
	assert.ErrorIs(t, err, catalog.ErrActionNotFound)

	down, err := NewApplier(unreachableCatalog{}, exec, WithConfirmer(yes()))
	require.NoError(t, err)
	_, err = down.Apply(ctx, nil, "dark-mode", "apps", true)
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)

	assert.Zero(t, exec.CallCount())
}

type unreachableCatalog struct{}

func (unreachableCatalog) LoadEntries(context.Context) ([]*core.SettingEntry, error) {
	return nil, errors.New("connection refused")
}

func TestApplyRecordsOutcomes(t *testing.T) {
	exec := mock.NewMockExecutor()
	exec.ExecuteFunc = func(_ context.Context, action core.Action) error {
		if action.Kind == core.ActionKindPowerShell {
			return &executor.ExecutionError{Action: action, Diagnostic: "denied"}
		}
		return nil
	}
	_, p := newTestProfile(t)
	a := newTestApplier(t, exec, WithConfirmer(yes()))
	ctx := context.Background()

	_, err := a.Apply(ctx, p, "dark-mode", "apps", true)
	require.NoError(t, err)
	_, err = a.Apply(ctx, p, "disk-cleanup", "clear-temp", true)
	require.ErrorIs(t, err, ErrActionExecutionFailed)
	_, err = a.Apply(ctx, p, "dark-mode", "open", false)
	require.ErrorIs(t, err, ErrConfirmationRequired)

	log, err := p.Applied(ctx, 0)
	require.NoError(t, err)
	require.Len(t, log, 2, "pending outcomes are not terminal")

	states := map[string]core.ApplyState{}
	for _, r := range log {
		states[r.EntryId+"/"+r.ActionId] = r.State
		assert.Equal(t, p.Id(), r.ProfileId)
	}
	assert.Equal(t, core.ApplyStateApplied, states["dark-mode/apps"])
	assert.Equal(t, core.ApplyStateFailed, states["disk-cleanup/clear-temp"])
}

func TestApplySequence(t *testing.T) {
	ctx := context.Background()

	t.Run("all applied", func(t *testing.T) {
		exec := mock.NewMockExecutor()
		a := newTestApplier(t, exec, WithConfirmer(yes()))

		report, err := a.ApplySequence(ctx, nil, "dark-mode", []string{"apps", "system"}, true)
		require.NoError(t, err)
		assert.True(t, report.Complete())
		assert.Equal(t, []string{"apps", "system"}, report.Applied)
		assert.Equal(t, []string{"apps", "system"}, exec.Executed())
	})

	t.Run("stops at first failure", func(t *testing.T) {
		exec := mock.NewMockExecutor()
		exec.ExecuteFunc = func(_ context.Context, action core.Action) error {
			if action.Id == "system" {
				return &executor.ExecutionError{Action: action, Diagnostic: "key is read-only"}
			}
			return nil
		}
		a := newTestApplier(t, exec, WithConfirmer(yes()))

		report, err := a.ApplySequence(ctx, nil, "dark-mode", []string{"apps", "system", "open"}, true)
		assert.ErrorIs(t, err, ErrActionExecutionFailed)
		require.NotNil(t, report)
		assert.False(t, report.Complete())
		assert.Equal(t, []string{"apps"}, report.Applied)
		assert.Equal(t, "system", report.Failed)
		assert.Equal(t, []string{"open"}, report.Skipped)
		require.Len(t, report.Outcomes, 2)
		assert.Equal(t, "key is read-only", report.Outcomes[1].Diagnostic)
		assert.Equal(t, []string{"apps", "system"}, exec.Executed())
	})

	t.Run("needs confirmation", func(t *testing.T) {
		exec := mock.NewMockExecutor()
		a := newTestApplier(t, exec)

		report, err := a.ApplySequence(ctx, nil, "dark-mode", []string{"apps", "system"}, false)
		assert.ErrorIs(t, err, ErrConfirmationRequired)
		require.NotNil(t, report)
		assert.False(t, report.Complete())
		assert.Empty(t, report.Failed)
		assert.Equal(t, "apps", report.Pending)
		assert.Equal(t, []string{"system"}, report.Skipped)
		assert.Zero(t, exec.CallCount())

		require.Len(t, report.Outcomes, 1)
		pending := report.Outcomes[0]
		assert.Equal(t, core.ApplyStateConfirmationPending, pending.State)
		require.Len(t, a.Pending(), 1)

		out, err := a.Confirm(ctx, pending.Ticket)
		require.NoError(t, err)
		assert.Equal(t, core.ApplyStateApplied, out.State)
		assert.Equal(t, []string{"apps"}, exec.Executed())
	})

	t.Run("unknown action runs nothing", func(t *testing.T) {
		exec := mock.NewMockExecutor()
		a := newTestApplier(t, exec, WithConfirmer(yes()))

		_, err := a.ApplySequence(ctx, nil, "dark-mode", []string{"apps", "typo"}, true)
		assert.ErrorIs(t, err, catalog.ErrActionNotFound)
		assert.Zero(t, exec.CallCount())
	})

	t.Run("empty", func(t *testing.T) {
		a := newTestApplier(t, mock.NewMockExecutor())
		_, err := a.ApplySequence(ctx, nil, "dark-mode", nil, true)
		assert.ErrorIs(t, err, ErrNoActions)
	})
}
