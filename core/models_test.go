package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "profile name", content: "default"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IDFromContent(tt.content), IDFromContent(tt.content))
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	if IDFromContent("content1") == IDFromContent("content2") {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestParseRiskLevel(t *testing.T) {
	for level, name := range riskNames {
		got, err := ParseRiskLevel(name)
		require.NoError(t, err)
		assert.Equal(t, level, got)
		assert.Equal(t, name, level.String())
	}

	got, err := ParseRiskLevel(" Caution ")
	require.NoError(t, err)
	assert.Equal(t, RiskCaution, got)

	_, err = ParseRiskLevel("dangerous")
	assert.ErrorIs(t, err, ErrInvalidRiskLevel)
	assert.Equal(t, "unknown", RiskLevel(42).String())
}

func TestParseActionKind(t *testing.T) {
	tests := []struct {
		in   string
		want ActionKind
	}{
		{"registry-write", ActionKindRegistryWrite},
		{"powershell-command", ActionKindPowerShell},
		{"control-panel-link", ActionKindControlPanel},
		{"SETTINGS-URI", ActionKindSettingsURI},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseActionKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseActionKind("telnet")
	assert.ErrorIs(t, err, ErrInvalidActionKind)
}

func TestActionKindMutates(t *testing.T) {
	assert.True(t, ActionKindRegistryWrite.Mutates())
	assert.True(t, ActionKindPowerShell.Mutates())
	assert.False(t, ActionKindControlPanel.Mutates())
	assert.False(t, ActionKindSettingsURI.Mutates())
}

func TestParseActionEffect(t *testing.T) {
	got, err := ParseActionEffect("")
	require.NoError(t, err)
	assert.Equal(t, EffectNone, got)

	got, err = ParseActionEffect("Disable")
	require.NoError(t, err)
	assert.Equal(t, EffectDisable, got)

	_, err = ParseActionEffect("toggle")
	assert.ErrorIs(t, err, ErrInvalidActionEffect)
}

func TestActionTargets(t *testing.T) {
	t.Run("registry values share a key", func(t *testing.T) {
		a := Action{
			Id:   "dark",
			Kind: ActionKindRegistryWrite,
			Registry: []RegistryValue{
				{Path: `HKEY_CURRENT_USER\Software\Themes\Personalize`, Name: "AppsUseLightTheme"},
				{Path: `HKCU\Software\Themes\Personalize`, Name: "SystemUsesLightTheme"},
			},
		}
		assert.Equal(t, []string{`hkcu\software\themes\personalize`}, a.Targets())
	})

	t.Run("settings uri", func(t *testing.T) {
		a := Action{Id: "open", Kind: ActionKindSettingsURI, URI: "ms-settings:nightlight"}
		assert.Equal(t, []string{"ms-settings:nightlight"}, a.Targets())
	})

	t.Run("powershell scripts are keyed by action", func(t *testing.T) {
		a := Action{Id: "clear-temp", Kind: ActionKindPowerShell, Script: "Remove-Item $env:TEMP\\*"}
		assert.Equal(t, []string{"powershell:clear-temp"}, a.Targets())
	})
}

func TestSettingEntryActions(t *testing.T) {
	entry := &SettingEntry{
		Id: "night-light",
		Actions: []Action{
			{Id: "open", Kind: ActionKindSettingsURI, URI: "ms-settings:nightlight"},
			{Id: "enable", Kind: ActionKindSettingsURI, URI: "ms-settings:nightlight", Default: true},
		},
	}

	require.NotNil(t, entry.Action("open"))
	assert.Nil(t, entry.Action("missing"))
	assert.Equal(t, "enable", entry.DefaultAction().Id)

	entry.Actions[1].Default = false
	assert.Equal(t, "open", entry.DefaultAction().Id)

	assert.Nil(t, (&SettingEntry{}).DefaultAction())
}

func TestQueryIsEmpty(t *testing.T) {
	var q *Query
	assert.True(t, q.IsEmpty())
	assert.True(t, (&Query{Raw: "the"}).IsEmpty())
	assert.False(t, (&Query{Tokens: []string{"dark"}}).IsEmpty())
	assert.True(t, (&Query{Intents: []string{"speed up"}, Expanded: []string{"perform"}}).IsEmpty())
}

func TestApplyStateTerminal(t *testing.T) {
	assert.False(t, ApplyStateSuggested.Terminal())
	assert.False(t, ApplyStateConfirmationPending.Terminal())
	assert.True(t, ApplyStateApplied.Terminal())
	assert.True(t, ApplyStateFailed.Terminal())
	assert.True(t, ApplyStateDeclined.Terminal())
	assert.Equal(t, "confirmation-pending", ApplyStateConfirmationPending.String())
}

func TestSplitRegistryPath(t *testing.T) {
	tests := []struct {
		path       string
		wantHive   string
		wantSubkey string
		wantErr    bool
	}{
		{`HKCU\Software\Microsoft`, HiveCurrentUser, `Software\Microsoft`, false},
		{`HKEY_LOCAL_MACHINE\SOFTWARE\Policies`, HiveLocalMachine, `SOFTWARE\Policies`, false},
		{`HKLM:\SYSTEM\CurrentControlSet`, HiveLocalMachine, `SYSTEM\CurrentControlSet`, false},
		{`hkcr/.txt`, HiveClassesRoot, `.txt`, false},
		{`HKEY_USERS`, HiveUsers, ``, false},
		{`HKXX\Software`, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			hive, subkey, err := SplitRegistryPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRegistryHive)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHive, hive)
			assert.Equal(t, tt.wantSubkey, subkey)
		})
	}
}
