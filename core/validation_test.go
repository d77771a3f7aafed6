package core

import (
	"errors"
	"testing"
)

func validEntry() *SettingEntry {
	return &SettingEntry{
		Id:         "advertising-id",
		Name:       "Advertising ID",
		CategoryId: "privacy",
		Keywords:   []string{"advertising", "tracking"},
		Risk:       RiskReversible,
		Actions: []Action{
			{
				Id:   "disable",
				Kind: ActionKindRegistryWrite,
				Registry: []RegistryValue{{
					Path: `HKCU\Software\Microsoft\Windows\CurrentVersion\AdvertisingInfo`,
					Name: "Enabled",
					Type: RegDword,
					Data: "0",
				}},
				Reversible: true,
				Effect:     EffectDisable,
			},
			{Id: "open", Kind: ActionKindSettingsURI, URI: "ms-settings:privacy-general"},
		},
	}
}

func TestValidateSettingEntry(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *SettingEntry) *SettingEntry
		wantErr error
	}{
		{
			name:    "valid entry",
			mutate:  func(e *SettingEntry) *SettingEntry { return e },
			wantErr: nil,
		},
		{
			name:    "valid entry without keywords",
			mutate:  func(e *SettingEntry) *SettingEntry { e.Keywords = nil; return e },
			wantErr: nil,
		},
		{
			name:    "nil entry",
			mutate:  func(e *SettingEntry) *SettingEntry { return nil },
			wantErr: ErrInvalidSettingEntry,
		},
		{
			name:    "empty id",
			mutate:  func(e *SettingEntry) *SettingEntry { e.Id = ""; return e },
			wantErr: ErrEmptyID,
		},
		{
			name:    "empty name",
			mutate:  func(e *SettingEntry) *SettingEntry { e.Name = ""; return e },
			wantErr: ErrEmptyName,
		},
		{
			name:    "unknown risk",
			mutate:  func(e *SettingEntry) *SettingEntry { e.Risk = 0; return e },
			wantErr: ErrInvalidRiskLevel,
		},
		{
			name:    "no actions",
			mutate:  func(e *SettingEntry) *SettingEntry { e.Actions = nil; return e },
			wantErr: ErrNoActions,
		},
		{
			name: "duplicate action ids",
			mutate: func(e *SettingEntry) *SettingEntry {
				e.Actions[1].Id = e.Actions[0].Id
				return e
			},
			wantErr: ErrDuplicateActionID,
		},
		{
			name: "invalid action",
			mutate: func(e *SettingEntry) *SettingEntry {
				e.Actions[1].URI = "https://example.com"
				return e
			},
			wantErr: ErrInvalidSettingsURI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettingEntry(tt.mutate(validEntry()))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSettingEntry() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSettingEntry() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidSettingEntry) {
				t.Errorf("ValidateSettingEntry() error should wrap ErrInvalidSettingEntry, got %v", err)
			}
		})
	}
}

func TestValidateAction(t *testing.T) {
	tests := []struct {
		name    string
		action  *Action
		wantErr error
	}{
		{
			name:    "powershell",
			action:  &Action{Id: "a", Kind: ActionKindPowerShell, Script: "Get-PSDrive"},
			wantErr: nil,
		},
		{
			name:    "control panel",
			action:  &Action{Id: "a", Kind: ActionKindControlPanel, URI: "desk.cpl"},
			wantErr: nil,
		},
		{
			name:    "nil action",
			action:  nil,
			wantErr: ErrInvalidAction,
		},
		{
			name:    "empty id",
			action:  &Action{Kind: ActionKindControlPanel, URI: "desk.cpl"},
			wantErr: ErrEmptyID,
		},
		{
			name:    "blank script",
			action:  &Action{Id: "a", Kind: ActionKindPowerShell, Script: "   "},
			wantErr: ErrEmptyPayload,
		},
		{
			name:    "registry without values",
			action:  &Action{Id: "a", Kind: ActionKindRegistryWrite},
			wantErr: ErrEmptyPayload,
		},
		{
			name: "registry with unknown hive",
			action: &Action{Id: "a", Kind: ActionKindRegistryWrite, Registry: []RegistryValue{
				{Path: `HKXX\Software`, Name: "x", Type: RegDword, Data: "1"},
			}},
			wantErr: ErrInvalidRegistryHive,
		},
		{
			name: "registry hive without subkey",
			action: &Action{Id: "a", Kind: ActionKindRegistryWrite, Registry: []RegistryValue{
				{Path: `HKCU`, Name: "x", Type: RegDword, Data: "1"},
			}},
			wantErr: ErrInvalidRegistryHive,
		},
		{
			name: "registry with unknown type",
			action: &Action{Id: "a", Kind: ActionKindRegistryWrite, Registry: []RegistryValue{
				{Path: `HKCU\Software`, Name: "x", Type: "REG_LINK", Data: "1"},
			}},
			wantErr: ErrInvalidRegistryType,
		},
		{
			name:    "unknown kind",
			action:  &Action{Id: "a", Kind: ActionKind(99)},
			wantErr: ErrInvalidActionKind,
		},
		{
			name:    "unknown effect",
			action:  &Action{Id: "a", Kind: ActionKindControlPanel, URI: "desk.cpl", Effect: ActionEffect(7)},
			wantErr: ErrInvalidActionEffect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAction(tt.action)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAction() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	if err := ValidateCategory(&Category{Id: "display", Name: "Display"}); err != nil {
		t.Errorf("ValidateCategory() unexpected error = %v", err)
	}
	if err := ValidateCategory(nil); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ValidateCategory(nil) error = %v, want %v", err, ErrInvalidCategory)
	}
	if err := ValidateCategory(&Category{Id: "display"}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("ValidateCategory() error = %v, want %v", err, ErrEmptyName)
	}
}

func TestValidateProfile(t *testing.T) {
	if err := ValidateProfile(&Profile{Name: "default"}); err != nil {
		t.Errorf("ValidateProfile() unexpected error = %v", err)
	}
	if err := ValidateProfile(&Profile{Name: "  "}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("ValidateProfile() error = %v, want %v", err, ErrEmptyName)
	}
	if err := ValidateProfile(nil); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("ValidateProfile(nil) error = %v, want %v", err, ErrInvalidProfile)
	}
}
