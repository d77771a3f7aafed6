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


package core

import (
	"fmt"
	"strings"
)

// ValidateSettingEntry validates a SettingEntry according to domain rules.
//
// Validation rules:
//   - Id and Name must not be empty
//   - Risk must be a known RiskLevel
//   - At least one Action must be present
//   - Action IDs must be unique within the entry
//   - Every Action must pass ValidateAction
//
// NOT validated:
//   - CategoryId resolution (the catalog checks it against its categories)
//   - Keywords and Tags (may be empty; name and description are still searchable)
func ValidateSettingEntry(entry *SettingEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidSettingEntry)
	}

	if entry.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSettingEntry, ErrEmptyID)
	}

	if entry.Name == "" {
		return fmt.Errorf("%w %s: %w", ErrInvalidSettingEntry, entry.Id, ErrEmptyName)
	}

	if _, ok := riskNames[entry.Risk]; !ok {
		return fmt.Errorf("%w %s: %w: value %d", ErrInvalidSettingEntry, entry.Id, ErrInvalidRiskLevel, entry.Risk)
	}

	if len(entry.Actions) == 0 {
		return fmt.Errorf("%w %s: %w", ErrInvalidSettingEntry, entry.Id, ErrNoActions)
	}

	seen := make(map[string]bool, len(entry.Actions))
	for i := range entry.Actions {
		action := &entry.Actions[i]
		if err := ValidateAction(action); err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidSettingEntry, entry.Id, err)
		}
		if seen[action.Id] {
			return fmt.Errorf("%w %s: %w: %s", ErrInvalidSettingEntry, entry.Id, ErrDuplicateActionID, action.Id)
		}
		seen[action.Id] = true
	}

	return nil
}

// ValidateAction validates an Action and the payload required by its kind.
func ValidateAction(action *Action) error {
	if action == nil {
		return fmt.Errorf("%w: action is nil", ErrInvalidAction)
	}

	if action.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAction, ErrEmptyID)
	}

	switch action.Kind {
	case ActionKindRegistryWrite:
		if len(action.Registry) == 0 {
			return fmt.Errorf("%w %s: %w", ErrInvalidAction, action.Id, ErrEmptyPayload)
		}
		for _, value := range action.Registry {
			if err := ValidateRegistryValue(value); err != nil {
				return fmt.Errorf("%w %s: %w", ErrInvalidAction, action.Id, err)
			}
		}
	case ActionKindPowerShell:
		if strings.TrimSpace(action.Script) == "" {
			return fmt.Errorf("%w %s: %w", ErrInvalidAction, action.Id, ErrEmptyPayload)
		}
	case ActionKindControlPanel:
		if strings.TrimSpace(action.URI) == "" {
			return fmt.Errorf("%w %s: %w", ErrInvalidAction, action.Id, ErrEmptyPayload)
		}
	case ActionKindSettingsURI:
		if !strings.HasPrefix(strings.ToLower(action.URI), "ms-settings:") {
			return fmt.Errorf("%w %s: %w", ErrInvalidAction, action.Id, ErrInvalidSettingsURI)
		}
	default:
		return fmt.Errorf("%w %s: %w: value %d", ErrInvalidAction, action.Id, ErrInvalidActionKind, action.Kind)
	}

	if _, ok := effectNames[action.Effect]; !ok {
		return fmt.Errorf("%w %s: %w", ErrInvalidAction, action.Id, ErrInvalidActionEffect)
	}

	return nil
}

// ValidateRegistryValue checks the hive and value type of a registry write.
func ValidateRegistryValue(value RegistryValue) error {
	hive, subkey, err := SplitRegistryPath(value.Path)
	if err != nil {
		return err
	}
	if subkey == "" {
		return fmt.Errorf("%w: no subkey under %s", ErrInvalidRegistryHive, hive)
	}
	if !IsValidRegistryType(value.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidRegistryType, value.Type)
	}
	return nil
}

// ValidateCategory validates a Category.
func ValidateCategory(category *Category) error {
	if category == nil {
		return fmt.Errorf("%w: category is nil", ErrInvalidCategory)
	}
	if category.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCategory, ErrEmptyID)
	}
	if category.Name == "" {
		return fmt.Errorf("%w %s: %w", ErrInvalidCategory, category.Id, ErrEmptyName)
	}
	return nil
}

// ValidateProfile validates a Profile.
//
// NOT validated:
//   - Favorites (entries may disappear from the catalog; stale IDs are skipped when read)
func ValidateProfile(profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}
	if strings.TrimSpace(profile.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrEmptyName)
	}
	return nil
}
