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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSettingEntry indicates a SettingEntry failed validation.
	ErrInvalidSettingEntry = errors.New("invalid setting entry")

	// ErrInvalidAction indicates an Action failed validation.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidCategory indicates a Category failed validation.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidProfile indicates a Profile failed validation.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrEmptyID indicates an identifier field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyName indicates a Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNoActions indicates a SettingEntry has no actions.
	ErrNoActions = errors.New("entry must have at least one action")

	// ErrDuplicateActionID indicates two actions of one entry share an ID.
	ErrDuplicateActionID = errors.New("duplicate action id")

	// ErrEmptyPayload indicates an action has no payload for its kind.
	ErrEmptyPayload = errors.New("action payload cannot be empty")

	// ErrInvalidRiskLevel indicates an invalid RiskLevel value.
	ErrInvalidRiskLevel = errors.New("invalid risk level")

	// ErrInvalidActionKind indicates an invalid ActionKind value.
	ErrInvalidActionKind = errors.New("invalid action kind")

	// ErrInvalidActionEffect indicates an invalid ActionEffect value.
	ErrInvalidActionEffect = errors.New("invalid action effect")

	// ErrInvalidRegistryHive indicates a registry path with an unknown hive.
	ErrInvalidRegistryHive = errors.New("invalid registry hive")

	// ErrInvalidRegistryType indicates an unsupported registry value type.
	ErrInvalidRegistryType = errors.New("invalid registry value type")

	// ErrInvalidSettingsURI indicates a settings-uri action without the ms-settings: scheme.
	ErrInvalidSettingsURI = errors.New("settings uri must use the ms-settings: scheme")
)
