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

package executor

import (
	"context"
	"regexp"

	"github.com/poiesic/winregi/core"
)

// Executor performs a single action. Execute must honour ctx cancellation;
// it returns an *ExecutionError when the action ran and failed.
type Executor interface {
	Execute(ctx context.Context, action core.Action) error
	SupportsRollback(action core.Action) bool
}

// SupportsRollback reports whether action can be reverted by a later
// action. Only reversible registry writes qualify.
func SupportsRollback(action core.Action) bool {
	return action.Kind == core.ActionKindRegistryWrite && action.Reversible
}

var adminScript = regexp.MustCompile(`(?i)(HKLM:|HKEY_LOCAL_MACHINE|\b(Set|Start|Stop|Restart|New|Remove)-Service\b|\bsc(\.exe)?\s+(config|start|stop|create|delete)\b)`)

// RequiresAdmin reports whether action needs an elevated process: registry
// writes below HKLM or HKCR, and PowerShell scripts that touch HKLM: or
// manage services.
func RequiresAdmin(action core.Action) bool {
	switch action.Kind {
	case core.ActionKindRegistryWrite:
		for _, v := range action.Registry {
			hive, _, err := core.SplitRegistryPath(v.Path)
			if err != nil {
				continue
			}
			if hive == core.HiveLocalMachine || hive == core.HiveClassesRoot {
				return true
			}
		}
	case core.ActionKindPowerShell:
		return adminScript.MatchString(action.Script)
	}
	return false
}
