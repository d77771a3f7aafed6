//go:build !windows

package executor

import (
	"context"

	"github.com/poiesic/winregi/core"
)

const platformSupported = false

// Elevated always reports false off Windows.
func Elevated() bool {
	return false
}

func (s *System) writeRegistry(_ context.Context, action core.Action) error {
	// Parse anyway so bad catalog data is reported the same way everywhere.
	for _, v := range action.Registry {
		if _, err := parseRegistryValue(v); err != nil {
			return &ExecutionError{Action: action, Err: err}
		}
	}
	return unsupported(action)
}

func readRegistryValue(_, _, _ string) (*registryData, error) {
	return nil, ErrUnsupportedPlatform
}

func (s *System) runPowerShell(_ context.Context, action core.Action) error {
	return unsupported(action)
}

func (s *System) openControlPanel(_ context.Context, action core.Action) error {
	return unsupported(action)
}

func (s *System) openSettings(_ context.Context, action core.Action) error {
	return unsupported(action)
}

func unsupported(action core.Action) error {
	return &ExecutionError{Action: action, Diagnostic: "this build cannot change Windows settings", Err: ErrUnsupportedPlatform}
}
