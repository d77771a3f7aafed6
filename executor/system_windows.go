//go:build windows

package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/poiesic/winregi/core"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const platformSupported = true

var rootKeys = map[string]registry.Key{
	core.HiveClassesRoot:   registry.CLASSES_ROOT,
	core.HiveCurrentUser:   registry.CURRENT_USER,
	core.HiveLocalMachine:  registry.LOCAL_MACHINE,
	core.HiveUsers:         registry.USERS,
	core.HiveCurrentConfig: registry.CURRENT_CONFIG,
}

// Elevated reports whether the process token is elevated.
func Elevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

func (s *System) writeRegistry(ctx context.Context, action core.Action) error {
	values := make([]*registryData, 0, len(action.Registry))
	for _, v := range action.Registry {
		d, err := parseRegistryValue(v)
		if err != nil {
			return &ExecutionError{Action: action, Err: err}
		}
		values = append(values, d)
	}

	for _, d := range values {
		if err := ctx.Err(); err != nil {
			return &ExecutionError{Action: action, Diagnostic: "cancelled before all values were written", Err: err}
		}
		if err := setValue(d); err != nil {
			return &ExecutionError{
				Action:     action,
				Diagnostic: fmt.Sprintf(`could not write %s\%s\%s`, d.hive, d.subkey, d.name),
				Err:        err,
			}
		}
		s.logger.Debug("registry value written", "hive", d.hive, "key", d.subkey, "name", d.name, "type", d.kind)
	}
	return nil
}

func setValue(d *registryData) error {
	root, ok := rootKeys[d.hive]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrInvalidRegistryHive, d.hive)
	}
	key, _, err := registry.CreateKey(root, d.subkey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open registry key: %w", err)
	}
	defer key.Close()

	switch d.kind {
	case core.RegString:
		return key.SetStringValue(d.name, d.str)
	case core.RegExpandString:
		return key.SetExpandStringValue(d.name, d.str)
	case core.RegMultiString:
		return key.SetStringsValue(d.name, d.strs)
	case core.RegDword:
		return key.SetDWordValue(d.name, uint32(d.integer))
	case core.RegQword:
		return key.SetQWordValue(d.name, d.integer)
	case core.RegBinary:
		return key.SetBinaryValue(d.name, d.binary)
	}
	return fmt.Errorf("%w: %q", core.ErrInvalidRegistryType, d.kind)
}

var valueTypes = map[uint32]string{
	registry.SZ:        core.RegString,
	registry.EXPAND_SZ: core.RegExpandString,
	registry.MULTI_SZ:  core.RegMultiString,
	registry.DWORD:     core.RegDword,
	registry.QWORD:     core.RegQword,
	registry.BINARY:    core.RegBinary,
}

func readRegistryValue(hive, subkey, name string) (*registryData, error) {
	root, ok := rootKeys[hive]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidRegistryHive, hive)
	}
	key, err := registry.OpenKey(root, subkey, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return nil, errValueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open registry key: %w", err)
	}
	defer key.Close()

	_, valtype, err := key.GetValue(name, nil)
	if errors.Is(err, registry.ErrNotExist) {
		return nil, errValueNotFound
	}
	if err != nil && !errors.Is(err, windows.ERROR_MORE_DATA) {
		return nil, err
	}

	d := &registryData{hive: hive, subkey: subkey, name: name, kind: valueTypes[valtype]}
	switch d.kind {
	case core.RegString, core.RegExpandString:
		d.str, _, err = key.GetStringValue(name)
	case core.RegMultiString:
		d.strs, _, err = key.GetStringsValue(name)
	case core.RegDword, core.RegQword:
		d.integer, _, err = key.GetIntegerValue(name)
	case core.RegBinary:
		d.binary, _, err = key.GetBinaryValue(name)
	default:
		d.kind = fmt.Sprintf("type %d", valtype)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *System) runPowerShell(ctx context.Context, action core.Action) error {
	cmd := exec.CommandContext(ctx, "powershell.exe", powerShellArgs(action.Script)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err == nil {
		s.logger.Debug("powershell finished", "action", action.Id, "output", strings.TrimSpace(string(out)))
		return nil
	}

	diagnostic := strings.TrimSpace(stderr.String())
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		diagnostic = "powershell command timed out"
		err = ctx.Err()
	}
	if diagnostic == "" {
		diagnostic = strings.TrimSpace(string(out))
	}
	return &ExecutionError{Action: action, Diagnostic: diagnostic, Err: err}
}

func (s *System) openControlPanel(ctx context.Context, action core.Action) error {
	cmd := exec.CommandContext(ctx, "control.exe", controlPanelArgs(action.URI)...)
	if err := cmd.Run(); err != nil {
		return &ExecutionError{Action: action, Diagnostic: "could not open control panel applet " + action.URI, Err: err}
	}
	return nil
}

// openSettings launches the page through explorer.exe without waiting:
// explorer exits with a non-zero status even when the page opens.
func (s *System) openSettings(ctx context.Context, action core.Action) error {
	cmd := exec.CommandContext(ctx, "explorer.exe", action.URI)
	if err := cmd.Start(); err != nil {
		return &ExecutionError{Action: action, Diagnostic: "could not open " + action.URI, Err: err}
	}
	return cmd.Process.Release()
}
