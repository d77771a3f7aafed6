package executor

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/winregi/core"
)

// StatusReader is implemented by executors that can read back the live
// state an action would change.
type StatusReader interface {
	Status(ctx context.Context, action core.Action) (*ActionStatus, error)
}

// ValueStatus compares one registry value an action writes with what the
// machine holds now.
type ValueStatus struct {
	Want    core.RegistryValue
	Exists  bool
	Type    string // type of the live value; empty when it does not exist
	Current string // live data in catalog text form
	Matches bool
}

// ActionStatus is the read-back state of a registry-write action.
type ActionStatus struct {
	Action core.Action
	Values []ValueStatus
}

// Applied reports whether every value already holds what the action writes.
func (s *ActionStatus) Applied() bool {
	if s == nil || len(s.Values) == 0 {
		return false
	}
	for _, v := range s.Values {
		if !v.Matches {
			return false
		}
	}
	return true
}

// valueReader reads one live registry value. It returns errValueNotFound
// when the key or value is absent.
type valueReader func(hive, subkey, name string) (*registryData, error)

var errValueNotFound = errors.New("registry value not found")

// readStatus reads every value of a registry-write action through read.
func readStatus(ctx context.Context, action core.Action, read valueReader) (*ActionStatus, error) {
	if err := core.ValidateAction(&action); err != nil {
		return nil, err
	}
	if action.Kind != core.ActionKindRegistryWrite {
		return nil, fmt.Errorf("%w: %s action %s", ErrStatusUnavailable, action.Kind, action.Id)
	}

	status := &ActionStatus{Action: action, Values: make([]ValueStatus, 0, len(action.Registry))}
	for _, v := range action.Registry {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		want, err := parseRegistryValue(v)
		if err != nil {
			return nil, err
		}
		vs := ValueStatus{Want: v}
		got, err := read(want.hive, want.subkey, want.name)
		switch {
		case errors.Is(err, errValueNotFound):
		case err != nil:
			return nil, fmt.Errorf(`failed to read %s\%s\%s: %w`, want.hive, want.subkey, want.name, err)
		default:
			vs.Exists = true
			vs.Type = got.kind
			vs.Current = got.String()
			vs.Matches = want.equal(got)
		}
		status.Values = append(status.Values, vs)
	}
	return status, nil
}

// equal compares type and data. DWORD and QWORD are distinct types.
func (d *registryData) equal(o *registryData) bool {
	if d.kind != o.kind {
		return false
	}
	switch d.kind {
	case core.RegString, core.RegExpandString:
		return d.str == o.str
	case core.RegMultiString:
		return slices.Equal(d.strs, o.strs)
	case core.RegDword, core.RegQword:
		return d.integer == o.integer
	case core.RegBinary:
		return bytes.Equal(d.binary, o.binary)
	}
	return false
}

// String renders the data in the text form catalog files use.
func (d *registryData) String() string {
	switch d.kind {
	case core.RegString, core.RegExpandString:
		return d.str
	case core.RegMultiString:
		return strings.Join(d.strs, "\n")
	case core.RegDword, core.RegQword:
		return strconv.FormatUint(d.integer, 10)
	case core.RegBinary:
		return hex.EncodeToString(d.binary)
	}
	return ""
}
