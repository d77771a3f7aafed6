package executor

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/winregi/core"
)

// registryData is a registry value converted from its catalog text form.
type registryData struct {
	hive    string
	subkey  string
	name    string
	kind    string
	str     string
	strs    []string
	integer uint64
	binary  []byte
}

// parseRegistryValue converts v into typed data. DWORD and QWORD accept
// decimal or 0x-prefixed hex, binary accepts hex with optional separators
// and multi-string items are newline separated.
func parseRegistryValue(v core.RegistryValue) (*registryData, error) {
	hive, subkey, err := core.SplitRegistryPath(v.Path)
	if err != nil {
		return nil, err
	}
	d := &registryData{hive: hive, subkey: subkey, name: v.Name, kind: strings.ToUpper(v.Type)}

	switch d.kind {
	case core.RegString, core.RegExpandString:
		d.str = v.Data
	case core.RegMultiString:
		if v.Data != "" {
			d.strs = strings.Split(strings.ReplaceAll(v.Data, "\r\n", "\n"), "\n")
		}
	case core.RegDword:
		n, err := strconv.ParseUint(strings.TrimSpace(v.Data), 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidRegistryData, d.kind, v.Data, err)
		}
		d.integer = n
	case core.RegQword:
		n, err := strconv.ParseUint(strings.TrimSpace(v.Data), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidRegistryData, d.kind, v.Data, err)
		}
		d.integer = n
	case core.RegBinary:
		clean := strings.NewReplacer(",", "", " ", "", "-", "").Replace(strings.TrimPrefix(strings.ToLower(v.Data), "hex:"))
		b, err := hex.DecodeString(clean)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidRegistryData, d.kind, v.Data, err)
		}
		d.binary = b
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidRegistryType, v.Type)
	}
	return d, nil
}
