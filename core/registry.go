package core

import (
	"fmt"
	"strings"
)

// Registry hives, in their short form.
const (
	HiveClassesRoot   = "HKCR"
	HiveCurrentUser   = "HKCU"
	HiveLocalMachine  = "HKLM"
	HiveUsers         = "HKU"
	HiveCurrentConfig = "HKCC"
)

// Registry value types.
const (
	RegString       = "REG_SZ"
	RegExpandString = "REG_EXPAND_SZ"
	RegMultiString  = "REG_MULTI_SZ"
	RegDword        = "REG_DWORD"
	RegQword        = "REG_QWORD"
	RegBinary       = "REG_BINARY"
)

var hiveAliases = map[string]string{
	"HKCR":                HiveClassesRoot,
	"HKEY_CLASSES_ROOT":   HiveClassesRoot,
	"HKCU":                HiveCurrentUser,
	"HKEY_CURRENT_USER":   HiveCurrentUser,
	"HKLM":                HiveLocalMachine,
	"HKEY_LOCAL_MACHINE":  HiveLocalMachine,
	"HKU":                 HiveUsers,
	"HKEY_USERS":          HiveUsers,
	"HKCC":                HiveCurrentConfig,
	"HKEY_CURRENT_CONFIG": HiveCurrentConfig,
}

var registryTypes = map[string]bool{
	RegString:       true,
	RegExpandString: true,
	RegMultiString:  true,
	RegDword:        true,
	RegQword:        true,
	RegBinary:       true,
}

// SplitRegistryPath splits a key path into its short hive name and subkey.
// Both "HKCU\Software" and "HKEY_CURRENT_USER\Software" are accepted, as are
// forward slashes and the PowerShell "HKCU:" drive form.
func SplitRegistryPath(path string) (hive, subkey string, err error) {
	p := strings.ReplaceAll(strings.TrimSpace(path), "/", `\`)
	root, rest, _ := strings.Cut(p, `\`)
	root = strings.TrimSuffix(strings.ToUpper(root), ":")
	hive, ok := hiveAliases[root]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRegistryHive, path)
	}
	return hive, strings.Trim(rest, `\`), nil
}

// CanonicalRegistryPath returns path with a short hive name, or path unchanged
// if the hive is not recognized.
func CanonicalRegistryPath(path string) string {
	hive, subkey, err := SplitRegistryPath(path)
	if err != nil {
		return path
	}
	if subkey == "" {
		return hive
	}
	return hive + `\` + subkey
}

// IsValidRegistryType reports whether t names a supported value type.
func IsValidRegistryType(t string) bool {
	return registryTypes[strings.ToUpper(t)]
}
