package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"slices"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persisted records.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RiskLevel describes how dangerous it is to change a setting.
type RiskLevel int

const (
	// RiskSafe changes are cosmetic or trivially undone.
	RiskSafe RiskLevel = iota + 1
	// RiskReversible changes alter system state but can be reverted.
	RiskReversible
	// RiskCaution changes may affect stability, security or require a restart.
	RiskCaution
)

var riskNames = map[RiskLevel]string{
	RiskSafe:       "safe",
	RiskReversible: "reversible",
	RiskCaution:    "caution",
}

func (r RiskLevel) String() string {
	if name, ok := riskNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRiskLevel converts a risk name into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for level, name := range riskNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return level, nil
		}
	}
	return 0, ErrInvalidRiskLevel
}

// ActionKind identifies the mechanism an Action uses to change a setting.
type ActionKind int

const (
	// ActionKindRegistryWrite writes one or more registry values.
	ActionKindRegistryWrite ActionKind = iota + 1
	// ActionKindPowerShell runs a PowerShell script.
	ActionKindPowerShell
	// ActionKindControlPanel opens a Control Panel applet.
	ActionKindControlPanel
	// ActionKindSettingsURI opens an ms-settings: page.
	ActionKindSettingsURI
)

var actionKindNames = map[ActionKind]string{
	ActionKindRegistryWrite: "registry-write",
	ActionKindPowerShell:    "powershell-command",
	ActionKindControlPanel:  "control-panel-link",
	ActionKindSettingsURI:   "settings-uri",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseActionKind converts an action kind name into an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	for kind, name := range actionKindNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return kind, nil
		}
	}
	return 0, ErrInvalidActionKind
}

// Mutates reports whether actions of this kind change system state.
// Opening a page or applet only navigates.
func (k ActionKind) Mutates() bool {
	return k == ActionKindRegistryWrite || k == ActionKindPowerShell
}

// ActionEffect records what an action does to its setting, used to pick the
// action that matches an "enable" or "disable" query.
type ActionEffect int

const (
	EffectNone ActionEffect = iota
	EffectEnable
	EffectDisable
)

var effectNames = map[ActionEffect]string{
	EffectNone:    "",
	EffectEnable:  "enable",
	EffectDisable: "disable",
}

func (e ActionEffect) String() string {
	return effectNames[e]
}

// ParseActionEffect converts an effect name into an ActionEffect.
// The empty string maps to EffectNone.
func ParseActionEffect(s string) (ActionEffect, error) {
	s = strings.TrimSpace(s)
	for effect, name := range effectNames {
		if strings.EqualFold(name, s) {
			return effect, nil
		}
	}
	return 0, ErrInvalidActionEffect
}

// RegistryValue is a single value written by a registry action.
type RegistryValue struct {
	Path string // Full key path including the hive, e.g. HKCU\Software\...
	Name string // Value name; empty writes the key's default value
	Type string // REG_SZ, REG_DWORD, ...
	Data string // Textual form of the data; REG_MULTI_SZ items are newline separated
}

// Action is one concrete way to change a SettingEntry.
type Action struct {
	Id          string
	Name        string
	Description string
	Kind        ActionKind
	Registry    []RegistryValue // registry-write payload
	Script      string          // powershell-command payload
	URI         string          // control-panel-link applet or settings-uri target
	Reversible  bool
	Default     bool
	Effect      ActionEffect
}

// Targets returns the resources this action touches, sorted and de-duplicated.
// Registry writes target their key paths; other kinds target their payload.
func (a *Action) Targets() []string {
	var targets []string
	switch a.Kind {
	case ActionKindRegistryWrite:
		for _, v := range a.Registry {
			targets = append(targets, strings.ToLower(CanonicalRegistryPath(v.Path)))
		}
	case ActionKindPowerShell:
		targets = append(targets, "powershell:"+a.Id)
	default:
		targets = append(targets, strings.ToLower(a.URI))
	}
	slices.Sort(targets)
	return slices.Compact(targets)
}

// Category groups setting entries.
type Category struct {
	Id          string
	Name        string
	Description string
}

// SettingEntry is a predefined, user-facing Windows setting with one or more
// actions that change it. Entries are immutable once loaded from a catalog.
type SettingEntry struct {
	Id          string
	Name        string
	Description string
	CategoryId  string
	Keywords    []string
	Tags        []string
	Actions     []Action
	Risk        RiskLevel
}

// Action returns the action with the given ID, or nil.
func (e *SettingEntry) Action(id string) *Action {
	for i := range e.Actions {
		if e.Actions[i].Id == id {
			return &e.Actions[i]
		}
	}
	return nil
}

// DefaultAction returns the action flagged as default, falling back to the
// first action.
func (e *SettingEntry) DefaultAction() *Action {
	for i := range e.Actions {
		if e.Actions[i].Default {
			return &e.Actions[i]
		}
	}
	if len(e.Actions) == 0 {
		return nil
	}
	return &e.Actions[0]
}

// QueryKind is the coarse intent detected in a query.
type QueryKind int

const (
	QueryKindSearch QueryKind = iota + 1
	QueryKindHowTo
	QueryKindQuestion
	QueryKindEnable
	QueryKindDisable
)

func (k QueryKind) String() string {
	switch k {
	case QueryKindSearch:
		return "search"
	case QueryKindHowTo:
		return "how-to"
	case QueryKindQuestion:
		return "question"
	case QueryKindEnable:
		return "enable"
	case QueryKindDisable:
		return "disable"
	}
	return "unknown"
}

// Query is a tokenized search request. It is created per search and never stored.
type Query struct {
	Raw        string
	Normalized string   // normalized tokens in query order, space separated
	Tokens     []string // unique normalized tokens, in query order
	Expanded   []string // related tokens from intent phrases or expansion
	Intents    []string // names of the intent phrases that fired
	Kind       QueryKind
}

// IsEmpty reports whether the query normalized to no tokens. Intents and
// expansions only refine a query; on their own they never match anything.
func (q *Query) IsEmpty() bool {
	return q == nil || len(q.Tokens) == 0
}

// RankedResult is a catalog entry matched by a query.
type RankedResult struct {
	Entry             *SettingEntry
	Score             float64
	Matched           []string // query tokens found in the entry, in query order
	SuggestedActionId string
}
