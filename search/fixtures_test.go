package search

import (
	"context"

	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
)

func uriAction(id, uri string) core.Action {
	return core.Action{Id: id, Kind: core.ActionKindSettingsURI, URI: uri}
}

func testCatalog() *catalog.Snapshot {
	categories := []*core.Category{
		{Id: "display", Name: "Display"},
		{Id: "power", Name: "Power"},
		{Id: "personalization", Name: "Personalization"},
		{Id: "network", Name: "Network"},
	}
	entries := []*core.SettingEntry{
		{
			Id:          "night-light",
			Name:        "Night Light",
			Description: "Warmer colours at night",
			CategoryId:  "display",
			Keywords:    []string{"night", "dark", "blue light"},
			Risk:        core.RiskSafe,
			Actions:     []core.Action{uriAction("open", "ms-settings:nightlight")},
		},
		{
			Id:          "battery-saver",
			Name:        "Battery Saver",
			Description: "Extend battery life by limiting background activity",
			CategoryId:  "power",
			Keywords:    []string{"battery", "saver", "charge"},
			Risk:        core.RiskSafe,
			Actions:     []core.Action{uriAction("open", "ms-settings:batterysaver")},
		},
		{
			Id:          "dark-mode",
			Name:        "Dark Mode",
			Description: "Switch apps and Windows to the dark theme",
			CategoryId:  "personalization",
			Keywords:    []string{"dark mode", "theme", "black"},
			Risk:        core.RiskReversible,
			Actions: []core.Action{
				{
					Id:   "enable",
					Kind: core.ActionKindRegistryWrite,
					Registry: []core.RegistryValue{{
						Path: `HKCU\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`,
						Name: "AppsUseLightTheme", Type: core.RegDword, Data: "0",
					}},
					Reversible: true,
					Default:    true,
					Effect:     core.EffectEnable,
				},
				{
					Id:   "disable",
					Kind: core.ActionKindRegistryWrite,
					Registry: []core.RegistryValue{{
						Path: `HKCU\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`,
						Name: "AppsUseLightTheme", Type: core.RegDword, Data: "1",
					}},
					Reversible: true,
					Effect:     core.EffectDisable,
				},
			},
		},
		{
			Id:          "wifi",
			Name:        "Wi-Fi",
			Description: "Wireless network connections",
			CategoryId:  "network",
			Keywords:    []string{"wifi", "wireless", "hotspot"},
			Risk:        core.RiskSafe,
			Actions:     []core.Action{uriAction("open", "ms-settings:network-wifi")},
		},
	}

	s, err := catalog.NewSnapshot(categories, entries)
	if err != nil {
		panic(err)
	}
	return s
}

// mockCatalog is a catalog.Catalog with an injectable LoadEntries.
type mockCatalog struct {
	LoadEntriesFunc func(ctx context.Context) ([]*core.SettingEntry, error)
	callCount       int
}

func (m *mockCatalog) LoadEntries(ctx context.Context) ([]*core.SettingEntry, error) {
	m.callCount++
	return m.LoadEntriesFunc(ctx)
}

// recordingMonitor counts monitor callbacks.
type recordingMonitor struct {
	started    []string
	queries    []*core.Query
	loaded     []int
	candidates []string
	finished   [][]*core.RankedResult
}

func (m *recordingMonitor) Start(text string)           { m.started = append(m.started, text) }
func (m *recordingMonitor) AfterTokenize(q *core.Query) { m.queries = append(m.queries, q) }
func (m *recordingMonitor) AfterCatalogLoad(n int)      { m.loaded = append(m.loaded, n) }
func (m *recordingMonitor) Candidate(e *core.SettingEntry, _ Match) {
	m.candidates = append(m.candidates, e.Id)
}
func (m *recordingMonitor) Finish(r []*core.RankedResult) { m.finished = append(m.finished, r) }

func resultIDs(results []*core.RankedResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Entry.Id
	}
	return ids
}
