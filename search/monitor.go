package search

import "github.com/poiesic/winregi/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to trace intermediate steps and results.
// Hooks are called sequentially from the searching goroutine.
type SearchMonitor interface {
	Start(text string)
	AfterTokenize(q *core.Query)
	AfterCatalogLoad(entries int)
	Candidate(entry *core.SettingEntry, match Match)
	Finish(results []*core.RankedResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterTokenize(_ *core.Query)            {}
func (n *noopMonitor) AfterCatalogLoad(_ int)                 {}
func (n *noopMonitor) Candidate(_ *core.SettingEntry, _ Match) {}
func (n *noopMonitor) Finish(_ []*core.RankedResult)          {}
