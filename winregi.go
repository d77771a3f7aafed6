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

// Package winregi finds Windows settings from plain-language queries and
// applies them only after the user agrees.
//
// Engine wires a settings catalog, the per-profile preference store, the
// searcher and the applier together. A GUI or the bundled CLI opens one
// Engine, opens a Profile per user and passes it into every call.
package winregi

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/winregi/ai"
	"github.com/poiesic/winregi/ai/openai"
	"github.com/poiesic/winregi/apply"
	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/executor"
	"github.com/poiesic/winregi/metrics"
	"github.com/poiesic/winregi/profile"
	"github.com/poiesic/winregi/search"
	"github.com/poiesic/winregi/storage/badger"
	"github.com/prometheus/client_golang/prometheus"
)

// Engine is the library entry point: it owns the catalog, the profile store,
// the searcher and the applier, and closes them together. An Engine is safe
// for concurrent use.
type Engine struct {
	repos    *badger.Repositories
	profiles *profile.Manager
	catalog  catalog.Catalog
	searcher *search.Searcher
	applier  *apply.Applier
	executor *executor.Serialized
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	catalog    catalog.Catalog
	executor   executor.Executor
	confirmer  apply.Confirmer
	expander   ai.QueryExpander
	aiConfig   *ai.Config
	registerer prometheus.Registerer
	searchOpts []search.Option
	applyOpts  []apply.Option
	poolSize   int
	logger     *slog.Logger
}

// WithCatalog sets the settings catalog. The default is catalog.Builtin().
func WithCatalog(c catalog.Catalog) EngineOption {
	return func(o *engineOptions) { o.catalog = c }
}

// WithExecutor sets the action executor. The default is the system executor.
// Either way the executor is wrapped in executor.Serialized.
func WithExecutor(e executor.Executor) EngineOption {
	return func(o *engineOptions) { o.executor = e }
}

// WithConfirmer sets the confirmer asked before auto-applied actions.
func WithConfirmer(c apply.Confirmer) EngineOption {
	return func(o *engineOptions) { o.confirmer = c }
}

// WithQueryExpander enables query expansion with expander. Expansions are
// cached per normalized query for the life of the Engine; across Engines a
// model-backed expander may rank the same query differently.
func WithQueryExpander(expander ai.QueryExpander) EngineOption {
	return func(o *engineOptions) { o.expander = expander }
}

// WithAIConfig enables query expansion through an OpenAI-compatible model.
// It is ignored when WithQueryExpander is also given. Caching is as for
// WithQueryExpander.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) { o.aiConfig = config }
}

// WithMetricsRegisterer registers search and apply metrics on reg.
func WithMetricsRegisterer(reg prometheus.Registerer) EngineOption {
	return func(o *engineOptions) { o.registerer = reg }
}

// WithSearchOptions passes extra options to the searcher.
func WithSearchOptions(opts ...search.Option) EngineOption {
	return func(o *engineOptions) { o.searchOpts = append(o.searchOpts, opts...) }
}

// WithApplyOptions passes extra options to the applier.
func WithApplyOptions(opts ...apply.Option) EngineOption {
	return func(o *engineOptions) { o.applyOpts = append(o.applyOpts, opts...) }
}

// WithPoolSize sets the number of background history writers.
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) { o.poolSize = size }
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) { o.logger = logger }
}

// NewEngine opens the preference store in dataDir and wires the components.
// An empty dataDir keeps preferences in memory.
func NewEngine(dataDir string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	c := options.catalog
	if c == nil {
		builtin, err := catalog.Builtin()
		if err != nil {
			return nil, err
		}
		c = builtin
	}

	exec := options.executor
	if exec == nil {
		system, err := executor.NewSystem(executor.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		exec = system
	}
	serialized, err := executor.NewSerialized(exec)
	if err != nil {
		return nil, err
	}

	m := metrics.New(options.registerer)

	strategy, err := newStrategy(options, m)
	if err != nil {
		return nil, err
	}

	repos, err := badger.OpenRepositories(dataDir, dataDir == "")
	if err != nil {
		return nil, err
	}

	profileOpts := []profile.Option{profile.WithLogger(logger)}
	if options.poolSize > 0 {
		profileOpts = append(profileOpts, profile.WithPoolSize(options.poolSize))
	}
	profiles, err := profile.NewManager(repos.Profiles, repos.History, repos.Applied, profileOpts...)
	if err != nil {
		repos.Close()
		return nil, err
	}

	searchOpts := append([]search.Option{
		search.WithStrategy(strategy),
		search.WithMetrics(m),
		search.WithLogger(logger),
	}, options.searchOpts...)
	searcher, err := search.NewSearcher(c, searchOpts...)
	if err != nil {
		profiles.Release()
		repos.Close()
		return nil, err
	}

	applyOpts := append([]apply.Option{
		apply.WithConfirmer(options.confirmer),
		apply.WithMetrics(m),
		apply.WithLogger(logger),
	}, options.applyOpts...)
	applier, err := apply.NewApplier(c, serialized, applyOpts...)
	if err != nil {
		profiles.Release()
		repos.Close()
		return nil, err
	}

	return &Engine{
		repos:    repos,
		profiles: profiles,
		catalog:  c,
		searcher: searcher,
		applier:  applier,
		executor: serialized,
		metrics:  m,
		logger:   logger,
	}, nil
}

func newStrategy(options *engineOptions, m *metrics.Metrics) (search.Strategy, error) {
	keyword, err := search.NewKeywordStrategy()
	if err != nil {
		return nil, err
	}

	expander := options.expander
	if expander == nil && options.aiConfig != nil {
		if expander, err = openai.NewExpander(options.aiConfig); err != nil {
			return nil, err
		}
	}
	if expander == nil {
		return keyword, nil
	}
	return search.NewExpandingStrategy(keyword, expander, m)
}

// Close stops background writers and closes the preference store.
func (e *Engine) Close() error {
	e.profiles.Release()
	if err := e.repos.Close(); err != nil {
		e.logger.Error("error closing preference store", "err", err)
		return err
	}
	return nil
}

// Profile opens the named profile, creating it on first use.
func (e *Engine) Profile(ctx context.Context, name string) (*profile.Profile, error) {
	return e.profiles.Open(ctx, name)
}

// Profiles returns the profile manager.
func (e *Engine) Profiles() *profile.Manager {
	return e.profiles
}

// Catalog returns the settings catalog.
func (e *Engine) Catalog() catalog.Catalog {
	return e.catalog
}

// Search ranks settings for text. p may be nil.
func (e *Engine) Search(ctx context.Context, p *profile.Profile, text string) ([]*core.RankedResult, error) {
	return e.searcher.Search(ctx, p, text)
}

// Recommend suggests settings without a query. p may be nil.
func (e *Engine) Recommend(ctx context.Context, p *profile.Profile, limit int) ([]*core.RankedResult, error) {
	return e.searcher.Recommend(ctx, p, limit)
}

// Apply starts applying an action. See apply.Applier.Apply.
func (e *Engine) Apply(ctx context.Context, p *profile.Profile, entryID, actionID string, autoApply bool) (*apply.Outcome, error) {
	return e.applier.Apply(ctx, p, entryID, actionID, autoApply)
}

// ApplySequence applies several actions of one entry in order.
func (e *Engine) ApplySequence(ctx context.Context, p *profile.Profile, entryID string, actionIDs []string, autoApply bool) (*apply.SequenceReport, error) {
	return e.applier.ApplySequence(ctx, p, entryID, actionIDs, autoApply)
}

// Confirm runs the action behind a confirmation ticket.
func (e *Engine) Confirm(ctx context.Context, ticket string) (*apply.Outcome, error) {
	return e.applier.Confirm(ctx, ticket)
}

// Decline refuses a confirmation ticket.
func (e *Engine) Decline(ctx context.Context, ticket string) (*apply.Outcome, error) {
	return e.applier.Decline(ctx, ticket)
}

// Status reads back the live registry values behind an entry's actions.
// Without actionIDs every registry-write action of the entry is read; an
// entry with none returns executor.ErrStatusUnavailable.
func (e *Engine) Status(ctx context.Context, entryID string, actionIDs ...string) ([]*executor.ActionStatus, error) {
	var actions []core.Action
	if len(actionIDs) == 0 {
		entries, err := e.catalog.LoadEntries(ctx)
		if err != nil {
			return nil, err
		}
		idx := slices.IndexFunc(entries, func(entry *core.SettingEntry) bool { return entry.Id == entryID })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", catalog.ErrEntryNotFound, entryID)
		}
		for _, a := range entries[idx].Actions {
			if a.Kind == core.ActionKindRegistryWrite {
				actions = append(actions, a)
			}
		}
		if len(actions) == 0 {
			return nil, fmt.Errorf("%w: %s has no registry actions", executor.ErrStatusUnavailable, entryID)
		}
	}
	for _, id := range actionIDs {
		_, action, err := catalog.FindAction(ctx, e.catalog, entryID, id)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *action)
	}

	statuses := make([]*executor.ActionStatus, 0, len(actions))
	for _, a := range actions {
		status, err := e.executor.Status(ctx, a)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Flush waits for queued history writes.
func (e *Engine) Flush() {
	e.profiles.Flush()
}
