package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/winregi"
	"github.com/poiesic/winregi/ai"
	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/catalog/sqlite"
	"github.com/urfave/cli/v2"
)

// defaultDataDir is used when --data-dir is not given.
func defaultDataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine a data directory, use --data-dir: %w", err)
	}
	return filepath.Join(dir, "winregi", "prefs"), nil
}

// openCatalog resolves the catalog flags. The returned close function is
// never nil.
func openCatalog(c *cli.Context) (catalog.Catalog, func(), error) {
	noop := func() {}
	switch {
	case c.String("catalog-db") != "":
		store, err := sqlite.Open(c.String("catalog-db"))
		if err != nil {
			return nil, noop, err
		}
		// SQLite can report the database as busy while another process imports.
		retrying, err := catalog.NewRetrying(store, 3, 200*time.Millisecond)
		if err != nil {
			store.Close()
			return nil, noop, err
		}
		return retrying, func() { store.Close() }, nil
	case c.String("catalog") != "":
		f, err := catalog.OpenFile(c.String("catalog"))
		if err != nil {
			return nil, noop, err
		}
		return f, noop, nil
	default:
		builtin, err := catalog.Builtin()
		return builtin, noop, err
	}
}

// session holds what a command needs for one invocation.
type session struct {
	engine *winregi.Engine
	closer func()
}

func (s *session) Close() {
	if err := s.engine.Close(); err != nil {
		slog.Error("error closing engine", "err", err)
	}
	s.closer()
}

func openSession(c *cli.Context, opts ...winregi.EngineOption) (*session, error) {
	dataDir := c.String("data-dir")
	if dataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cat, closeCatalog, err := openCatalog(c)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	engineOpts := []winregi.EngineOption{
		winregi.WithCatalog(cat),
		winregi.WithLogger(slog.Default()),
	}
	if c.Bool("expand") {
		config := ai.NewConfig(
			ai.WithHost(c.String("ai-host")),
			ai.WithModel(c.String("ai-model")),
			ai.WithToken(c.String("ai-token")),
		)
		if err := config.Validate(); err != nil {
			closeCatalog()
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		engineOpts = append(engineOpts, winregi.WithAIConfig(config))
	}

	engine, err := winregi.NewEngine(dataDir, append(engineOpts, opts...)...)
	if err != nil {
		closeCatalog()
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	return &session{engine: engine, closer: closeCatalog}, nil
}
