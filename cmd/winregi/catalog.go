package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/catalog/sqlite"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect, export and import the settings catalog",
		Subcommands: []*cli.Command{
			catalogListCommand(),
			catalogExportCommand(),
			catalogImportCommand(),
			catalogWatchCommand(),
		},
	}
}

// loadSnapshot reads the catalog selected by the global flags.
func loadSnapshot(c *cli.Context) (*catalog.Snapshot, error) {
	cat, closeCatalog, err := openCatalog(c)
	if err != nil {
		return nil, err
	}
	defer closeCatalog()

	if src, ok := cat.(catalog.Source); ok {
		return src.Snapshot(c.Context)
	}
	entries, err := cat.LoadEntries(c.Context)
	if err != nil {
		return nil, err
	}
	var categories []*core.Category
	if lister, ok := cat.(catalog.CategoryLister); ok {
		if categories, err = lister.LoadCategories(c.Context); err != nil {
			return nil, err
		}
	}
	return catalog.NewSnapshot(categories, entries)
}

func catalogListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List catalog entries by category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only list entries of this category",
			},
		},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}

			only := c.String("category")
			if only != "" && snapshot.Category(only) == nil {
				return fmt.Errorf("%w: %s", catalog.ErrUnknownCategory, only)
			}

			w := c.App.Writer
			current := "\x00"
			for _, e := range snapshot.Entries() {
				if only != "" && e.CategoryId != only {
					continue
				}
				if e.CategoryId != current {
					current = e.CategoryId
					name := current
					if cat := snapshot.Category(current); cat != nil {
						name = cat.Name
					}
					fmt.Fprintln(w, titleStyle.Render(name))
				}
				fmt.Fprintf(w, "  %s  %s %s\n", idStyle.Render(e.Id), e.Name,
					riskStyle(e.Risk).Render("["+e.Risk.String()+"]"))
			}
			return nil
		},
	}
}

func catalogExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the catalog as a YAML document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file (default: standard output)",
			},
		},
		Action: func(c *cli.Context) error {
			snapshot, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			data, err := catalog.Export(snapshot)
			if err != nil {
				return err
			}
			if out := c.String("out"); out != "" {
				return os.WriteFile(out, data, 0o644)
			}
			_, err = c.App.Writer.Write(data)
			return err
		},
	}
}

func catalogImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Load a YAML catalog document into a SQLite catalog database",
		ArgsUsage: "<catalog.yaml>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Usage:    "SQLite database to write",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Report import progress on standard error",
				Value: true,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("import takes one catalog document", 1)
			}

			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return err
			}
			snapshot, err := catalog.Parse(data)
			if err != nil {
				return err
			}

			store, err := sqlite.Open(c.String("db"), sqlite.WithLogger(slog.Default()))
			if err != nil {
				return err
			}
			defer store.Close()

			var progress *sqlite.ProgressTracker
			if c.Bool("progress") {
				progress = sqlite.NewProgressTracker(c.App.ErrWriter, snapshot.Len(), 10)
			}
			if err := store.Import(c.Context, snapshot, progress); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, successStyle.Render(fmt.Sprintf("Imported %d entries into %s", snapshot.Len(), c.String("db"))))
			return nil
		},
	}
}

func catalogWatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Validate a catalog document on every save",
		ArgsUsage: "<catalog.yaml>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address, e.g. :9464",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("watch takes one catalog document", 1)
			}

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			w := c.App.Writer

			f, err := catalog.OpenFile(c.Args().First(),
				catalog.WithFileLogger(slog.Default()),
				catalog.WithOnReload(func(s *catalog.Snapshot) {
					m.CatalogReloaded(true)
					fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("reloaded: %d entries", s.Len())))
				}),
				catalog.WithOnReloadError(func(err error) {
					m.CatalogReloaded(false)
					fmt.Fprintln(w, errorStyle.Render("invalid: ")+err.Error())
				}),
			)
			if err != nil {
				return err
			}
			snapshot, err := f.Snapshot(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("watching %s (%d entries)", f.Path(), snapshot.Len())))

			g, ctx := errgroup.WithContext(c.Context)
			g.Go(func() error {
				return f.Watch(ctx)
			})
			if addr := c.String("metrics-addr"); addr != "" {
				srv := &http.Server{
					Addr:              addr,
					Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				g.Go(func() error {
					err := srv.ListenAndServe()
					if errors.Is(err, http.ErrServerClosed) {
						return nil
					}
					return err
				})
				g.Go(func() error {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
			}
			return g.Wait()
		},
	}
}
