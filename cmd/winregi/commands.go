package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/winregi"
	"github.com/poiesic/winregi/apply"
	"github.com/poiesic/winregi/catalog"
	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/executor"
	"github.com/poiesic/winregi/search"
	"github.com/urfave/cli/v2"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search settings by describing what you want to change",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: search.DefaultLimit,
			},
		},
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return cli.Exit("search requires a query", 1)
			}

			s, err := openSession(c, winregi.WithSearchOptions(search.WithLimit(c.Int("limit"))))
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.engine.Profile(c.Context, c.String("profile"))
			if err != nil {
				return err
			}
			results, err := s.engine.Search(c.Context, p, query)
			if err != nil {
				return err
			}
			renderResults(c.App.Writer, results)
			return nil
		},
	}
}

func recommendCommand() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Suggest settings from favorites and recent searches",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of suggestions",
				Value: search.DefaultLimit,
			},
		},
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.engine.Profile(c.Context, c.String("profile"))
			if err != nil {
				return err
			}
			results, err := s.engine.Recommend(c.Context, p, c.Int("limit"))
			if err != nil {
				return err
			}
			renderResults(c.App.Writer, results)
			return nil
		},
	}
}

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Apply one or more actions of a setting",
		ArgsUsage: "<entry> [action...]",
		Description: "Without an action the entry's default action is applied. Several actions\n" +
			"run in order and stop at the first one that does not apply.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Answer yes to every confirmation; passing it counts as consent given in advance for each action run",
			},
			&cli.BoolFlag{
				Name:  "auto",
				Usage: "Confirm and run in one step, as if the profile had auto-apply on",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Log what would run instead of changing the system",
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "List the entry's actions instead of applying one",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("apply requires an entry ID", 1)
			}
			entryID := c.Args().First()
			actionIDs := c.Args().Tail()

			confirmer := newPromptConfirmer(c.App.Reader, c.App.Writer, c.Bool("yes"))
			opts := []winregi.EngineOption{winregi.WithConfirmer(confirmer)}
			if c.Bool("dry-run") {
				opts = append(opts, winregi.WithExecutor(executor.NewDryRun(nil)))
			}

			s, err := openSession(c, opts...)
			if err != nil {
				return err
			}
			defer s.Close()

			entry, err := findEntry(c.Context, s.engine.Catalog(), entryID)
			if err != nil {
				return err
			}
			if c.Bool("list") {
				renderActions(c.App.Writer, entry)
				return nil
			}
			if len(actionIDs) == 0 {
				actionIDs = []string{entry.DefaultAction().Id}
			}

			p, err := s.engine.Profile(c.Context, c.String("profile"))
			if err != nil {
				return err
			}
			auto := c.Bool("auto") || p.AutoApply()

			// Sequences go through the confirmer once per action.
			if len(actionIDs) > 1 {
				report, err := s.engine.ApplySequence(c.Context, p, entryID, actionIDs, true)
				if report != nil {
					for _, out := range report.Outcomes {
						renderOutcome(c.App.Writer, out)
					}
					for _, id := range report.Skipped {
						fmt.Fprintln(c.App.Writer, mutedStyle.Render(entryID+"/"+id+": skipped"))
					}
				}
				return applyError(err)
			}

			out, err := s.engine.Apply(c.Context, p, entryID, actionIDs[0], auto)
			if errors.Is(err, apply.ErrConfirmationRequired) {
				out, err = confirmTicket(c.Context, s.engine, confirmer, entry.Name, out)
			}
			if out != nil {
				renderOutcome(c.App.Writer, out)
			}
			return applyError(err)
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show whether a setting's registry values are already applied",
		ArgsUsage: "<entry> [action...]",
		Description: "Without an action every registry action of the entry is checked.\n" +
			"Only registry actions can be read back.",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("status requires an entry id", 1)
			}

			s, err := openSession(c)
			if err != nil {
				return err
			}
			defer s.Close()

			statuses, err := s.engine.Status(c.Context, c.Args().First(), c.Args().Tail()...)
			switch {
			case errors.Is(err, executor.ErrUnsupportedPlatform), errors.Is(err, executor.ErrStatusUnavailable):
				return cli.Exit(errorStyle.Render(err.Error()), 2)
			case err != nil:
				return err
			}
			renderStatus(c.App.Writer, c.Args().First(), statuses)
			return nil
		},
	}
}

// confirmTicket asks about a pending outcome and redeems or declines its ticket.
func confirmTicket(ctx context.Context, engine *winregi.Engine, confirmer *promptConfirmer, entryName string, pending *apply.Outcome) (*apply.Outcome, error) {
	name := pending.ActionName
	if name == "" {
		name = pending.ActionId
	}
	question := fmt.Sprintf("%s: %s", entryName, name)
	if pending.RequiresAdmin {
		question += warningStyle.Render(" (requires administrator)")
	}

	ok, err := confirmer.ask(ctx, question)
	if err != nil || !ok {
		return engine.Decline(ctx, pending.Ticket)
	}
	return engine.Confirm(ctx, pending.Ticket)
}

// applyError turns a decline into a clean exit; the outcome was already printed.
func applyError(err error) error {
	switch {
	case err == nil, errors.Is(err, apply.ErrConfirmationDeclined):
		return nil
	case errors.Is(err, apply.ErrActionExecutionFailed):
		return cli.Exit(errorStyle.Render(executor.Diagnostic(err)), 2)
	}
	return err
}

func findEntry(ctx context.Context, c catalog.Catalog, id string) (*core.SettingEntry, error) {
	entries, err := c.LoadEntries(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(entries, func(e *core.SettingEntry) bool { return e.Id == id })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", catalog.ErrEntryNotFound, id)
	}
	return entries[idx], nil
}
