package main

import (
	"errors"
	"fmt"

	"github.com/poiesic/winregi/storage"
	"github.com/urfave/cli/v2"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent searches or applied actions for the profile",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of records to show (0 shows all)",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "applied",
				Usage: "Show the applied-action log instead of searches",
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Clear the search history",
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

			switch {
			case c.Bool("clear"):
				s.engine.Flush()
				if err := p.ClearHistory(c.Context); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, successStyle.Render("Search history cleared."))
			case c.Bool("applied"):
				records, err := p.Applied(c.Context, c.Int("limit"))
				if err != nil {
					return err
				}
				renderApplied(c.App.Writer, records)
			default:
				entries, err := p.History(c.Context, c.Int("limit"))
				if err != nil {
					return err
				}
				renderHistory(c.App.Writer, entries)
			}
			return nil
		},
	}
}

func favoriteCommand() *cli.Command {
	return &cli.Command{
		Name:  "favorite",
		Usage: "Manage favorite settings",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add settings to the favorites",
				ArgsUsage: "<entry...>",
				Action: func(c *cli.Context) error {
					return updateFavorites(c, true)
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove settings from the favorites",
				ArgsUsage: "<entry...>",
				Action: func(c *cli.Context) error {
					return updateFavorites(c, false)
				},
			},
			{
				Name:  "list",
				Usage: "List the favorites",
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
					favorites := p.Favorites()
					if len(favorites) == 0 {
						fmt.Fprintln(c.App.Writer, mutedStyle.Render("No favorites."))
						return nil
					}
					for _, id := range favorites {
						fmt.Fprintln(c.App.Writer, idStyle.Render(id))
					}
					return nil
				},
			},
		},
	}
}

func updateFavorites(c *cli.Context, add bool) error {
	if c.NArg() == 0 {
		return cli.Exit("at least one entry ID is required", 1)
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.engine.Profile(c.Context, c.String("profile"))
	if err != nil {
		return err
	}
	for _, id := range c.Args().Slice() {
		if add {
			// Only known entries can become favorites.
			if _, err := findEntry(c.Context, s.engine.Catalog(), id); err != nil {
				return err
			}
			err = p.AddFavorite(c.Context, id)
		} else {
			err = p.RemoveFavorite(c.Context, id)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage user profiles",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored profiles",
				Action: func(c *cli.Context) error {
					s, err := openSession(c)
					if err != nil {
						return err
					}
					defer s.Close()

					profiles, err := s.engine.Profiles().List(c.Context)
					if err != nil {
						return err
					}
					for _, p := range profiles {
						mode := mutedStyle.Render("confirm")
						if p.AutoApply {
							mode = warningStyle.Render("auto-apply")
						}
						fmt.Fprintf(c.App.Writer, "%s  %s  %d favorites\n", titleStyle.Render(p.Name), mode, len(p.Favorites))
					}
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a profile with its history",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("profile delete takes one name", 1)
					}
					s, err := openSession(c)
					if err != nil {
						return err
					}
					defer s.Close()

					err = s.engine.Profiles().Delete(c.Context, c.Args().First())
					if errors.Is(err, storage.ErrNotFound) {
						return cli.Exit(fmt.Sprintf("no profile named %q", c.Args().First()), 1)
					}
					return err
				},
			},
			{
				Name:      "auto-apply",
				Usage:     "Turn auto-apply mode on or off for the current profile",
				ArgsUsage: "<on|off>",
				Action: func(c *cli.Context) error {
					var on bool
					switch c.Args().First() {
					case "on":
						on = true
					case "off":
					default:
						return cli.Exit("auto-apply takes on or off", 1)
					}

					s, err := openSession(c)
					if err != nil {
						return err
					}
					defer s.Close()

					p, err := s.engine.Profile(c.Context, c.String("profile"))
					if err != nil {
						return err
					}
					return p.SetAutoApply(c.Context, on)
				},
			},
		},
	}
}
