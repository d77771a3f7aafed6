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

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	envFile := os.Getenv("WINREGI_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadEnv(envFile); err != nil {
		log.Fatal(err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadEnv loads KEY=value pairs from path into the environment. A missing
// file is not an error; variables already set are not overridden.
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "winregi",
		Usage: "Find and change Windows settings by describing them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"WINREGI_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory for profiles, history and the applied-action log",
				EnvVars: []string{"WINREGI_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				Usage:   "User profile to search and apply as",
				Value:   "default",
				EnvVars: []string{"WINREGI_PROFILE"},
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Read the settings catalog from this YAML file instead of the built-in one",
				EnvVars: []string{"WINREGI_CATALOG"},
			},
			&cli.StringFlag{
				Name:    "catalog-db",
				Usage:   "Read the settings catalog from this SQLite database",
				EnvVars: []string{"WINREGI_CATALOG_DB"},
			},
			&cli.BoolFlag{
				Name:    "expand",
				Usage:   "Expand queries with a language model",
				EnvVars: []string{"WINREGI_EXPAND"},
			},
			&cli.StringFlag{
				Name:    "ai-host",
				Usage:   "OpenAI-compatible endpoint used by --expand",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"WINREGI_AI_HOST"},
			},
			&cli.StringFlag{
				Name:    "ai-model",
				Usage:   "Model used by --expand",
				Value:   "qwen2.5:3b",
				EnvVars: []string{"WINREGI_AI_MODEL"},
			},
			&cli.StringFlag{
				Name:    "ai-token",
				Usage:   "API token for the --expand endpoint",
				EnvVars: []string{"WINREGI_AI_TOKEN", "OPENAI_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			searchCommand(),
			recommendCommand(),
			applyCommand(),
			statusCommand(),
			historyCommand(),
			favoriteCommand(),
			profileCommand(),
			catalogCommand(),
		},
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
