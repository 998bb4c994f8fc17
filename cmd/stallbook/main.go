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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/poiesic/stallbook"
	"github.com/poiesic/stallbook/catalog"
	"github.com/poiesic/stallbook/core"
	"github.com/poiesic/stallbook/httpapi"
	"github.com/poiesic/stallbook/storage/indexed"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stallbook",
		Usage: "Food stall catalog with menus and ratings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"STALLBOOK_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the catalog HTTP API",
				Action: serveCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"STALLBOOK_ADDR"},
					},
				),
			},
			{
				Name:   "seed",
				Usage:  "Seed the default catalog and admin account into empty stores",
				Action: seedCommand,
				Flags:  dbFlags(),
			},
			{
				Name:   "list",
				Usage:  "List stalls",
				Action: listCommand,
				Flags: append(dbFlags(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print full stall records as JSON",
					},
				),
			},
			{
				Name:   "import",
				Usage:  "Bulk import stalls from a JSON array",
				Action: importCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the JSON file, or - for stdin",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent import workers",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N stalls",
						Value: 10,
					},
				),
			},
			{
				Name:   "rate",
				Usage:  "Submit a rating for a stall or one of its menu items",
				Action: rateCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "stall",
						Aliases:  []string{"s"},
						Usage:    "Stall ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "item",
						Aliases: []string{"i"},
						Usage:   "Menu item ID; rates the stall itself when empty",
					},
					&cli.Float64Flag{
						Name:     "rating",
						Aliases:  []string{"r"},
						Usage:    "Score between 1 and 5",
						Required: true,
					},
				),
			},
		},
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "stallbook.db",
			EnvVars: []string{"STALLBOOK_DB"},
		},
		&cli.BoolFlag{
			Name:  "in-memory",
			Usage: "Keep the database in memory (data is lost on exit)",
		},
		&cli.BoolFlag{
			Name:  "no-seed",
			Usage: "Do not seed the default catalog into empty stores",
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Commit attempts per write on a contended key",
			Value: indexed.DefaultMaxConflictRetries,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff between conflict retries",
			Value: indexed.DefaultRetryDelay,
		},
	}
}

func openDatabase(c *cli.Context) (*stallbook.Database, error) {
	cfg := stallbook.NewConfig(
		stallbook.WithDBPath(c.String("db")),
		stallbook.WithInMemory(c.Bool("in-memory")),
		stallbook.WithSeedDefaults(!c.Bool("no-seed")),
		stallbook.WithMaxConflictRetries(c.Int("max-retries")),
		stallbook.WithRetryDelay(c.Duration("retry-delay")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	db, err := stallbook.NewDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	handler, err := db.NewHandler()
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}
	return httpapi.Serve(ctx, c.String("addr"), handler.Router(), slog.Default())
}

func seedCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context
	stalls, err := db.Stalls().EnsureSeed(ctx)
	if err != nil {
		return fmt.Errorf("seeding stalls failed: %w", err)
	}
	admins, err := db.AdminUsers().EnsureSeed(ctx)
	if err != nil {
		return fmt.Errorf("seeding admin users failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "stalls seeded: %t\nadmin users seeded: %t\n", stalls, admins)
	return nil
}

func listCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Bool("json") {
		stalls, err := db.Catalog().ListStalls(c.Context)
		if err != nil {
			return fmt.Errorf("listing stalls failed: %w", err)
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(stalls)
	}

	summaries, err := db.Catalog().ListSummaries(c.Context)
	if err != nil {
		return fmt.Errorf("listing stalls failed: %w", err)
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCUISINE\tRATING\tVOTES\tITEMS")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%d\n",
			s.ID, s.Name, s.Cuisine, s.Rating.Average, s.Rating.Count, s.MenuItemCount)
	}
	return tw.Flush()
}

func importCommand(c *cli.Context) error {
	if c.Int("pool-size") <= 0 {
		return fmt.Errorf("pool-size must be greater than 0")
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	path := c.String("file")
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		in = f
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := db.NewImporter(
		catalog.WithPoolSize(c.Int("pool-size")),
		catalog.WithProgress(c.App.ErrWriter, c.Int("report-interval")),
	)
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}
	defer importer.Release()

	result, err := importer.ImportJSON(c.Context, in)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "imported %d stalls, %d failed\n", len(result.Created), len(result.Failed))
	for _, f := range result.Failed {
		fmt.Fprintf(c.App.Writer, "  #%d %q: %v\n", f.Index, f.Name, f.Err)
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d stalls were not imported", len(result.Failed), len(result.Failed)+len(result.Created))
	}
	return nil
}

func rateCommand(c *cli.Context) error {
	rating := c.Float64("rating")
	if err := core.ValidateRatingValue(rating); err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	itemID := c.String("item")
	if itemID == "" {
		stall, err := db.Catalog().RateStall(c.Context, c.String("stall"), rating)
		if err != nil {
			return fmt.Errorf("rating failed: %w", err)
		}
		printRating(c, stall.Name, stall.Rating)
		return nil
	}

	stall, err := db.Catalog().RateMenuItem(c.Context, c.String("stall"), itemID, rating)
	if err != nil {
		return fmt.Errorf("rating failed: %w", err)
	}
	for _, category := range stall.Menu {
		for _, item := range category.Items {
			if item.ID == itemID {
				printRating(c, stall.Name+" / "+item.Name, item.Rating)
				return nil
			}
		}
	}
	return nil
}

func printRating(c *cli.Context, name string, r core.Rating) {
	fmt.Fprintf(c.App.Writer, "%s: %.2f (%d votes)\n", name, r.Average, r.Count)
}

func setupLogger(c *cli.Context) error {
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
