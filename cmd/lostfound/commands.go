package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/lostfound/backfill"
	"github.com/poiesic/lostfound/core"
	"github.com/poiesic/lostfound/intake"
	"github.com/poiesic/lostfound/search"
	"github.com/poiesic/lostfound/storage"
)

var errUsage = errors.New("usage error")

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Report a lost or found item and show its matches",
		ArgsUsage: "DESCRIPTION...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "status",
				Aliases:  []string{"s"},
				Usage:    "Report status (lost, found)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Reporter name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "contact",
				Usage:    "Reporter contact address",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "secret",
				Usage: "Verification detail known only to the owner",
			},
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Owner reference required to edit the report later",
			},
			&cli.PathFlag{
				Name:  "image",
				Usage: "Photo of the item",
			},
		},
		Action: reportAction,
	}
}

func reportAction(c *cli.Context) error {
	status, err := core.ParseStatus(c.String("status"))
	if err != nil {
		return err
	}
	description := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: a description is required", errUsage)
	}

	var image []byte
	if path := c.Path("image"); path != "" {
		image, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewPipeline()
	if err != nil {
		return err
	}

	out, err := pipeline.Submit(c.Context, intake.Submission{
		Name:        c.String("name"),
		Contact:     c.String("contact"),
		Description: description,
		Status:      status,
		Secret:      c.String("secret"),
		OwnerID:     c.String("owner"),
		Image:       image,
	})
	if err != nil {
		return err
	}
	printOutcome(c.App.Writer, out)
	return nil
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change the description of a report and match it again",
		ArgsUsage: "ID DESCRIPTION...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Usage:    "Owner reference given when the report was made",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			id, err := reportID(c)
			if err != nil {
				return err
			}
			description := strings.Join(c.Args().Tail(), " ")

			db, _, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			pipeline, err := db.NewPipeline()
			if err != nil {
				return err
			}
			out, err := pipeline.Edit(c.Context, id, c.String("owner"), description)
			if err != nil {
				return err
			}
			printOutcome(c.App.Writer, out)
			return nil
		},
	}
}

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Run a match pass for a stored report",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Show every candidate and how its score was assembled",
			},
		},
		Action: func(c *cli.Context) error {
			id, err := reportID(c)
			if err != nil {
				return err
			}

			db, _, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := db.Reports().GetReport(c.Context, id)
			if err != nil {
				return err
			}
			engine, err := db.NewEngine()
			if err != nil {
				return err
			}

			var monitor *explainMonitor
			if c.Bool("explain") {
				monitor = newExplainMonitor(c.App.Writer)
			}
			var results []core.MatchResult
			if monitor != nil {
				results, err = engine.FindMatchesWithMonitor(c.Context, report, monitor)
			} else {
				results, err = engine.FindMatches(c.Context, report)
			}
			if err != nil {
				return err
			}
			if monitor == nil {
				printMatches(c.App.Writer, results)
			}
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search reports by meaning, or list them with lost, found or all",
		ArgsUsage: "QUERY...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (0 for all)",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "resolved",
				Usage: "Also search reports that were returned to their owners",
			},
		},
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")

			db, _, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			searcher, err := db.NewSearcher(search.WithResolved(c.Bool("resolved")))
			if err != nil {
				return err
			}
			results, err := searcher.Search(c.Context, query, c.Int("limit"))
			if err != nil {
				return err
			}
			printSearchResults(c.App.Writer, results)
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List reports, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "status",
				Usage: "Only reports with this status (lost, found)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include resolved reports",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of reports (0 for all)",
			},
		},
		Action: func(c *cli.Context) error {
			filter := storage.ListFilter{
				IncludeResolved: c.Bool("all"),
				Limit:           c.Int("limit"),
			}
			if s := c.String("status"); s != "" {
				status, err := core.ParseStatus(s)
				if err != nil {
					return err
				}
				filter.Status = status
			}

			db, _, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			pipeline, err := db.NewPipeline()
			if err != nil {
				return err
			}
			reports, err := pipeline.List(c.Context, filter)
			if err != nil {
				return err
			}
			for _, r := range reports {
				printReport(c.App.Writer, r)
			}
			return nil
		},
	}
}

func resolveCommand() *cli.Command {
	return adminCommand("resolve", "Mark a report as returned to its owner", func(ctx context.Context, p *intake.Pipeline, id core.ID) error {
		return p.Resolve(ctx, id)
	})
}

func deleteCommand() *cli.Command {
	return adminCommand("delete", "Delete a report", func(ctx context.Context, p *intake.Pipeline, id core.ID) error {
		return p.Delete(ctx, id)
	})
}

func adminCommand(name, usage string, fn func(ctx context.Context, p *intake.Pipeline, id core.ID) error) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := reportID(c)
			if err != nil {
				return err
			}

			db, _, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			pipeline, err := db.NewPipeline()
			if err != nil {
				return err
			}
			if err := fn(c.Context, pipeline, id); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s: report %d\n", name, id)
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Count reports by status and flag",
		Action: func(c *cli.Context) error {
			db, _, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			pipeline, err := db.NewPipeline()
			if err != nil {
				return err
			}
			stats, err := pipeline.Stats(c.Context)
			if err != nil {
				return err
			}
			printStats(c.App.Writer, stats)
			return nil
		},
	}
}

func backfillCommand() *cli.Command {
	return &cli.Command{
		Name:  "backfill",
		Usage: "Recompute embeddings, entities and categories of stale reports",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Recompute every report",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of batches processed concurrently",
			},
			&cli.Float64Flag{
				Name:  "rps",
				Usage: "Maximum embedding requests per second (0 for unlimited)",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of reports embedded per request",
			},
		},
		Action: func(c *cli.Context) error {
			db, cfg, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer db.Close()

			backfillConfig := cfg.BackfillConfig()
			backfillConfig.Force = c.Bool("force")
			if c.IsSet("workers") {
				backfillConfig.Workers = c.Int("workers")
			}
			if c.IsSet("rps") {
				backfillConfig.RequestsPerSecond = c.Float64("rps")
			}
			if c.IsSet("batch-size") {
				backfillConfig.BatchSize = c.Int("batch-size")
			}
			if backfillConfig.Workers <= 0 {
				return fmt.Errorf("%w: workers must be greater than 0", errUsage)
			}
			if backfillConfig.BatchSize <= 0 {
				return fmt.Errorf("%w: batch-size must be greater than 0", errUsage)
			}

			backfiller, err := db.NewBackfiller(
				backfill.WithConfig(backfillConfig),
				backfill.WithProgress(c.App.ErrWriter),
			)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.ErrWriter, "Database: %s (%s)\n", cfg.Storage.Path, cfg.Storage.Backend)
			if !cfg.Embedding.Offline {
				fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", cfg.AI().EmbeddingHost)
				fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.Embedding.Model)
			}
			fmt.Fprintln(c.App.ErrWriter)

			result, err := backfiller.Run(c.Context)
			if err != nil {
				return fmt.Errorf("backfill failed: %w", err)
			}
			if result.Failed > 0 {
				return fmt.Errorf("backfill finished with %d failed reports", result.Failed)
			}
			return nil
		},
	}
}

func reportID(c *cli.Context) (core.ID, error) {
	arg := c.Args().First()
	if arg == "" {
		return 0, fmt.Errorf("%w: a report ID is required", errUsage)
	}
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid report ID %q", errUsage, arg)
	}
	return core.ID(id), nil
}
