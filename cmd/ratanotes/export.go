package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"ratanotes/internal/calendar"
	"ratanotes/internal/fsutil"
	"ratanotes/internal/reports"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Print a daily or weekly agenda of notes and tasks",
		ArgsUsage: "[YYYY-MM-DD]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "weekly", Aliases: []string{"w"}, Usage: "Report the Monday-to-Sunday week containing the date"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "markdown", Usage: "Output format: markdown or json"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to file instead of stdout"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := cmd.String("format")
			switch format {
			case "markdown", "json":
			case "md":
				format = "markdown"
			default:
				return fmt.Errorf("invalid format %q: use markdown or json", format)
			}

			day := calendar.DateOf(time.Now())
			if arg := cmd.Args().First(); arg != "" {
				parsed, err := time.Parse("2006-01-02", arg)
				if err != nil {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD", arg)
				}
				day = calendar.DateOf(parsed)
			}

			output, err := renderReport(day, cmd.Bool("weekly"), format)
			if err != nil {
				return err
			}

			if path := cmd.String("output"); path != "" {
				if err := fsutil.WriteFileAtomic(path, []byte(output), 0o600, 0o700); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(os.Stderr, "Report written to %s\n", filepath.Clean(path))
				return nil
			}
			fmt.Print(output)
			return nil
		},
	}
}

func renderReport(day calendar.Date, weekly bool, format string) (string, error) {
	e, err := openEnv()
	if err != nil {
		return "", err
	}
	defer e.close()

	ns, ts, _, err := e.loadStores()
	if err != nil {
		return "", err
	}
	gen := reports.NewGenerator(ns, ts, time.Local)

	if weekly {
		report := gen.GenerateWeekly(day)
		if format == "json" {
			data, err := reports.FormatWeeklyJSON(report)
			return string(data) + "\n", err
		}
		return reports.FormatWeeklyMarkdown(report), nil
	}

	report := gen.GenerateDaily(day)
	if format == "json" {
		data, err := reports.FormatDailyJSON(report)
		return string(data) + "\n", err
	}
	return reports.FormatDailyMarkdown(report), nil
}
