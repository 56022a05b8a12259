package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/urfave/cli/v3"

	"ratanotes/internal/backup"
)

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Create a timestamped copy of notes, tasks.json and config.yaml",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "list", Aliases: []string{"l"}, Usage: "List available backups"},
			&cli.IntFlag{Name: "keep", Aliases: []string{"k"}, Usage: "After backing up, delete all but the N most recent backups"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			manager := backup.NewManager(e.paths, version)
			if cmd.Bool("list") {
				return listBackups(manager)
			}
			if err := createBackup(manager); err != nil {
				return err
			}
			if keep := cmd.Int("keep"); keep > 0 {
				deleted, err := manager.Prune(int(keep))
				if err != nil {
					return fmt.Errorf("prune backups: %w", err)
				}
				e.logger.Info("pruned backups", slog.Int("deleted", deleted))
				if deleted > 0 {
					fmt.Fprintf(color.Output, "  Pruned %d old backup(s)\n", deleted)
				}
			}
			return nil
		},
	}
}

func restoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore notes and tasks from a backup (a safety backup is taken first)",
		ArgsUsage: "[NAME]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "latest", Usage: "Restore the most recent backup"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" && !cmd.Bool("latest") {
				return fmt.Errorf("restore needs a backup name or --latest (see 'ratanotes backup --list')")
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			manager := backup.NewManager(e.paths, version)
			if name == "" {
				err = manager.RestoreLatest()
			} else {
				err = manager.Restore(name)
			}
			if err != nil {
				return err
			}
			e.logger.Info("restored backup", slog.String("name", name))
			fmt.Fprintln(color.Output, checked("✓")+" Restore complete")
			return nil
		},
	}
}

// createBackup creates a new backup and displays the result.
func createBackup(manager *backup.Manager) error {
	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		return fmt.Errorf("read backup info: %w", err)
	}

	fmt.Fprintf(color.Output, "%s Backup created: %s\n", checked("✓"), bold(name))
	fmt.Fprintf(color.Output, "  Notes: %d, Tasks: %d\n", info.Stats["notes"], info.Stats["tasks"])
	fmt.Fprintf(color.Output, "  Location: %s\n", faint(info.Path))
	return nil
}

// listBackups lists all available backups.
func listBackups(manager *backup.Manager) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(color.Output, "No backups available.")
		fmt.Fprintln(color.Output, "Run 'ratanotes backup' to create one.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Name"), bold("Age"), bold("Notes"), bold("Tasks"))
	for _, b := range backups {
		tbl.AddRow(b.Name, faint(formatAge(time.Since(b.CreatedAt))), b.Stats["notes"], b.Stats["tasks"])
	}
	_, err = fmt.Fprintln(color.Output, tbl)
	return err
}

// formatAge returns a human-readable age string.
func formatAge(d time.Duration) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/7), "week")
	}
}
