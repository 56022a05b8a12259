package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"ratanotes/internal/importer"
	"ratanotes/internal/tasks"
)

const previewLimit = 20

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import tasks from Todoist (CSV backup) or Taskwarrior (task export)",
		ArgsUsage: "FORMAT FILE",
		Description: `Todoist: CONTENT becomes the description, PRIORITY 1,2 high, 3 medium, 4 low,
DATE the due date and INDENT nests sub-tasks. Notes are skipped.
Taskwarrior: description, project, priority (H/M/L), due and entry map across;
completed tasks stay completed and deleted tasks are skipped.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Preview import without making changes"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: ratanotes import FORMAT FILE (formats: %s)", strings.Join(importer.SupportedFormats(), ", "))
			}

			format := strings.ToLower(cmd.Args().Get(0))
			imp := importer.GetImporter(format)
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(importer.SupportedFormats(), ", "))
			}

			file, err := os.Open(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			defer file.Close()

			if cmd.Bool("dry-run") {
				return previewImport(color.Output, imp, file)
			}
			return runImport(imp, file)
		},
	}
}

// previewImport prints what an import would add without touching tasks.json.
func previewImport(w io.Writer, imp importer.Importer, r io.Reader) error {
	parsed, err := imp.Preview(r)
	if err != nil {
		return fmt.Errorf("parse %s export: %w", imp.Name(), err)
	}

	total := importer.Count(parsed)
	if total == 0 {
		fmt.Fprintln(w, "No tasks found to import.")
		return nil
	}

	fmt.Fprintf(w, "Preview: %d tasks to import\n", total)
	fmt.Fprintln(w, "────────────────────────────")

	shown := 0
	var walk func(list []tasks.Task, depth int)
	walk = func(list []tasks.Task, depth int) {
		for _, t := range list {
			if shown == previewLimit {
				return
			}
			shown++
			fmt.Fprintf(w, "  %s%s", strings.Repeat("  ", depth), t.Description)

			details := []string{string(t.Priority)}
			if t.Project != "" {
				details = append(details, "+"+t.Project)
			}
			if t.DueDate != nil {
				details = append(details, "due "+t.DueDate.String())
			}
			if t.Completed {
				details = append(details, "done")
			}
			fmt.Fprintf(w, " %s\n", faint("("+strings.Join(details, ", ")+")"))
			walk(t.SubTasks, depth+1)
		}
	}
	walk(parsed, 0)

	if total > shown {
		fmt.Fprintf(w, "  ... and %d more\n", total-shown)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run without --dry-run to import.")
	return nil
}

func runImport(imp importer.Importer, r io.Reader) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	_, ts, status, err := e.loadStores()
	if err != nil {
		return err
	}
	if status != "" {
		fmt.Fprintln(color.Error, yellow("warning: "+status))
	}

	result, err := importer.Import(imp, r, ts)
	if err != nil {
		return fmt.Errorf("import %s: %w", imp.Name(), err)
	}
	if result.Imported > 0 {
		if err := ts.Save(); err != nil {
			return fmt.Errorf("save tasks: %w", err)
		}
	}
	e.logger.Info("imported tasks", slog.String("format", imp.Name()), slog.Int("imported", result.Imported), slog.Int("errors", len(result.Errors)))

	fmt.Fprintf(color.Output, "%s Import complete\n", checked("✓"))
	fmt.Fprintf(color.Output, "  Imported: %d tasks\n", result.Imported)
	if len(result.Errors) > 0 {
		fmt.Fprintf(color.Output, "  %s %d\n", red("Errors:"), len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintf(color.Output, "    - %s\n", msg)
		}
	}
	return nil
}
