package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/urfave/cli/v3"

	"ratanotes/internal/search"
	"ratanotes/internal/tasks"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	checked = color.New(color.FgGreen).SprintFunc()
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print notes or tasks as a table",
		Commands: []*cli.Command{
			{
				Name:      "notes",
				Usage:     "List notes, most recently modified first",
				ArgsUsage: "[query]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Only notes carrying this tag"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return listNotes(color.Output, strings.Join(cmd.Args().Slice(), " "), cmd.String("tag"))
				},
			},
			{
				Name:      "tasks",
				Usage:     "List tasks as an indented tree",
				ArgsUsage: "[query]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pending", Aliases: []string{"p"}, Usage: "Hide completed tasks"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return listTasks(color.Output, strings.Join(cmd.Args().Slice(), " "), cmd.Bool("pending"))
				},
			},
		},
	}
}

func loadIndex() (*search.Index, error) {
	e, err := openEnv()
	if err != nil {
		return nil, err
	}
	defer e.close()

	ns, ts, status, err := e.loadStores()
	if err != nil {
		return nil, err
	}
	if status != "" {
		fmt.Fprintln(color.Error, yellow("warning: "+status))
	}
	return search.Build(ns.All(), ts.Flatten()), nil
}

func listNotes(w io.Writer, query, tag string) error {
	idx, err := loadIndex()
	if err != nil {
		return err
	}
	res := idx.Filter(query, strings.TrimPrefix(tag, "#"))
	if len(res.Notes) == 0 {
		fmt.Fprintln(w, "No notes.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold("Title"), bold("Path"), bold("Tags"), bold("Modified"))
	for _, n := range res.Notes {
		var tags []string
		for _, t := range n.Tags {
			tags = append(tags, "#"+t)
		}
		tbl.AddRow(n.Title, faint(n.Path), cyan(strings.Join(tags, " ")), n.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	_, err = fmt.Fprintln(w, tbl)
	return err
}

func listTasks(w io.Writer, query string, pendingOnly bool) error {
	idx, err := loadIndex()
	if err != nil {
		return err
	}
	rows := idx.Filter(query, "").Tasks
	if len(rows) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold("ID"), "", bold("Task"), bold("Priority"), bold("Project"), bold("Due"))
	for _, r := range rows {
		t := r.Task
		if pendingOnly && t.Completed {
			continue
		}
		box := "[ ]"
		if t.Completed {
			box = checked("[✓]")
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		project := ""
		if t.Project != "" {
			project = "+" + t.Project
		}
		tbl.AddRow(t.ID, box, strings.Repeat("  ", r.Depth)+t.Description, priorityLabel(t.Priority), cyan(project), due)
	}
	_, err = fmt.Fprintln(w, tbl)
	return err
}

func priorityLabel(p tasks.Priority) string {
	switch p {
	case tasks.PriorityHigh:
		return red(string(p))
	case tasks.PriorityMedium:
		return yellow(string(p))
	default:
		return faint(string(p))
	}
}
