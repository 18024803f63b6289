package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jacksmith/todo/internal/model"
	"github.com/jacksmith/todo/internal/render"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks.

Open tasks come first, then completed ones. Within each group the newest
task is shown first. The totals line always counts every task.

Filter flags:
  --active      Show only open tasks
  --completed   Show only completed tasks
  --all         Show every task

Without a filter flag, default_filter from .todoconfig.yaml is used.

Use --html to print the list as HTML markup instead of a table.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listActive    bool
	listCompleted bool
	listAll       bool
	listHTML      bool
)

func init() {
	listCmd.Flags().BoolVar(&listActive, "active", false, "show only open tasks")
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "show only completed tasks")
	listCmd.Flags().BoolVar(&listAll, "all", false, "show all tasks")
	listCmd.Flags().BoolVar(&listHTML, "html", false, "render as HTML")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := validateListFilters(); err != nil {
		return err
	}

	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer w.Close()

	filter := resolveListFilter(w.config.DefaultFilter)

	var r render.Renderer = render.Text{}
	if listHTML {
		r = render.HTML{}
	} else {
		w.printWelcome()
	}

	return r.Render(os.Stdout, w.store.View(filter))
}

// resolveListFilter maps the filter flags to a model.Filter.
func resolveListFilter(fallback model.Filter) model.Filter {
	switch {
	case listActive:
		return model.FilterActive
	case listCompleted:
		return model.FilterCompleted
	case listAll:
		return model.FilterAll
	default:
		return fallback
	}
}

func validateListFilters() error {
	var active []string
	if listActive {
		active = append(active, "--active")
	}
	if listCompleted {
		active = append(active, "--completed")
	}
	if listAll {
		active = append(active, "--all")
	}

	if len(active) > 1 {
		return fmt.Errorf("conflicting filters: %s (use only one at a time)", strings.Join(active, ", "))
	}
	return nil
}
