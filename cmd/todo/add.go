package main

import (
	"fmt"
	"strings"

	"github.com/jacksmith/todo/internal/cli"
	"github.com/jacksmith/todo/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a new task",
	Long: `Add a new task to the list.

Leading and trailing whitespace is trimmed. Empty text is rejected.
Multiple arguments are joined with spaces.

Use --edit to write the task text in $EDITOR.

Examples:
  todo add "Buy milk"
  todo add Call the plumber
  todo add -e`,
	RunE: runAdd,
}

var addEdit bool

func init() {
	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false, "compose the task text in $EDITOR")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	if addEdit {
		edited, err := cli.ComposeInEditor(text)
		if err != nil {
			return err
		}
		text = edited
	} else if len(args) == 0 {
		return fmt.Errorf("requires task text (or --edit)")
	}

	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer w.Close()

	task, err := w.store.Add(text)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", model.FormatTaskID(task.ID), task.Text)
	return nil
}
