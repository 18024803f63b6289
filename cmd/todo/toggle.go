package main

import (
	"fmt"

	"github.com/jacksmith/todo/internal/cli"
	"github.com/jacksmith/todo/internal/model"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle <id>...",
	Aliases: []string{"done", "undo"},
	Short:   "Mark task(s) complete or open again",
	Long: `Flip the completed state of one or more tasks.

IDs may be written with or without the leading '#'.

In batch mode, every task that exists is toggled and errors are
reported for the rest. The command fails only if no task was toggled.

Examples:
  todo toggle 3
  todo toggle '#3' 4 7`,
	Args:              cobra.MinimumNArgs(1),
	RunE:              runToggle,
	ValidArgsFunction: completeTaskIDs,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer w.Close()

	return forEachID("toggle", args, func(id int) error {
		task, err := w.store.Toggle(id)
		if err != nil {
			return err
		}
		if task.Completed {
			fmt.Printf("%s completed.\n", model.FormatTaskID(id))
		} else {
			fmt.Printf("%s reopened.\n", model.FormatTaskID(id))
		}
		return nil
	})
}

// forEachID parses and applies fn to every id argument. Errors are reported
// per id and the batch continues; the returned error is non-nil only when
// every id failed or the task list could not be saved.
func forEachID(verb string, args []string, fn func(id int) error) error {
	var errs []string
	var lastErr error

	for _, arg := range args {
		id, err := model.ParseTaskID(arg)
		if err == nil {
			err = fn(id)
		}
		if err != nil {
			if !cli.IsUserError(err) {
				return err
			}
			errs = append(errs, fmt.Sprintf("%s: %v", arg, err))
			lastErr = err
		}
	}

	if len(errs) == 0 {
		return nil
	}
	if len(args) == 1 {
		return lastErr
	}

	fmt.Println()
	for _, e := range errs {
		fmt.Printf("error: %s\n", e)
	}
	if len(errs) == len(args) {
		return fmt.Errorf("failed to %s any tasks: %w", verb, lastErr)
	}
	return nil
}
