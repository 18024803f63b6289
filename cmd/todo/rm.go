package main

import (
	"fmt"

	"github.com/jacksmith/todo/internal/cli"
	"github.com/jacksmith/todo/internal/model"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete task(s)",
	Long: `Delete one or more tasks.

Asks for confirmation unless --yes is given or confirm is set to false
in .todoconfig.yaml. When stdin is not a terminal, --yes is required.

Examples:
  todo rm 3
  todo rm 3 4 --yes`,
	Args:              cobra.MinimumNArgs(1),
	RunE:              runRm,
	ValidArgsFunction: completeTaskIDs,
}

var rmYes bool

// confirmPrompt asks the user a yes/no question. Tests replace it.
var confirmPrompt = cli.ConfirmStdin

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer w.Close()

	// Only prompt for tasks that exist; unknown ids are reported below.
	existing := countExisting(w, args)
	if w.config.Confirm && !rmYes && existing > 0 {
		prompt := "Are you sure you want to delete this task?"
		if existing > 1 {
			prompt = fmt.Sprintf("Are you sure you want to delete %d tasks?", existing)
		}
		ok, err := confirmPrompt(prompt)
		if err != nil {
			return err
		}
		if !ok {
			return cli.ErrNotConfirmed
		}
	}

	return forEachID("delete", args, func(id int) error {
		task, err := w.store.Remove(id)
		if err != nil {
			return err
		}
		fmt.Printf("%s deleted: %s\n", model.FormatTaskID(id), task.Text)
		return nil
	})
}

func countExisting(w *workspace, args []string) int {
	n := 0
	for _, arg := range args {
		id, err := model.ParseTaskID(arg)
		if err != nil {
			continue
		}
		if _, ok := w.store.Get(id); ok {
			n++
		}
	}
	return n
}
