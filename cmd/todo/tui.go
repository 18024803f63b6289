package main

import (
	"github.com/jacksmith/todo/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task list",
	Long: `Open a full-screen task list.

Keys:
  a          add a task (Enter adds, Esc stops adding)
  space, x   mark the selected task complete or open again
  d          delete the selected task
  c          clear completed tasks
  tab        switch between all, active and completed tasks
  j/k        move the selection
  q          quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer w.Close()

	return tui.Run(w.store, tui.Options{
		Filter:  w.config.DefaultFilter,
		Confirm: w.config.Confirm,
		Status:  w.welcome(),
	})
}
