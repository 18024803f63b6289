package main

import (
	"fmt"

	"github.com/jacksmith/todo/internal/cli"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all completed tasks",
	Long: `Remove every completed task. Open tasks keep their order.

Asks for confirmation unless --yes is given or confirm is set to false
in .todoconfig.yaml.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

var clearYes bool

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer w.Close()

	n := w.store.State().CompletedCount()
	if n == 0 {
		fmt.Println("No completed tasks to clear!")
		return nil
	}

	if w.config.Confirm && !clearYes {
		ok, err := confirmPrompt(fmt.Sprintf("Are you sure you want to clear %d completed task(s)?", n))
		if err != nil {
			return err
		}
		if !ok {
			return cli.ErrNotConfirmed
		}
	}

	removed, err := w.store.ClearCompleted()
	if err != nil {
		return err
	}
	fmt.Printf("Cleared %d completed task(s).\n", removed)
	return nil
}
