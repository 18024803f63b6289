package main

import (
	"os"

	"github.com/jacksmith/todo/internal/model"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the task list as YAML",
	Long: `Print every task and the id counter as a YAML document.

Tasks are written in the order they were added.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer w.Close()

	data, err := model.MarshalStateYAML(w.store.State())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
