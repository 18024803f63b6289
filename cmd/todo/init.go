package main

import (
	"fmt"

	"github.com/jacksmith/todo/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new todo list",
	Long: `Create a .todo/ directory in the current directory.

Tasks are stored in .todo/slots/ by default. Use --backend=sqlite to keep
them in a SQLite database at .todo/todo.db instead.

Fails if .todo/ already exists in the current directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initBackend string

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", string(storage.BackendFile), "storage backend (file or sqlite)")
	initCmd.RegisterFlagCompletionFunc("backend", completeBackends)
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	kind, err := storage.ParseBackendKind(initBackend)
	if err != nil {
		return err
	}

	s, err := storage.Init(".", kind)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Initialized todo in .todo/ (%s backend)\n", s.Kind())
	return nil
}
