package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/jacksmith/todo/internal/cli"
	"github.com/jacksmith/todo/internal/model"
	"github.com/jacksmith/todo/internal/storage"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for todo.

To load completions:

Bash:
  $ source <(todo completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ todo completion bash > /etc/bash_completion.d/todo
  # macOS:
  $ todo completion bash > $(brew --prefix)/etc/bash_completion.d/todo

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ todo completion zsh > "${fpath[1]}/_todo"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ todo completion fish | source
  # To load completions for each session, execute once:
  $ todo completion fish > ~/.config/fish/completions/todo.fish
`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Long:  "Generate the autocompletion script for bash.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletion(os.Stdout)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Long:  "Generate the autocompletion script for zsh.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Long:  "Generate the autocompletion script for fish.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// completeTaskIDs completes task ids, open tasks first, skipping ids already
// given on the command line.
func completeTaskIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	s, err := storage.Open(".")
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer s.Close()

	state, err := s.LoadState()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	used := make(map[int]bool)
	for _, arg := range args {
		if id, err := model.ParseTaskID(arg); err == nil {
			used[id] = true
		}
	}

	prefix := strings.TrimPrefix(toComplete, "#")
	var completions []string
	for _, t := range model.BuildView(state.Tasks, model.FilterAll).Tasks {
		id := strconv.Itoa(t.ID)
		if used[t.ID] || !strings.HasPrefix(id, prefix) {
			continue
		}
		status := "open"
		if t.Completed {
			status = "completed"
		}
		completions = append(completions, id+"\t"+status+": "+cli.Truncate(t.Text, 40))
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeBackends completes the --backend flag of init.
func completeBackends(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(storage.BackendFile) + "\tone file per slot in .todo/slots/",
		string(storage.BackendSQLite) + "\tSQLite database at .todo/todo.db",
	}, cobra.ShellCompDirectiveNoFileComp
}
