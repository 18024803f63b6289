package main

import (
	"fmt"

	"github.com/jacksmith/todo/internal/cli"
	"github.com/jacksmith/todo/internal/ops"
	"github.com/jacksmith/todo/internal/storage"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check data integrity",
	Long: `Check the stored task list for integrity issues.

Checks for:
- Unreadable slots
- Duplicate or negative task IDs
- An id counter that would reuse an existing ID
- Tasks with empty or untrimmed text

Use --fix to auto-repair fixable issues. An unreadable todos slot is
never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var validateFix bool

func init() {
	validateCmd.Flags().BoolVar(&validateFix, "fix", false, "auto-repair fixable issues")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := storage.Open(".")
	if err != nil {
		return err
	}
	defer s.Close()

	raw, err := s.ReadRawState()
	if err != nil {
		return &ops.PersistenceError{Op: "load", Err: err}
	}

	issues := ops.Validate(raw)
	if len(issues) == 0 {
		fmt.Println(cli.Green("No issues found."))
		return nil
	}

	if !validateFix {
		fmt.Printf("Found %d issue(s):\n\n", len(issues))
		printIssues(issues)
		return fmt.Errorf("found %d issue(s) (use --fix to repair)", len(issues))
	}

	fmt.Printf("Found %d issue(s). Attempting to fix...\n\n", len(issues))

	// Never write over a todos slot that could not be read.
	if raw.TodosErr != nil {
		fmt.Println("Remaining issues that cannot be auto-fixed:")
		fmt.Println()
		printIssues(issues[:1])
		return fmt.Errorf("todos slot is unreadable; repair or remove it by hand")
	}

	state, fixes := ops.Repair(raw)
	if err := s.SaveState(state); err != nil {
		return &ops.PersistenceError{Op: "save", Err: err}
	}

	fmt.Println("Fixes applied:")
	for _, f := range fixes {
		fmt.Printf("  %s: %s\n", f.Item, f.Description)
	}
	fmt.Println()
	fmt.Println(cli.Green("All fixable issues resolved."))
	return nil
}

func printIssues(issues []ops.Issue) {
	for _, i := range issues {
		fmt.Printf("%s %s: %s\n", i.Item, formatIssueType(i.Type), i.Message)
	}
}

func formatIssueType(t ops.IssueType) string {
	switch t {
	case ops.IssueUnreadableSlot:
		return cli.Red("[unreadable]")
	case ops.IssueDuplicateID:
		return cli.Red("[duplicate]")
	case ops.IssueInvalidID:
		return cli.Red("[invalid-id]")
	case ops.IssueCounterBehind:
		return cli.Yellow("[counter]")
	case ops.IssueMissingText:
		return cli.Red("[missing]")
	case ops.IssueUntrimmedText:
		return cli.Yellow("[whitespace]")
	default:
		return fmt.Sprintf("[%s]", t)
	}
}
