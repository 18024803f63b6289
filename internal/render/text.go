package render

import (
	"fmt"
	"io"

	"github.com/jacksmith/todo/internal/cli"
	"github.com/jacksmith/todo/internal/model"
)

// Text renders a view as an aligned table followed by a stats line.
type Text struct {
	// MaxTextWidth truncates task text; 0 means cli.DefaultMaxTextWidth.
	MaxTextWidth int
}

func (r Text) Render(w io.Writer, v model.View) error {
	maxWidth := r.MaxTextWidth
	if maxWidth == 0 {
		maxWidth = cli.DefaultMaxTextWidth
	}

	switch {
	case v.Total == 0:
		fmt.Fprintln(w, cli.Gray(EmptyMessage))
	case len(v.Tasks) == 0:
		fmt.Fprintf(w, "%s\n", cli.Gray(fmt.Sprintf("No %s tasks.", v.Filter)))
	default:
		table := cli.NewTable()
		table.SetMaxWidth(2, maxWidth)
		for _, t := range v.Tasks {
			text := t.Text
			if t.Completed {
				text = cli.Strike(cli.Gray(text))
			}
			table.AddRow(
				model.FormatTaskID(t.ID),
				cli.Checkbox(t.Completed),
				text,
				cli.Gray(t.CreatedAt.Local().Format("2006-01-02 15:04")),
			)
		}
		table.Render(w)
	}

	_, err := fmt.Fprintln(w, cli.Bold(Stats(v)))
	return err
}

// Stats formats the aggregate counts of a view.
func Stats(v model.View) string {
	return fmt.Sprintf("Total: %d  Completed: %d", v.Total, v.CompletedCount)
}
