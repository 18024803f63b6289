package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jacksmith/todo/internal/model"
)

// htmlEscaper escapes the same five characters, with the same entities, as
// the browser version of the list did.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes s for use in element content and attribute values.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// HTML renders a view as the todo list markup: a <ul id="todoList"> with
// one item per task, then the stats spans.
type HTML struct{}

func (HTML) Render(w io.Writer, v model.View) error {
	var b strings.Builder

	b.WriteString(`<ul id="todoList">` + "\n")
	if len(v.Tasks) == 0 {
		msg := EmptyMessage
		if v.Total > 0 {
			msg = fmt.Sprintf("No %s tasks.", v.Filter)
		}
		fmt.Fprintf(&b, `  <li style="text-align: center; color: #666; font-style: italic; padding: 20px;">%s</li>`+"\n",
			EscapeHTML(msg))
	}
	for _, t := range v.Tasks {
		writeItem(&b, t)
	}
	b.WriteString("</ul>\n")

	fmt.Fprintf(&b, `<div class="stats">`+"\n")
	fmt.Fprintf(&b, `  <span id="totalTasks">Total: %d</span>`+"\n", v.Total)
	fmt.Fprintf(&b, `  <span id="completedTasks">Completed: %d</span>`+"\n", v.CompletedCount)
	b.WriteString("</div>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeItem(b *strings.Builder, t model.Task) {
	class := "todo-item"
	label := "Complete"
	if t.Completed {
		class += " completed"
		label = "Undo"
	}

	fmt.Fprintf(b, `  <li class="%s" data-id="%d">`+"\n", class, t.ID)
	fmt.Fprintf(b, `    <span class="todo-text">%s</span>`+"\n", EscapeHTML(t.Text))
	b.WriteString(`    <div class="todo-actions">` + "\n")
	fmt.Fprintf(b, `      <button class="complete-btn" data-action="toggle" data-id="%d">%s</button>`+"\n", t.ID, label)
	fmt.Fprintf(b, `      <button class="delete-btn" data-action="delete" data-id="%d">Delete</button>`+"\n", t.ID)
	b.WriteString("    </div>\n")
	b.WriteString("  </li>\n")
}
