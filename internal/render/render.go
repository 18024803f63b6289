// Package render turns a task list view into text or markup.
package render

import (
	"io"

	"github.com/jacksmith/todo/internal/model"
)

// EmptyMessage is shown when the store holds no tasks at all.
const EmptyMessage = "No tasks yet. Add one above!"

// Renderer writes a view to w.
type Renderer interface {
	Render(w io.Writer, v model.View) error
}

// Subscriber adapts a Renderer into a change callback that renders every
// view it receives to w. Render errors are passed to onErr if it is not nil.
func Subscriber(r Renderer, w io.Writer, onErr func(error)) func(model.View) {
	return func(v model.View) {
		if err := r.Render(w, v); err != nil && onErr != nil {
			onErr(err)
		}
	}
}
