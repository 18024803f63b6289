package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jacksmith/todo/internal/model"
	"github.com/jacksmith/todo/internal/render"
	"github.com/jacksmith/todo/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the task list and redraw it when it changes",
	Long: `Print the task list, then print it again every time another todo
process changes it. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "wait this long for more changes before redrawing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := openWorkspace()
	if err != nil {
		return err
	}
	defer w.Close()

	return watchLoop(ctx, w, os.Stdout)
}

// watchLoop renders the list to out and re-renders it after every change on
// disk until ctx is done.
func watchLoop(ctx context.Context, w *workspace, out io.Writer) error {
	fw, err := watch.New(watch.Config{
		Dirs:     w.storage.DataDirs(),
		Debounce: watchDebounce,
		Logger:   slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	draw := render.Subscriber(render.Text{}, out, func(err error) {
		slog.Warn("Failed to render task list", "error", err)
	})
	redraw := func(v model.View) {
		fmt.Fprintf(out, "\n--- %s ---\n", time.Now().Format("15:04:05"))
		draw(v)
	}

	unsubscribe := w.store.Subscribe(redraw)
	defer unsubscribe()

	redraw(w.store.View(model.FilterAll))

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-fw.Changes():
			if !ok {
				return nil
			}
			if err := w.store.Reload(); err != nil {
				slog.Warn("Failed to reload task list", "error", err)
			}
		}
	}
}
