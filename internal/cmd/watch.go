package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/atikulmunna/warp/internal/aggregator"
	"github.com/atikulmunna/warp/internal/hub"
	"github.com/atikulmunna/warp/internal/model"
	"github.com/atikulmunna/warp/internal/processor"
	"github.com/atikulmunna/warp/internal/server"
	"github.com/atikulmunna/warp/internal/tailer"
	"github.com/atikulmunna/warp/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	port      string
	stateFile string
	resume    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [logfiles...]",
	Short: "Follow a growing build log and serve a live dashboard",
	Long: `Watch one or more build logs (or glob patterns) while the build is
running. New lines are parsed as they are written, and the results are
served on a web dashboard with a live event stream.

Examples:
  warp watch build.log
  warp watch "logs/**/*.log" --port 9000
  warp watch build.log --resume`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&port, "port", "p", "8080", "dashboard port")
	watchCmd.Flags().StringVar(&stateFile, "state-file", ".warp-state.json", "file holding resumable read offsets")
	watchCmd.Flags().BoolVar(&resume, "resume", false, "resume from the saved offsets instead of re-parsing from the start")
	rootCmd.AddCommand(watchCmd)
}

// lockedSource serializes dashboard reads against the feeding goroutine.
// The processor itself is strictly sequential, so the lock lives out here.
type lockedSource struct {
	mu   *sync.Mutex
	proc *processor.Processor
}

func (s lockedSource) BuildsJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.proc.Result())
}

func (s lockedSource) SummaryJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.proc.Summary())
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nwarp shutting down...")
		cancel()
	}()

	w, err := watcher.New(args)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	watchedPaths := w.Paths()
	if len(watchedPaths) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	fmt.Fprintf(os.Stderr, "warp watching %d log(s):\n", len(watchedPaths))
	for _, p := range watchedPaths {
		fmt.Fprintf(os.Stderr, "   %s\n", p)
	}

	// Without --resume, stale offsets are discarded so the logs are
	// parsed from the start into the fresh processor.
	if !resume {
		_ = os.Remove(stateFile)
	}
	ckpt, err := tailer.NewCheckpoint(stateFile)
	if err != nil {
		return fmt.Errorf("failed to load state file: %w", err)
	}

	tail := tailer.New(w, ckpt)

	// The processor publishes parse events into the hub, which fans them
	// out to websocket clients and the aggregator.
	events := make(chan model.Event, 512)
	var mu sync.Mutex
	proc := processor.New()
	proc.Notify(func(ev model.Event) {
		select {
		case events <- ev:
		default: // never block the parser on a full pipeline
		}
	})

	h := hub.New(events)
	agg := aggregator.New(h.Subscribe(), h.Dropped, func() int {
		mu.Lock()
		defer mu.Unlock()
		return proc.BuildCount()
	})

	srv := server.New(h, agg, lockedSource{mu: &mu, proc: proc}, port)

	go w.Start(ctx)
	go tail.Start(ctx)
	go h.Start(ctx)
	go agg.Start(ctx)
	go func() {
		fmt.Fprintf(os.Stderr, "dashboard on http://localhost:%s\n", port)
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "server stopped: %v\n", err)
			cancel()
		}
	}()

	// Feed loop: one line at a time, strictly in order.
	for raw := range tail.Lines() {
		mu.Lock()
		proc.ProcessLine(raw.Text)
		mu.Unlock()
	}

	return nil
}
