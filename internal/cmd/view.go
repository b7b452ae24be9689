package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atikulmunna/warp/internal/links"
	"github.com/atikulmunna/warp/internal/output"
	"github.com/atikulmunna/warp/internal/processor"
	"github.com/spf13/cobra"
)

var (
	saveDir      string
	showIncludes bool
)

var viewCmd = &cobra.Command{
	Use:   "view <logfile>",
	Short: "Parse a complete build log and show per-project results",
	Long: `Read a finished MSBuild log, split it into per-project build streams,
and print each project's diagnostics, inputs, output artifact and include
count. With --save-dir, each project's raw log lines are also written to
<project>.txt files.

Examples:
  warp view build.log
  warp view build.log --output json
  warp view build.log --includes
  warp view build.log --save-dir ./split-logs`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVar(&saveDir, "save-dir", "", "directory to export each build's raw lines to")
	viewCmd.Flags().BoolVar(&showIncludes, "includes", false, "print each build's include tree")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	// Ctrl-C cancels processing; a partial result is still rendered.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	lines, err := readLines(args[0])
	if err != nil {
		return fmt.Errorf("failed to read log: %w", err)
	}

	proc := processor.New()
	progress := func(index, total int) {
		fmt.Fprintf(os.Stderr, "\rprocessing line %d of %d...", index+1, total)
	}
	outcome := proc.Process(ctx, lines, progress)
	fmt.Fprint(os.Stderr, "\r\033[K")
	if outcome == processor.Cancelled {
		fmt.Fprintln(os.Stderr, "processing cancelled, showing partial results")
	}

	renderer, err := chooseRenderer()
	if err != nil {
		return err
	}
	if err := renderer.Render(proc.Result()); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if saveDir != "" {
		if err := output.Export(saveDir, proc.Builds()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %d build log(s) to %s\n", len(proc.Builds()), saveDir)
	}
	return nil
}

// chooseRenderer picks the renderer for the --output flag.
func chooseRenderer() (output.Renderer, error) {
	switch strings.ToLower(outputFmt) {
	case "json":
		return output.NewJSONRenderer(), nil
	case "text", "":
		table, err := links.Load(linksFile)
		if err != nil {
			// Links are cosmetic; render without them.
			log.Printf("could not load link table: %v", err)
		}
		r := output.NewTextRenderer(table)
		r.ShowIncludes = showIncludes
		return r, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", outputFmt)
	}
}

// readLines loads a whole log file into memory, line by line.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
