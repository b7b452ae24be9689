// Package processor demultiplexes a full build log into per-stream build
// records. Lines are routed by their "123>" prefix to one stream parser
// per build number; the trailing "========== Build:" line is parsed into
// the aggregate summary counts.
package processor

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/atikulmunna/warp/internal/model"
	"github.com/atikulmunna/warp/internal/parser"
)

const buildSummaryPrefix = "========== Build:"

// progressInterval is how many lines are processed between two progress
// callback invocations.
const progressInterval = 1000

// The summary line carries up to four "<n> <label>" fragments, any subset,
// any order. Each is matched independently; a missing label is not an error.
var (
	succeededPattern = regexp.MustCompile(`(\d+) succeeded`)
	failedPattern    = regexp.MustCompile(`(\d+) failed`)
	upToDatePattern  = regexp.MustCompile(`(\d+) up-to-date`)
	skippedPattern   = regexp.MustCompile(`(\d+) skipped`)
)

// Summary holds the aggregate project counts from the build summary line.
// A nil count means the label was absent (or no summary line was seen).
type Summary struct {
	Succeeded *int `json:"succeeded,omitempty"`
	Failed    *int `json:"failed,omitempty"`
	UpToDate  *int `json:"up_to_date,omitempty"`
	Skipped   *int `json:"skipped,omitempty"`
}

// Outcome reports how a Process call ended.
type Outcome int

const (
	// Completed means every input line was consumed.
	Completed Outcome = iota
	// Cancelled means processing stopped early on the caller's signal.
	// The records accumulated so far are valid.
	Cancelled
)

func (o Outcome) String() string {
	if o == Cancelled {
		return "cancelled"
	}
	return "completed"
}

// Result is the read-only outcome of processing one log.
type Result struct {
	Builds       []*model.Build `json:"builds"`
	Summary      Summary        `json:"summary"`
	IgnoredLines []string       `json:"ignored_lines,omitempty"`
}

// Processor routes log lines to per-build stream parsers and collects the
// results. A Processor holds the state of one log; Reset discards it.
// Processing is strictly sequential; the caller serializes access.
type Processor struct {
	streams map[int]*parser.Stream
	ignored []string
	summary Summary
	notify  func(model.Event)
}

// New creates an empty Processor.
func New() *Processor {
	return &Processor{streams: make(map[int]*parser.Stream)}
}

// Notify installs an observer for parse events. It must be set before any
// line is processed; existing streams keep the notifier they were born with.
func (p *Processor) Notify(fn func(model.Event)) {
	p.notify = fn
}

// Process consumes the whole log. Cancellation is cooperative: the context
// is checked after every line, and a cancelled run keeps whatever partial
// records were built. progress may be nil; if set it observes the current
// line index every progressInterval lines and must not call back into the
// processor.
func (p *Processor) Process(ctx context.Context, lines []string, progress func(index, total int)) Outcome {
	for i, line := range lines {
		p.ProcessLine(line)

		if ctx.Err() != nil {
			return Cancelled
		}
		if progress != nil && (i+1)%progressInterval == 0 {
			progress(i, len(lines))
		}
	}
	return Completed
}

// ProcessLine consumes a single log line. Used directly in watch mode,
// where the log grows while it is being read.
func (p *Processor) ProcessLine(line string) {
	if strings.HasPrefix(line, buildSummaryPrefix) {
		p.processSummary(line)
		return
	}

	bracketIndex := strings.IndexByte(line, '>')
	if bracketIndex == -1 {
		log.Printf("no build number prefix, ignoring line: %q", line)
		p.ignored = append(p.ignored, line)
		return
	}
	number, err := strconv.Atoi(strings.TrimSpace(line[:bracketIndex]))
	if err != nil {
		log.Printf("no valid build number, ignoring line: %q", line)
		p.ignored = append(p.ignored, line)
		return
	}

	// Streams appear in no particular order and may go quiet for long
	// stretches; continuity is keyed purely by number.
	stream, ok := p.streams[number]
	if !ok {
		stream = parser.NewStream(model.NewBuild(number), p.notify)
		p.streams[number] = stream
	}

	stream.Build().AddLine(line)
	stream.Classify(line[bracketIndex+1:])
}

// processSummary parses the four optional project counts, e.g.
// "========== Build: 40 succeeded, 1 failed, 6 up-to-date, 6 skipped".
func (p *Processor) processSummary(line string) {
	p.summary = Summary{
		Succeeded: intBefore(succeededPattern, line),
		Failed:    intBefore(failedPattern, line),
		UpToDate:  intBefore(upToDatePattern, line),
		Skipped:   intBefore(skippedPattern, line),
	}
}

// intBefore extracts the integer right before a summary label, or nil.
func intBefore(pattern *regexp.Regexp, line string) *int {
	m := pattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// Builds returns the build records in stream-number order.
func (p *Processor) Builds() []*model.Build {
	builds := make([]*model.Build, 0, len(p.streams))
	for _, s := range p.streams {
		builds = append(builds, s.Build())
	}
	sort.Slice(builds, func(i, j int) bool {
		return builds[i].Number < builds[j].Number
	})
	return builds
}

// Summary returns the aggregate counts from the summary line.
func (p *Processor) Summary() Summary {
	return p.summary
}

// IgnoredLines returns the lines that could not be routed to any stream.
func (p *Processor) IgnoredLines() []string {
	return p.ignored
}

// Result snapshots everything accumulated so far.
func (p *Processor) Result() *Result {
	return &Result{
		Builds:       p.Builds(),
		Summary:      p.summary,
		IgnoredLines: p.ignored,
	}
}

// BuildCount returns the number of streams seen so far.
func (p *Processor) BuildCount() int {
	return len(p.streams)
}

// Reset discards all accumulated state.
func (p *Processor) Reset() {
	p.streams = make(map[int]*parser.Stream)
	p.ignored = nil
	p.summary = Summary{}
}
