package model

import (
	"encoding/json"

	"github.com/atikulmunna/warp/internal/include"
)

// Build collects everything parsed for one numbered build stream, that is
// one project's interleaved slice of the log, identified by its "123>"
// prefix.
//
// A Build is mutated only by the stream parser that owns it while a log is
// being processed, and is read-only afterwards.
type Build struct {
	// Number is the stream number from the "123>" prefix. Immutable.
	Number int `json:"number"`

	// ProjectName is taken from the "Build started" or "Skipped Build"
	// line. Empty until one of those lines is seen.
	ProjectName string `json:"project_name,omitempty"`

	// Skipped reports whether the build was skipped for this configuration.
	Skipped bool `json:"skipped,omitempty"`

	// Lines holds every original log line attributed to this build, in
	// arrival order, with the stream-number prefix intact.
	Lines []string `json:"lines"`

	CompilerWarnings []*CompilerMessage `json:"compiler_warnings,omitempty"`
	CompilerErrors   []*CompilerMessage `json:"compiler_errors,omitempty"`
	LinkerWarnings   []*LinkerMessage   `json:"linker_warnings,omitempty"`
	LinkerErrors     []*LinkerMessage   `json:"linker_errors,omitempty"`

	// OutputFileName is the normalized path after the ".vcxproj ->" marker.
	OutputFileName string `json:"output_file_name,omitempty"`

	// InputFileNames lists lines that looked like bare compiled file names.
	InputFileNames []string `json:"input_file_names,omitempty"`

	// Includes is the per-build include graph, filled from
	// "Note: including file:" trace lines. The graph may contain cycles,
	// so it is serialized as an adjacency map, not as a tree.
	Includes *include.Graph `json:"-"`
}

// NewBuild creates an empty build record for the given stream number.
func NewBuild(number int) *Build {
	return &Build{
		Number:   number,
		Includes: include.NewGraph(),
	}
}

// AddLine appends an original log line to the build's raw record.
func (b *Build) AddLine(line string) {
	b.Lines = append(b.Lines, line)
}

// MarshalJSON renders the include graph as a cycle-safe adjacency map.
func (b *Build) MarshalJSON() ([]byte, error) {
	type alias Build
	var adj map[string][]string
	if b.Includes != nil && b.Includes.Len() > 0 {
		adj = b.Includes.Adjacency()
	}
	return json.Marshal(struct {
		*alias
		Includes map[string][]string `json:"includes,omitempty"`
	}{
		alias:    (*alias)(b),
		Includes: adj,
	})
}
