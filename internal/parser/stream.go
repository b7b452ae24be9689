package parser

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/atikulmunna/warp/internal/include"
	"github.com/atikulmunna/warp/internal/model"
)

// The "payload" of a line is the part behind the "123>" prefix that routes
// the line to a build stream.

// Fixed literals of the MSBuild log dialect. The cascade in Classify tests
// them in a specific order; several of them are textual subsets of contexts
// that other rules match, so the order is load-bearing.
const (
	buildStartedPrefix = "------ Build started: Project:"
	skippedBuildPrefix = "------ Skipped Build: Project:"

	projectOutputFileNote = ".vcxproj ->"

	compilerWarningNote = ": warning C"
	compilerErrorNote   = ": error C"

	// No linker warning has ever been observed in a real log, so the
	// prefix is a placeholder that cannot match. Kept so the cascade
	// position is pinned down for the day a sample shows up.
	linkerWarningPrefix = "???????????????????????????????????"
	linkerErrorPrefix   = "LINK : fatal error LNK"

	includingFileNotePrefix = "  Note: including file: "

	// Ten spaces: a payload that is only indented this far continues the
	// previous compiler message.
	indentationPrefix = "          "
)

// Payload prefixes that carry no information for the build record.
var noisePrefixes = []string{
	"  Generating Code...",
	"  Compiling...",
	"Project not selected to build for this solution configuration",
	"  CMake does not need to re-run because",
	"  Checking Build System",
	"  Building Custom Rule",
	"     Creating library",
}

// A bare compiled file name: word characters, commas, whitespace or hyphens,
// then a dot, then c/C plus up to two letters (.c, .cpp, .cxx, .cc, ...).
var probableFileName = regexp.MustCompile(`^[\w,\s-]+\.[cC][A-Za-z]{0,2}$`)

// Stream classifies the payloads of one build stream and fills in the
// owning Build. One Stream exists per stream number; the multiplexer routes
// payloads here in arrival order.
type Stream struct {
	build *model.Build

	// previousMessage is the continuation target: the most recent
	// compiler message, which a later indentation-only payload extends.
	// It is replaced on every compiler-message payload (cleared when the
	// extraction fails) and never reset otherwise.
	previousMessage *model.CompilerMessage

	// previousIncludesByLevel maps an include-trace indentation level to
	// the most recent node seen at that level, to reconstruct nesting.
	previousIncludesByLevel map[int]*include.Node

	notify func(model.Event)
}

// NewStream creates the parser for one build stream. notify may be nil; if
// set, it observes one event per parsed item.
func NewStream(build *model.Build, notify func(model.Event)) *Stream {
	return &Stream{
		build:                   build,
		previousIncludesByLevel: make(map[int]*include.Node),
		notify:                  notify,
	}
}

// Build returns the record this stream fills in.
func (s *Stream) Build() *model.Build {
	return s.build
}

// Classify runs the payload through the classification cascade, updating
// the build record. Unrecognized payloads are logged and dropped; nothing
// here is fatal.
func (s *Stream) Classify(payload string) {
	// Noise first: pure progress chatter.
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(payload, prefix) {
			return
		}
	}

	// Build started / skipped, both carrying the project name.
	if strings.HasPrefix(payload, buildStartedPrefix) {
		s.build.ProjectName = extractProjectName(payload[len(buildStartedPrefix):])
		s.emit(model.EventBuildStarted, s.build.ProjectName)
		return
	}
	if strings.HasPrefix(payload, skippedBuildPrefix) {
		s.build.ProjectName = extractProjectName(payload[len(skippedBuildPrefix):])
		s.build.Skipped = true
		s.emit(model.EventBuildSkipped, s.build.ProjectName)
		return
	}

	// The project's output artifact.
	if i := strings.Index(payload, projectOutputFileNote); i != -1 {
		s.build.OutputFileName = model.NormalizePath(payload[i+len(projectOutputFileNote):])
		s.emit(model.EventOutputFile, s.build.OutputFileName)
		return
	}

	// Compiler warnings and errors. The extracted message becomes the
	// continuation target either way.
	if strings.Contains(payload, compilerWarningNote) {
		msg := parseCompilerMessage(payload)
		s.previousMessage = msg
		if msg != nil {
			s.build.CompilerWarnings = append(s.build.CompilerWarnings, msg)
			s.emit(model.EventCompilerWarning, msg.Message)
		}
		return
	}
	if strings.Contains(payload, compilerErrorNote) {
		msg := parseCompilerMessage(payload)
		s.previousMessage = msg
		if msg != nil {
			s.build.CompilerErrors = append(s.build.CompilerErrors, msg)
			s.emit(model.EventCompilerError, msg.Message)
		}
		return
	}

	// Linker warnings (unreachable, see linkerWarningPrefix) and errors.
	if strings.HasPrefix(payload, linkerWarningPrefix) {
		if msg := parseLinkerMessage(payload); msg != nil {
			s.build.LinkerWarnings = append(s.build.LinkerWarnings, msg)
			s.emit(model.EventLinkerWarning, msg.Message)
		}
		return
	}
	if strings.HasPrefix(payload, linkerErrorPrefix) {
		if msg := parseLinkerMessage(payload); msg != nil {
			s.build.LinkerErrors = append(s.build.LinkerErrors, msg)
			s.emit(model.EventLinkerError, msg.Message)
		}
		return
	}

	// Deep indentation continues the previous compiler message, when one
	// exists. Without one the payload is dropped.
	if strings.HasPrefix(payload, indentationPrefix) {
		if s.previousMessage != nil {
			s.previousMessage.AddLinePayload(payload)
		}
		return
	}

	// /showIncludes trace lines.
	if strings.HasPrefix(payload, includingFileNotePrefix) {
		s.classifyIncludeNote(payload[len(includingFileNotePrefix):])
		return
	}

	// Last resort: a line that "probably" only names the file being
	// compiled, e.g. "  main.cpp".
	if strings.HasPrefix(payload, "  ") {
		name := payload[2:]
		if probableFileName.MatchString(name) {
			s.build.InputFileNames = append(s.build.InputFileNames, name)
			s.emit(model.EventInputFile, name)
			return
		}
	}

	log.Printf("build %d: not processing payload: %q", s.build.Number, payload)
}

// extractProjectName takes the text up to the first comma of the project
// info that follows the build-started or skipped-build prefix. Without a
// comma the whole info is used, which usually means an unexpected format.
func extractProjectName(projectInfo string) string {
	commaIndex := strings.IndexByte(projectInfo, ',')
	if commaIndex == -1 {
		log.Printf("could not extract project name from %q", projectInfo)
		return projectInfo
	}
	return strings.TrimSpace(projectInfo[:commaIndex])
}

func (s *Stream) emit(kind, text string) {
	if s.notify == nil {
		return
	}
	s.notify(model.Event{
		Timestamp: time.Now(),
		Build:     s.build.Number,
		Kind:      kind,
		Text:      text,
	})
}
