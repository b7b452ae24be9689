package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atikulmunna/warp/internal/include"
	"github.com/atikulmunna/warp/internal/links"
	"github.com/atikulmunna/warp/internal/model"
	"github.com/atikulmunna/warp/internal/processor"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes a processing result to an output stream.
type Renderer interface {
	Render(res *processor.Result) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleSkipped = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))              // yellow
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)   // red bold
	styleFile    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))               // cyan
	styleLink    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Underline(true)
	styleCount   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// TextRenderer prints per-build summaries with severity-based colors.
type TextRenderer struct {
	w     io.Writer
	links *links.Table

	// ShowIncludes also prints each build's include tree, indented by
	// nesting depth.
	ShowIncludes bool
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
// table may be nil, in which case no documentation links are printed.
func NewTextRenderer(table *links.Table) *TextRenderer {
	return &TextRenderer{w: os.Stdout, links: table}
}

func (r *TextRenderer) Render(res *processor.Result) error {
	for _, b := range res.Builds {
		if err := r.renderBuild(b); err != nil {
			return err
		}
	}
	r.renderSummary(res.Summary)
	if n := len(res.IgnoredLines); n > 0 {
		fmt.Fprintln(r.w, styleCount.Render(fmt.Sprintf("%d line(s) could not be attributed to any build", n)))
	}
	return nil
}

func (r *TextRenderer) renderBuild(b *model.Build) error {
	name := b.ProjectName
	if name == "" {
		name = "(unnamed project)"
	}
	header := fmt.Sprintf("%d> %s", b.Number, name)
	if b.Skipped {
		header += styleSkipped.Render("  [skipped]")
	}
	fmt.Fprintln(r.w, styleHeader.Render(header))

	if b.OutputFileName != "" {
		fmt.Fprintf(r.w, "   output  %s\n", styleFile.Render(b.OutputFileName))
	}
	if len(b.InputFileNames) > 0 {
		fmt.Fprintf(r.w, "   inputs  %s\n", strings.Join(b.InputFileNames, ", "))
	}

	for _, m := range b.CompilerWarnings {
		r.renderCompilerMessage(m, "warning", styleWarn, r.warningLink(m))
	}
	for _, m := range b.CompilerErrors {
		r.renderCompilerMessage(m, "error", styleError, r.errorLink(m))
	}
	for _, m := range b.LinkerWarnings {
		r.renderLinkerMessage(m, "warning", styleWarn, r.linkerWarningLink(m))
	}
	for _, m := range b.LinkerErrors {
		r.renderLinkerMessage(m, "error", styleError, r.linkerErrorLink(m))
	}

	fmt.Fprintln(r.w, styleCount.Render(fmt.Sprintf(
		"   %d warning(s), %d error(s), %d include(s)",
		len(b.CompilerWarnings)+len(b.LinkerWarnings),
		len(b.CompilerErrors)+len(b.LinkerErrors),
		b.Includes.Len())))

	if r.ShowIncludes && b.Includes.Len() > 0 {
		r.renderIncludes(b.Includes)
	}
	return nil
}

func (r *TextRenderer) renderCompilerMessage(m *model.CompilerMessage, severity string, style lipgloss.Style, link string) {
	loc := m.FileName
	if m.LineNumber != nil {
		loc = fmt.Sprintf("%s(%d)", m.FileName, *m.LineNumber)
	}
	code := ""
	if m.Code != nil {
		code = fmt.Sprintf(" C%d", *m.Code)
	}
	fmt.Fprintf(r.w, "   %s%s %s: %s\n",
		style.Render(severity), code, styleFile.Render(loc), m.Message)
	for _, cont := range m.LinePayloads[1:] {
		fmt.Fprintf(r.w, "       %s\n", strings.TrimSpace(cont))
	}
	if link != "" {
		fmt.Fprintf(r.w, "       %s\n", styleLink.Render(link))
	}
}

func (r *TextRenderer) renderLinkerMessage(m *model.LinkerMessage, severity string, style lipgloss.Style, link string) {
	code := ""
	if m.Code != nil {
		code = fmt.Sprintf(" LNK%d", *m.Code)
	}
	fmt.Fprintf(r.w, "   %s%s: %s\n", style.Render("linker "+severity), code, m.Message)
	if link != "" {
		fmt.Fprintf(r.w, "       %s\n", styleLink.Render(link))
	}
}

// renderIncludes prints the include graph as trees rooted at the files no
// other file includes. Cycle-safe: each walk visits a node once.
func (r *TextRenderer) renderIncludes(g *include.Graph) {
	roots := g.Roots()
	if len(roots) == 0 {
		// Fully cyclic graph; start anywhere.
		roots = g.Nodes()[:1]
	}
	for _, root := range roots {
		root.Walk(func(n *include.Node, depth int) bool {
			fmt.Fprintf(r.w, "   %s%s\n", strings.Repeat("  ", depth+1), n.NormalizedPath)
			return true
		})
	}
}

func (r *TextRenderer) renderSummary(s processor.Summary) {
	parts := []string{
		summaryPart(s.Succeeded, "succeeded"),
		summaryPart(s.Failed, "failed"),
		summaryPart(s.UpToDate, "up-to-date"),
		summaryPart(s.Skipped, "skipped"),
	}
	fmt.Fprintln(r.w, styleHeader.Render("Build: "+strings.Join(parts, ", ")))
}

func summaryPart(n *int, label string) string {
	if n == nil {
		return "? " + label
	}
	return fmt.Sprintf("%d %s", *n, label)
}

func (r *TextRenderer) warningLink(m *model.CompilerMessage) string {
	if r.links == nil || m.Code == nil {
		return ""
	}
	url, _ := r.links.CompilerWarningLink(*m.Code)
	return url
}

func (r *TextRenderer) errorLink(m *model.CompilerMessage) string {
	if r.links == nil || m.Code == nil {
		return ""
	}
	url, _ := r.links.CompilerErrorLink(*m.Code)
	return url
}

func (r *TextRenderer) linkerWarningLink(m *model.LinkerMessage) string {
	if r.links == nil || m.Code == nil {
		return ""
	}
	url, _ := r.links.LinkerWarningLink(*m.Code)
	return url
}

func (r *TextRenderer) linkerErrorLink(m *model.LinkerMessage) string {
	if r.links == nil || m.Code == nil {
		return ""
	}
	url, _ := r.links.LinkerErrorLink(*m.Code)
	return url
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints the whole result as one JSON document.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes indented JSON to stdout.
func NewJSONRenderer() *JSONRenderer {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return &JSONRenderer{enc: enc}
}

func (r *JSONRenderer) Render(res *processor.Result) error {
	return r.enc.Encode(res)
}
