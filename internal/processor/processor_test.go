package processor

import (
	"context"
	"testing"
)

func TestEndToEnd(t *testing.T) {
	lines := []string{
		"1>------ Build started: Project: Foo, Configuration: Debug Win32 ------",
		"1>  foo.cpp",
		"1>foo.cpp(10): warning C4101: unreferenced local variable",
		"1>LINK : fatal error LNK1104: cannot open file 'bar.lib'",
		"========== Build: 0 succeeded, 1 failed, 0 up-to-date, 0 skipped",
	}

	p := New()
	if outcome := p.Process(context.Background(), lines, nil); outcome != Completed {
		t.Fatalf("expected Completed, got %v", outcome)
	}

	builds := p.Builds()
	if len(builds) != 1 {
		t.Fatalf("expected 1 build, got %d", len(builds))
	}
	b := builds[0]

	if b.Number != 1 {
		t.Errorf("expected build number 1, got %d", b.Number)
	}
	if b.ProjectName != "Foo" {
		t.Errorf("expected project Foo, got %q", b.ProjectName)
	}
	if len(b.CompilerWarnings) != 1 {
		t.Fatalf("expected 1 compiler warning, got %d", len(b.CompilerWarnings))
	}
	w := b.CompilerWarnings[0]
	if w.FileName != "foo.cpp" {
		t.Errorf("expected file foo.cpp, got %q", w.FileName)
	}
	if w.LineNumber == nil || *w.LineNumber != 10 {
		t.Errorf("expected line 10, got %v", w.LineNumber)
	}
	if w.Code == nil || *w.Code != 4101 {
		t.Errorf("expected code 4101, got %v", w.Code)
	}
	if len(b.LinkerErrors) != 1 {
		t.Fatalf("expected 1 linker error, got %d", len(b.LinkerErrors))
	}
	le := b.LinkerErrors[0]
	if le.Code == nil || *le.Code != 1104 {
		t.Errorf("expected code 1104, got %v", le.Code)
	}
	if le.Message != "cannot open file 'bar.lib'" {
		t.Errorf("unexpected linker message %q", le.Message)
	}
	if len(b.InputFileNames) != 1 || b.InputFileNames[0] != "foo.cpp" {
		t.Errorf("expected inputs [foo.cpp], got %v", b.InputFileNames)
	}

	s := p.Summary()
	for _, c := range []struct {
		name string
		got  *int
		want int
	}{
		{"succeeded", s.Succeeded, 0},
		{"failed", s.Failed, 1},
		{"up-to-date", s.UpToDate, 0},
		{"skipped", s.Skipped, 0},
	} {
		if c.got == nil || *c.got != c.want {
			t.Errorf("summary %s: expected %d, got %v", c.name, c.want, c.got)
		}
	}
}

func TestRawLineFidelity(t *testing.T) {
	lines := []string{
		"2>second project line one",
		"1>first project line one",
		"2>second project line two",
		"1>first project line two",
	}

	p := New()
	p.Process(context.Background(), lines, nil)

	builds := p.Builds()
	if len(builds) != 2 {
		t.Fatalf("expected 2 builds, got %d", len(builds))
	}

	// Builds come back in stream-number order regardless of arrival.
	if builds[0].Number != 1 || builds[1].Number != 2 {
		t.Errorf("expected builds ordered 1,2; got %d,%d", builds[0].Number, builds[1].Number)
	}

	want1 := []string{"1>first project line one", "1>first project line two"}
	want2 := []string{"2>second project line one", "2>second project line two"}
	for i, want := range want1 {
		if builds[0].Lines[i] != want {
			t.Errorf("build 1 line %d: expected %q, got %q", i, want, builds[0].Lines[i])
		}
	}
	for i, want := range want2 {
		if builds[1].Lines[i] != want {
			t.Errorf("build 2 line %d: expected %q, got %q", i, want, builds[1].Lines[i])
		}
	}
}

func TestStreamContinuityByNumber(t *testing.T) {
	// Stream 1 reappears after a long gap; it must land in the same record.
	lines := []string{
		"1>------ Build started: Project: Foo, Configuration: Debug Win32 ------",
		"2>------ Build started: Project: Bar, Configuration: Debug Win32 ------",
		"1>  foo.cpp",
	}

	p := New()
	p.Process(context.Background(), lines, nil)

	builds := p.Builds()
	if len(builds) != 2 {
		t.Fatalf("expected 2 builds, got %d", len(builds))
	}
	if len(builds[0].Lines) != 2 {
		t.Errorf("build 1 should have 2 lines, got %d", len(builds[0].Lines))
	}
}

func TestIgnoredLines(t *testing.T) {
	lines := []string{
		"no stream prefix at all",
		"x>not a number",
		"1>  foo.cpp",
	}

	p := New()
	p.Process(context.Background(), lines, nil)

	ignored := p.IgnoredLines()
	if len(ignored) != 2 {
		t.Fatalf("expected 2 ignored lines, got %d: %v", len(ignored), ignored)
	}
	if ignored[0] != "no stream prefix at all" || ignored[1] != "x>not a number" {
		t.Errorf("unexpected ignored lines: %v", ignored)
	}
	if len(p.Builds()) != 1 {
		t.Errorf("ignored lines must not create builds, got %d", len(p.Builds()))
	}
}

func TestSummaryLabelsAnyOrder(t *testing.T) {
	p := New()
	p.ProcessLine("========== Build: 3 failed and then 12 succeeded, whatever text")

	s := p.Summary()
	if s.Succeeded == nil || *s.Succeeded != 12 {
		t.Errorf("expected succeeded 12, got %v", s.Succeeded)
	}
	if s.Failed == nil || *s.Failed != 3 {
		t.Errorf("expected failed 3, got %v", s.Failed)
	}
	if s.UpToDate != nil {
		t.Errorf("expected nil up-to-date, got %d", *s.UpToDate)
	}
	if s.Skipped != nil {
		t.Errorf("expected nil skipped, got %d", *s.Skipped)
	}
}

func TestSummaryMissingEntirely(t *testing.T) {
	p := New()
	p.ProcessLine("1>  foo.cpp")

	s := p.Summary()
	if s.Succeeded != nil || s.Failed != nil || s.UpToDate != nil || s.Skipped != nil {
		t.Error("all summary counts should be nil without a summary line")
	}
}

func TestCancellation(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "1>  foo.cpp"
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancelled before processing starts

	p := New()
	outcome := p.Process(ctx, lines, nil)
	if outcome != Cancelled {
		t.Fatalf("expected Cancelled, got %v", outcome)
	}

	// The first line is still processed; cancellation is checked after
	// each line and the partial state stays valid.
	builds := p.Builds()
	if len(builds) != 1 {
		t.Fatalf("expected the partial build to survive, got %d builds", len(builds))
	}
	if len(builds[0].Lines) != 1 {
		t.Errorf("expected exactly 1 processed line, got %d", len(builds[0].Lines))
	}
}

func TestProgressCadence(t *testing.T) {
	lines := make([]string, 2500)
	for i := range lines {
		lines[i] = "1>  foo.cpp"
	}

	var calls []int
	p := New()
	p.Process(context.Background(), lines, func(index, total int) {
		if total != 2500 {
			t.Errorf("expected total 2500, got %d", total)
		}
		calls = append(calls, index)
	})

	if len(calls) != 2 {
		t.Fatalf("expected 2 progress calls for 2500 lines, got %d", len(calls))
	}
	if calls[0] != 999 || calls[1] != 1999 {
		t.Errorf("unexpected progress indices: %v", calls)
	}
}

func TestReset(t *testing.T) {
	p := New()
	p.ProcessLine("1>  foo.cpp")
	p.ProcessLine("========== Build: 1 succeeded, 0 failed, 0 up-to-date, 0 skipped")

	p.Reset()

	if len(p.Builds()) != 0 {
		t.Error("builds should be empty after reset")
	}
	if p.Summary().Succeeded != nil {
		t.Error("summary should be empty after reset")
	}
	if len(p.IgnoredLines()) != 0 {
		t.Error("ignored lines should be empty after reset")
	}
}

func TestOutcomeString(t *testing.T) {
	if Completed.String() != "completed" || Cancelled.String() != "cancelled" {
		t.Error("unexpected Outcome strings")
	}
}
