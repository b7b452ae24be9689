package parser

import (
	"testing"

	"github.com/atikulmunna/warp/internal/include"
	"github.com/atikulmunna/warp/internal/model"
)

func TestIncludeNesting(t *testing.T) {
	s := NewStream(model.NewBuild(1), nil)

	s.Classify("  Note: including file: a.h")
	s.Classify("  Note: including file:  b.h")

	g := s.Build().Includes
	a, ok := g.Lookup("a.h")
	if !ok {
		t.Fatal("a.h not in graph")
	}
	b, ok := g.Lookup("b.h")
	if !ok {
		t.Fatal("b.h not in graph")
	}

	if len(a.Children()) != 1 || a.Children()[0] != b {
		t.Error("a.h should have b.h as its only child")
	}
	if len(b.Parents()) != 1 || b.Parents()[0] != a {
		t.Error("b.h should have a.h as its only parent")
	}
}

func TestIncludeDeepNesting(t *testing.T) {
	s := NewStream(model.NewBuild(1), nil)

	s.Classify("  Note: including file: a.h")
	s.Classify("  Note: including file:  b.h")
	s.Classify("  Note: including file:   c.h")
	s.Classify("  Note: including file:  d.h")

	g := s.Build().Includes
	a, _ := g.Lookup("a.h")
	b, _ := g.Lookup("b.h")
	c, _ := g.Lookup("c.h")
	d, _ := g.Lookup("d.h")

	if len(a.Children()) != 2 {
		t.Errorf("a.h should include b.h and d.h, got %d children", len(a.Children()))
	}
	if len(b.Children()) != 1 || b.Children()[0] != c {
		t.Error("b.h should include c.h")
	}
	if len(d.Parents()) != 1 || d.Parents()[0] != a {
		t.Error("d.h should be included by a.h")
	}
}

func TestIncludeSkippedLevel(t *testing.T) {
	s := NewStream(model.NewBuild(1), nil)

	// Level jumps from 0 to 2; the missing enclosing level leaves the
	// node without a parent edge.
	s.Classify("  Note: including file: a.h")
	s.Classify("  Note: including file:    deep.h")

	g := s.Build().Includes
	deep, ok := g.Lookup("deep.h")
	if !ok {
		t.Fatal("deep.h not in graph")
	}
	if len(deep.Parents()) != 0 {
		t.Errorf("deep.h should have no parents, got %d", len(deep.Parents()))
	}
}

func TestIncludeCycle(t *testing.T) {
	s := NewStream(model.NewBuild(1), nil)

	// a includes b, which re-includes a: the trace yields a cycle.
	s.Classify("  Note: including file: a.h")
	s.Classify("  Note: including file:  b.h")
	s.Classify("  Note: including file:   a.h")

	g := s.Build().Includes
	if g.Len() != 2 {
		t.Fatalf("expected 2 distinct nodes, got %d", g.Len())
	}

	a, _ := g.Lookup("a.h")
	b, _ := g.Lookup("b.h")
	if len(b.Children()) != 1 || b.Children()[0] != a {
		t.Error("b.h should include a.h")
	}

	// Traversal must terminate despite the cycle.
	var visited []string
	a.Walk(func(n *include.Node, depth int) bool {
		visited = append(visited, n.NormalizedPath)
		return true
	})
	if len(visited) != 2 {
		t.Errorf("expected each node visited once, got %v", visited)
	}
}

func TestIncludeCaseInsensitiveIdentity(t *testing.T) {
	s := NewStream(model.NewBuild(1), nil)

	s.Classify(`  Note: including file: C:\inc\A.h`)
	s.Classify(`  Note: including file: c:\inc\a.h`)

	if got := s.Build().Includes.Len(); got != 1 {
		t.Errorf("expected one node for case variants, got %d", got)
	}
}

func TestComputeLevel(t *testing.T) {
	cases := []struct {
		note  string
		level int
	}{
		{"a.h", 0},
		{" a.h", 1},
		{"   a.h", 3},
		{"", -1},
		{"    ", -1},
	}
	for _, c := range cases {
		if got := computeLevel(c.note); got != c.level {
			t.Errorf("computeLevel(%q): expected %d, got %d", c.note, c.level, got)
		}
	}
}
