package parser

import (
	"time"

	"github.com/atikulmunna/warp/internal/model"
)

// classifyIncludeNote handles the remainder of a "Note: including file:"
// payload: leading spaces encode the nesting depth, the rest is the header
// path. The per-level table of most recent nodes reconstructs the nesting
// from the compiler's depth-first emission order.
//
// Irregular traces are tolerated: a level whose enclosing level was never
// seen just produces a node without that parent edge, and a file that
// re-includes an ancestor (or itself) only adds edges to sets, so the
// graph gains a cycle but lookups stay intact.
func (s *Stream) classifyIncludeNote(includeNote string) {
	level := computeLevel(includeNote)
	normalizedPath := model.NormalizePath(includeNote)

	node := s.build.Includes.Get(normalizedPath)
	s.previousIncludesByLevel[level] = node

	if level > 0 {
		if parent, ok := s.previousIncludesByLevel[level-1]; ok {
			parent.AddChild(node)
			node.AddParent(parent)
		}
	}

	if s.notify != nil {
		s.notify(model.Event{
			Timestamp: time.Now(),
			Build:     s.build.Number,
			Kind:      model.EventInclude,
			Text:      normalizedPath,
		})
	}
}

// computeLevel counts the leading spaces of an include note. A note that is
// nothing but spaces has no valid level and yields -1.
func computeLevel(includeNote string) int {
	for i := 0; i < len(includeNote); i++ {
		if includeNote[i] != ' ' {
			return i
		}
	}
	return -1
}
