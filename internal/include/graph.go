package include

import "strings"

// Node is one file in the include graph. Identity is by normalized path:
// a Graph hands out the same *Node for the same path every time, so two
// trace lines naming the same header share one node.
//
// The graph is directed but not necessarily acyclic (real traces contain
// self-inclusion and mutually-including headers), so edges are plain sets
// and every traversal carries its own visited set.
type Node struct {
	NormalizedPath string

	childSet  map[*Node]struct{}
	children  []*Node
	parentSet map[*Node]struct{}
	parents   []*Node
}

func newNode(normalizedPath string) *Node {
	return &Node{
		NormalizedPath: normalizedPath,
		childSet:       make(map[*Node]struct{}),
		parentSet:      make(map[*Node]struct{}),
	}
}

// AddChild records that this file includes child. Duplicate edges are a no-op.
func (n *Node) AddChild(child *Node) {
	if _, ok := n.childSet[child]; ok {
		return
	}
	n.childSet[child] = struct{}{}
	n.children = append(n.children, child)
}

// AddParent records that parent includes this file. Duplicate edges are a no-op.
func (n *Node) AddParent(parent *Node) {
	if _, ok := n.parentSet[parent]; ok {
		return
	}
	n.parentSet[parent] = struct{}{}
	n.parents = append(n.parents, parent)
}

// Children returns the included files in first-seen order.
func (n *Node) Children() []*Node {
	return n.children
}

// Parents returns the including files in first-seen order.
func (n *Node) Parents() []*Node {
	return n.parents
}

// Walk visits n and its children depth-first. Each node is visited at most
// once; cycles terminate. The visit function returns false to stop descending
// below a node.
func (n *Node) Walk(visit func(*Node, int) bool) {
	n.walk(visit, 0, make(map[*Node]struct{}))
}

func (n *Node) walk(visit func(*Node, int) bool, depth int, seen map[*Node]struct{}) {
	if _, ok := seen[n]; ok {
		return
	}
	seen[n] = struct{}{}
	if !visit(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(visit, depth+1, seen)
	}
}

// WalkParents is Walk in the reverse direction, following parent edges.
func (n *Node) WalkParents(visit func(*Node, int) bool) {
	n.walkParents(visit, 0, make(map[*Node]struct{}))
}

func (n *Node) walkParents(visit func(*Node, int) bool, depth int, seen map[*Node]struct{}) {
	if _, ok := seen[n]; ok {
		return
	}
	seen[n] = struct{}{}
	if !visit(n, depth) {
		return
	}
	for _, p := range n.parents {
		p.walkParents(visit, depth+1, seen)
	}
}

// Graph owns the include nodes of one build, keyed case-insensitively by
// normalized path.
type Graph struct {
	nodes map[string]*Node
	order []*Node
}

// NewGraph returns an empty include graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// Get returns the node for the given normalized path, creating it on first
// request. The lookup is case-insensitive; the node keeps the casing of the
// first request.
func (g *Graph) Get(normalizedPath string) *Node {
	key := strings.ToLower(normalizedPath)
	if n, ok := g.nodes[key]; ok {
		return n
	}
	n := newNode(normalizedPath)
	g.nodes[key] = n
	g.order = append(g.order, n)
	return n
}

// Lookup returns the node for the given path without creating one.
func (g *Graph) Lookup(normalizedPath string) (*Node, bool) {
	n, ok := g.nodes[strings.ToLower(normalizedPath)]
	return n, ok
}

// Nodes returns all nodes in first-seen order.
func (g *Graph) Nodes() []*Node {
	return g.order
}

// Len returns the number of distinct included files.
func (g *Graph) Len() int {
	return len(g.order)
}

// Roots returns the nodes that no other file includes. On a fully cyclic
// graph this may be empty even when Len() > 0.
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, n := range g.order {
		if len(n.parents) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Adjacency flattens the graph into path -> included paths, a form that is
// safe to serialize even when the graph contains cycles.
func (g *Graph) Adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.order))
	for _, n := range g.order {
		paths := make([]string, 0, len(n.children))
		for _, c := range n.children {
			paths = append(paths, c.NormalizedPath)
		}
		adj[n.NormalizedPath] = paths
	}
	return adj
}
