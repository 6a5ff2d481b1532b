// Package analysis computes structural metrics and integrity reports over a
// parsed tree index. Hosts and agents use it to sanity-check input data
// (duplicate names, unexpected cycles) and to size UI affordances (depth,
// fanout) before rendering.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/treekit/treedex/pkg/tree"
)

// Analyzer holds a directed parent→child graph built from one parsed index.
// Build it after Parse; it does not track later mutations.
type Analyzer struct {
	idx   *tree.Index
	graph *simple.DirectedGraph
	ids   map[string]int64 // tree key -> graph node id
	keys  map[int64]string // graph node id -> tree key
}

// NewAnalyzer builds the dependency graph for idx.
func NewAnalyzer(idx *tree.Index) *Analyzer {
	a := &Analyzer{
		idx:   idx,
		graph: simple.NewDirectedGraph(),
		ids:   make(map[string]int64),
		keys:  make(map[int64]string),
	}

	for _, key := range idx.TraversalOrder() {
		n := a.graph.NewNode()
		a.graph.AddNode(n)
		a.ids[key] = n.ID()
		a.keys[n.ID()] = key
	}

	for _, key := range idx.TraversalOrder() {
		entry := idx.Item(key)
		if entry.Parent == tree.RootKey {
			continue
		}
		parentID, ok := a.ids[entry.Parent]
		if !ok {
			continue
		}
		a.graph.SetEdge(a.graph.NewEdge(a.graph.Node(parentID), a.graph.Node(a.ids[key])))
	}

	return a
}

// Stats summarizes the shape of the parsed tree.
type Stats struct {
	NodeCount    int   `json:"node_count"`
	VisibleCount int   `json:"visible_count"`
	LeafCount    int   `json:"leaf_count"`
	MaxDepth     int   `json:"max_depth"`
	MaxBranching int   `json:"max_branching"` // Largest direct-child count of any node
	LevelCounts  []int `json:"level_counts"`  // Index i holds the node count at level i+1
}

// Stats computes shape metrics for the tree.
func (a *Analyzer) Stats() Stats {
	s := Stats{
		NodeCount:    a.idx.NodeCount(),
		VisibleCount: a.idx.VisibleCount(),
	}

	for _, key := range a.idx.TraversalOrder() {
		entry := a.idx.Item(key)
		node := entry.Node
		if node.IsLeaf {
			s.LeafCount++
		}
		if entry.Level > s.MaxDepth {
			s.MaxDepth = entry.Level
		}
		if len(node.Children) > s.MaxBranching {
			s.MaxBranching = len(node.Children)
		}
		for len(s.LevelCounts) < entry.Level {
			s.LevelCounts = append(s.LevelCounts, 0)
		}
		s.LevelCounts[entry.Level-1]++
	}

	if root := a.idx.Root(); root != nil && len(root.Children) > s.MaxBranching {
		s.MaxBranching = len(root.Children)
	}

	return s
}

// SubtreeSizes returns, for every key, the number of nodes in its subtree
// (the node itself included).
func (a *Analyzer) SubtreeSizes() map[string]int {
	sizes := make(map[string]int, a.idx.NodeCount())

	// Children appear after their parent in pre-order, so a reverse sweep
	// accumulates child totals before their parent is visited.
	order := a.idx.TraversalOrder()
	for i := len(order) - 1; i >= 0; i-- {
		key := order[i]
		total := 1
		for _, child := range a.idx.Item(key).Node.Children {
			total += sizes[child.Key]
		}
		sizes[key] = total
	}
	return sizes
}

// Report is the result of an integrity verification pass.
type Report struct {
	Acyclic        bool     `json:"acyclic"`
	DuplicateNames []string `json:"duplicate_names,omitempty"`
	ParseWarnings  []string `json:"parse_warnings,omitempty"`
}

// OK reports whether the tree passed every check with no parse warnings.
func (r *Report) OK() bool {
	return r.Acyclic && len(r.DuplicateNames) == 0 && len(r.ParseWarnings) == 0
}

// Verify runs integrity checks over the parsed tree:
//   - the parent→child graph must topologically sort (a parse that cut all
//     cycles yields an acyclic graph; anything else is a core defect),
//   - raw names must be unique, since name lookup is last-writer-wins and a
//     duplicate silently shadows an earlier node,
//   - warnings collected during Parse are carried into the report.
func (a *Analyzer) Verify() *Report {
	report := &Report{
		ParseWarnings: a.idx.Warnings(),
	}

	_, err := topo.Sort(a.graph)
	report.Acyclic = err == nil

	counts := make(map[string]int)
	for _, key := range a.idx.TraversalOrder() {
		counts[a.idx.Item(key).Node.Name]++
	}
	for name, n := range counts {
		if n > 1 {
			report.DuplicateNames = append(report.DuplicateNames, name)
		}
	}
	sort.Strings(report.DuplicateNames)

	return report
}
