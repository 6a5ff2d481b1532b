package analysis

import (
	"testing"

	"github.com/treekit/treedex/pkg/model"
	"github.com/treekit/treedex/pkg/tree"
)

func analyze(t *testing.T, items []*model.Item) (*tree.Index, *Analyzer) {
	t.Helper()
	idx := tree.NewIndex()
	idx.Parse(items, nil)
	return idx, NewAnalyzer(idx)
}

func fixtureItems() []*model.Item {
	return []*model.Item{
		{
			Name: "a", Label: "A", Expanded: true,
			Items: []*model.Item{
				{Name: "a1", Label: "A1", Items: []*model.Item{
					{Name: "a1x", Label: "A1X"},
				}},
				{Name: "a2", Label: "A2"},
				{Name: "a3", Label: "A3"},
			},
		},
		{Name: "b", Label: "B"},
	}
}

// TestStats verifies the shape metrics over a known fixture
func TestStats(t *testing.T) {
	_, a := analyze(t, fixtureItems())
	s := a.Stats()

	if s.NodeCount != 6 {
		t.Errorf("expected 6 nodes, got %d", s.NodeCount)
	}
	if s.MaxDepth != 3 {
		t.Errorf("expected depth 3, got %d", s.MaxDepth)
	}
	if s.LeafCount != 4 { // a1x, a2, a3, b
		t.Errorf("expected 4 leaves, got %d", s.LeafCount)
	}
	if s.MaxBranching != 3 { // a's children
		t.Errorf("expected max branching 3, got %d", s.MaxBranching)
	}
	wantLevels := []int{2, 3, 1}
	if len(s.LevelCounts) != len(wantLevels) {
		t.Fatalf("expected %d levels, got %v", len(wantLevels), s.LevelCounts)
	}
	for i, want := range wantLevels {
		if s.LevelCounts[i] != want {
			t.Errorf("level %d: expected %d, got %d", i+1, want, s.LevelCounts[i])
		}
	}
	// a1 is collapsed (not expanded), so a1x is hidden
	if s.VisibleCount != 5 {
		t.Errorf("expected 5 visible nodes, got %d", s.VisibleCount)
	}
}

// TestSubtreeSizes verifies per-node subtree totals
func TestSubtreeSizes(t *testing.T) {
	idx, a := analyze(t, fixtureItems())
	sizes := a.SubtreeSizes()

	want := map[string]int{
		"1":     5, // a + 3 children + 1 grandchild
		"1.1":   2,
		"1.1.1": 1,
		"1.2":   1,
		"2":     1,
	}
	for key, size := range want {
		if sizes[key] != size {
			t.Errorf("subtree %s: expected %d, got %d", key, size, sizes[key])
		}
	}
	if len(sizes) != idx.NodeCount() {
		t.Errorf("expected a size for every node, got %d/%d", len(sizes), idx.NodeCount())
	}
}

// TestVerifyCleanTree verifies a well-formed tree passes every check
func TestVerifyCleanTree(t *testing.T) {
	_, a := analyze(t, fixtureItems())
	report := a.Verify()

	if !report.Acyclic {
		t.Error("expected a parsed tree to be acyclic")
	}
	if len(report.DuplicateNames) != 0 {
		t.Errorf("expected no duplicate names, got %v", report.DuplicateNames)
	}
	if !report.OK() {
		t.Errorf("expected clean report, got %+v", report)
	}
}

// TestVerifyDuplicateNames verifies duplicated raw names are surfaced
func TestVerifyDuplicateNames(t *testing.T) {
	items := []*model.Item{
		{Name: "dup", Label: "First"},
		{Name: "dup", Label: "Second"},
		{Name: "ok", Label: "OK"},
	}
	_, a := analyze(t, items)
	report := a.Verify()

	if len(report.DuplicateNames) != 1 || report.DuplicateNames[0] != "dup" {
		t.Errorf("expected [dup], got %v", report.DuplicateNames)
	}
	if report.OK() {
		t.Error("expected report not OK with duplicate names")
	}
}

// TestVerifyCarriesParseWarnings verifies skipped-input diagnostics reach
// the report
func TestVerifyCarriesParseWarnings(t *testing.T) {
	cyclic := &model.Item{Name: "loop", Label: "Loop"}
	cyclic.Items = []*model.Item{cyclic}

	_, a := analyze(t, []*model.Item{cyclic, {Name: "ok", Label: "OK"}})
	report := a.Verify()

	if len(report.ParseWarnings) == 0 {
		t.Error("expected the cycle warning to be carried into the report")
	}
	// The parse cut the cycle, so the resulting graph is still acyclic
	if !report.Acyclic {
		t.Error("expected the cut tree to verify as acyclic")
	}
	if report.OK() {
		t.Error("expected report not OK with parse warnings")
	}
}

// TestStatsEmptyTree verifies the analyzer tolerates an empty parse
func TestStatsEmptyTree(t *testing.T) {
	_, a := analyze(t, nil)
	s := a.Stats()

	if s.NodeCount != 0 || s.MaxDepth != 0 || len(s.LevelCounts) != 0 {
		t.Errorf("expected zeroed stats, got %+v", s)
	}
	if !a.Verify().Acyclic {
		t.Error("expected empty graph to be acyclic")
	}
}
