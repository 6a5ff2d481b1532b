package e2e_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/treekit/treedex/pkg/analysis"
	"github.com/treekit/treedex/pkg/config"
	"github.com/treekit/treedex/pkg/loader"
	"github.com/treekit/treedex/pkg/state"
	"github.com/treekit/treedex/pkg/tree"
)

// End-to-end pipeline tests: load item files from disk through config and
// multi-source merging, parse them into an index, mutate display state, and
// verify the state survives persistence across a full reload.

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// TestE2E_ConfigToIndex exercises config discovery, concurrent source
// loading, and parsing into a verified index.
func TestE2E_ConfigToIndex(t *testing.T) {
	root := t.TempDir()
	cfgDir := filepath.Join(root, config.DirName)

	writeFixture(t, filepath.Join(cfgDir, "api.json"), `[
		{"name": "users", "label": "Users", "expanded": true, "items": [
			{"name": "list", "label": "List users"},
			{"name": "create", "label": "Create user"}
		]}
	]`)
	writeFixture(t, filepath.Join(cfgDir, "web.yaml"), `
- name: pages
  label: Pages
  expanded: true
  items:
    - name: home
      label: Home
`)
	writeFixture(t, filepath.Join(cfgDir, "config.yaml"), `
name: Project
sources:
  - path: api.json
  - path: web.yaml
`)

	// Discovery finds the root from a nested directory
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	found, ok := config.FindRoot(nested)
	if !ok {
		t.Fatal("expected project root to be discovered")
	}

	cfg, err := config.Load(config.DefaultPath(found))
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	items, err := loader.LoadSources(context.Background(), cfg.Sources)
	if err != nil {
		t.Fatalf("source load failed: %v", err)
	}

	idx := tree.NewIndex()
	if root := idx.Parse(items, nil); root == nil {
		t.Fatal("expected parse to produce a tree")
	}

	// Two source groups, each with its prefixed subtree
	if idx.NodeCount() != 7 {
		t.Errorf("expected 7 nodes, got %d (%v)", idx.NodeCount(), idx.TraversalOrder())
	}
	if idx.ItemFromName("api-list") == nil || idx.ItemFromName("web-home") == nil {
		t.Error("expected prefixed names from both sources")
	}

	report := analysis.NewAnalyzer(idx).Verify()
	if !report.OK() {
		t.Errorf("expected clean integrity report, got %+v", report)
	}
}

// TestE2E_ViewStateRoundTrip exercises collapse/selection state persisting
// across a full reload-and-reparse cycle.
func TestE2E_ViewStateRoundTrip(t *testing.T) {
	root := t.TempDir()
	itemsPath := filepath.Join(root, "items.json")
	writeFixture(t, itemsPath, `[
		{"name": "reports", "label": "Reports", "expanded": true, "items": [
			{"name": "q3", "label": "Q3"},
			{"name": "q4", "label": "Q4"}
		]},
		{"name": "archive", "label": "Archive"}
	]`)

	stateDir := filepath.Join(root, ".treedex")

	// First session: load, collapse a branch, select a node, persist
	{
		items, err := loader.LoadFile(itemsPath)
		if err != nil {
			t.Fatal(err)
		}
		sel := tree.NewSelection()
		idx := tree.NewIndex()
		idx.Parse(items, sel)

		idx.CollapseBranch("1")
		idx.ComputeSelection("archive", sel, true)
		idx.SetFocusedIndex(idx.FindIndex("2"))

		if err := state.Save(stateDir, state.Capture(idx, sel)); err != nil {
			t.Fatalf("state save failed: %v", err)
		}
	}

	// Second session: fresh parse, apply persisted state
	{
		items, err := loader.LoadFile(itemsPath)
		if err != nil {
			t.Fatal(err)
		}
		sel := tree.NewSelection()
		idx := tree.NewIndex()
		idx.Parse(items, sel)

		state.Load(stateDir).Apply(idx, sel)

		if idx.IsVisible("1.1") || idx.IsVisible("1.2") {
			t.Error("expected reports branch to stay collapsed across sessions")
		}
		if !idx.ItemFromName("archive").Node.Selected {
			t.Error("expected archive selection to survive")
		}
		if got := idx.ItemAtIndex(idx.FocusedIndex()); got == nil || got.Node.Name != "archive" {
			t.Errorf("expected focus restored to archive, got %+v", got)
		}

		// Navigation respects the restored visibility
		next := idx.FindNextToFocus(idx.FindIndex("1"))
		if next == nil || next.Key != "2" {
			t.Errorf("expected navigation to skip the collapsed branch, got %+v", next)
		}
	}
}
