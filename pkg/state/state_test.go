package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/treekit/treedex/pkg/model"
	"github.com/treekit/treedex/pkg/tree"
)

func testItems() []*model.Item {
	return []*model.Item{
		{
			Name: "reports", Label: "Reports", Expanded: true,
			Items: []*model.Item{
				{Name: "q3-draft", Label: "Q3 draft"},
				{Name: "q4-plan", Label: "Q4 plan"},
			},
		},
		{Name: "archive", Label: "Archive", Items: []*model.Item{
			{Name: "old", Label: "Old"},
		}},
	}
}

// TestSaveLoadRoundTrip verifies state survives a write/read cycle
func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	vs := Default()
	vs.Expanded["reports"] = false
	vs.Selected = []string{"q3-draft"}
	vs.Focused = "q3-draft"

	if err := Save(dir, vs); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := Load(dir)
	if loaded.Version != Version {
		t.Errorf("expected version %d, got %d", Version, loaded.Version)
	}
	if v, ok := loaded.Expanded["reports"]; !ok || v {
		t.Error("expected reports recorded as explicitly collapsed")
	}
	if len(loaded.Selected) != 1 || loaded.Selected[0] != "q3-draft" {
		t.Errorf("expected selection [q3-draft], got %v", loaded.Selected)
	}
	if loaded.Focused != "q3-draft" {
		t.Errorf("expected focus q3-draft, got %s", loaded.Focused)
	}
}

// TestLoadMissingFile verifies a first run yields silent defaults
func TestLoadMissingFile(t *testing.T) {
	vs := Load(t.TempDir())
	if vs == nil || len(vs.Expanded) != 0 || len(vs.Selected) != 0 {
		t.Errorf("expected pristine defaults, got %+v", vs)
	}
}

// TestLoadCorruptedFile verifies corrupted state degrades to defaults
func TestLoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	vs := Load(dir)
	if vs == nil || len(vs.Expanded) != 0 {
		t.Errorf("expected defaults for corrupted file, got %+v", vs)
	}
}

// TestCaptureRecordsExplicitChangesOnly verifies only deviations from the
// item's declared expansion are persisted
func TestCaptureRecordsExplicitChangesOnly(t *testing.T) {
	idx := tree.NewIndex()
	sel := tree.NewSelection("q4-plan")
	idx.Parse(testItems(), sel)

	idx.CollapseBranch("1")                     // reports: declared expanded, now collapsed
	idx.SetFocusedIndex(idx.FindIndex("2"))     // focus archive

	vs := Capture(idx, sel)

	if v, ok := vs.Expanded["reports"]; !ok || v {
		t.Error("expected reports recorded as collapsed")
	}
	if _, ok := vs.Expanded["archive"]; ok {
		t.Error("expected archive (unchanged) not to be recorded")
	}
	if len(vs.Selected) != 1 || vs.Selected[0] != "q4-plan" {
		t.Errorf("expected selection [q4-plan], got %v", vs.Selected)
	}
	if vs.Focused != "archive" {
		t.Errorf("expected focus archive, got %s", vs.Focused)
	}
}

// TestApplyRestoresState verifies a captured state re-applies onto a fresh
// parse, ignoring stale names
func TestApplyRestoresState(t *testing.T) {
	vs := Default()
	vs.Expanded["reports"] = false
	vs.Expanded["gone"] = true // stale, must be ignored
	vs.Selected = []string{"old"}
	vs.Focused = "archive"

	idx := tree.NewIndex()
	sel := tree.NewSelection()
	idx.Parse(testItems(), sel)

	vs.Apply(idx, sel)

	if idx.IsVisible("1.1") || idx.IsVisible("1.2") {
		t.Error("expected reports' children hidden after applied collapse")
	}
	if !idx.ItemFromName("old").Node.Selected {
		t.Error("expected old selected after apply")
	}
	if !sel.Has("old") {
		t.Error("expected selection set updated")
	}
	if got := idx.ItemAtIndex(idx.FocusedIndex()); got == nil || got.Node.Name != "archive" {
		t.Errorf("expected focus on archive, got %+v", got)
	}
}

// TestPathOverrides verifies the dir argument and env fallback
func TestPathOverrides(t *testing.T) {
	if got := Path("/tmp/custom"); got != filepath.Join("/tmp/custom", "view-state.json") {
		t.Errorf("unexpected path %s", got)
	}

	t.Setenv(EnvStateDir, "/tmp/envdir")
	if got := Path(""); got != filepath.Join("/tmp/envdir", "view-state.json") {
		t.Errorf("expected env override, got %s", got)
	}

	t.Setenv(EnvStateDir, "")
	if got := Path(""); got != filepath.Join(".treedex", "view-state.json") {
		t.Errorf("expected default dir, got %s", got)
	}
}
