// Package state persists the display state of a tree view across sessions:
// which branches the user expanded or collapsed, which names are selected,
// and where the focus was. The state lives in a small JSON document under
// the treedex state directory.
//
// File format:
//
//	{
//	  "version": 1,
//	  "expanded": {
//	    "reports": true,   // explicitly expanded
//	    "archive": false   // explicitly collapsed
//	  },
//	  "selected": ["q3-draft"],
//	  "focused": "q3-draft"
//	}
//
// Design notes:
//   - Expanded stores explicit user changes only; absent names keep the
//     expansion flag their item declares
//   - Stale names (no longer in the tree) are ignored on Apply
//   - Corrupted or missing file = defaults, with a warning
package state

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/treekit/treedex/pkg/tree"
)

// Version is the current schema version for persisted view state.
const Version = 1

// stateFileName is the filename for the persisted view state
const stateFileName = "view-state.json"

// EnvStateDir overrides the state directory location when set.
const EnvStateDir = "TREEDEX_DIR"

// ViewState is the persistent display state of one tree view.
type ViewState struct {
	Version  int             `json:"version"`
	Expanded map[string]bool `json:"expanded"`           // item name -> explicitly set state
	Selected []string        `json:"selected,omitempty"` // selected item names, in order
	Focused  string          `json:"focused,omitempty"`  // name of the focused item
}

// Default returns a new ViewState with sensible defaults.
func Default() *ViewState {
	return &ViewState{
		Version:  Version,
		Expanded: make(map[string]bool),
	}
}

// Path returns the path to the view state file. An empty dir falls back to
// the TREEDEX_DIR environment variable, then to ".treedex" in the current
// directory.
func Path(dir string) string {
	if dir == "" {
		dir = os.Getenv(EnvStateDir)
	}
	if dir == "" {
		dir = ".treedex"
	}
	return filepath.Join(dir, stateFileName)
}

// Capture records the current expansion, selection, and focus of idx into a
// ViewState. Only nodes whose expansion differs from their item's declared
// flag are recorded, so defaults stay defaults.
func Capture(idx *tree.Index, sel *tree.Selection) *ViewState {
	vs := Default()

	for _, key := range idx.TraversalOrder() {
		node := idx.Item(key).Node
		if node.IsLeaf || node.Item == nil {
			continue
		}
		if node.Expanded != node.Item.Expanded {
			vs.Expanded[node.Name] = node.Expanded
		}
	}

	vs.Selected = sel.Names()
	if focused := idx.ItemAtIndex(idx.FocusedIndex()); focused != nil {
		vs.Focused = focused.Node.Name
	}
	return vs
}

// Apply restores vs onto a freshly parsed index: expansion flags are forced
// onto the named nodes, the visible set is refreshed, selection is
// re-derived, and focus is moved back to the remembered node. Names that no
// longer exist are silently ignored as stale.
func (vs *ViewState) Apply(idx *tree.Index, sel *tree.Selection) {
	if vs == nil {
		return
	}

	for name, expanded := range vs.Expanded {
		entry := idx.ItemFromName(name)
		if entry == nil {
			continue // stale name
		}
		if expanded {
			idx.ExpandBranch(entry.Key)
		} else {
			idx.CollapseBranch(entry.Key)
		}
	}

	if sel != nil {
		for _, name := range vs.Selected {
			sel.Add(name)
		}
		idx.ResetSelection(sel)
	}

	if vs.Focused != "" {
		if entry := idx.ItemFromName(vs.Focused); entry != nil {
			idx.SetFocusedIndex(entry.Index)
		}
	}
}

// Save writes vs to the state file under dir. Errors are returned so the
// host can decide whether to surface them; a tree view keeps working
// without persistence.
func Save(dir string, vs *ViewState) error {
	data, err := json.MarshalIndent(vs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}

	path := Path(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write view state: %w", err)
	}
	return nil
}

// Load reads the view state from dir. A missing file is a first run and
// yields defaults; a corrupted file yields defaults with a warning.
func Load(dir string) *ViewState {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return Default()
	}

	var vs ViewState
	if err := json.Unmarshal(data, &vs); err != nil {
		log.Printf("warning: invalid view state file, using defaults: %v", err)
		return Default()
	}
	if vs.Expanded == nil {
		vs.Expanded = make(map[string]bool)
	}
	return &vs
}
