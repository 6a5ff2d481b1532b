package tree

import (
	"fmt"
	"log"

	"github.com/treekit/treedex/pkg/model"
)

// Entry is the indexed record stored for every parsed node: its position in
// the flattened traversal plus ancestry fields hosts need for rendering
// decisions without touching the Node itself.
type Entry struct {
	Index  int   // Position in the traversal order
	Key    string
	Parent string
	Level  int
	Node   *Node
}

// Index builds and maintains a flattened representation of one hierarchical
// item collection: a traversal-ordered key list, key and name lookup maps,
// and the set of currently visible nodes. It answers the navigation and
// selection queries of a hosting tree view.
//
// An Index belongs to exactly one host instance. Parse rebuilds every
// structure atomically; the mutation methods update selection and
// visibility in place without disturbing the traversal order.
type Index struct {
	root    *Node
	order   []string          // Keys in depth-first pre-order
	entries map[string]*Entry // key -> indexed record
	nameKey map[string]string // name -> key (last writer wins on duplicates)
	visible map[string]bool   // keys currently visible
	focused int               // index into order of the focused node

	selectedKey string   // key of the last node marked selected during Parse
	warnings    []string // non-fatal structural defects found during Parse
}

// NewIndex creates an empty index. Call Parse before issuing queries.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string]*Entry),
		nameKey: make(map[string]string),
		visible: make(map[string]bool),
	}
}

// Parse performs one depth-first pre-order pass over items, rebuilding all
// flattened structures. Nodes whose name appears in sel are marked selected
// during the same pass (sel may be nil).
//
// Malformed fragments do not abort the parse: a node that closes a cycle
// through its own nested items, or a non-root node with an empty label, is
// skipped with a warning and the rest of the tree still parses.
//
// Returns the synthetic root node, whose Children are the real top-level
// nodes, or nil if nothing valid was parsed.
func (idx *Index) Parse(items []*model.Item, sel *Selection) *Node {
	idx.root = BuildNode(nil, 0, "", 0)
	idx.root.Visible = true
	idx.root.Expanded = true
	idx.order = nil
	idx.entries = make(map[string]*Entry)
	idx.nameKey = make(map[string]string)
	idx.visible = make(map[string]bool)
	idx.focused = 0
	idx.selectedKey = ""
	idx.warnings = nil

	// visiting tracks raw items on the current traversal path, by identity.
	// Entries are removed on the way back up so repeated (shared) subtrees
	// in sibling positions don't falsely trigger cycle detection.
	visiting := make(map[*model.Item]bool)
	idx.parseChildren(idx.root, items, sel, visiting)

	if len(idx.root.Children) == 0 {
		return nil
	}
	return idx.root
}

// parseChildren builds and registers the nodes for items as children of
// parent, recursing into each accepted item's own nested items.
func (idx *Index) parseChildren(parent *Node, items []*model.Item, sel *Selection, visiting map[*model.Item]bool) {
	siblingIndex := 0
	for _, item := range items {
		if item == nil {
			continue
		}
		if visiting[item] {
			idx.warnf("cycle detected at item %q; skipping its subtree", item.Name)
			continue
		}
		if item.Label == "" {
			idx.warnf("item %q has no label; skipping", item.Name)
			continue
		}

		siblingIndex++
		node := BuildNode(item, parent.Level+1, parent.Key, siblingIndex)
		node.Visible = node.Level == 1 ||
			(parent.Visible && parent.Expanded && !parent.Disabled)

		parent.Children = append(parent.Children, node)
		idx.order = append(idx.order, node.Key)
		idx.entries[node.Key] = &Entry{
			Index:  len(idx.order) - 1,
			Key:    node.Key,
			Parent: node.Parent,
			Level:  node.Level,
			Node:   node,
		}
		idx.nameKey[node.Name] = node.Key
		if node.Visible {
			idx.visible[node.Key] = true
		}
		if sel.Has(node.Name) {
			node.Selected = true
			idx.selectedKey = node.Key
		}

		if len(item.Items) > 0 {
			visiting[item] = true
			idx.parseChildren(node, item.Items, sel, visiting)
			delete(visiting, item)
		}
	}
}

// warnf records a non-fatal structural warning and surfaces it on the
// diagnostic log.
func (idx *Index) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	idx.warnings = append(idx.warnings, msg)
	log.Printf("warning: %s", msg)
}

// Item returns the indexed record for key, or nil if absent.
func (idx *Index) Item(key string) *Entry {
	return idx.entries[key]
}

// ItemAtIndex returns the indexed record at the given traversal position,
// or nil if the index is out of range.
func (idx *Index) ItemAtIndex(i int) *Entry {
	if i < 0 || i >= len(idx.order) {
		return nil
	}
	return idx.entries[idx.order[i]]
}

// ItemFromName returns the indexed record for the node named name, or nil
// if no such node was parsed.
func (idx *Index) ItemFromName(name string) *Entry {
	key, ok := idx.nameKey[name]
	if !ok {
		return nil
	}
	return idx.entries[key]
}

// FindIndex returns key's position in the traversal order, or -1 if absent.
func (idx *Index) FindIndex(key string) int {
	if entry := idx.entries[key]; entry != nil {
		return entry.Index
	}
	return -1
}

// ExpandTo forces Expanded on every ancestor of node, making the node
// eligible to be shown without the host expanding each ancestor manually.
// Stops at the synthetic root or when an ancestor lookup fails. Only the
// derived Node state is touched; the source items stay untouched. Call
// ExpandBranch on the outermost collapsed ancestor afterwards to refresh
// the visible set.
func (idx *Index) ExpandTo(node *Node) {
	if node == nil {
		return
	}
	parentKey := node.Parent
	for parentKey != "" && parentKey != RootKey {
		entry := idx.entries[parentKey]
		if entry == nil {
			return
		}
		if !entry.Node.Expanded {
			entry.Node.Expanded = true
		}
		parentKey = entry.Node.Parent
	}
}

// Root returns the synthetic root from the last Parse, or nil before any
// successful Parse.
func (idx *Index) Root() *Node {
	return idx.root
}

// NodeCount returns the total number of parsed nodes (the synthetic root
// excluded).
func (idx *Index) NodeCount() int {
	return len(idx.order)
}

// TraversalOrder returns a copy of the depth-first pre-order key sequence.
func (idx *Index) TraversalOrder() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Warnings returns the structural warnings collected by the last Parse.
func (idx *Index) Warnings() []string {
	out := make([]string, len(idx.warnings))
	copy(out, idx.warnings)
	return out
}

// SelectedEntry returns the record of the last node marked selected during
// Parse, or nil if none was.
func (idx *Index) SelectedEntry() *Entry {
	if idx.selectedKey == "" {
		return nil
	}
	return idx.entries[idx.selectedKey]
}
