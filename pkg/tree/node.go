// Package tree provides an indexed, flattened view over a hierarchical item
// collection: a fixed depth-first traversal order, O(1) key/name lookup,
// visibility tracking for collapsed branches, and cascading selection.
//
// The package holds the display state of one tree view; rendering is the
// host's concern. One Index instance belongs to one hosting component and
// must not be shared across goroutines.
package tree

import (
	"strconv"

	"github.com/treekit/treedex/pkg/model"
)

// RootKey is the key of the synthetic root node. The root is never part of
// the public traversal; its children are the caller's top-level items.
const RootKey = "0"

// Node represents one position in the flattened tree, derived from a
// model.Item during Parse. Nodes hold a non-owning back-reference to their
// source item for display pass-through; the item itself is never mutated.
type Node struct {
	Key      string  // Dot-separated path, e.g. "2.1" (second root's first child)
	Name     string  // Copied from the item; unique across the tree
	Label    string  // Display text
	Level    int     // Depth; root's direct children are level 1
	Parent   string  // Parent node's key ("" for the synthetic root)
	Children []*Node // Ordered immediate children (empty for leaves)

	IsLeaf   bool // Not loading and no nested items
	Visible  bool // Derived from ancestor visibility/expansion/disabled state
	Selected bool // Mutated only through the selection API
	Expanded bool // Forced true for non-loading leaves, else the item's flag
	Disabled bool
	Loading  bool

	Item *model.Item // Back-reference to the source item
}

// BuildNode converts one raw item plus positional context into a Node.
//
// Key computation: no parent means this is the synthetic root (key "0");
// a child of the synthetic root gets its 1-based sibling index as key;
// deeper nodes get parentKey + "." + siblingIndex.
//
// BuildNode is pure: it does not traverse into nested items, validate the
// item, or touch any index state. That is Parse's job.
func BuildNode(item *model.Item, level int, parentKey string, siblingIndex int) *Node {
	var key string
	switch {
	case parentKey == "":
		key = RootKey
	case parentKey == RootKey:
		key = strconv.Itoa(siblingIndex)
	default:
		key = parentKey + "." + strconv.Itoa(siblingIndex)
	}

	node := &Node{
		Key:    key,
		Level:  level,
		Parent: parentKey,
		Item:   item,
	}

	if item != nil {
		node.Name = item.Name
		node.Label = item.Label
		node.Disabled = item.Disabled
		node.Loading = item.Loading
		node.IsLeaf = !item.Loading && len(item.Items) == 0

		// A leaf has nothing to expand, so it counts as expanded. A loading
		// node may still receive children, so it keeps the item's flag.
		if node.IsLeaf {
			node.Expanded = true
		} else {
			node.Expanded = item.Expanded
		}
	}

	return node
}
