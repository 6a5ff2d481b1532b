package tree

import (
	"strconv"
	"strings"
)

// IsVisible reports whether the node with the given key is currently
// eligible to be shown.
func (idx *Index) IsVisible(key string) bool {
	return idx.visible[key]
}

// VisibleCount returns the number of currently visible nodes.
func (idx *Index) VisibleCount() int {
	return len(idx.visible)
}

// AddVisible adds node to the visible set.
func (idx *Index) AddVisible(node *Node) {
	if node == nil || node.Key == RootKey {
		return
	}
	node.Visible = true
	idx.visible[node.Key] = true
}

// RemoveVisible removes node from the visible set.
func (idx *Index) RemoveVisible(node *Node) {
	if node == nil {
		return
	}
	node.Visible = false
	delete(idx.visible, node.Key)
}

// CollapseBranch marks the node at key collapsed and removes its entire
// descendant subtree from the visible set. Because the traversal order is
// depth-first pre-order, the subtree is contiguous: the scan starts right
// after the collapsed node and stops at the first node whose level is not
// deeper. Siblings and ancestors are untouched.
func (idx *Index) CollapseBranch(key string) {
	entry := idx.entries[key]
	if entry == nil {
		return
	}
	entry.Node.Expanded = false
	for i := entry.Index + 1; i < len(idx.order); i++ {
		e := idx.entries[idx.order[i]]
		if e.Level <= entry.Level {
			break
		}
		idx.RemoveVisible(e.Node)
	}
}

// ExpandBranch marks the node at key expanded and re-adds the descendants
// that become visible. Each descendant's own expanded and disabled state is
// honored, so a branch that was collapsed deeper down stays collapsed.
func (idx *Index) ExpandBranch(key string) {
	entry := idx.entries[key]
	if entry == nil {
		return
	}
	entry.Node.Expanded = true
	if entry.Node.Visible && !entry.Node.Disabled {
		idx.revealChildren(entry.Node)
	}
}

// revealChildren adds parent's children to the visible set, recursing into
// children that are themselves expanded and enabled.
func (idx *Index) revealChildren(parent *Node) {
	for _, child := range parent.Children {
		idx.AddVisible(child)
		if child.Expanded && !child.Disabled {
			idx.revealChildren(child)
		}
	}
}

// FocusedIndex returns the traversal position of the currently focused
// node.
func (idx *Index) FocusedIndex() int {
	return idx.focused
}

// SetFocusedIndex moves focus to the given traversal position and returns
// the now-focused record. Out-of-range positions are rejected: the method
// returns nil and focus is unchanged.
func (idx *Index) SetFocusedIndex(i int) *Entry {
	if i < 0 || i >= len(idx.order) {
		return nil
	}
	idx.focused = i
	return idx.entries[idx.order[i]]
}

// FindNextToFocus scans forward from fromIndex+1 for the first visible
// node, skipping nodes hidden under collapsed ancestors. Pass a negative
// fromIndex to start from the current focus. Returns nil when no visible
// node follows; wrapping is the host's call.
func (idx *Index) FindNextToFocus(fromIndex int) *Entry {
	if fromIndex < 0 {
		fromIndex = idx.focused
	}
	for i := fromIndex + 1; i < len(idx.order); i++ {
		if key := idx.order[i]; idx.visible[key] {
			return idx.entries[key]
		}
	}
	return nil
}

// FindPrevToFocus scans backward from fromIndex-1 for the first visible
// node. Pass a negative fromIndex to start from the current focus.
func (idx *Index) FindPrevToFocus(fromIndex int) *Entry {
	if fromIndex < 0 {
		fromIndex = idx.focused
	}
	for i := fromIndex - 1; i >= 0 && i < len(idx.order); i-- {
		if key := idx.order[i]; idx.visible[key] {
			return idx.entries[key]
		}
	}
	return nil
}

// FindFirstToFocus returns the first visible node in traversal order.
func (idx *Index) FindFirstToFocus() *Entry {
	for _, key := range idx.order {
		if idx.visible[key] {
			return idx.entries[key]
		}
	}
	return nil
}

// FindLastToFocus returns the last visible node in traversal order.
func (idx *Index) FindLastToFocus() *Entry {
	for i := len(idx.order) - 1; i >= 0; i-- {
		if key := idx.order[i]; idx.visible[key] {
			return idx.entries[key]
		}
	}
	return nil
}

// FindPrevInSameBranch computes the key of the sibling one position before
// the node at key and returns its record. Returns nil for the first sibling
// of a branch or when no node exists at the computed key.
func (idx *Index) FindPrevInSameBranch(key string) *Entry {
	lastDot := strings.LastIndex(key, ".")
	prefix, seg := "", key
	if lastDot >= 0 {
		prefix, seg = key[:lastDot+1], key[lastDot+1:]
	}
	n, err := strconv.Atoi(seg)
	if err != nil || n <= 1 {
		return nil
	}
	return idx.entries[prefix+strconv.Itoa(n-1)]
}
