package tree

// Selection is an ordered set of selected item names. Order is insertion
// order, so hosts can hand the names back to their callers in a stable
// sequence. The zero value is not usable; use NewSelection.
type Selection struct {
	order []string
	set   map[string]bool
}

// NewSelection creates a selection containing the given names.
// Duplicates are ignored.
func NewSelection(names ...string) *Selection {
	s := &Selection{set: make(map[string]bool, len(names))}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Has reports whether name is selected.
func (s *Selection) Has(name string) bool {
	return s != nil && s.set[name]
}

// Add inserts name if absent.
func (s *Selection) Add(name string) {
	if name == "" || s.set[name] {
		return
	}
	s.set[name] = true
	s.order = append(s.order, name)
}

// Remove deletes name if present.
func (s *Selection) Remove(name string) {
	if !s.set[name] {
		return
	}
	delete(s.set, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of selected names.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Names returns the selected names in insertion order.
// The returned slice is a copy.
func (s *Selection) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// SelectNode marks node selected and records its name. With cascade, the
// same is applied recursively to every descendant.
func (idx *Index) SelectNode(node *Node, sel *Selection, cascade bool) {
	if node == nil || sel == nil {
		return
	}
	node.Selected = true
	sel.Add(node.Name)
	if cascade {
		for _, child := range node.Children {
			idx.SelectNode(child, sel, true)
		}
	}
}

// UnselectNode clears node's selection and removes its name. With cascade,
// the same is applied recursively to every descendant.
func (idx *Index) UnselectNode(node *Node, sel *Selection, cascade bool) {
	if node == nil || sel == nil {
		return
	}
	node.Selected = false
	sel.Remove(node.Name)
	if cascade {
		for _, child := range node.Children {
			idx.UnselectNode(child, sel, true)
		}
	}
}

// CascadeSelectionDown selects every descendant of node. The node itself is
// left untouched; callers that want it selected use SelectNode with cascade.
func (idx *Index) CascadeSelectionDown(node *Node, sel *Selection) {
	if node == nil {
		return
	}
	for _, child := range node.Children {
		idx.SelectNode(child, sel, true)
	}
}

// CascadeSelectionUp walks upward from node's parent, selecting an ancestor
// if and only if all of its direct children are already selected, and stops
// ascending at the first ancestor that fails that test. A group counts as
// selected once every member is selected.
func (idx *Index) CascadeSelectionUp(node *Node, sel *Selection) {
	if node == nil {
		return
	}
	parentKey := node.Parent
	for parentKey != "" && parentKey != RootKey {
		entry := idx.Item(parentKey)
		if entry == nil {
			return
		}
		parent := entry.Node
		for _, child := range parent.Children {
			if !child.Selected {
				return
			}
		}
		parent.Selected = true
		sel.Add(parent.Name)
		parentKey = parent.Parent
	}
}

// ComputeSelection is the top-level selection entry point: it looks up the
// node by name and marks it selected. With cascade, the selection first
// propagates down through the node's subtree, then up from its parent.
// Returns the node's entry, or nil if the name is unknown.
func (idx *Index) ComputeSelection(name string, sel *Selection, cascade bool) *Entry {
	entry := idx.ItemFromName(name)
	if entry == nil {
		return nil
	}
	idx.SelectNode(entry.Node, sel, cascade)
	if cascade {
		idx.CascadeSelectionUp(entry.Node, sel)
	}
	return entry
}

// ResetSelection re-derives every node's selected flag from membership in
// sel. Used when the host replaces the selection wholesale rather than
// mutating it incrementally. Idempotent for a fixed sel.
func (idx *Index) ResetSelection(sel *Selection) {
	for _, key := range idx.order {
		if entry := idx.entries[key]; entry != nil {
			entry.Node.Selected = sel.Has(entry.Node.Name)
		}
	}
}
