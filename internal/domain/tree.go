package domain

// Node is one element of the forest produced by BuildTree: the record
// plus its ordered child list.
type Node struct {
	*Bookmark
	Children []*Node `json:"children"`
}

// BuildTree turns a flat ordered collection of records into a forest
// keyed by ParentID. Pure and deterministic given input order: calling
// it repeatedly on the same input yields identical output.
//
// A node whose ParentID is empty, or references a record absent from
// flat, becomes a root. Orphans-as-roots is a deliberate policy: a
// scoped query (e.g. "roots only") may return an empty parent set on
// purpose, and silently dropping its children would lose records.
func BuildTree(flat []*Bookmark) []*Node {
	index := make(map[string]*Node, len(flat))
	for _, b := range flat {
		index[b.ID] = &Node{Bookmark: b, Children: []*Node{}}
	}

	roots := make([]*Node, 0)
	for _, b := range flat {
		node := index[b.ID]
		if b.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[b.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return roots
}

// Flatten walks a forest pre-order and returns the underlying records.
// Flatten(BuildTree(f)) reproduces the same set of records as f.
func Flatten(forest []*Node) []*Bookmark {
	out := make([]*Bookmark, 0, len(forest))
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, n.Bookmark)
			walk(n.Children)
		}
	}
	walk(forest)
	return out
}
