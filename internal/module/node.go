package module

import (
	"strings"

	"github.com/eugenenazirov/scanner-cli/internal/properties"
)

// Node is a project or module of the tree. The root node has an empty ID.
type Node struct {
	ID       string
	BaseDir  string
	Props    properties.Set
	Children []*Node
}

// Flatten returns the node's properties with every descendant's properties
// copied in under a dotted "<id>." prefix. A child's namespace is owned by
// the child: parent keys under that prefix are replaced by the child's
// resolved values.
func (n *Node) Flatten() properties.Set {
	out := n.Props.Clone()
	for _, child := range n.Children {
		prefix := child.ID + "."
		for k := range out {
			if strings.HasPrefix(k, prefix) {
				delete(out, k)
			}
		}
		out.Merge(child.Flatten().Prefixed(prefix))
	}
	return out
}

// Walk calls fn for n and every descendant, depth first, with the dotted
// path of the node ("" for the root).
func (n *Node) Walk(fn func(path string, node *Node)) {
	n.walk("", fn)
}

func (n *Node) walk(path string, fn func(string, *Node)) {
	fn(path, n)
	for _, child := range n.Children {
		childPath := child.ID
		if path != "" {
			childPath = path + "." + child.ID
		}
		child.walk(childPath, fn)
	}
}
