package ast

// Visitor receives Enter before a node's children are visited and Leave
// after. Enter returning false prunes the subtree: children and Leave are
// both skipped.
type Visitor interface {
	Enter(n *Node) bool
	Leave(n *Node)
}

// Walk traverses the tree rooted at n in depth-first order.
func Walk(v Visitor, n *Node) {
	if n == nil {
		return
	}
	if !v.Enter(n) {
		return
	}
	for _, c := range n.Children {
		Walk(v, c)
	}
	v.Leave(n)
}
