package mathast

// Walk performs a depth-first traversal of node, invoking visit on every
// node including node itself, in document order (an Apply's children are
// visited in Children order, after the Apply itself). Walk holds no state
// across calls — passing the same node to Walk twice produces two
// independent, identical traversals ("restartable traversal" per the data
// model). visit returning false prunes that node's subtree.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	if apply, ok := node.(*Apply); ok {
		for _, child := range apply.Children {
			Walk(child, visit)
		}
	}
}

// CiNames collects the distinct variable names referenced anywhere in the
// tree rooted at node, in first-occurrence order. Used by the classifier to
// find every Variable an equation touches (spec §4.D).
func CiNames(node Node) []string {
	seen := make(map[string]bool)
	var names []string
	Walk(node, func(n Node) bool {
		if ci, ok := n.(*Ci); ok {
			if !seen[ci.Name] {
				seen[ci.Name] = true
				names = append(names, ci.Name)
			}
		}
		return true
	})
	return names
}

// IsConstantExpr reports whether node's subtree references no Ci other than
// those in excludedVars (typically the variable of integration) — i.e.
// whether it can be evaluated once, ahead of time, rather than per step.
// This is a purely structural check; it does not evaluate the expression.
func IsConstantExpr(node Node, excludedVars map[string]bool) bool {
	constant := true
	Walk(node, func(n Node) bool {
		if ci, ok := n.(*Ci); ok {
			if !excludedVars[ci.Name] {
				constant = false
				return false
			}
		}
		return true
	})
	return constant
}

// ReferencesAny reports whether node's subtree contains a Ci naming any of
// vars.
func ReferencesAny(node Node, vars map[string]bool) bool {
	found := false
	Walk(node, func(n Node) bool {
		if ci, ok := n.(*Ci); ok && vars[ci.Name] {
			found = true
			return false
		}
		return true
	})
	return found
}
