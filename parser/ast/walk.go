// Copyright © 2026 The tclint authors

package ast

import "github.com/luthersystems/tclint/parser/token"

// Walk traverses the tree rooted at n in pre-order. pre returning false
// prunes the subtree below a node.
func Walk(n Node, pre func(Node) bool) {
	WalkPost(n, pre, nil)
}

// WalkPost traverses in pre-order with an optional post-order hook that
// fires after a node's children have been visited.
func WalkPost(n Node, pre func(Node) bool, post func(Node)) {
	if n == nil {
		return
	}
	if pre != nil && !pre(n) {
		return
	}
	for _, child := range n.Children() {
		WalkPost(child, pre, post)
	}
	if post != nil {
		post(n)
	}
}

// WalkCommands calls fn for every Command in the tree, including commands
// nested in command substitutions and re-parsed script arguments.
func WalkCommands(n Node, fn func(*Command)) {
	Walk(n, func(node Node) bool {
		if cmd, ok := node.(*Command); ok {
			fn(cmd)
		}
		return true
	})
}

// contains reports whether pos falls within [n.Pos(), n.End()).
func contains(n Node, pos token.Pos) bool {
	return !pos.Before(n.Pos()) && pos.Before(n.End())
}

// NodeAt returns the deepest node whose span contains the given position,
// or nil if the position falls outside the tree.
func NodeAt(root Node, pos token.Pos) Node {
	if root == nil || !contains(root, pos) {
		return nil
	}
	n := root
	for {
		var next Node
		for _, child := range n.Children() {
			if child != nil && contains(child, pos) {
				next = child
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}
