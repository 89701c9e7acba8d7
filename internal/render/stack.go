package render

import "github.com/mithrel/mdtree/pkg/api"

// Stack is an immutable list of nodes from the one being rendered up to the
// root. Push shares the tail, so sibling renders never observe each other.
type Stack struct {
	node *api.Node
	next *Stack
	size int
}

// Push returns a new stack with n on top. Pushing onto a nil stack is valid.
func (s *Stack) Push(n *api.Node) *Stack {
	return &Stack{node: n, next: s, size: s.Len() + 1}
}

// Top returns the current node.
func (s *Stack) Top() *api.Node {
	if s == nil {
		return nil
	}
	return s.node
}

// Pop returns the stack without its top.
func (s *Stack) Pop() *Stack {
	if s == nil {
		return nil
	}
	return s.next
}

// At returns the i-th node from the top (0 is the current node) or nil.
func (s *Stack) At(i int) *api.Node {
	for ; s != nil && i > 0; i-- {
		s = s.next
	}
	return s.Top()
}

// Len returns the number of nodes on the stack.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return s.size
}

// Nodes returns the stack as a slice, current node first.
func (s *Stack) Nodes() []*api.Node {
	out := make([]*api.Node, 0, s.Len())
	for ; s != nil; s = s.next {
		out = append(out, s.node)
	}
	return out
}

// Types returns the node types on the stack, current node first.
func (s *Stack) Types() []string {
	out := make([]string, 0, s.Len())
	for ; s != nil; s = s.next {
		out = append(out, s.node.Type)
	}
	return out
}
