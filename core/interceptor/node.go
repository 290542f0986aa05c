package interceptor

import (
	"fmt"

	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/anoideaopen/proxy/core/proxyerr"
)

// Node is a pointer-linked chain element. It forwards to its successor, after
// passing the invocation through Interceptor when one is set.
//
// Nodes must be linked before the first call and not re-linked afterwards;
// prefer Chain, which cannot be changed once built.
type Node struct {
	Interceptor Interceptor
	next        Handler
}

// SetNext sets the successor.
func (n *Node) SetNext(next Handler) {
	n.next = next
}

// Next returns the successor or nil.
func (n *Node) Next() Handler {
	return n.next
}

// Invoke implements Handler. It fails with ErrChainConfiguration when no
// successor is set.
func (n *Node) Invoke(inv *invocation.Invocation) ([]any, error) {
	if n.next == nil {
		return nil, fmt.Errorf("%w: node has no successor, member %s", proxyerr.ErrChainConfiguration, inv.Member().Key())
	}

	if n.Interceptor == nil {
		return n.next.Invoke(inv)
	}

	return n.Interceptor.Intercept(inv, n.next)
}

// Link connects nodes in order and makes terminal the successor of the last one.
// It returns the head of the list, or terminal when nodes is empty.
func Link(terminal Handler, nodes ...*Node) Handler {
	if len(nodes) == 0 {
		return terminal
	}

	for i := 0; i < len(nodes)-1; i++ {
		nodes[i].SetNext(nodes[i+1])
	}
	nodes[len(nodes)-1].SetNext(terminal)

	return nodes[0]
}
