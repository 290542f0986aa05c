package interceptor

import (
	"fmt"

	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/anoideaopen/proxy/core/proxyerr"
)

// Handler receives an invocation and produces the call result.
type Handler interface {
	Invoke(inv *invocation.Invocation) ([]any, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(inv *invocation.Invocation) ([]any, error)

// Invoke calls f(inv).
func (f HandlerFunc) Invoke(inv *invocation.Invocation) ([]any, error) {
	return f(inv)
}

// Interceptor processes an invocation and decides whether to pass it on to next.
type Interceptor interface {
	Intercept(inv *invocation.Invocation, next Handler) ([]any, error)
}

// Func adapts a function to Interceptor.
type Func func(inv *invocation.Invocation, next Handler) ([]any, error)

// Intercept calls f(inv, next).
func (f Func) Intercept(inv *invocation.Invocation, next Handler) ([]any, error) {
	return f(inv, next)
}

// Chain is an immutable sequence of interceptors terminated by a Handler.
// It is safe for concurrent use once built.
type Chain struct {
	interceptors []Interceptor
	terminal     Handler
}

// NewChain returns a chain of the given interceptors without a terminal handler.
// Nil interceptors are skipped.
func NewChain(interceptors ...Interceptor) *Chain {
	c := &Chain{}
	for _, i := range interceptors {
		if i != nil {
			c.interceptors = append(c.interceptors, i)
		}
	}

	return c
}

// Append returns a new chain with interceptors added after the existing ones.
func (c *Chain) Append(interceptors ...Interceptor) *Chain {
	next := NewChain(append(append([]Interceptor(nil), c.interceptors...), interceptors...)...)
	next.terminal = c.terminal

	return next
}

// Then returns a new chain terminated by terminal.
func (c *Chain) Then(terminal Handler) *Chain {
	return &Chain{
		interceptors: c.interceptors,
		terminal:     terminal,
	}
}

// Len returns the number of interceptors, not counting the terminal handler.
func (c *Chain) Len() int {
	return len(c.interceptors)
}

// Terminated reports whether the chain has a terminal handler.
func (c *Chain) Terminated() bool {
	return c.terminal != nil
}

// Invoke runs inv through the chain.
func (c *Chain) Invoke(inv *invocation.Invocation) ([]any, error) {
	if c.terminal == nil {
		return nil, fmt.Errorf(
			"%w: chain of %d interceptors has no terminal handler, member %s",
			proxyerr.ErrChainConfiguration,
			len(c.interceptors),
			inv.Member().Key(),
		)
	}

	return link{chain: c}.Invoke(inv)
}

// link is the continuation for the part of the chain starting at index.
type link struct {
	chain *Chain
	index int
}

func (l link) Invoke(inv *invocation.Invocation) ([]any, error) {
	if l.index == len(l.chain.interceptors) {
		return l.chain.terminal.Invoke(inv)
	}

	return l.chain.interceptors[l.index].Intercept(inv, link{chain: l.chain, index: l.index + 1})
}

// Hooks is an interceptor built from optional pre- and post-invoke functions.
type Hooks struct {
	// Before runs before the rest of the chain. A non-nil error short-circuits the call.
	Before func(inv *invocation.Invocation) error

	// After runs when the rest of the chain returns. It receives the result by
	// pointer and may replace values or error before they reach the caller.
	After func(inv *invocation.Invocation, res *invocation.Result)
}

// Intercept implements Interceptor.
func (h Hooks) Intercept(inv *invocation.Invocation, next Handler) ([]any, error) {
	if h.Before != nil {
		if err := h.Before(inv); err != nil {
			return nil, err
		}
	}

	values, err := next.Invoke(inv)
	if h.After == nil {
		return values, err
	}

	res := invocation.Result{Values: values, Err: err}
	h.After(inv, &res)

	return res.Values, res.Err
}

// MapResults returns an interceptor that rewrites the values of successful calls.
func MapResults(fn func(inv *invocation.Invocation, values []any) []any) Interceptor {
	return Hooks{
		After: func(inv *invocation.Invocation, res *invocation.Result) {
			if res.Err == nil {
				res.Values = fn(inv, res.Values)
			}
		},
	}
}
