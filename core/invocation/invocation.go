// Package invocation defines the per-call value passed through interceptor chains.
package invocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/anoideaopen/proxy/core/typeinfo"
	"github.com/google/uuid"
)

var (
	// ErrNoTarget is returned by Proceed when the proxy has no base implementation
	// to forward to, as for interface proxies.
	ErrNoTarget = errors.New("no target to proceed to")

	// ErrAbstractMember is returned by Proceed for a member without a base implementation.
	ErrAbstractMember = errors.New("abstract member has no base implementation")

	// ErrArgumentIndex is returned by SetArgument for an index out of range.
	ErrArgumentIndex = errors.New("argument index out of range")
)

// ProceedFunc calls the base implementation of the invoked member.
type ProceedFunc func(args []any) ([]any, error)

// Result is the outcome of a call as seen by post-invoke hooks.
// Hooks receive it by pointer and may replace Values or Err.
type Result struct {
	Values []any
	Err    error
}

// Invocation describes one call made on a proxy instance. It is created for
// the call and discarded when the call returns; it must not be retained or
// shared between goroutines.
type Invocation struct {
	id      uuid.UUID
	ctx     context.Context
	proxy   any
	member  typeinfo.Member
	args    []any
	proceed ProceedFunc
}

// New creates an invocation. proceed may be nil when there is no base implementation.
func New(ctx context.Context, proxy any, member typeinfo.Member, args []any, proceed ProceedFunc) *Invocation {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Invocation{
		id:      uuid.New(),
		ctx:     ctx,
		proxy:   proxy,
		member:  member,
		args:    args,
		proceed: proceed,
	}
}

// ID returns the unique call identifier.
func (inv *Invocation) ID() uuid.UUID { return inv.id }

// Context returns the call context.
func (inv *Invocation) Context() context.Context { return inv.ctx }

// SetContext replaces the call context, e.g. with one carrying a tracing span.
func (inv *Invocation) SetContext(ctx context.Context) {
	if ctx != nil {
		inv.ctx = ctx
	}
}

// Proxy returns the proxy instance the call was made on.
func (inv *Invocation) Proxy() any { return inv.proxy }

// Member returns the descriptor of the invoked member.
func (inv *Invocation) Member() typeinfo.Member { return inv.member }

// Method returns the name of the invoked member.
func (inv *Invocation) Method() string { return inv.member.Name }

// Arguments returns a copy of the current arguments.
func (inv *Invocation) Arguments() []any {
	return append([]any(nil), inv.args...)
}

// Argument returns the i-th argument or nil when out of range.
func (inv *Invocation) Argument(i int) any {
	if i < 0 || i >= len(inv.args) {
		return nil
	}

	return inv.args[i]
}

// SetArgument replaces the i-th argument for the rest of the chain.
func (inv *Invocation) SetArgument(i int, v any) error {
	if i < 0 || i >= len(inv.args) {
		return fmt.Errorf("%w: %d of %d, member %s", ErrArgumentIndex, i, len(inv.args), inv.member.Name)
	}

	inv.args[i] = v

	return nil
}

// HasTarget reports whether Proceed can reach a base implementation.
func (inv *Invocation) HasTarget() bool { return inv.proceed != nil }

// Proceed calls the base implementation with the current arguments.
func (inv *Invocation) Proceed() ([]any, error) {
	if inv.proceed == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTarget, inv.member.Key())
	}

	return inv.proceed(inv.Arguments())
}
