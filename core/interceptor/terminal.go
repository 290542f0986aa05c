package interceptor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/anoideaopen/proxy/core/reflectx"
	"github.com/anoideaopen/proxy/core/typeinfo"
)

// ErrActivation is returned by a Lazy handler whose factory failed.
var ErrActivation = errors.New("target activation failed")

// Proceed returns a terminal handler that calls the base implementation of
// the invoked member. It is the usual terminal for class proxies.
func Proceed() Handler {
	return HandlerFunc(func(inv *invocation.Invocation) ([]any, error) {
		return inv.Proceed()
	})
}

// Delegate returns a terminal handler that forwards every call to the method of
// target with the same name. Getters resolve to Name or GetName, setters to SetName.
func Delegate(target any) Handler {
	return HandlerFunc(func(inv *invocation.Invocation) ([]any, error) {
		return delegate(target, inv)
	})
}

func delegate(target any, inv *invocation.Invocation) ([]any, error) {
	member := inv.Member()

	switch member.Kind {
	case typeinfo.MemberGetter:
		out, err := reflectx.CallValues(target, member.Name, inv.Arguments())
		if errors.Is(err, reflectx.ErrMethodNotFound) {
			return reflectx.CallValues(target, "Get"+member.Name, inv.Arguments())
		}
		return out, err
	case typeinfo.MemberSetter:
		return reflectx.CallValues(target, "Set"+member.Name, inv.Arguments())
	default:
		return reflectx.CallValues(target, member.Name, inv.Arguments())
	}
}

// Lazy returns a terminal handler that builds the real handler on the first call
// and forwards to it afterwards. The factory runs at most once; its error is
// returned to every caller.
func Lazy(factory func() (Handler, error)) Handler {
	activate := sync.OnceValues(factory)

	return HandlerFunc(func(inv *invocation.Invocation) ([]any, error) {
		h, err := activate()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrActivation, err)
		}
		if h == nil {
			return nil, fmt.Errorf("%w: factory returned no handler", ErrActivation)
		}

		return h.Invoke(inv)
	})
}
