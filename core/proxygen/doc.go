// Package proxygen turns generation requests into proxy implementations and
// instantiates them.
//
// A [Descriptor] is a validated request: the proxied class or the interface
// set, plus the generation [Context]. Its [Descriptor.Fingerprint] identifies
// the implementation it produces. [InterfaceGenerator] and [ClassGenerator]
// build an [Implementation], a dispatch table with one [Slot] per member.
// Intercepted slots route calls through the instance's handler; the other
// slots call the base implementation directly.
//
// Generators are pure functions of the descriptor. Caching and sharing
// implementations is the job of package proxy.
package proxygen

import (
	"errors"
	"fmt"

	"github.com/anoideaopen/proxy/core/proxyerr"
)

var (
	// ErrMemberNotFound is returned when an invoked member does not exist on the proxy.
	ErrMemberNotFound = errors.New("member not found")

	// ErrTargetReleased is returned by a weakly bound proxy once its target was collected.
	ErrTargetReleased = errors.New("proxy target released")

	// ErrInvalidResult is returned when a handler produces results that do not
	// match the member's result types.
	ErrInvalidResult = errors.New("invalid handler result")

	ErrArgumentCount    = fmt.Errorf("%w: wrong number of arguments", proxyerr.ErrArgument)
	ErrArgumentType     = fmt.Errorf("%w: argument type mismatch", proxyerr.ErrArgument)
	ErrAmbiguousMember  = fmt.Errorf("%w: ambiguous member", proxyerr.ErrArgument)
	ErrConstructorMatch = fmt.Errorf("%w: no matching constructor", proxyerr.ErrArgument)
)
