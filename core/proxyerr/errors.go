// Package proxyerr defines the error taxonomy shared by the proxy engine.
//
// Every error produced by the engine wraps exactly one of the sentinels below,
// so callers classify failures with errors.Is:
//
//	impl, err := proxy.Default().CreateClassProxy(class)
//	if errors.Is(err, proxyerr.ErrUnsupportedTarget) {
//	    // the class cannot be proxied
//	}
package proxyerr

import "errors"

var (
	// ErrArgument is returned for a nil target, a nil handler or an empty interface set.
	ErrArgument = errors.New("invalid argument")

	// ErrUnsupportedTarget is returned when a target cannot be proxied: an interface
	// passed where a class is required, a class without eligible members or a class
	// that cannot be instantiated.
	ErrUnsupportedTarget = errors.New("unsupported proxy target")

	// ErrChainConfiguration is returned when an interceptor chain has no terminal handler.
	ErrChainConfiguration = errors.New("interceptor chain misconfigured")

	// ErrGeneration is returned when the forwarding implementation is internally
	// inconsistent. Generation is deterministic, so it is never retried.
	ErrGeneration = errors.New("proxy generation failed")
)
