package mux

import (
	"context"
	"fmt"
	"maps"

	"github.com/anoideaopen/proxy/core/routing"
	"github.com/anoideaopen/proxy/core/stringsx"
)

// Router is a multiplexer that routes methods to the appropriate handler.
type Router struct {
	methodRouter map[routing.Function]routing.Router // Function -> Router
	routers      []routing.Router
}

// NewRouter creates a new Router with the provided routing.Router instances.
// It returns an error if any method is defined more than once.
func NewRouter(router ...routing.Router) (*Router, error) {
	methodRouter := make(map[routing.Function]routing.Router)

	for _, r := range router {
		for fn := range r.Methods() {
			if _, ok := methodRouter[fn]; ok {
				return nil, fmt.Errorf("%w, method: '%s'", routing.ErrMethodAlreadyDefined, fn)
			}

			methodRouter[fn] = r
		}
	}

	return &Router{
		methodRouter: methodRouter,
		routers:      router,
	}, nil
}

// Check validates the provided arguments for the specified method.
func (r *Router) Check(method string, args ...string) error {
	if m, ok := r.methodRouter[method]; ok {
		return m.Check(method, args...)
	}

	return fmt.Errorf("%w: %s", routing.ErrUnsupportedMethod, method)
}

// Invoke calls the specified method with the provided arguments.
func (r *Router) Invoke(ctx context.Context, method string, args ...string) ([]byte, error) {
	if m, ok := r.methodRouter[method]; ok {
		return m.Invoke(ctx, method, args...)
	}

	return nil, fmt.Errorf("%w: %s", routing.ErrUnsupportedMethod, method)
}

// Methods retrieves a map of all available methods, keyed by their routed names.
func (r *Router) Methods() map[routing.Function]routing.Method {
	methods := make(map[routing.Function]routing.Method, len(r.methodRouter))

	for _, r := range r.routers {
		maps.Copy(methods, r.Methods())
	}

	return methods
}

// prefixed exposes the methods of a router under a namespace.
type prefixed struct {
	prefix string
	router routing.Router
}

// WithPrefix returns a router that serves the methods of r as prefix+name,
// e.g. "billing.Sum" for prefix "billing.". It lets routers with clashing
// method names share a multiplexer.
func WithPrefix(prefix string, r routing.Router) routing.Router {
	return &prefixed{prefix: prefix, router: r}
}

func (p *prefixed) Check(method string, args ...string) error {
	if !stringsx.HasPrefix(method, p.prefix) {
		return fmt.Errorf("%w: %s", routing.ErrUnsupportedMethod, method)
	}

	return p.router.Check(stringsx.TrimFirstPrefix(method, p.prefix), args...)
}

func (p *prefixed) Invoke(ctx context.Context, method string, args ...string) ([]byte, error) {
	if !stringsx.HasPrefix(method, p.prefix) {
		return nil, fmt.Errorf("%w: %s", routing.ErrUnsupportedMethod, method)
	}

	return p.router.Invoke(ctx, stringsx.TrimFirstPrefix(method, p.prefix), args...)
}

func (p *prefixed) Methods() map[routing.Function]routing.Method {
	inner := p.router.Methods()
	methods := make(map[routing.Function]routing.Method, len(inner))
	for fn, m := range inner {
		m.Function = p.prefix + fn
		methods[m.Function] = m
	}

	return methods
}
