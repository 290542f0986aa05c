package proxy

import (
	"fmt"

	"github.com/anoideaopen/proxy/core/interceptor"
	"github.com/anoideaopen/proxy/core/proxyerr"
	"github.com/anoideaopen/proxy/core/proxygen"
	"github.com/anoideaopen/proxy/core/typeinfo"
)

// CreateInterfaceProxy calls Default().CreateInterfaceProxy.
func CreateInterfaceProxy(ifaces ...*typeinfo.Type) (*Implementation, error) {
	return Default().CreateInterfaceProxy(ifaces...)
}

// CreateInterfaceProxyWithContext calls Default().CreateInterfaceProxyWithContext.
func CreateInterfaceProxyWithContext(ctx Context, ifaces ...*typeinfo.Type) (*Implementation, error) {
	return Default().CreateInterfaceProxyWithContext(ctx, ifaces...)
}

// CreateClassProxy calls Default().CreateClassProxy.
func CreateClassProxy(class *typeinfo.Type) (*Implementation, error) {
	return Default().CreateClassProxy(class)
}

// CreateClassProxyWithContext calls Default().CreateClassProxyWithContext.
func CreateClassProxyWithContext(ctx Context, class *typeinfo.Type) (*Implementation, error) {
	return Default().CreateClassProxyWithContext(ctx, class)
}

// NewInterfaceProxy calls Default().NewInterfaceProxy.
func NewInterfaceProxy(handler interceptor.Handler, ifaces ...*typeinfo.Type) (*Instance, error) {
	return Default().NewInterfaceProxy(handler, ifaces...)
}

// NewClassProxy calls Default().NewClassProxy.
func NewClassProxy(class *typeinfo.Type, handler interceptor.Handler, ctorArgs ...any) (*Instance, error) {
	return Default().NewClassProxy(class, handler, ctorArgs...)
}

// Wrap intercepts calls to an existing *T without taking ownership of it.
// The proxy holds target weakly: once the caller drops every other reference
// and target is collected, calls through the proxy fail with
// proxygen.ErrTargetReleased.
func Wrap[T any](b *Builder, target *T, handler interceptor.Handler, opts ...typeinfo.ClassOption) (*Instance, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is nil", proxyerr.ErrArgument)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: target is nil", proxyerr.ErrArgument)
	}

	class, err := typeinfo.ClassOf[T](opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", proxyerr.ErrUnsupportedTarget, err)
	}

	impl, err := b.CreateClassProxy(class)
	if err != nil {
		return nil, err
	}

	return proxygen.BindWeak(impl, handler, target)
}
