package proxygen

import (
	"context"
	"fmt"
	"slices"

	"github.com/anoideaopen/proxy/core/interceptor"
	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/anoideaopen/proxy/core/reflectx"
	"github.com/anoideaopen/proxy/core/typeinfo"
)

// Instance is a proxy object. Calls on intercepted members are turned into
// invocations and handed to the handler; other calls run the base
// implementation directly. An Instance is safe for concurrent use when its
// handler and base instance are.
type Instance struct {
	impl    *Implementation
	handler interceptor.Handler
	target  func() (any, error) // nil for interface proxies
}

// Implementation returns the generated type of the instance.
func (i *Instance) Implementation() *Implementation { return i.impl }

// Handler returns the handler the instance was created with.
func (i *Instance) Handler() interceptor.Handler { return i.handler }

// AssignableTo reports whether the instance can be used where t is expected.
func (i *Instance) AssignableTo(t *typeinfo.Type) bool { return i.impl.AssignableTo(t) }

// Target returns the base instance of a class proxy.
func (i *Instance) Target() (any, error) {
	if i.target == nil {
		return nil, fmt.Errorf("%w: %s", invocation.ErrNoTarget, i.impl.name)
	}

	return i.target()
}

// Invoke calls a method by name or key with a background context.
func (i *Instance) Invoke(member string, args ...any) ([]any, error) {
	return i.InvokeContext(context.Background(), member, args...)
}

// InvokeContext calls a method by name or key. Results exclude a trailing
// error, which is returned as err.
func (i *Instance) InvokeContext(ctx context.Context, member string, args ...any) ([]any, error) {
	slot, err := i.impl.resolve(typeinfo.MemberMethod, member, args)
	if err != nil {
		return nil, err
	}

	return i.dispatch(ctx, slot, args)
}

// InvokeStrings calls a method with arguments given as strings, decoded into
// the parameter types of the method.
func (i *Instance) InvokeStrings(ctx context.Context, member string, args ...string) ([]any, error) {
	slot, err := i.impl.resolveByCount(member, len(args))
	if err != nil {
		return nil, err
	}

	values, err := reflectx.DecodeArguments(slot.member.Params, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArgumentType, slot.Key(), err)
	}

	return i.dispatch(ctx, slot, values)
}

// Get reads a property. Indexed properties take the index as argument.
func (i *Instance) Get(ctx context.Context, property string, args ...any) (any, error) {
	slot, err := i.impl.resolve(typeinfo.MemberGetter, property, args)
	if err != nil {
		return nil, err
	}

	values, err := i.dispatch(ctx, slot, args)
	if err != nil {
		return nil, err
	}

	return values[0], nil
}

// Set writes a property.
func (i *Instance) Set(ctx context.Context, property string, value any) error {
	args := []any{value}

	slot, err := i.impl.resolve(typeinfo.MemberSetter, property, args)
	if err != nil {
		return err
	}

	_, err = i.dispatch(ctx, slot, args)

	return err
}

func (i *Instance) dispatch(ctx context.Context, slot *Slot, args []any) ([]any, error) {
	args = slices.Clone(args)
	proceed := i.proceed(slot)

	var (
		values []any
		err    error
		source = "handler"
	)
	if slot.intercepted {
		values, err = i.handler.Invoke(invocation.New(ctx, i, slot.member, args, proceed))
	} else {
		if proceed == nil {
			return nil, fmt.Errorf("%w: %s", invocation.ErrNoTarget, slot.Key())
		}
		source = "base implementation"
		values, err = proceed(args)
	}
	if err != nil {
		return nil, err
	}

	if len(values) != len(slot.member.Results) {
		return nil, fmt.Errorf("%w: %s returns %d values, %s produced %d",
			ErrInvalidResult, slot.Key(), len(slot.member.Results), source, len(values))
	}
	if err = checkValues(slot.member.Results, values); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidResult, slot.Key(), err)
	}

	return values, nil
}

// proceed returns the call to the base implementation, or nil when there is no
// base instance.
func (i *Instance) proceed(slot *Slot) invocation.ProceedFunc {
	if i.target == nil {
		return nil
	}

	m := slot.member
	if m.Impl == nil {
		return func([]any) ([]any, error) {
			return nil, fmt.Errorf("%w: %s", invocation.ErrAbstractMember, m.Key())
		}
	}

	return func(args []any) ([]any, error) {
		self, err := i.target()
		if err != nil {
			return nil, err
		}

		return m.Impl(self, args)
	}
}
