package proxygen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/anoideaopen/proxy/core/proxyerr"
	"github.com/anoideaopen/proxy/core/typecache"
	"github.com/anoideaopen/proxy/core/typeinfo"
)

// Context is the generation context: options that affect what gets generated
// and therefore take part in the fingerprint.
type Context struct {
	// Name of the implementation. Derived from the target when empty.
	Name string

	// Package the proxy is generated for. Package-private class members are
	// intercepted only when it equals their declaring package.
	Package string

	// Markers are extra interfaces the proxy implements.
	Markers []*typeinfo.Type

	// Exclude lists class member names or keys that are never intercepted.
	Exclude []string
}

func (c Context) excludes(m typeinfo.Member) bool {
	return slices.Contains(c.Exclude, m.Name) || slices.Contains(c.Exclude, m.Key())
}

// Descriptor is a validated generation request.
type Descriptor struct {
	kind       typeinfo.Kind
	class      *typeinfo.Type
	interfaces []*typeinfo.Type
	ctx        Context
}

// NewInterfaceDescriptor validates a request for a proxy implementing ifaces and
// every marker interface. The interface set is flattened, so requests differing
// only in order or in listing inherited interfaces describe the same proxy.
func NewInterfaceDescriptor(ctx Context, ifaces ...*typeinfo.Type) (Descriptor, error) {
	if len(ifaces) == 0 {
		return Descriptor{}, fmt.Errorf("%w: no interfaces to implement", proxyerr.ErrArgument)
	}
	if len(ctx.Exclude) > 0 {
		return Descriptor{}, fmt.Errorf("%w: interface proxies cannot exclude members", proxyerr.ErrArgument)
	}

	requested := append(append([]*typeinfo.Type(nil), ifaces...), ctx.Markers...)
	for _, t := range requested {
		if err := checkInterface(t); err != nil {
			return Descriptor{}, err
		}
	}

	return Descriptor{
		kind:       typeinfo.KindInterface,
		interfaces: typeinfo.Flatten(requested...),
		ctx:        cloneContext(ctx),
	}, nil
}

// NewClassDescriptor validates a request for a proxy of class. The class must
// not be final, must expose a constructor to ctx.Package and must have at
// least one member the proxy can intercept.
func NewClassDescriptor(ctx Context, class *typeinfo.Type) (Descriptor, error) {
	if class == nil {
		return Descriptor{}, fmt.Errorf("%w: class is nil", proxyerr.ErrArgument)
	}
	if class.IsInterface() {
		return Descriptor{}, fmt.Errorf("%w: %s is an interface, not a class", proxyerr.ErrUnsupportedTarget, class)
	}
	if class.Final() {
		return Descriptor{}, fmt.Errorf("%w: class %s is final", proxyerr.ErrUnsupportedTarget, class)
	}
	if len(class.AccessibleConstructors(ctx.Package)) == 0 {
		return Descriptor{}, fmt.Errorf("%w: class %s has no constructor accessible from %q",
			proxyerr.ErrUnsupportedTarget, class, ctx.Package)
	}

	for _, t := range ctx.Markers {
		if err := checkInterface(t); err != nil {
			return Descriptor{}, err
		}
	}

	if eligibleCount(class, ctx) == 0 {
		return Descriptor{}, fmt.Errorf("%w: class %s has no member that can be intercepted",
			proxyerr.ErrUnsupportedTarget, class)
	}

	return Descriptor{
		kind:       typeinfo.KindClass,
		class:      class,
		interfaces: typeinfo.Flatten(append(class.Interfaces(), ctx.Markers...)...),
		ctx:        cloneContext(ctx),
	}, nil
}

func checkInterface(t *typeinfo.Type) error {
	if t == nil {
		return fmt.Errorf("%w: interface is nil", proxyerr.ErrArgument)
	}
	if !t.IsInterface() {
		return fmt.Errorf("%w: %s is a class, not an interface", proxyerr.ErrUnsupportedTarget, t)
	}

	return nil
}

func cloneContext(ctx Context) Context {
	ctx.Markers = slices.Clone(ctx.Markers)
	ctx.Exclude = slices.Clone(ctx.Exclude)

	return ctx
}

// Kind returns the kind of proxy requested.
func (d Descriptor) Kind() typeinfo.Kind { return d.kind }

// Class returns the proxied class, or nil for interface proxies.
func (d Descriptor) Class() *typeinfo.Type { return d.class }

// Interfaces returns the flattened set of interfaces the proxy implements.
func (d Descriptor) Interfaces() []*typeinfo.Type { return slices.Clone(d.interfaces) }

// Context returns the generation context.
func (d Descriptor) Context() Context { return cloneContext(d.ctx) }

// Name returns the implementation name.
func (d Descriptor) Name() string {
	if d.ctx.Name != "" {
		return d.ctx.Name
	}

	if d.kind == typeinfo.KindClass {
		return d.class.Name() + "Proxy"
	}

	names := make([]string, 0, len(d.interfaces))
	for _, t := range d.interfaces {
		names = append(names, t.Name())
	}
	slices.Sort(names)

	return "Proxy(" + strings.Join(names, ",") + ")"
}

// Canonical renders the descriptor as a string that is equal for two
// descriptors exactly when they must share an implementation.
func (d Descriptor) Canonical() string {
	var b strings.Builder

	b.WriteString("kind=")
	b.WriteString(d.kind.String())

	if d.kind == typeinfo.KindClass {
		b.WriteString(";class=")
		b.WriteString(d.class.ID().String())
		b.WriteString(";markers=")
		writeIDs(&b, typeinfo.Flatten(d.ctx.Markers...))
	} else {
		b.WriteString(";interfaces=")
		writeIDs(&b, d.interfaces)
	}

	b.WriteString(";name=")
	b.WriteString(d.ctx.Name)
	b.WriteString(";package=")
	b.WriteString(d.ctx.Package)

	exclude := slices.Clone(d.ctx.Exclude)
	slices.Sort(exclude)
	b.WriteString(";exclude=")
	b.WriteString(strings.Join(slices.Compact(exclude), ","))

	return b.String()
}

// Fingerprint returns the cache key of the descriptor.
func (d Descriptor) Fingerprint() typecache.Fingerprint {
	return typecache.NewFingerprint(d.Canonical())
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s proxy %s", d.kind, d.Name())
}

func writeIDs(b *strings.Builder, types []*typeinfo.Type) {
	ids := make([]string, 0, len(types))
	for _, t := range types {
		ids = append(ids, t.ID().String())
	}
	slices.Sort(ids)

	b.WriteString(strings.Join(ids, ","))
}

// eligibleCount counts the members of the class hierarchy the proxy would intercept.
func eligibleCount(class *typeinfo.Type, ctx Context) int {
	n := 0
	for _, m := range resolveClass(class) {
		if m.Eligible(ctx.Package) && !ctx.excludes(m) {
			n++
		}
	}

	return n
}

// resolveClass returns the most-derived declaration of every member key in the
// class hierarchy, in key order.
func resolveClass(class *typeinfo.Type) []typeinfo.Member {
	seen := make(map[string]struct{})

	var res []typeinfo.Member
	for _, c := range class.Ancestors() {
		for _, m := range c.Members() {
			key := m.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			res = append(res, m)
		}
	}

	slices.SortFunc(res, func(a, b typeinfo.Member) int {
		return strings.Compare(a.Key(), b.Key())
	})

	return res
}
