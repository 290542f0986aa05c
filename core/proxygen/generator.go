package proxygen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/anoideaopen/proxy/core/proxyerr"
	"github.com/anoideaopen/proxy/core/typeinfo"
)

// Generator builds the implementation a descriptor describes.
type Generator interface {
	Generate(d Descriptor) (*Implementation, error)
}

// Generate builds d with the generator for its kind.
func Generate(d Descriptor) (*Implementation, error) {
	if d.kind == typeinfo.KindClass {
		return ClassGenerator{}.Generate(d)
	}

	return InterfaceGenerator{}.Generate(d)
}

// InterfaceGenerator builds proxies with no base implementation. Every member
// of the interface set is intercepted.
type InterfaceGenerator struct{}

// Generate implements Generator.
func (InterfaceGenerator) Generate(d Descriptor) (*Implementation, error) {
	if d.kind != typeinfo.KindInterface || len(d.interfaces) == 0 {
		return nil, fmt.Errorf("%w: interface generator got %s", proxyerr.ErrArgument, d)
	}

	b := newTableBuilder(d)
	for _, iface := range d.interfaces {
		for _, m := range iface.Members() {
			if err := b.add(m, true); err != nil {
				return nil, err
			}
		}
	}

	return b.build(), nil
}

// ClassGenerator builds proxies that derive from a class. Eligible members are
// intercepted; the rest keep their base behavior. Interface members the class
// does not declare are added as intercepted abstract slots.
type ClassGenerator struct{}

// Generate implements Generator.
func (ClassGenerator) Generate(d Descriptor) (*Implementation, error) {
	if d.kind != typeinfo.KindClass || d.class == nil {
		return nil, fmt.Errorf("%w: class generator got %s", proxyerr.ErrArgument, d)
	}

	b := newTableBuilder(d)
	intercepted := 0
	for _, m := range resolveClass(d.class) {
		eligible := m.Eligible(d.ctx.Package) && !d.ctx.excludes(m)
		if !m.Modifiers.Has(typeinfo.Abstract) && m.Impl == nil {
			return nil, fmt.Errorf("%w: %s: member %s is not abstract but has no implementation",
				proxyerr.ErrGeneration, d.class, m.Key())
		}
		if !eligible && m.Impl == nil {
			return nil, fmt.Errorf("%w: %s: abstract member %s cannot be intercepted",
				proxyerr.ErrGeneration, d.class, m.Key())
		}
		if eligible {
			intercepted++
		}
		if err := b.add(m, eligible); err != nil {
			return nil, err
		}
	}

	if intercepted == 0 {
		return nil, fmt.Errorf("%w: class %s has no member that can be intercepted",
			proxyerr.ErrUnsupportedTarget, d.class)
	}

	for _, iface := range d.interfaces {
		for _, m := range iface.Members() {
			if err := b.add(m, true); err != nil {
				return nil, err
			}
		}
	}

	b.impl.ctors = d.class.AccessibleConstructors(d.ctx.Package)

	return b.build(), nil
}

type tableBuilder struct {
	impl *Implementation
}

func newTableBuilder(d Descriptor) *tableBuilder {
	return &tableBuilder{
		impl: &Implementation{
			fingerprint: d.Fingerprint(),
			name:        d.Name(),
			kind:        d.kind,
			class:       d.class,
			interfaces:  d.Interfaces(),
			pkg:         d.ctx.Package,
			byKey:       make(map[string]*Slot),
			byName:      make(map[nameKey][]*Slot),
		},
	}
}

// add puts m into the table. A member whose key is already present is merged
// when the signatures agree and rejected otherwise.
func (b *tableBuilder) add(m typeinfo.Member, intercepted bool) error {
	key := m.Key()
	if existing, ok := b.impl.byKey[key]; ok {
		if existing.member.Signature() != m.Signature() {
			return fmt.Errorf("%w: %s: %s conflicts with %s declared by %s",
				proxyerr.ErrGeneration, b.impl.name, m.Signature(), existing.member.Signature(),
				existing.member.DeclaringType())
		}

		return nil
	}

	slot := &Slot{member: m, intercepted: intercepted}
	b.impl.byKey[key] = slot
	nk := nameKey{kind: m.Kind, name: m.Name}
	b.impl.byName[nk] = append(b.impl.byName[nk], slot)
	b.impl.slots = append(b.impl.slots, slot)

	return nil
}

func (b *tableBuilder) build() *Implementation {
	slices.SortFunc(b.impl.slots, func(x, y *Slot) int {
		return strings.Compare(x.Key(), y.Key())
	})

	return b.impl
}
