// Package typeinfo describes the types a proxy can be generated for.
//
// A [Type] is either an interface (a set of abstract members, possibly extending
// other interfaces) or a class (members with base implementations, an optional
// base class, implemented interfaces and constructors). The proxy generators in
// [github.com/anoideaopen/proxy/core/proxygen] only consume these descriptions;
// they never inspect Go values directly.
//
// Descriptions are built explicitly:
//
//	intT := reflect.TypeOf(0)
//	service := typeinfo.MustClass(typeinfo.ClassSpec{
//	    Package: "billing",
//	    Name:    "ServiceClass",
//	    Members: []typeinfo.Member{{
//	        Name:      "Sum",
//	        Params:    []reflect.Type{intT, intT},
//	        Results:   []reflect.Type{intT},
//	        Modifiers: typeinfo.Virtual,
//	        Impl: func(_ any, args []any) ([]any, error) {
//	            return []any{args[0].(int) + args[1].(int)}, nil
//	        },
//	    }},
//	    Constructors: []typeinfo.Constructor{{
//	        New: func([]any) (any, error) { return &struct{}{}, nil },
//	    }},
//	})
//
// or derived from Go types with [InterfaceOf] and [ClassOf]. Derived
// descriptions are registered per reflect.Type, so repeated calls return the
// same *Type and therefore hit the same cached proxy implementation.
//
// # Member keys
//
// Members are identified by [Member.Key]: the name plus parameter types, prefixed
// with "get " or "set " for property accessors. Two declarations with the same key
// in a class hierarchy override each other; the most-derived one wins.
//
// # Eligibility
//
// A class member is eligible for interception when it is overridable (virtual or
// abstract), not sealed, not static and accessible from the package requesting
// the proxy. See [Member.Eligible].
package typeinfo
