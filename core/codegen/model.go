// Package codegen generates typed Go wrappers around interface proxies.
//
// For every interface X it emits XType (its typeinfo description), an XProxy
// struct implementing X by forwarding each method to a proxygen.Instance, and
// NewXProxy(handler). Packages are read with golang.org/x/tools/go/packages.
package codegen

import "go/types"

// Model is the set of interfaces selected from one package.
type Model struct {
	ImportPath string
	Name       string // package name, e.g. "io"
	Interfaces []InterfaceModel
}

// InterfaceModel is an exported interface and its complete method set.
type InterfaceModel struct {
	Name    string
	Methods []MethodModel
}

// MethodModel is an interface method.
type MethodModel struct {
	Name       string
	Params     []types.Type
	Results    []types.Type // without the trailing error
	ReturnsErr bool
	Variadic   bool
	TakesCtx   bool // first parameter is context.Context
}
