package codegen

import (
	"fmt"
	"go/types"

	"github.com/anoideaopen/proxy/core/proxyerr"
	"golang.org/x/tools/go/packages"
)

// Introspect loads the package at importPath and returns the model of the
// named interfaces, in the given order.
func Introspect(importPath string, names ...string) (*Model, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no interfaces named for %s", proxyerr.ErrArgument, importPath)
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
	}

	pkgs, err := packages.Load(cfg, importPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", importPath, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %s", importPath)
	}
	if len(pkgs[0].Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkgs[0].Errors)
	}

	pkg := pkgs[0]
	if pkg.Types == nil {
		return nil, fmt.Errorf("type information not available for %s", importPath)
	}

	model := &Model{
		ImportPath: pkg.PkgPath,
		Name:       pkg.Name,
	}

	scope := pkg.Types.Scope()
	for _, name := range names {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !obj.Exported() {
			return nil, fmt.Errorf("%w: %s.%s is not an exported type", proxyerr.ErrArgument, importPath, name)
		}

		im, err := extractInterface(obj)
		if err != nil {
			return nil, err
		}
		model.Interfaces = append(model.Interfaces, im)
	}

	return model, nil
}

func extractInterface(tn *types.TypeName) (InterfaceModel, error) {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return InterfaceModel{}, fmt.Errorf("%w: %s is an alias", proxyerr.ErrUnsupportedTarget, tn.Name())
	}
	if named.TypeParams().Len() > 0 {
		return InterfaceModel{}, fmt.Errorf("%w: %s is generic", proxyerr.ErrUnsupportedTarget, tn.Name())
	}

	iface, ok := named.Underlying().(*types.Interface)
	if !ok {
		return InterfaceModel{}, fmt.Errorf("%w: %s is not an interface", proxyerr.ErrUnsupportedTarget, tn.Name())
	}
	if !iface.IsMethodSet() {
		return InterfaceModel{}, fmt.Errorf("%w: %s is a type constraint", proxyerr.ErrUnsupportedTarget, tn.Name())
	}

	im := InterfaceModel{Name: tn.Name()}
	for i := 0; i < iface.NumMethods(); i++ {
		fn := iface.Method(i)
		if !fn.Exported() {
			return InterfaceModel{}, fmt.Errorf("%w: %s has unexported method %s",
				proxyerr.ErrUnsupportedTarget, tn.Name(), fn.Name())
		}

		im.Methods = append(im.Methods, methodModel(fn.Name(), fn.Type().(*types.Signature))) //nolint:forcetypeassert
	}

	return im, nil
}

func methodModel(name string, sig *types.Signature) MethodModel {
	m := MethodModel{
		Name:     name,
		Variadic: sig.Variadic(),
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		m.Params = append(m.Params, params.At(i).Type())
	}
	m.TakesCtx = len(m.Params) > 0 && isContext(m.Params[0])

	results := sig.Results()
	n := results.Len()
	if n > 0 && isError(results.At(n-1).Type()) {
		m.ReturnsErr = true
		n--
	}
	for i := 0; i < n; i++ {
		m.Results = append(m.Results, results.At(i).Type())
	}

	return m
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func isContext(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()

	return obj.Pkg() != nil && obj.Pkg().Path() == "context" && obj.Name() == "Context"
}
