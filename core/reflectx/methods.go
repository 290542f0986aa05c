package reflectx

import (
	"reflect"
	"slices"
)

// TypeMethods returns the sorted names of the exported methods of t. For
// interface types these are the interface's methods.
func TypeMethods(t reflect.Type) []string {
	if t == nil {
		return []string{}
	}

	names := make([]string, 0, t.NumMethod())
	for i := range t.NumMethod() {
		names = append(names, t.Method(i).Name)
	}
	slices.Sort(names)

	return names
}

// ReturnsError checks if the last result of the function type ft is of type error.
func ReturnsError(ft reflect.Type) bool {
	n := ft.NumOut()

	return n > 0 && ft.Out(n-1) == errorInterface
}
