package reflectx

import (
	"errors"
	"fmt"
	"reflect"
)

// Error types.
var (
	ErrIncorrectArgumentCount = errors.New("incorrect number of arguments")
	ErrInvalidArgumentValue   = errors.New("invalid argument value")
	ErrMethodNotFound         = errors.New("method not found")
)

var errorInterface = reflect.TypeFor[error]()

// CallValues invokes the named method of v with already typed arguments.
// A nil argument is passed as the zero value of the parameter type.
//
// A variadic method takes its final parameter as one slice argument.
//
// If the method's last result is an error it is lifted out of the returned
// slice: a non-nil error value is returned as the error, and the remaining
// results as values.
func CallValues(v any, method string, args []any) ([]any, error) {
	fn := reflect.ValueOf(v).MethodByName(method)
	if !fn.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}

	ft := fn.Type()
	if ft.NumIn() != len(args) {
		return nil, fmt.Errorf("%w: found %d but expected %d: call %s",
			ErrIncorrectArgumentCount, len(args), ft.NumIn(), method)
	}

	in, err := argumentValues(ft, args)
	if err != nil {
		return nil, fmt.Errorf("%w: call %s", err, method)
	}

	var out []reflect.Value
	if ft.IsVariadic() {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	if ReturnsError(ft) {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			return nil, last.Interface().(error) //nolint:forcetypeassert
		}
	}

	results := make([]any, len(out))
	for i, res := range out {
		results[i] = res.Interface()
	}

	return results, nil
}

func argumentValues(ft reflect.Type, args []any) ([]reflect.Value, error) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := ft.In(i)
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}

		value := reflect.ValueOf(arg)
		if !value.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("%w: %s is not assignable to %s, argument %d",
				ErrInvalidArgumentValue, value.Type(), pt, i)
		}
		in[i] = value
	}

	return in, nil
}
