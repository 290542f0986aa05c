package reflectx

import (
	"fmt"
	"reflect"
)

// Validator is an interface that can be implemented by types that can validate themselves.
type Validator interface {
	Validate() error
}

// DecodeArguments converts string arguments into values of the given parameter types with ValueOf.
// If a decoded value implements Validator, its Validate method is called.
//
// The function returns an error if the number of arguments does not match the number of parameters,
// or if an argument cannot be decoded or fails validation.
func DecodeArguments(params []reflect.Type, args ...string) ([]any, error) {
	if len(params) != len(args) {
		return nil, fmt.Errorf(
			"%w: found %d but expected %d",
			ErrIncorrectArgumentCount,
			len(args),
			len(params),
		)
	}

	values := make([]any, len(args))
	for i, arg := range args {
		value, err := ValueOf(arg, params[i])
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d", err, i)
		}

		iface := value.Interface()
		if validator, ok := iface.(Validator); ok {
			if err = validator.Validate(); err != nil {
				return nil, fmt.Errorf(
					"%w: '%s': validation failed: '%v': argument %d",
					ErrInvalidArgumentValue,
					arg,
					err.Error(),
					i,
				)
			}
		}

		values[i] = iface
	}

	return values, nil
}
