package routing

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedMethod is returned when a method is not supported by the router.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrMethodAlreadyDefined is returned when two methods route under the same name.
	ErrMethodAlreadyDefined = errors.New("method has already defined")
)

// Function is the routed name of a method.
type Function = string

// Method represents an endpoint of a proxy.
type Method struct {
	Function    Function // The routed name of the method.
	MemberKey   string   // The key of the proxy member the call is dispatched to.
	NumArgs     int      // Number of arguments the method takes.
	Intercepted bool     // Whether the call goes through the proxy handler.
}

// Router defines the interface for managing proxy methods and routing calls
// given in textual form.
type Router interface {
	// Check validates the provided arguments for the specified method.
	// It returns an error if the validation fails.
	Check(method string, args ...string) error

	// Invoke calls the specified method with the provided arguments.
	// It returns the encoded results and an error if the invocation fails.
	Invoke(ctx context.Context, method string, args ...string) ([]byte, error)

	// Methods retrieves a map of all available methods, keyed by their routed names.
	Methods() map[Function]Method
}
