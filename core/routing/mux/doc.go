// Package mux provides a multiplexer that allows multiple
// [github.com/anoideaopen/proxy/core/routing.Router] instances to be used
// together. The Router delegates each call to the router that defines the
// method.
//
// Example usage:
//
//	billing, err := routing.NewRouter(billingProxy)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	audit, err := routing.NewRouter(auditProxy)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := mux.NewRouter(
//	    mux.WithPrefix("billing.", billing),
//	    mux.WithPrefix("audit.", audit),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := r.Invoke(ctx, "billing.Sum", "2", "3")
//
// # Error Handling
//
// If a method is defined more than once across the provided routers,
// NewRouter returns an error wrapping routing.ErrMethodAlreadyDefined.
// Calls to methods no router defines fail with routing.ErrUnsupportedMethod.
package mux
