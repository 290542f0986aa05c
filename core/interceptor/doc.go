// Package interceptor implements the dispatch contract between proxy instances
// and the code that handles their calls.
//
// A proxy instance hands every intercepted call to a [Handler]. Handlers are
// usually assembled as a [Chain]: an immutable, ordered list of [Interceptor]
// values ending in a terminal Handler that performs the real work. Each
// interceptor receives the invocation and a continuation for the rest of the
// chain. It may change the invocation and call next once (the normal case),
// skip next to short-circuit the call, or call next several times to re-run
// the remainder of the chain.
//
// Post-invoke processing runs as the continuations return, so for a chain
// A -> B -> terminal the pre-invoke order is A, B, terminal and the post-invoke
// order is B, then A:
//
//	chain := interceptor.NewChain(
//	    interceptor.Logging(logger.Logger()),
//	    interceptor.Hooks{
//	        After: func(inv *invocation.Invocation, res *invocation.Result) {
//	            if n, ok := res.Values[0].(int); ok && res.Err == nil {
//	                res.Values[0] = n - 1
//	            }
//	        },
//	    },
//	).Then(interceptor.Proceed())
//
// A chain without a terminal handler fails every call with
// [github.com/anoideaopen/proxy/core/proxyerr.ErrChainConfiguration].
//
// Errors returned by any handler travel back to the caller of the proxy unchanged.
package interceptor
