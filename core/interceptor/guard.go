package interceptor

import (
	"errors"
	"fmt"

	"github.com/anoideaopen/proxy/core/invocation"
)

// ErrAccessDenied is returned when a Guard check rejects a call.
var ErrAccessDenied = errors.New("access denied")

// Guard returns an interceptor that runs check before the rest of the chain.
// A rejected call never reaches the target.
func Guard(check func(inv *invocation.Invocation) error) Interceptor {
	return Func(func(inv *invocation.Invocation, next Handler) ([]any, error) {
		if err := check(inv); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrAccessDenied, inv.Member().Key(), err)
		}

		return next.Invoke(inv)
	})
}
