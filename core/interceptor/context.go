package interceptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/anoideaopen/proxy/core/reflectx"
	"github.com/anoideaopen/proxy/core/stringsx"
	"github.com/anoideaopen/proxy/core/typeinfo"
)

var (
	// ErrMissingEntry is returned when a context entry required by a getter is absent.
	ErrMissingEntry = errors.New("missing context entry")

	// ErrNotAnEntry is returned when a member cannot be served from context entries.
	ErrNotAnEntry = errors.New("member is not a context entry")
)

const getPrefix = "Get"

// EntryKey returns the context entry key served by member m: the member name
// without a "Get" prefix, first letter lower-cased. "GetTimeout" and the
// getter "Timeout" both map to "timeout".
func EntryKey(m typeinfo.Member) string {
	name := m.Name
	if m.Kind == typeinfo.MemberMethod && len(name) > len(getPrefix) && strings.HasPrefix(name, getPrefix) {
		name = strings.TrimPrefix(name, getPrefix)
	}

	return stringsx.LowerFirstChar(name)
}

// ContextEntries returns a terminal handler serving getter-like members from
// string entries. The entry is decoded into the member's result type with
// reflectx.ValueOf. When the entry is absent and the call passes a single
// argument, that argument is returned as the default value.
//
// It lets a plain interface act as a typed, read-only view of configuration:
//
//	type ServerContext interface {
//	    GetPort(def int) int
//	    Host() string
//	}
func ContextEntries(entries map[string]string) Handler {
	snapshot := make(map[string]string, len(entries))
	for k, v := range entries {
		snapshot[k] = v
	}

	return HandlerFunc(func(inv *invocation.Invocation) ([]any, error) {
		member := inv.Member()
		if member.Kind == typeinfo.MemberSetter || len(member.Results) != 1 || len(member.Params) > 1 {
			return nil, fmt.Errorf("%w: %s", ErrNotAnEntry, member.Signature())
		}

		key := EntryKey(member)
		raw, ok := snapshot[key]
		if !ok {
			if len(member.Params) == 1 {
				return []any{inv.Argument(0)}, nil
			}
			return nil, fmt.Errorf("%w: key '%s', member %s", ErrMissingEntry, key, member.Key())
		}

		value, err := reflectx.ValueOf(raw, member.Results[0])
		if err != nil {
			return nil, fmt.Errorf("decoding context entry '%s': %w", key, err)
		}

		return []any{value.Interface()}, nil
	})
}

// ValidateEntries checks that every required entry of t is present. Entries
// are required for getter-like members without a default parameter.
func ValidateEntries(t *typeinfo.Type, entries map[string]string) error {
	for _, iface := range t.Interfaces() {
		for _, m := range iface.Members() {
			if m.Kind == typeinfo.MemberSetter || len(m.Results) != 1 || len(m.Params) != 0 {
				continue
			}

			key := EntryKey(m)
			if _, ok := entries[key]; !ok {
				return fmt.Errorf("%w: key '%s' required by %s.%s", ErrMissingEntry, key, iface, m.Name)
			}
		}
	}

	return nil
}
