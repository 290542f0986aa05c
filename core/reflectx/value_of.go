package reflectx

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// decodeFunc tries to decode raw into ptr, a pointer to a fresh value.
// ok is false when the strategy does not apply to ptr.
type decodeFunc func(raw []byte, ptr any) (ok bool, err error)

// decoders are tried in order after BytesDecoder. The first strategy that
// applies and succeeds wins; their errors are not reported.
var decoders = []decodeFunc{
	decodeJSON,
	func(raw []byte, ptr any) (bool, error) {
		u, ok := ptr.(encoding.TextUnmarshaler)
		if !ok {
			return false, nil
		}
		return true, u.UnmarshalText(raw)
	},
	func(raw []byte, ptr any) (bool, error) {
		m, ok := ptr.(proto.Message)
		if !ok {
			return false, nil
		}
		return true, proto.Unmarshal(raw, m)
	},
	func(raw []byte, ptr any) (bool, error) {
		u, ok := ptr.(encoding.BinaryUnmarshaler)
		if !ok {
			return false, nil
		}
		return true, u.UnmarshalBinary(raw)
	},
}

// decodeJSON covers plain JSON values, numbers and booleans included, and
// protobuf messages in their JSON form.
func decodeJSON(raw []byte, ptr any) (bool, error) {
	if !json.Valid(raw) {
		return false, nil
	}
	if m, ok := ptr.(proto.Message); ok {
		return true, protojson.Unmarshal(raw, m)
	}

	return true, json.Unmarshal(raw, ptr)
}

// ValueOf converts the string form of an argument into a value of type t.
// A nil t yields s itself. Strings and string pointers take s verbatim.
// Otherwise a BytesDecoder implementation is authoritative; failing that,
// s is tried as JSON (protojson for proto.Message), then through
// encoding.TextUnmarshaler, binary protobuf and encoding.BinaryUnmarshaler.
func ValueOf(s string, t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.ValueOf(s), nil
	}

	isPtr := t.Kind() == reflect.Pointer
	elem := t
	if isPtr {
		elem = t.Elem()
	}

	ptr := reflect.New(elem)
	out := ptr.Elem()
	if isPtr {
		out = ptr
	}

	if elem.Kind() == reflect.String {
		ptr.Elem().SetString(s)
		return out, nil
	}

	raw := []byte(s)
	target := ptr.Interface()

	if d, ok := target.(BytesDecoder); ok {
		if err := d.DecodeFromBytes(raw); err != nil {
			return out, fmt.Errorf("%w: '%s': for type '%s': %w", ErrInvalidArgumentValue, s, t, err)
		}
		return out, nil
	}

	for _, decode := range decoders {
		if ok, err := decode(raw, target); ok && err == nil {
			return out, nil
		}
	}

	return out, fmt.Errorf("%w: '%s': for type '%s'", ErrInvalidArgumentValue, s, t)
}
