package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/anoideaopen/proxy/core/proxygen"
	"github.com/anoideaopen/proxy/core/reflectx"
	"github.com/anoideaopen/proxy/core/typeinfo"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// InstanceRouter routes method calls to a proxy instance.
type InstanceRouter struct {
	inst    *proxygen.Instance
	methods map[Function]Method
	slots   map[Function]*proxygen.Slot
}

// NewRouter creates a router over the methods of inst. Property accessors are
// not routed.
func NewRouter(inst *proxygen.Instance) (*InstanceRouter, error) {
	if inst == nil {
		return nil, fmt.Errorf("%w: nil instance", ErrUnsupportedMethod)
	}

	slots := inst.Implementation().Slots()

	overloads := make(map[string]int)
	for _, s := range slots {
		if s.Member().Kind == typeinfo.MemberMethod {
			overloads[s.Member().Name]++
		}
	}

	r := &InstanceRouter{
		inst:    inst,
		methods: make(map[Function]Method),
		slots:   make(map[Function]*proxygen.Slot),
	}

	for _, s := range slots {
		m := s.Member()
		if m.Kind != typeinfo.MemberMethod {
			continue
		}

		fn := m.Name
		if overloads[m.Name] > 1 {
			fn = s.Key()
		}

		if _, ok := r.methods[fn]; ok {
			return nil, fmt.Errorf("%w, method: '%s'", ErrMethodAlreadyDefined, fn)
		}

		r.methods[fn] = Method{
			Function:    fn,
			MemberKey:   s.Key(),
			NumArgs:     len(m.Params),
			Intercepted: s.Intercepted(),
		}
		r.slots[fn] = s
	}

	return r, nil
}

// Check decodes the arguments of method without calling it.
func (r *InstanceRouter) Check(method string, args ...string) error {
	s, ok := r.slots[method]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	if _, err := reflectx.DecodeArguments(s.Member().Params, args...); err != nil {
		return fmt.Errorf("%w: %s: %w", proxygen.ErrArgumentType, method, err)
	}

	return nil
}

// Invoke calls method on the instance and encodes its results.
func (r *InstanceRouter) Invoke(ctx context.Context, method string, args ...string) ([]byte, error) {
	s, ok := r.slots[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	result, err := r.inst.InvokeStrings(ctx, s.Key(), args...)
	if err != nil {
		return nil, err
	}

	return Encode(result)
}

// Methods retrieves a map of all available methods, keyed by their routed names.
func (r *InstanceRouter) Methods() map[Function]Method {
	return maps.Clone(r.methods)
}

// Encode encodes call results the way routers return them.
func Encode(result []any) ([]byte, error) {
	switch len(result) {
	case 0:
		return json.Marshal(nil)
	case 1:
		switch v := result[0].(type) {
		case reflectx.BytesEncoder:
			return v.EncodeToBytes()
		case proto.Message:
			return protojson.Marshal(v)
		default:
			return json.Marshal(v)
		}
	default:
		return json.Marshal(result)
	}
}
