package reflectx

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type ledger struct{}

func (*ledger) Stamp(ts *time.Time) string { return ts.UTC().Format(time.RFC3339) }
func (*ledger) Double(in float64) float64 { return in * 2 }
func (*ledger) Count(in []float64) int { return len(in) }
func (*ledger) Big(in *big.Int) string { return in.String() }
func (*ledger) Echo(in *string) string { return *in }
func (*ledger) Unwrap(in *wrapperspb.StringValue) string { return in.GetValue() }

func (*ledger) Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivisionByZero
	}
	return a / b, nil
}

func (*ledger) Greet(name string, greeting *string) string {
	if greeting == nil {
		return "hello, " + name
	}
	return fmt.Sprintf("%s, %s", *greeting, name)
}

func (*ledger) Join(sep string, parts ...string) string {
	return strings.Join(parts, sep)
}

var errDivisionByZero = errors.New("division by zero")

// callStrings decodes args into the parameter types of method and calls it.
func callStrings(v any, method string, args ...string) ([]any, error) {
	m, ok := reflect.TypeOf(v).MethodByName(method)
	if !ok {
		return nil, ErrMethodNotFound
	}

	params := make([]reflect.Type, 0, m.Type.NumIn()-1)
	for i := 1; i < m.Type.NumIn(); i++ {
		params = append(params, m.Type.In(i))
	}

	values, err := DecodeArguments(params, args...)
	if err != nil {
		return nil, err
	}

	return CallValues(v, method, values)
}

func TestDecodeAndCall(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		args      []string
		wantErr   error
		wantValue any
	}{
		{name: "unknown method", method: "Missing", wantErr: ErrMethodNotFound},
		{name: "text unmarshaler pointer", method: "Stamp", args: []string{"2024-05-01T10:00:00Z"}, wantValue: "2024-05-01T10:00:00Z"},
		{name: "float", method: "Double", args: []string{"1.25"}, wantValue: 2.5},
		{name: "slice", method: "Count", args: []string{"[1234.5678, 1234.5678]"}, wantValue: 2},
		{name: "malformed slice", method: "Count", args: []string{"1234.5678, 1234.5678"}, wantErr: ErrInvalidArgumentValue},
		{name: "argument count", method: "Count", args: []string{"1", "2"}, wantErr: ErrIncorrectArgumentCount},
		{name: "big int", method: "Big", args: []string{"1234"}, wantValue: "1234"},
		{name: "big int from float", method: "Big", args: []string{"1234.5678"}, wantErr: ErrInvalidArgumentValue},
		{name: "string pointer", method: "Echo", args: []string{"1234"}, wantValue: "1234"},
		{name: "protojson", method: "Unwrap", args: []string{`"wrapped"`}, wantValue: "wrapped"},
		{name: "lifted error", method: "Divide", args: []string{"1", "0"}, wantErr: errDivisionByZero},
		{name: "division", method: "Divide", args: []string{"9", "3"}, wantValue: 3},
		{name: "variadic as JSON array", method: "Join", args: []string{"-", `["x","y"]`}, wantValue: "x-y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := callStrings(&ledger{}, tt.method, tt.args...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, []any{tt.wantValue}, resp)
		})
	}
}

func TestCallValues(t *testing.T) {
	input := &ledger{}

	t.Run("error result is lifted", func(t *testing.T) {
		out, err := CallValues(input, "Divide", []any{10, 0})
		require.ErrorIs(t, err, errDivisionByZero)
		require.Nil(t, out)
	})

	t.Run("nil error is dropped from results", func(t *testing.T) {
		out, err := CallValues(input, "Divide", []any{10, 2})
		require.NoError(t, err)
		require.Equal(t, []any{5}, out)
	})

	t.Run("nil argument becomes zero value", func(t *testing.T) {
		out, err := CallValues(input, "Greet", []any{"bob", nil})
		require.NoError(t, err)
		require.Equal(t, []any{"hello, bob"}, out)
	})

	t.Run("wrong argument type", func(t *testing.T) {
		_, err := CallValues(input, "Divide", []any{"10", 2})
		require.ErrorIs(t, err, ErrInvalidArgumentValue)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := CallValues(input, "Divide", []any{10})
		require.ErrorIs(t, err, ErrIncorrectArgumentCount)
	})

	t.Run("variadic takes the final slice", func(t *testing.T) {
		out, err := CallValues(input, "Join", []any{",", []string{"a", "b", "c"}})
		require.NoError(t, err)
		require.Equal(t, []any{"a,b,c"}, out)
	})

	t.Run("variadic nil slice", func(t *testing.T) {
		out, err := CallValues(input, "Join", []any{",", nil})
		require.NoError(t, err)
		require.Equal(t, []any{""}, out)
	})

	t.Run("variadic elements are not spread", func(t *testing.T) {
		_, err := CallValues(input, "Join", []any{",", "a", "b"})
		require.ErrorIs(t, err, ErrIncorrectArgumentCount)

		_, err = CallValues(input, "Join", []any{",", "a"})
		require.ErrorIs(t, err, ErrInvalidArgumentValue)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := CallValues(input, "Multiply", nil)
		require.ErrorIs(t, err, ErrMethodNotFound)
	})
}

type halfBytes []byte

func (h *halfBytes) DecodeFromBytes(b []byte) error {
	if len(b)%2 != 0 {
		return errors.New("odd length")
	}
	*h = append((*h)[:0], b[:len(b)/2]...)
	return nil
}

type positive int

func (p positive) Validate() error {
	if p <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func TestValueOf(t *testing.T) {
	t.Run("nil type keeps the string", func(t *testing.T) {
		v, err := ValueOf("raw", nil)
		require.NoError(t, err)
		require.Equal(t, "raw", v.Interface())
	})

	t.Run("bytes decoder wins", func(t *testing.T) {
		v, err := ValueOf("abcd", reflect.TypeOf(halfBytes{}))
		require.NoError(t, err)
		require.Equal(t, halfBytes("ab"), v.Interface())
	})

	t.Run("bytes decoder error is reported", func(t *testing.T) {
		_, err := ValueOf("abc", reflect.TypeOf(halfBytes{}))
		require.ErrorIs(t, err, ErrInvalidArgumentValue)
	})

	t.Run("text unmarshaler", func(t *testing.T) {
		v, err := ValueOf("2024-05-01T10:00:00Z", reflect.TypeOf(time.Time{}))
		require.NoError(t, err)
		require.Equal(t, 2024, v.Interface().(time.Time).Year()) //nolint:forcetypeassert
	})

	t.Run("pointer type", func(t *testing.T) {
		v, err := ValueOf("7", reflect.TypeOf((*int)(nil)))
		require.NoError(t, err)
		require.Equal(t, 7, *v.Interface().(*int)) //nolint:forcetypeassert
	})
}

func TestDecodeArguments(t *testing.T) {
	params := []reflect.Type{reflect.TypeOf(positive(0)), reflect.TypeOf("")}

	values, err := DecodeArguments(params, "3", "three")
	require.NoError(t, err)
	require.Equal(t, []any{positive(3), "three"}, values)

	_, err = DecodeArguments(params, "-1", "minus one")
	require.ErrorIs(t, err, ErrInvalidArgumentValue)

	_, err = DecodeArguments(params, "1")
	require.ErrorIs(t, err, ErrIncorrectArgumentCount)
}

type account interface {
	Balance() int
	Withdraw(n int) error
}

func TestTypeMethods(t *testing.T) {
	require.Equal(t, []string{"Big", "Count", "Divide", "Double", "Echo", "Greet", "Join", "Stamp", "Unwrap"},
		TypeMethods(reflect.TypeOf(&ledger{})))
	require.Empty(t, TypeMethods(reflect.TypeOf(ledger{})))
	require.Empty(t, TypeMethods(nil))

	iface := reflect.TypeFor[account]()
	require.Equal(t, []string{"Balance", "Withdraw"}, TypeMethods(iface))

	withdraw, _ := iface.MethodByName("Withdraw")
	require.True(t, ReturnsError(withdraw.Type))
	balance, _ := iface.MethodByName("Balance")
	require.False(t, ReturnsError(balance.Type))
}
