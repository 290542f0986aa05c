package typeinfo

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calculator struct {
	calls int
}

func (c *calculator) Sum(a, b int) int {
	c.calls++
	return a + b
}

func (c *calculator) Div(a, b int) (int, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return a / b, nil
}

func (c *calculator) Calls() int {
	return c.calls
}

func TestInterfaceOf(t *testing.T) {
	rw, err := InterfaceOf[io.ReadWriter]()
	require.NoError(t, err)

	assert.Equal(t, "io", rw.Package())
	assert.Equal(t, "ReadWriter", rw.Name())
	assert.Equal(t, reflect.TypeOf((*io.ReadWriter)(nil)).Elem(), rw.GoType())

	keys := make([]string, 0)
	for _, m := range rw.Members() {
		keys = append(keys, m.Signature())
		assert.True(t, m.ReturnsError)
		assert.True(t, m.Modifiers.Has(Abstract))
	}
	assert.Equal(t, []string{"Read([]uint8) (int,error)", "Write([]uint8) (int,error)"}, keys)

	again := MustInterfaceOf[io.ReadWriter]()
	assert.Same(t, rw, again)
}

func TestInterfaceOfRejectsNonInterface(t *testing.T) {
	_, err := InterfaceOf[calculator]()
	require.ErrorIs(t, err, ErrInvalidDescription)

	_, err = FromInterface(nil)
	require.ErrorIs(t, err, ErrInvalidDescription)
}

func TestClassOf(t *testing.T) {
	c, err := ClassOf[calculator](SealedMethods("Calls"))
	require.NoError(t, err)

	assert.Equal(t, KindClass, c.Kind())
	assert.Equal(t, reflect.TypeOf(&calculator{}), c.GoType())
	assert.Same(t, c, MustClassOf[calculator](SealedMethods("Calls")))

	members := make(map[string]Member)
	for _, m := range c.Members() {
		members[m.Name] = m
	}
	require.Len(t, members, 3)

	assert.True(t, members["Sum"].Eligible("elsewhere"))
	assert.False(t, members["Calls"].Eligible("elsewhere"))
	assert.True(t, members["Div"].ReturnsError)
	assert.Equal(t, []reflect.Type{intType}, members["Div"].Results)

	ctors := c.Constructors()
	require.Len(t, ctors, 1)
	inst, err := ctors[0].New(nil)
	require.NoError(t, err)
	require.IsType(t, &calculator{}, inst)

	res, err := members["Sum"].Impl(inst, []any{20, 25})
	require.NoError(t, err)
	assert.Equal(t, []any{45}, res)

	_, err = members["Div"].Impl(inst, []any{1, 0})
	require.EqualError(t, err, "division by zero")

	res, err = members["Calls"].Impl(inst, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1}, res)
}

type ledgerEntry struct{}

func (*ledgerEntry) Amount() int { return 10 }
func (*ledgerEntry) Label() string { return "entry" }

func TestClassOfOptionsSelectDescription(t *testing.T) {
	plain := MustClassOf[ledgerEntry]()
	sealed := MustClassOf[ledgerEntry](SealedMethods("Label"))
	require.NotSame(t, plain, sealed)

	labelOf := func(c *Type) Member {
		for _, m := range c.Members() {
			if m.Name == "Label" {
				return m
			}
		}
		t.Fatalf("no Label member in %s", c)
		return Member{}
	}
	assert.True(t, labelOf(plain).Eligible("elsewhere"))
	assert.False(t, labelOf(sealed).Eligible("elsewhere"))

	assert.Same(t, plain, MustClassOf[ledgerEntry]())
	assert.Same(t, sealed, MustClassOf[ledgerEntry](SealedMethods("Label", "Label")))

	reader := MustInterfaceOf[io.Reader]()
	writer := MustInterfaceOf[io.Writer]()
	both := MustClassOf[ledgerEntry](Implements(reader, writer), SealedMethods("Label"))
	assert.Same(t, both, MustClassOf[ledgerEntry](SealedMethods("Label"), Implements(writer, reader)))
	assert.NotSame(t, sealed, both)

	withCtor := MustClassOf[ledgerEntry](WithConstructors(Constructor{
		Params: []reflect.Type{intType},
		New:    func([]any) (any, error) { return &ledgerEntry{}, nil },
	}))
	assert.NotSame(t, plain, withCtor)
	require.Len(t, withCtor.Constructors(), 1)
	assert.Equal(t, []reflect.Type{intType}, withCtor.Constructors()[0].Params)
}

func TestClassOfRejectsNonStruct(t *testing.T) {
	_, err := ClassOf[int]()
	require.ErrorIs(t, err, ErrInvalidDescription)
}
