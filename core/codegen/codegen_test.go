package codegen

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/anoideaopen/proxy/core/proxyerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntrospect(t *testing.T) {
	model, err := Introspect("io", "ReadCloser", "Writer")
	require.NoError(t, err)

	assert.Equal(t, "io", model.ImportPath)
	assert.Equal(t, "io", model.Name)
	require.Len(t, model.Interfaces, 2)

	rc := model.Interfaces[0]
	assert.Equal(t, "ReadCloser", rc.Name)
	names := make([]string, 0, len(rc.Methods))
	for _, m := range rc.Methods {
		names = append(names, m.Name)
		assert.True(t, m.ReturnsErr)
	}
	assert.ElementsMatch(t, []string{"Read", "Close"}, names)

	w := model.Interfaces[1].Methods[0]
	assert.Equal(t, "Write", w.Name)
	assert.Len(t, w.Params, 1)
	assert.Len(t, w.Results, 1)
	assert.False(t, w.TakesCtx)
}

func TestIntrospectContextMethod(t *testing.T) {
	model, err := Introspect("database/sql/driver", "ConnBeginTx")
	require.NoError(t, err)

	m := model.Interfaces[0].Methods[0]
	assert.Equal(t, "BeginTx", m.Name)
	assert.True(t, m.TakesCtx)
	assert.True(t, m.ReturnsErr)
}

func TestIntrospectErrors(t *testing.T) {
	_, err := Introspect("io")
	require.ErrorIs(t, err, proxyerr.ErrArgument)

	_, err = Introspect("io", "Missing")
	require.ErrorIs(t, err, proxyerr.ErrArgument)

	_, err = Introspect("io", "SectionReader")
	require.ErrorIs(t, err, proxyerr.ErrUnsupportedTarget)

	_, err = Introspect("io", "EOF")
	require.ErrorIs(t, err, proxyerr.ErrArgument)
}

func TestGenerate(t *testing.T) {
	ioModel, err := Introspect("io", "ReadCloser")
	require.NoError(t, err)
	driverModel, err := Introspect("database/sql/driver", "ConnBeginTx")
	require.NoError(t, err)

	src, err := Generate("wrapped", ioModel, driverModel)
	require.NoError(t, err)

	code := string(src)
	for _, want := range []string{
		"// Code generated by proxygen. DO NOT EDIT.",
		"package wrapped",
		`"github.com/anoideaopen/proxy/core/proxy"`,
		`"context"`,
		"var ReadCloserType = typeinfo.MustInterfaceOf[io.ReadCloser]()",
		"type ReadCloserProxy struct",
		"var _ io.ReadCloser = (*ReadCloserProxy)(nil)",
		"func NewReadCloserProxy(h interceptor.Handler) (*ReadCloserProxy, error)",
		"func (x *ReadCloserProxy) Read(a0 []byte) (r0 int, err error)",
		`res, err := x.inst.Invoke("Read", a0)`,
		"func (x *ReadCloserProxy) Close() (err error)",
		`_, err = x.inst.Invoke("Close")`,
		"func (x *ConnBeginTxProxy) BeginTx(a0 context.Context, a1 driver.TxOptions) (r0 driver.Tx, err error)",
		`x.inst.InvokeContext(a0, "BeginTx", a0, a1)`,
	} {
		assert.Contains(t, code, want)
	}

	_, err = parser.ParseFile(token.NewFileSet(), "proxies.go", src, parser.AllErrors)
	require.NoError(t, err)
}

func TestGenerateErrors(t *testing.T) {
	model, err := Introspect("io", "Reader")
	require.NoError(t, err)

	_, err = Generate("bad-name", model)
	require.ErrorIs(t, err, proxyerr.ErrArgument)

	_, err = Generate("io", model)
	require.ErrorIs(t, err, proxyerr.ErrArgument)

	_, err = Generate("wrapped")
	require.ErrorIs(t, err, proxyerr.ErrArgument)

	_, err = Generate("wrapped", model, model)
	require.ErrorIs(t, err, proxyerr.ErrGeneration)
}

func TestImporterAliases(t *testing.T) {
	im := newImporter()

	assert.Equal(t, "proxy", im.add("github.com/anoideaopen/proxy/core/proxy", "proxy"))
	assert.Equal(t, "proxy2", im.add("example.com/other/proxy", "proxy"))
	assert.Equal(t, "proxy", im.add("github.com/anoideaopen/proxy/core/proxy", "proxy"))
}
