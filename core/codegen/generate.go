package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"github.com/anoideaopen/proxy/core/proxyerr"
	"golang.org/x/tools/imports"
)

const modulePath = "github.com/anoideaopen/proxy/core/"

// Generate renders the proxy wrappers of every model into one source file of
// package pkgName. The package must differ from the introspected ones.
func Generate(pkgName string, models ...*Model) ([]byte, error) {
	if !token.IsIdentifier(pkgName) {
		return nil, fmt.Errorf("%w: invalid package name '%s'", proxyerr.ErrArgument, pkgName)
	}

	im := newImporter()
	for _, name := range []string{"interceptor", "proxy", "proxygen", "typeinfo"} {
		im.add(modulePath+name, name)
	}

	var body bytes.Buffer
	seen := make(map[string]string)
	for _, m := range models {
		if m.Name == pkgName {
			return nil, fmt.Errorf("%w: output package %s has the name of the proxied package %s",
				proxyerr.ErrArgument, pkgName, m.ImportPath)
		}

		for _, iface := range m.Interfaces {
			if other, ok := seen[iface.Name]; ok {
				return nil, fmt.Errorf("%w: %s is declared in both %s and %s",
					proxyerr.ErrGeneration, iface.Name, other, m.ImportPath)
			}
			seen[iface.Name] = m.ImportPath

			renderInterface(&body, im, m, iface)
		}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: no interfaces to generate", proxyerr.ErrArgument)
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated by proxygen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkgName)
	im.render(&buf)
	buf.Write(body.Bytes())

	src, err := imports.Process("proxies.go", buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: formatting generated code: %w", proxyerr.ErrGeneration, err)
	}

	return src, nil
}

func renderInterface(buf *bytes.Buffer, im *importer, m *Model, iface InterfaceModel) {
	pkg := im.add(m.ImportPath, m.Name)
	qualified := pkg + "." + iface.Name
	typeVar := iface.Name + "Type"
	proxyName := iface.Name + "Proxy"

	fmt.Fprintf(buf, "// %s describes %s.\n", typeVar, qualified)
	fmt.Fprintf(buf, "var %s = typeinfo.MustInterfaceOf[%s]()\n\n", typeVar, qualified)

	fmt.Fprintf(buf, "// %s implements %s by passing every call to an interceptor.Handler.\n", proxyName, qualified)
	fmt.Fprintf(buf, "type %s struct {\n\tinst *proxygen.Instance\n}\n\n", proxyName)
	fmt.Fprintf(buf, "var _ %s = (*%s)(nil)\n\n", qualified, proxyName)

	fmt.Fprintf(buf, "// New%s returns a %s whose calls are handled by h.\n", proxyName, qualified)
	fmt.Fprintf(buf, "func New%s(h interceptor.Handler) (*%s, error) {\n", proxyName, proxyName)
	fmt.Fprintf(buf, "\tinst, err := proxy.NewInterfaceProxy(h, %s)\n", typeVar)
	buf.WriteString("\tif err != nil {\n\t\treturn nil, err\n\t}\n\n")
	fmt.Fprintf(buf, "\treturn &%s{inst: inst}, nil\n}\n\n", proxyName)

	buf.WriteString("// Instance returns the underlying proxy instance.\n")
	fmt.Fprintf(buf, "func (x *%s) Instance() *proxygen.Instance {\n\treturn x.inst\n}\n\n", proxyName)

	for _, method := range iface.Methods {
		renderMethod(buf, im, proxyName, method)
	}
}

func renderMethod(buf *bytes.Buffer, im *importer, proxyName string, m MethodModel) {
	params := make([]string, len(m.Params))
	args := make([]string, len(m.Params))
	for i, t := range m.Params {
		typ := types.TypeString(t, im.qualifier)
		if m.Variadic && i == len(m.Params)-1 {
			typ = "..." + types.TypeString(t.(*types.Slice).Elem(), im.qualifier) //nolint:forcetypeassert
		}
		params[i] = fmt.Sprintf("a%d %s", i, typ)
		args[i] = fmt.Sprintf("a%d", i)
	}

	results := make([]string, 0, len(m.Results)+1)
	for i, t := range m.Results {
		results = append(results, fmt.Sprintf("r%d %s", i, types.TypeString(t, im.qualifier)))
	}
	if m.ReturnsErr {
		results = append(results, "err error")
	}

	fmt.Fprintf(buf, "func (x *%s) %s(%s)", proxyName, m.Name, strings.Join(params, ", "))
	if len(results) > 0 {
		fmt.Fprintf(buf, " (%s)", strings.Join(results, ", "))
	}
	buf.WriteString(" {\n")

	call := fmt.Sprintf("x.inst.Invoke(%s", strconv.Quote(m.Name))
	if m.TakesCtx {
		call = fmt.Sprintf("x.inst.InvokeContext(a0, %s", strconv.Quote(m.Name))
	}
	for _, a := range args {
		call += ", " + a
	}
	call += ")"

	values := "_"
	if len(m.Results) > 0 {
		values = "res"
	}

	// err is a named result when the method returns one, so only res is declared here.
	assign := ":="
	if m.ReturnsErr && values == "_" {
		assign = "="
	}
	fmt.Fprintf(buf, "\t%s, err %s %s\n", values, assign, call)

	if m.ReturnsErr {
		buf.WriteString("\tif err != nil {\n\t\treturn\n\t}\n")
	} else {
		buf.WriteString("\tif err != nil {\n\t\tpanic(err)\n\t}\n")
	}

	for i := range m.Results {
		fmt.Fprintf(buf, "\tr%d, _ = res[%d].(%s)\n", i, i, types.TypeString(m.Results[i], im.qualifier))
	}

	if len(results) > 0 {
		buf.WriteString("\n\treturn\n")
	}
	buf.WriteString("}\n\n")
}

// importer assigns import names and renders the import block.
type importer struct {
	names map[string]string // path -> name
	taken map[string]string // name -> path
}

func newImporter() *importer {
	return &importer{
		names: make(map[string]string),
		taken: make(map[string]string),
	}
}

// add registers path and returns the name it is imported under.
func (im *importer) add(path, name string) string {
	if n, ok := im.names[path]; ok {
		return n
	}

	candidate := name
	for i := 2; ; i++ {
		if _, clash := im.taken[candidate]; !clash {
			break
		}
		candidate = name + strconv.Itoa(i)
	}

	im.names[path] = candidate
	im.taken[candidate] = path

	return candidate
}

func (im *importer) qualifier(p *types.Package) string {
	if p == nil {
		return ""
	}

	return im.add(p.Path(), p.Name())
}

func (im *importer) render(buf *bytes.Buffer) {
	paths := make([]string, 0, len(im.names))
	for p := range im.names {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	buf.WriteString("import (\n")
	for _, p := range paths {
		name := im.names[p]
		if name == lastElem(p) {
			fmt.Fprintf(buf, "\t%s\n", strconv.Quote(p))
		} else {
			fmt.Fprintf(buf, "\t%s %s\n", name, strconv.Quote(p))
		}
	}
	buf.WriteString(")\n\n")
}

func lastElem(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}

	return path
}
