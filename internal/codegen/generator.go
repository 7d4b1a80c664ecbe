package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSuffix is appended to the base type name when Options.Suffix is empty
const DefaultSuffix = "ReadOnly"

// Header marks generated files
const Header = "// Code generated by nodeview. DO NOT EDIT."

// Generator renders the read-only wrapper of a described type
type Generator struct {
	buf     *bytes.Buffer
	indent  int
	imports map[string]string
	suffix  string
}

// NewGenerator creates a new code generator
func NewGenerator(suffix string) *Generator {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Generator{
		buf:     &bytes.Buffer{},
		imports: make(map[string]string),
		suffix:  suffix,
	}
}

// Generate inspects opts.TypeName and renders its wrapper.
// The file is written to opts.Destination when set.
func Generate(opts Options) (string, error) {
	info, err := Inspect(opts)
	if err != nil {
		return "", err
	}

	code, err := NewGenerator(opts.Suffix).Render(info)
	if err != nil {
		return "", err
	}

	if opts.Destination != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Destination), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(opts.Destination, []byte(code), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", opts.Destination, err)
		}
	}
	return code, nil
}

// WrapperName returns the generated type name for a base type
func (g *Generator) WrapperName(base string) string {
	return base + g.suffix
}

// Render produces gofmt'd source for the wrapper of info
func (g *Generator) Render(info *TypeInfo) (string, error) {
	g.reset()

	if info.Constructor == nil {
		return "", fmt.Errorf("%s: %w", info.Name, ErrNoConstructor)
	}
	for _, p := range info.Properties {
		if p.Name == info.Name {
			return "", fmt.Errorf("%s: property %s collides with the embedded field", info.Name, p.Name)
		}
	}

	for _, p := range info.Constructor.Params {
		g.addImports(p.Imports)
	}
	for _, p := range info.Properties {
		if !p.Hidden {
			g.addImports(p.Imports)
		}
	}
	if info.HasArgsResolver {
		g.imports["fmt"] = "fmt"
	}

	g.writeLine(Header)
	g.writeLine("")
	g.writeLine("package %s", info.PackageName)
	g.writeLine("")
	if len(g.imports) > 0 {
		g.writeImports()
		g.writeLine("")
	}

	g.generateStruct(info)
	g.generateConstructor(info)
	g.generateAccessors(info)
	g.generateMarker(info)
	if info.HasArgsResolver {
		g.generateFromSource(info)
	}

	formatted, err := format.Source(g.buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("generated code for %s does not parse: %w", info.Name, err)
	}
	return string(formatted), nil
}

func (g *Generator) generateStruct(info *TypeInfo) {
	wrapper := g.WrapperName(info.Name)
	g.writeLine("// %s is the read-only view of %s.", wrapper, info.Name)
	g.writeLine("// Getters delegate to %s; setters of proxied properties discard their value.", info.Name)
	g.writeLine("type %s struct {", wrapper)
	g.indent++
	g.writeLine("%s", g.embedded(info))
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

func (g *Generator) generateConstructor(info *TypeInfo) {
	wrapper := g.WrapperName(info.Name)
	ctor := info.Constructor
	params, args := paramList(ctor)

	g.writeLine("// New%s forwards its arguments to %s.", wrapper, ctor.Name)
	if ctor.ReturnsError {
		g.writeLine("func New%s(%s) (*%s, error) {", wrapper, params, wrapper)
		g.indent++
		g.writeLine("base, err := %s(%s)", ctor.Name, args)
		g.writeLine("if err != nil {")
		g.indent++
		g.writeLine("return nil, err")
		g.indent--
		g.writeLine("}")
		g.writeLine("return &%s{%s: base}, nil", wrapper, info.Name)
	} else {
		g.writeLine("func New%s(%s) *%s {", wrapper, params, wrapper)
		g.indent++
		g.writeLine("return &%s{%s: %s(%s)}", wrapper, info.Name, ctor.Name, args)
	}
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

func (g *Generator) generateAccessors(info *TypeInfo) {
	wrapper := g.WrapperName(info.Name)

	for _, p := range info.Properties {
		if p.Hidden {
			continue
		}

		if p.Readable {
			g.writeLine("// %s returns %s.%s.", p.Name, info.Name, p.Name)
			g.writeLine("func (v *%s) %s() %s {", wrapper, p.Name, p.Type)
			g.indent++
			g.writeLine("return v.%s.%s()", info.Name, p.Name)
			g.indent--
			g.writeLine("}")
			g.writeLine("")
		}

		if p.Writable {
			g.writeLine("// Set%s discards the value.", p.Name)
			if p.SetterErr {
				g.writeLine("func (v *%s) Set%s(%s) error {", wrapper, p.Name, p.Type)
				g.indent++
				g.writeLine("return nil")
				g.indent--
				g.writeLine("}")
			} else {
				g.writeLine("func (v *%s) Set%s(%s) {}", wrapper, p.Name, p.Type)
			}
			g.writeLine("")
		}
	}
}

// generateMarker lists the overridden properties for property-grid consumers
func (g *Generator) generateMarker(info *TypeInfo) {
	wrapper := g.WrapperName(info.Name)

	var names []string
	for _, p := range info.Properties {
		if !p.Hidden {
			names = append(names, fmt.Sprintf("%q", p.Name))
		}
	}

	g.writeLine("// ReadOnlyProperties lists the properties %s does not let callers change.", wrapper)
	g.writeLine("func (v *%s) ReadOnlyProperties() []string {", wrapper)
	g.indent++
	g.writeLine("return []string{%s}", strings.Join(names, ", "))
	g.indent--
	g.writeLine("}")
	g.writeLine("")
}

// generateFromSource rebuilds a wrapper from the constructor arguments of a live value
func (g *Generator) generateFromSource(info *TypeInfo) {
	wrapper := g.WrapperName(info.Name)
	ctor := info.Constructor
	src := info.Name
	if info.Pointer {
		src = "*" + src
	}

	g.writeLine("// %sOf returns a read-only view rebuilt from the constructor arguments of src.", wrapper)
	g.writeLine("// The view shares no state with src.")
	g.writeLine("func %sOf(src %s) (*%s, error) {", wrapper, src, wrapper)
	g.indent++
	g.writeLine("args := src.ConstructorArgs()")
	g.writeLine("if len(args) != %d {", len(ctor.Params))
	g.indent++
	g.writeLine("return nil, fmt.Errorf(\"%s: expected %d constructor arguments, got %%d\", len(args))", wrapper, len(ctor.Params))
	g.indent--
	g.writeLine("}")

	callArgs := make([]string, len(ctor.Params))
	for i, p := range ctor.Params {
		typ := p.Type
		if ctor.Variadic && i == len(ctor.Params)-1 {
			typ = "[]" + typ
		}
		name := fmt.Sprintf("a%d", i)
		g.writeLine("%s, ok := args[%d].(%s)", name, i, typ)
		if p.Nillable {
			g.writeLine("if !ok && args[%d] != nil {", i)
		} else {
			g.writeLine("if !ok {")
		}
		g.indent++
		g.writeLine("return nil, fmt.Errorf(\"%s: argument %d is %%T, want %s\", args[%d])", wrapper, i, typ, i)
		g.indent--
		g.writeLine("}")
		callArgs[i] = name
		if ctor.Variadic && i == len(ctor.Params)-1 {
			callArgs[i] += "..."
		}
	}

	if ctor.ReturnsError {
		g.writeLine("return New%s(%s)", wrapper, strings.Join(callArgs, ", "))
	} else {
		g.writeLine("return New%s(%s), nil", wrapper, strings.Join(callArgs, ", "))
	}
	g.indent--
	g.writeLine("}")
}

func (g *Generator) embedded(info *TypeInfo) string {
	if info.Pointer {
		return "*" + info.Name
	}
	return info.Name
}

// paramList returns the parameter declarations and the forwarding call arguments
func paramList(ctor *Constructor) (string, string) {
	decls := make([]string, len(ctor.Params))
	args := make([]string, len(ctor.Params))

	for i, p := range ctor.Params {
		name := p.Name
		if name == "" || name == "_" || name == "base" || name == "err" {
			name = fmt.Sprintf("arg%d", i)
		}
		typ := p.Type
		if ctor.Variadic && i == len(ctor.Params)-1 {
			typ = "..." + typ
			args[i] = name + "..."
		} else {
			args[i] = name
		}
		decls[i] = name + " " + typ
	}
	return strings.Join(decls, ", "), strings.Join(args, ", ")
}

// reset clears the generator state
func (g *Generator) reset() {
	g.buf.Reset()
	g.indent = 0
	g.imports = make(map[string]string)
}

// writeLine writes a formatted line with proper indentation
func (g *Generator) writeLine(format string, args ...interface{}) {
	if format == "" {
		g.buf.WriteString("\n")
		return
	}

	for i := 0; i < g.indent; i++ {
		g.buf.WriteString("\t")
	}

	if len(args) > 0 {
		g.buf.WriteString(fmt.Sprintf(format, args...))
	} else {
		g.buf.WriteString(format)
	}
	g.buf.WriteString("\n")
}

// writeImports writes the import block, stdlib first
func (g *Generator) writeImports() {
	g.writeLine("import (")
	g.indent++

	var stdlibImports []string
	var externalImports []string
	for path := range g.imports {
		if strings.Contains(strings.SplitN(path, "/", 2)[0], ".") {
			externalImports = append(externalImports, path)
		} else {
			stdlibImports = append(stdlibImports, path)
		}
	}
	sort.Strings(stdlibImports)
	sort.Strings(externalImports)

	for _, path := range stdlibImports {
		g.writeImport(path)
	}
	if len(stdlibImports) > 0 && len(externalImports) > 0 {
		g.writeLine("")
	}
	for _, path := range externalImports {
		g.writeImport(path)
	}

	g.indent--
	g.writeLine(")")
}

func (g *Generator) addImports(imports map[string]string) {
	for path, name := range imports {
		g.imports[path] = name
	}
}

func (g *Generator) writeImport(path string) {
	name := g.imports[path]
	if name == filepath.Base(path) {
		g.writeLine("%q", path)
		return
	}
	g.writeLine("%s %q", name, path)
}
