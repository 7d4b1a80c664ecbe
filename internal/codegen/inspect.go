// Package codegen generates typed read-only wrappers for node types.
// It is the build-time counterpart of runtime/readonly: instead of
// synthesizing a view through reflection, it emits a struct embedding the
// base type with delegating getters and no-op setters.
package codegen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"

	"github.com/conduit-lang/nodeview/runtime/readonly"
)

// TagName is the struct tag holding the "not proxied" marker
const TagName = readonly.TagName

// Options controls package loading and generation
type Options struct {
	// TypeName is the base type to wrap
	TypeName string
	// Dir is the working directory for package loading
	Dir string
	// Patterns are passed to go/packages; defaults to "."
	Patterns []string
	// Suffix is appended to the base type name; defaults to "ReadOnly"
	Suffix string
	// Passthrough names properties left out of the read-only transformation
	Passthrough []string
	// Destination is the output file; empty means only return the source
	Destination string
	// BuildTags are passed to the build system
	BuildTags []string
}

// Param is a constructor parameter
type Param struct {
	Name     string
	Type     string
	Imports  map[string]string
	// Nillable is set when nil is a valid argument; variadic params always are
	Nillable bool
}

// Constructor is a package-level function returning the base type
type Constructor struct {
	Name         string
	Params       []Param
	Variadic     bool
	ReturnsError bool
	Pos          token.Position
}

// Property is a getter/setter pair on the base type
type Property struct {
	Name      string
	Type      string
	Readable  bool
	Writable  bool
	SetterErr bool
	Hidden    bool
	Imports   map[string]string
}

// TypeInfo is everything the generator knows about a base type
type TypeInfo struct {
	Name        string
	PackageName string
	PackagePath string
	// Pointer is set when constructors return *T
	Pointer      bool
	Constructors []Constructor
	// Constructor is the first constructor taking parameters, nil if none
	Constructor *Constructor
	Properties  []Property
	// HasArgsResolver is set when *T implements ConstructorArgs() []any
	HasArgsResolver bool
}

// NotFoundError is returned when the requested type does not exist in the loaded packages
type NotFoundError struct {
	Name       string
	Candidates []string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("type %q not found", e.Name)
}

// ErrNoConstructor is returned when no constructor of the type takes parameters
var ErrNoConstructor = errors.New("no constructor takes parameters")

// Inspect loads the packages named by opts and describes opts.TypeName
func Inspect(opts Options) (*TypeInfo, error) {
	if strings.TrimSpace(opts.TypeName) == "" {
		return nil, errors.New("type name is required")
	}

	pkgs, err := load(opts)
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, pkg := range pkgs {
		obj := pkg.Types.Scope().Lookup(opts.TypeName)
		if tn, ok := obj.(*types.TypeName); ok && !tn.IsAlias() {
			if named, ok := tn.Type().(*types.Named); ok {
				return describe(pkg, named, opts.Passthrough)
			}
		}
		candidates = append(candidates, exportedTypeNames(pkg.Types.Scope())...)
	}

	return nil, &NotFoundError{Name: opts.TypeName, Candidates: candidates}
}

// NodeTypes lists the exported types of the loaded packages that implement
// ConstructorArgs() []any and have a hand-written constructor taking
// parameters, in name order. Generated wrappers are not node types.
func NodeTypes(opts Options) ([]string, error) {
	pkgs, err := load(opts)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, pkg := range pkgs {
		for _, name := range exportedTypeNames(pkg.Types.Scope()) {
			named, ok := pkg.Types.Scope().Lookup(name).Type().(*types.Named)
			if !ok || !hasArgsResolver(pkg.Types, named) {
				continue
			}
			ctors, _ := findConstructors(pkg, named)
			for _, c := range ctors {
				if len(c.Params) > 0 {
					names = append(names, name)
					break
				}
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func load(opts Options) ([]*packages.Package, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax,
		Dir: opts.Dir,
	}
	if len(opts.BuildTags) > 0 {
		cfg.BuildFlags = append(cfg.BuildFlags, fmt.Sprintf("-tags=%s", strings.Join(opts.BuildTags, ",")))
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, errors.New("failed to load packages")
	}

	loaded := pkgs[:0]
	for _, pkg := range pkgs {
		if pkg.Types != nil {
			loaded = append(loaded, pkg)
		}
	}
	return loaded, nil
}

func describe(pkg *packages.Package, named *types.Named, passthrough []string) (*TypeInfo, error) {
	info := &TypeInfo{
		Name:        named.Obj().Name(),
		PackageName: pkg.Types.Name(),
		PackagePath: pkg.Types.Path(),
	}

	ctors, pointer := findConstructors(pkg, named)
	info.Constructors = ctors
	info.Pointer = pointer
	for i := range info.Constructors {
		if len(info.Constructors[i].Params) > 0 {
			info.Constructor = &info.Constructors[i]
			break
		}
	}

	hidden := hiddenProperties(pkg, named)
	for _, name := range passthrough {
		hidden[strings.ToLower(name)] = true
	}

	props, err := findProperties(pkg.Types, named)
	if err != nil {
		return nil, err
	}
	for i := range props {
		props[i].Hidden = hidden[strings.ToLower(props[i].Name)]
	}
	info.Properties = props

	info.HasArgsResolver = hasArgsResolver(pkg.Types, named)

	return info, nil
}

// hasArgsResolver reports whether *T has ConstructorArgs() []any
func hasArgsResolver(self *types.Package, named *types.Named) bool {
	mset := types.NewMethodSet(types.NewPointer(named))
	sel := mset.Lookup(self, "ConstructorArgs")
	if sel == nil {
		return false
	}
	sig := sel.Obj().Type().(*types.Signature)
	if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return false
	}
	s, ok := sig.Results().At(0).Type().(*types.Slice)
	if !ok {
		return false
	}
	iface, ok := s.Elem().Underlying().(*types.Interface)
	return ok && iface.Empty()
}

// typeString renders t as seen from self and returns the packages it references
func typeString(t types.Type, self *types.Package) (string, map[string]string) {
	imports := make(map[string]string)
	s := types.TypeString(t, func(p *types.Package) string {
		if p == self {
			return ""
		}
		imports[p.Path()] = p.Name()
		return p.Name()
	})
	return s, imports
}

// findConstructors returns the package-level funcs returning T or *T in source order.
// Generated files are skipped so a wrapper constructor never counts as one.
func findConstructors(pkg *packages.Package, named *types.Named) ([]Constructor, bool) {
	var ctors []Constructor
	pointer := true

	for _, file := range pkg.Syntax {
		if ast.IsGenerated(file) {
			continue
		}
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv != nil || !fd.Name.IsExported() {
				continue
			}
			fn, ok := pkg.TypesInfo.Defs[fd.Name].(*types.Func)
			if !ok {
				continue
			}
			sig := fn.Type().(*types.Signature)
			if sig.TypeParams().Len() > 0 {
				continue
			}

			results := sig.Results()
			switch {
			case results.Len() == 1:
			case results.Len() == 2 && isError(results.At(1).Type()):
			default:
				continue
			}

			out := results.At(0).Type()
			isPtr := false
			if ptr, ok := out.(*types.Pointer); ok {
				out = ptr.Elem()
				isPtr = true
			}
			if !types.Identical(out, named) {
				continue
			}
			if len(ctors) == 0 {
				pointer = isPtr
			} else if pointer != isPtr {
				// Mixed T and *T constructors; keep the kind of the first one
				continue
			}

			ctor := Constructor{
				Name:         fd.Name.Name,
				Variadic:     sig.Variadic(),
				ReturnsError: results.Len() == 2,
				Pos:          pkg.Fset.Position(fd.Pos()),
			}
			params := sig.Params()
			for i := 0; i < params.Len(); i++ {
				p := params.At(i)
				typ := p.Type()
				if ctor.Variadic && i == params.Len()-1 {
					typ = typ.(*types.Slice).Elem()
				}
				ts, imports := typeString(typ, pkg.Types)
				ctor.Params = append(ctor.Params, Param{
					Name:     p.Name(),
					Type:     ts,
					Imports:  imports,
					Nillable: isNillable(p.Type()),
				})
			}
			ctors = append(ctors, ctor)
		}
	}

	return ctors, pointer
}

// findProperties pairs getters and setters in the method set of *T
func findProperties(self *types.Package, named *types.Named) ([]Property, error) {
	byName := make(map[string]*Property)
	setterTypes := make(map[string]types.Type)
	getterTypes := make(map[string]types.Type)
	get := func(name string) *Property {
		p, ok := byName[name]
		if !ok {
			p = &Property{Name: name}
			byName[name] = p
		}
		return p
	}

	mset := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() || readonly.IsReserved(fn.Name()) {
			continue
		}
		sig := fn.Type().(*types.Signature)

		if prop, ok := setterProperty(fn.Name()); ok && sig.Params().Len() == 1 && !sig.Variadic() {
			switch {
			case sig.Results().Len() == 0:
			case sig.Results().Len() == 1 && isError(sig.Results().At(0).Type()):
				get(prop).SetterErr = true
			default:
				continue
			}
			p := get(prop)
			p.Writable = true
			setterTypes[prop] = sig.Params().At(0).Type()
			continue
		}

		if sig.Params().Len() == 0 && sig.Results().Len() == 1 && !isError(sig.Results().At(0).Type()) {
			p := get(fn.Name())
			p.Readable = true
			getterTypes[fn.Name()] = sig.Results().At(0).Type()
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]Property, 0, len(names))
	for _, name := range names {
		p := byName[name]
		gt, st := getterTypes[name], setterTypes[name]
		if gt != nil && st != nil && !types.Identical(gt, st) {
			gs, _ := typeString(gt, self)
			ss, _ := typeString(st, self)
			return nil, fmt.Errorf("property %s: getter returns %s but setter takes %s", name, gs, ss)
		}
		if gt != nil {
			p.Type, p.Imports = typeString(gt, self)
		} else {
			p.Type, p.Imports = typeString(st, self)
		}
		props = append(props, *p)
	}
	return props, nil
}

// hiddenProperties reads `readonly:"-"` struct tags and literal HiddenProperties bodies
func hiddenProperties(pkg *packages.Package, named *types.Named) map[string]bool {
	hidden := make(map[string]bool)

	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			if tag, ok := reflect.StructTag(st.Tag(i)).Lookup(TagName); ok && tag == "-" {
				hidden[strings.ToLower(st.Field(i).Name())] = true
			}
		}
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || fd.Name.Name != "HiddenProperties" || fd.Body == nil {
				continue
			}
			fn, ok := pkg.TypesInfo.Defs[fd.Name].(*types.Func)
			if !ok || !receiverIs(fn, named) {
				continue
			}
			ast.Inspect(fd.Body, func(n ast.Node) bool {
				lit, ok := n.(*ast.BasicLit)
				if ok && lit.Kind == token.STRING {
					if s, err := strconv.Unquote(lit.Value); err == nil {
						hidden[strings.ToLower(s)] = true
					}
				}
				return true
			})
		}
	}

	return hidden
}

func receiverIs(fn *types.Func, named *types.Named) bool {
	recv := fn.Type().(*types.Signature).Recv()
	if recv == nil {
		return false
	}
	t := recv.Type()
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	return types.Identical(t, named)
}

func exportedTypeNames(scope *types.Scope) []string {
	var names []string
	for _, name := range scope.Names() {
		if tn, ok := scope.Lookup(name).(*types.TypeName); ok && tn.Exported() {
			names = append(names, name)
		}
	}
	return names
}

// isNillable reports whether nil is assignable to t
func isNillable(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Map, *types.Slice, *types.Signature, *types.Chan:
		return true
	}
	return false
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// setterProperty returns the property name of a SetX method name
func setterProperty(method string) (string, bool) {
	rest, ok := strings.CutPrefix(method, "Set")
	if !ok || rest == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return rest, true
}
