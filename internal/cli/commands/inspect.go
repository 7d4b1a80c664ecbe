package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/nodeview/internal/cli/ui"
	"github.com/conduit-lang/nodeview/internal/codegen"
)

type inspectOptions struct {
	*globalOptions

	pkg         string
	format      string
	passthrough []string
}

func newInspectCommand(global *globalOptions) *cobra.Command {
	opts := &inspectOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "inspect [type]",
		Short: "Show how a node type maps to its read-only view",
		Long: `Show the constructor a read-only view forwards to and, for every
property, whether its setter is neutralized or passed through.

Without a type, list the node types of the package.`,
		Example: `  # List node types
  nodeview inspect --pkg ./buildfile

  # Show the properties of Target
  nodeview inspect Target --pkg ./buildfile

  # Machine-readable output
  nodeview inspect Target --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pkg") {
				opts.pkg = opts.cfg.Generate.Package
			}
			opts.passthrough = append(append([]string(nil), opts.cfg.Generate.Passthrough...), opts.passthrough...)

			switch opts.format {
			case "table", "json":
			default:
				return fmt.Errorf("unsupported format %q: use table or json", opts.format)
			}

			if len(args) == 0 {
				return opts.listTypes(cmd)
			}
			return opts.describeType(cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.pkg, "pkg", "", "Directory of the package holding the node types (default from config: .)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table or json")
	cmd.Flags().StringSliceVar(&opts.passthrough, "passthrough", nil, "Properties that keep their original setters")

	return cmd
}

func (o *inspectOptions) codegenOptions(typeName string) codegen.Options {
	return codegen.Options{
		TypeName:    typeName,
		Dir:         o.pkg,
		Passthrough: o.passthrough,
		BuildTags:   o.cfg.Generate.BuildTags,
	}
}

func (o *inspectOptions) listTypes(cmd *cobra.Command) error {
	names, err := codegen.NodeTypes(o.codegenOptions(""))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if o.format == "json" {
		return writeJSON(out, names)
	}
	if len(names) == 0 {
		fmt.Fprint(out, ui.Warning(fmt.Sprintf("No node types with a parameterized constructor in %s", o.pkg), o.noColor))
		return nil
	}

	ui.Header(out, fmt.Sprintf("Node types in %s", o.pkg), o.noColor)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}

func (o *inspectOptions) describeType(cmd *cobra.Command, typeName string) error {
	info, err := codegen.Inspect(o.codegenOptions(typeName))
	if err != nil {
		var notFound *codegen.NotFoundError
		if errors.As(err, &notFound) {
			suggestions := ui.Suggest(typeName, notFound.Candidates, 0)
			fmt.Fprint(cmd.ErrOrStderr(), ui.TypeNotFound(typeName, o.pkg, suggestions, o.noColor))
			return &reportedError{err: err}
		}
		return err
	}

	out := cmd.OutOrStdout()
	if o.format == "json" {
		return writeJSON(out, info)
	}

	ui.Header(out, info.PackagePath+"."+info.Name, o.noColor)
	kv := ui.NewKeyValueTable(out, o.noColor)
	kv.AddRow("Wrapper", info.Name+o.cfg.Generate.Suffix)
	if info.Constructor != nil {
		kv.AddRow("Constructor", signature(info.Constructor))
	} else {
		kv.AddRow("Constructor", "none takes parameters")
	}
	kv.AddRow("ConstructorArgs", yesNo(info.HasArgsResolver))
	kv.Render()
	fmt.Fprintln(out)

	table := ui.NewTable(out, o.noColor, "PROPERTY", "TYPE", "ACCESS", "VIEW")
	for _, p := range info.Properties {
		table.AddRow(p.Name, p.Type, access(p), mode(p))
	}
	table.Render()

	if info.Constructor == nil {
		fmt.Fprintln(out)
		fmt.Fprint(out, ui.Warning(fmt.Sprintf("%s cannot get a read-only view: %v", info.Name, codegen.ErrNoConstructor), o.noColor))
	}
	return nil
}

func signature(c *codegen.Constructor) string {
	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		typ := p.Type
		if c.Variadic && i == len(c.Params)-1 {
			typ = "..." + typ
		}
		if p.Name != "" {
			params[i] = p.Name + " " + typ
		} else {
			params[i] = typ
		}
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(params, ", "))
}

func access(p codegen.Property) string {
	switch {
	case p.Readable && p.Writable:
		return "get/set"
	case p.Readable:
		return "get"
	default:
		return "set"
	}
}

func mode(p codegen.Property) string {
	if p.Hidden {
		return "passthrough"
	}
	return "read-only"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
