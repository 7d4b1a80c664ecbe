package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/nodeview/internal/cli/ui"
	"github.com/conduit-lang/nodeview/internal/codegen"
	"github.com/conduit-lang/nodeview/internal/watch"
)

type generateOptions struct {
	*globalOptions

	pkg         string
	output      string
	suffix      string
	passthrough []string
	all         bool
	stdout      bool
	watch       bool
	interactive bool
}

func newGenerateCommand(global *globalOptions) *cobra.Command {
	opts := &generateOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "generate [type...]",
		Short: "Generate read-only wrappers for node types",
		Long: `Generate a read-only wrapper for each named node type.

The wrapper embeds the node type, forwards the first constructor that takes
parameters, delegates every getter, and turns every setter into a no-op.
Properties tagged readonly:"-", listed by HiddenProperties(), or passed with
--passthrough keep their original setters.`,
		Example: `  # Generate TargetReadOnly next to Target
  nodeview generate Target --pkg ./buildfile

  # Generate every node type and keep them current while editing
  nodeview generate --all --pkg ./buildfile --watch

  # Leave Description editable
  nodeview generate Target --passthrough Description

  # Pick types from a list
  nodeview generate --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd)
			return opts.run(cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.pkg, "pkg", "", "Directory of the package holding the node types (default from config: .)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (single type only; default from config: %s_readonly.go)")
	cmd.Flags().StringVar(&opts.suffix, "suffix", "", "Suffix appended to the wrapper name (default from config: ReadOnly)")
	cmd.Flags().StringSliceVar(&opts.passthrough, "passthrough", nil, "Properties that keep their original setters")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Generate every node type in the package")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print the generated code instead of writing files")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate when files in the package change")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Choose node types interactively")

	return cmd
}

// applyConfig fills unset flags from nodeview.yml
func (o *generateOptions) applyConfig(cmd *cobra.Command) {
	gen := o.cfg.Generate
	if !cmd.Flags().Changed("pkg") {
		o.pkg = gen.Package
	}
	if !cmd.Flags().Changed("suffix") {
		o.suffix = gen.Suffix
	}
	o.passthrough = append(append([]string(nil), gen.Passthrough...), o.passthrough...)
}

func (o *generateOptions) run(cmd *cobra.Command, args []string) error {
	types, err := o.selectTypes(args)
	if err != nil {
		return err
	}
	if o.output != "" && len(types) > 1 {
		return fmt.Errorf("--output can only be used with a single type, got %d", len(types))
	}
	if o.watch && o.stdout {
		return errors.New("--watch cannot be combined with --stdout")
	}

	if err := o.generateAll(cmd, types); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}

	ignore := []string{"*_test.go"}
	for _, t := range types {
		ignore = append(ignore, filepath.Base(o.destination(t)))
	}

	w, err := watch.New(watch.Options{
		Dir:      o.pkg,
		Patterns: []string{"*.go"},
		Ignore:   ignore,
		Logger:   o.logger,
	}, func(files []string) error {
		o.logger.Info("regenerating", zap.Strings("changed", files))
		return o.generateAll(cmd, types)
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), ui.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", o.pkg), o.noColor))
	return w.Run(cmd.Context())
}

// selectTypes resolves the type list from arguments, --all or the interactive prompt
func (o *generateOptions) selectTypes(args []string) ([]string, error) {
	switch {
	case len(args) > 0:
		return args, nil
	case o.all:
		types, err := codegen.NodeTypes(o.codegenOptions(""))
		if err != nil {
			return nil, err
		}
		if len(types) == 0 {
			return nil, fmt.Errorf("no node types with a parameterized constructor in %s", o.pkg)
		}
		return types, nil
	case o.interactive:
		return o.promptTypes()
	default:
		return nil, errors.New("at least one type is required\n\nUsage: nodeview generate <type>... (or --all, --interactive)")
	}
}

func (o *generateOptions) promptTypes() ([]string, error) {
	candidates, err := codegen.NodeTypes(o.codegenOptions(""))
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no node types with a parameterized constructor in %s", o.pkg)
	}

	var types []string
	prompt := &survey.MultiSelect{
		Message: "Node types to wrap:",
		Options: candidates,
	}
	if err := survey.AskOne(prompt, &types, survey.WithValidator(survey.MinItems(1))); err != nil {
		return nil, err
	}

	suffix := o.suffix
	if err := survey.AskOne(&survey.Input{Message: "Wrapper suffix:", Default: suffix}, &suffix); err != nil {
		return nil, err
	}
	o.suffix = strings.TrimSpace(suffix)
	return types, nil
}

func (o *generateOptions) generateAll(cmd *cobra.Command, types []string) error {
	var failed []string
	for _, t := range types {
		if err := o.generateOne(cmd, t); err != nil {
			failed = append(failed, t)
		}
	}
	if len(failed) > 0 {
		return &reportedError{err: fmt.Errorf("failed to generate %s", strings.Join(failed, ", "))}
	}
	return nil
}

func (o *generateOptions) generateOne(cmd *cobra.Command, typeName string) error {
	genOpts := o.codegenOptions(typeName)
	if !o.stdout {
		genOpts.Destination = o.destination(typeName)
	}

	code, err := codegen.Generate(genOpts)
	if err != nil {
		o.report(cmd, typeName, err)
		return err
	}

	if o.stdout {
		fmt.Fprint(cmd.OutOrStdout(), code)
		return nil
	}

	o.logger.Debug("generated read-only wrapper",
		zap.String("type", typeName),
		zap.String("wrapper", typeName+o.suffix),
		zap.String("file", genOpts.Destination),
	)
	ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s%s → %s", typeName, o.suffix, genOpts.Destination), o.noColor)
	return nil
}

func (o *generateOptions) report(cmd *cobra.Command, typeName string, err error) {
	var notFound *codegen.NotFoundError
	if errors.As(err, &notFound) {
		suggestions := ui.Suggest(typeName, notFound.Candidates, 0)
		fmt.Fprint(cmd.ErrOrStderr(), ui.TypeNotFound(typeName, o.pkg, suggestions, o.noColor))
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), ui.GenerateFailed(typeName, err, o.noColor))
}

func (o *generateOptions) codegenOptions(typeName string) codegen.Options {
	return codegen.Options{
		TypeName:    typeName,
		Dir:         o.pkg,
		Suffix:      o.suffix,
		Passthrough: o.passthrough,
		BuildTags:   o.cfg.Generate.BuildTags,
	}
}

// destination returns the output path; relative config names land in the package directory
func (o *generateOptions) destination(typeName string) string {
	if o.output != "" {
		return o.output
	}
	return filepath.Join(o.pkg, o.cfg.OutputFile(typeName))
}
