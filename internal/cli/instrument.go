package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirkon/printtrace/internal/config"
	"github.com/sirkon/printtrace/internal/instrument"
	"github.com/sirkon/printtrace/internal/logging"
	"github.com/sirkon/printtrace/internal/pipeline"
	"github.com/sirkon/printtrace/internal/report"
)

type instrumentOptions struct {
	configPath string
	input      string
	output     string
	hook       string
	demangle   bool
	location   bool
	passes     string
	points     []string
	jobs       int
	logLevel   string
	report     bool
}

func newInstrumentCmd() *cobra.Command {
	var opts instrumentOptions

	cmd := &cobra.Command{
		Use:   "instrument",
		Short: "Insert entry tracing calls into an LLVM IR module",
		Long: `Reads textual LLVM IR, inserts a call to the logging hook at the entry of
every defined function and writes the resulting IR.

The input must use typed pointers (i8*, i32*) as emitted by LLVM 14 and older.
Opaque ptr types are not supported: produce the input with clang 14 or older,
or with clang 15 and -Xclang -no-opaque-pointers.

Examples:
  printtrace instrument -i prog.ll -o prog.traced.ll
  printtrace instrument -i widget.ll --demangle --location
  clang-14 -S -emit-llvm -o - a.c | printtrace instrument --passes 'function(printtrace)'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			return runInstrument(cmd, cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file")
	flags.StringVarP(&opts.input, "input", "i", "-", "input .ll file, - for stdin")
	flags.StringVarP(&opts.output, "output", "o", "-", "output .ll file, - for stdout")
	flags.StringVar(&opts.hook, "hook", instrument.DefaultHook, "logging hook symbol name")
	flags.BoolVar(&opts.demangle, "demangle", false, "pass demangled C++ signatures in a second call")
	flags.BoolVar(&opts.location, "location", false, "pass source file, line and column")
	flags.StringVar(&opts.passes, "passes", "", "explicit pipeline, e.g. 'function(printtrace)'")
	flags.StringSliceVar(&opts.points, "ep", nil, "extension points to run at (optimizer-early, scalar-optimizer-late, peephole)")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "functions processed concurrently, 0 for the number of CPUs")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.BoolVar(&opts.report, "report", false, "print per-function outcomes to stderr")

	return cmd
}

// config loads the configuration file and applies flags explicitly set on the command line.
func (o *instrumentOptions) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("hook") {
		cfg.Hook = o.hook
	}
	if flags.Changed("demangle") || flags.Changed("location") {
		cfg.Variant = instrument.VariantOf(
			o.demangle || (!flags.Changed("demangle") && cfg.Variant.Demangle()),
			o.location || (!flags.Changed("location") && cfg.Variant.Location()),
		)
	}
	if flags.Changed("passes") {
		cfg.Passes = o.passes
	}
	if flags.Changed("ep") {
		cfg.ExtensionPoints = cfg.ExtensionPoints[:0]
		for _, name := range o.points {
			var p pipeline.ExtensionPoint
			if err := p.UnmarshalText([]byte(name)); err != nil {
				return nil, err
			}
			cfg.ExtensionPoints = append(cfg.ExtensionPoints, p)
		}
	}
	if flags.Changed("jobs") {
		cfg.Jobs = o.jobs
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	cfg.Log.Output = cmd.ErrOrStderr()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate options: %w", err)
	}

	return cfg, nil
}

func runInstrument(cmd *cobra.Command, cfg *config.Config, opts instrumentOptions) error {
	log := logging.NewWithComponent(cfg.Log, "instrument")

	m, err := readModule(cmd, opts.input)
	if err != nil {
		return err
	}

	var rep report.Reporter
	passes, err := buildPipeline(cfg, log, &rep)
	if err != nil {
		return err
	}

	mgr := pipeline.NewManager(passes,
		pipeline.WithJobs(cfg.Jobs),
		pipeline.WithLogger(log),
	)
	res, err := mgr.Run(cmd.Context(), m)
	if err != nil {
		return fmt.Errorf("instrument %s: %w", opts.input, err)
	}

	log.Info().
		Str("input", opts.input).
		Int("passes", len(passes)).
		Int("instrumented", rep.Count(report.EntryCall)).
		Int("pretty", rep.Count(report.PrettyCall)).
		Int("skipped", rep.Count(report.SkipDeclaration)).
		Stringer("result", res).
		Msg("module instrumented")

	if opts.report {
		if err := rep.PrintSummary(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	return writeModule(cmd, opts.output, m)
}

func buildPipeline(cfg *config.Config, log zerolog.Logger, rep *report.Reporter) ([]pipeline.FunctionPass, error) {
	registry := pipeline.NewRegistry()
	err := instrument.Register(registry, cfg.Instrument(), pipeline.ExtensionPoints,
		instrument.WithLogger(log),
		instrument.WithReporter(rep),
	)
	if err != nil {
		return nil, err
	}

	if cfg.Passes != "" {
		passes, err := registry.Parse(cfg.Passes)
		if err != nil {
			return nil, fmt.Errorf("parse pipeline: %w", err)
		}
		return passes, nil
	}

	return registry.AtPoints(cfg.ExtensionPoints...), nil
}

func readModule(cmd *cobra.Command, path string) (*ir.Module, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		path = "<stdin>"
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	m, err := asm.ParseBytes(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if isEmptyModule(m) && !isBlankIR(data) {
		return nil, fmt.Errorf("parse %s: %w", path, errNotIR)
	}

	return m, nil
}

var errNotIR = errors.New("no LLVM IR entities found")

// isEmptyModule reports whether the parser found nothing at all. The parser
// accepts arbitrary text this way.
func isEmptyModule(m *ir.Module) bool {
	return len(m.Funcs) == 0 &&
		len(m.Globals) == 0 &&
		len(m.TypeDefs) == 0 &&
		len(m.Aliases) == 0 &&
		len(m.IFuncs) == 0 &&
		len(m.AttrGroupDefs) == 0 &&
		len(m.NamedMetadataDefs) == 0 &&
		len(m.MetadataDefs) == 0 &&
		len(m.ComdatDefs) == 0 &&
		len(m.ModuleAsms) == 0 &&
		m.SourceFilename == "" &&
		m.DataLayout == "" &&
		m.TargetTriple == ""
}

// isBlankIR reports whether data holds only whitespace and comments.
func isBlankIR(data []byte) bool {
	for line := range bytes.Lines(data) {
		line = bytes.TrimSpace(line)
		if len(line) > 0 && line[0] != ';' {
			return false
		}
	}

	return true
}

func writeModule(cmd *cobra.Command, path string, m *ir.Module) error {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return fmt.Errorf("render module: %w", err)
	}

	if path == "-" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
