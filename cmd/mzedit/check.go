package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dshills/mzedit/internal/analysis"
	"github.com/dshills/mzedit/internal/config"
	"github.com/dshills/mzedit/internal/engine/diagnostic"
	"github.com/dshills/mzedit/internal/engine/document"
	"github.com/dshills/mzedit/internal/logging"
	"github.com/dshills/mzedit/internal/renderer/heat"
)

var checkFlags struct {
	stream   string
	compiler string
	profile  bool
}

var checkCmd = &cobra.Command{
	Use:   "check <file.mzn>",
	Short: "Report compiler diagnostics for a model",
	Long: `Check runs the MiniZinc compiler on a model and prints its errors and
warnings as file:line:col entries. With --stream the compiler is not run;
a saved JSON message stream is read instead ("-" reads stdin).

The exit status is 1 when any error was reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFlags.stream, "stream", "", "read compiler messages from this file instead of running the compiler")
	checkCmd.Flags().StringVar(&checkFlags.compiler, "compiler", "", "compiler executable (overrides the config file)")
	checkCmd.Flags().BoolVar(&checkFlags.profile, "profile", false, "print per-line compilation statistics")
}

// loadConfig reads the configuration named by the global flags.
func loadConfig() (config.Config, *log.Logger, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, logging.New(logLevel), err
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.New(level)
	logging.SetDefault(logger)
	return cfg, logger, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var res *analysis.Result
	if checkFlags.stream != "" {
		res, err = readStream(cmd.InOrStdin(), checkFlags.stream, path)
	} else {
		compiler := analysis.NewCompiler(cfg.Compiler.Path)
		if checkFlags.compiler != "" {
			compiler.Path = checkFlags.compiler
		}
		compiler.Timeout = cfg.CompilerTimeout()
		logger.Debug("running compiler", logging.FieldPath, compiler.Path)
		res, err = compiler.Check(cmd.Context(), path)
	}
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		logger.Debug("skipped stream lines", logging.FieldCount, res.Skipped)
	}
	if res.Foreign > 0 {
		logger.Info("diagnostics in other files", logging.FieldCount, res.Foreign)
	}

	doc := document.New(string(data))
	overlay := diagnostic.NewOverlay()
	for _, r := range overlay.Apply(doc, res.Records) {
		logger.Warn("diagnostic outside the model",
			logging.FieldLine, r.FirstLine,
			logging.FieldMessage, r.Message)
	}

	out := cmd.OutOrStdout()
	errs := printDiagnostics(out, path, doc, overlay.Diagnostics())
	for _, m := range res.Messages {
		fmt.Fprintf(out, "%s: %s\n", path, m)
		errs++
	}
	if checkFlags.profile && res.HasProfile() {
		printProfile(out, doc, res)
	}

	if errs > 0 {
		return errFindings
	}
	return nil
}

func readStream(stdin io.Reader, name, model string) (*analysis.Result, error) {
	if name == "-" {
		return analysis.Parse(stdin, model)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return analysis.Parse(f, model)
}

// printDiagnostics writes one line per diagnostic and returns the number
// of errors.
func printDiagnostics(w io.Writer, path string, doc *document.Document, diags []diagnostic.Diagnostic) int {
	errs := 0
	for _, d := range diags {
		p := doc.OffsetToPoint(d.Start)
		fmt.Fprintf(w, "%s:%d:%d: %s\n", path, p.Line+1, p.Column+1, d.Message)
		if d.Severity == diagnostic.SeverityError {
			errs++
		}
	}
	return errs
}

func printProfile(w io.Writer, doc *document.Document, res *analysis.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Line\t%s\t%s\t%s\t\n", heat.Header[0], heat.Header[1], heat.Header[2])
	for line := 0; line < doc.LineCount(); line++ {
		s, ok := res.Profile[line]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%dms\t\n", line+1, s.Constraints, s.Variables, s.Millis)
	}
	_ = tw.Flush()
}
