package cmd

import (
	"fmt"
	"os"

	"github.com/qewer33/queitite/internal/diagnostics"
	"github.com/qewer33/queitite/internal/evaluator"
	"github.com/qewer33/queitite/internal/natives"
	"github.com/qewer33/queitite/internal/parser"
	"github.com/qewer33/queitite/internal/platform"
	"github.com/spf13/cobra"
)

var (
	runEvalExpr string
	dumpAST     bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Queitite file or expression",
	Long: `Execute a Queitite program from a file or inline expression.

Examples:
  queitite run script.qte
  queitite run -e "println(1 + 2)"
  queitite run --dump-ast script.qte`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before running (for debugging)")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(runEvalExpr, args)
	if err != nil {
		return err
	}

	term := platform.NewNativeTerminal()
	color := term.IsTTY()

	p := parser.New(input)
	program := p.ParseProgram()

	if len(p.Errors()) > 0 {
		diags := make([]diagnostics.Diagnostic, len(p.Errors()))
		for i, pe := range p.Errors() {
			diags[i] = diagnostics.FromParseError(pe)
		}
		fmt.Fprint(os.Stderr, diagnostics.FormatBatch(diags, input, color))
		return fmt.Errorf("parsing failed with %d error(s)", len(p.Errors()))
	}

	if dumpAST {
		fmt.Printf("%+v\n", program)
	}

	globals := natives.Registry(os.Stdout, os.Stdin, term)
	ev := evaluator.New(globals, os.Stdout, os.Stdin)

	if event := ev.Run(program); event != nil {
		diag := diagnostics.FromEvent(event)
		fmt.Fprint(os.Stderr, diag.Format(input, color))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("execution failed: %s", diag.Message)
	}

	return nil
}
