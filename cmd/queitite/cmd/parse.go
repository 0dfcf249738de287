package cmd

import (
	"fmt"
	"os"

	"github.com/qewer33/queitite/internal/diagnostics"
	"github.com/qewer33/queitite/internal/parser"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Queitite source and report syntax errors",
	Long: `Parse Queitite source code and report any syntax errors found.

On success, nothing is printed (a one-line confirmation with
--verbose) and the command exits 0. On failure,
every parse error is reported with a source snippet and caret.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEvalExpr, args)
	if err != nil {
		return err
	}

	p := parser.New(input)
	p.ParseProgram()

	if len(p.Errors()) > 0 {
		diags := make([]diagnostics.Diagnostic, len(p.Errors()))
		for i, pe := range p.Errors() {
			diags[i] = diagnostics.FromParseError(pe)
		}
		fmt.Fprint(os.Stderr, diagnostics.FormatBatch(diags, input, true))
		return fmt.Errorf("parsing %s failed with %d error(s)", filename, len(p.Errors()))
	}

	if verbose {
		fmt.Printf("%s: parsed OK\n", filename)
	}
	return nil
}
