package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/taskerslab/internal/charges"
	"github.com/leapstack-labs/taskerslab/internal/cli/output"
)

// NewChargesCommand creates the charges command.
func NewChargesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charges <file>",
		Short: "Parse a charge file and summarize it",
		Long: `Parse per-atom charges with the configured charge parser and print their
count, sum and range. Use it to check a charge file before a generation run.

Available parsers: ` + strings.Join(charges.ListParsers(), ", "),
		Example: `  taskerslab charges aims.out
  taskerslab charges charges.txt --charges-format list --atoms`,
		Args: cobra.ExactArgs(1),
		RunE: runCharges,
	}

	cmd.Flags().String("charges-format", "", "Charge file format (fhi-aims-hirshfeld|list)")
	cmd.Flags().Bool("atoms", false, "Also list the charge of every atom")
	return cmd
}

func runCharges(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	parser, err := charges.NewParser(cmdCtx.Cfg.ChargesFormat)
	if err != nil {
		return err
	}
	q, err := charges.ParseFile(args[0], parser.Name())
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("parsed charges", "path", args[0], "parser", parser.Name(), "count", len(q))

	summary := output.SummarizeCharges(args[0], parser.Name(), q)
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(summary)
	}

	r.Header(1, "Charges")
	r.Println(output.FormatKeyValue("File", summary.Path))
	r.Println(output.FormatKeyValue("Parser", summary.Format))
	r.Println(output.FormatKeyValue("Atoms", fmt.Sprint(summary.Count)))
	r.Println(output.FormatKeyValue("Sum", fmt.Sprintf("%+.6f", summary.Sum)))
	r.Println(output.FormatKeyValue("Range", fmt.Sprintf("%+.4f .. %+.4f", summary.Min, summary.Max)))

	if atoms, _ := cmd.Flags().GetBool("atoms"); atoms {
		r.Println("")
		rows := make([][]any, len(q))
		for i, c := range q {
			rows[i] = []any{i + 1, fmt.Sprintf("%+.6f", c)}
		}
		r.Table([]string{"Atom", "Charge"}, rows)
	}
	return nil
}
