package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/lmyield/pkg/cli"
)

var (
	compileFlags  templateFlags
	compileFormat string
)

var compileCmd = &cobra.Command{
	Use:   "compile -f <template>",
	Short: "Compile a template and show its program and instructions",
	Long: `Compile a template without calling any model.

By default the program is printed with one header per message followed by
the yield instructions. With -o the compiled template is written as yaml,
json or msgpack instead.

Examples:
  lmyield compile -f bogus.tmpl --set personality="an evil witch"
  lmyield compile -f bogus.tmpl --vars vars.yaml -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := compileFlags.compile(cmd)
		if err != nil {
			return err
		}
		if compileFormat != "" {
			format, err := cli.ParseOutputFormat(compileFormat)
			if err != nil {
				return err
			}
			return cli.Output(tmpl, cli.OutputOptions{Format: format, Writer: cmd.OutOrStdout()})
		}

		out := cmd.OutOrStdout()
		styles := cli.NewStyles(cli.DefaultTheme)
		for _, m := range tmpl.Program {
			fmt.Fprintln(out, styles.Header(string(m.Role), m.Name, 60))
			fmt.Fprintln(out, m.Content)
			fmt.Fprintln(out)
		}
		rows := [][]string{{"#", "VAR", "UNTIL", "PRIOR"}}
		for i, in := range tmpl.Instructions {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				in.Var,
				strconv.Quote(in.Until),
				cli.Truncate(strconv.Quote(in.Prior), 48),
			})
		}
		fmt.Fprintln(out, styles.Header("yield", "", 60))
		fmt.Fprint(out, styles.Table(rows))
		return nil
	},
}

func init() {
	compileFlags.register(compileCmd)
	compileCmd.Flags().StringVarP(&compileFormat, "output", "o", "", "output format (yaml, json, msgpack)")
	rootCmd.AddCommand(compileCmd)
}
