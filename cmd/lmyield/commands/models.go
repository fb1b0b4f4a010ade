package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/lmyield/pkg/cli"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the registered models",
	RunE: func(cmd *cobra.Command, args []string) error {
		mux, err := loadModels()
		if err != nil {
			return err
		}
		names := mux.Names()
		if len(names) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "no models registered")
			return nil
		}
		rows := [][]string{{"MODEL"}}
		for _, n := range names {
			rows = append(rows, []string{n})
		}
		fmt.Fprint(cmd.OutOrStdout(), cli.NewStyles(cli.DefaultTheme).Table(rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
