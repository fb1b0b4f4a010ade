package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/lmyield/pkg/cli"
	"github.com/haivivi/lmyield/pkg/lmyield"
)

// templateFlags are the flags shared by commands that compile a template.
type templateFlags struct {
	file     string
	varsFile string
	sets     []string
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "template file ('-' for stdin)")
	cmd.Flags().StringVar(&f.varsFile, "vars", "", "YAML or JSON file of template variables")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "template variable key=value (repeatable)")
}

func (f *templateFlags) compile(cmd *cobra.Command) (*lmyield.Template, error) {
	if f.file == "" {
		return nil, fmt.Errorf("flag -f is required")
	}
	var (
		data []byte
		err  error
	)
	if f.file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(f.file)
	}
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	vars, err := cli.LoadVars(f.varsFile, f.sets)
	if err != nil {
		return nil, err
	}
	return lmyield.Compile(string(data), vars)
}
