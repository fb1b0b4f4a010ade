package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/haivivi/lmyield/pkg/cli"
	"github.com/haivivi/lmyield/pkg/lmyield"
)

var (
	runFlags       templateFlags
	runModel       string
	runMaxAttempts int
	runParallel    int
	runFormat      string
	runOutFile     string
	runStream      bool
)

// runResult is one session of a parallel run.
type runResult struct {
	Run    int             `json:"run" yaml:"run"`
	Yields []lmyield.Yield `json:"yields" yaml:"yields"`
}

var runCmd = &cobra.Command{
	Use:   "run -f <template> -m <model>",
	Short: "Run a template against a model and print the yields",
	Long: `Run a template against a model and print the values it yields.

The stream is decoded as it arrives. When the model deviates from the
template the generation restarts from the values confirmed so far, up to
--max-attempts streams per run.

With --parallel n, n independent sessions run concurrently and the output
lists the yields of each. With --stream each value is printed as soon as it
is confirmed.

Examples:
  lmyield run -f bogus.tmpl --vars vars.yaml -m openai/gpt-4o-mini
  lmyield run -f bogus.tmpl -m gemini/flash --stream
  lmyield run -f bogus.tmpl -m openai/gpt-4o-mini --parallel 4 -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := runFlags.compile(cmd)
		if err != nil {
			return err
		}
		format, err := cli.ParseOutputFormat(runFormat)
		if err != nil {
			return err
		}
		if runParallel < 1 {
			return fmt.Errorf("--parallel must be at least 1")
		}
		if runStream && runParallel > 1 {
			return fmt.Errorf("--stream cannot be combined with --parallel")
		}

		model, maxAttempts := runModel, runMaxAttempts
		if cfg, err := GetConfig(); err == nil {
			if model == "" {
				model = cfg.Model
			}
			if maxAttempts == 0 {
				maxAttempts = cfg.MaxAttempts
			}
		}
		if model == "" {
			return fmt.Errorf("flag -m is required")
		}

		mux, err := loadModels()
		if err != nil {
			return err
		}
		session := &lmyield.Session{
			Generator:   mux,
			Model:       model,
			Template:    tmpl,
			MaxAttempts: maxAttempts,
			Logger:      slog.Default(),
		}

		ctx := cmd.Context()
		opts := cli.OutputOptions{Format: format, File: runOutFile}
		if runOutFile == "" {
			opts.Writer = cmd.OutOrStdout()
		}
		start := time.Now()

		if runStream {
			styles := cli.NewStyles(cli.DefaultTheme)
			for y, err := range session.Yields(ctx) {
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.Label.Render(y.Name+":"), y.Value)
			}
			cli.PrintVerbose(IsVerbose(), "done in %s", cli.FormatDuration(time.Since(start)))
			return nil
		}

		if runParallel == 1 {
			yields, err := session.Generate(ctx)
			if err != nil {
				return err
			}
			cli.PrintVerbose(IsVerbose(), "done in %s", cli.FormatDuration(time.Since(start)))
			return cli.Output(yields, opts)
		}

		results := make([]runResult, runParallel)
		eg, ectx := errgroup.WithContext(ctx)
		for i := range results {
			eg.Go(func() error {
				yields, err := session.Generate(ectx)
				if err != nil {
					return fmt.Errorf("run %d: %w", i+1, err)
				}
				results[i] = runResult{Run: i + 1, Yields: yields}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
		cli.PrintVerbose(IsVerbose(), "%d runs done in %s", runParallel, cli.FormatDuration(time.Since(start)))
		return cli.Output(results, opts)
	},
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "model name (default from config.yaml)")
	runCmd.Flags().IntVar(&runMaxAttempts, "max-attempts", 0, "streams opened per run before giving up (default 8)")
	runCmd.Flags().IntVar(&runParallel, "parallel", 1, "number of independent sessions")
	runCmd.Flags().StringVarP(&runFormat, "output", "o", "yaml", "output format (yaml, json, msgpack, raw)")
	runCmd.Flags().StringVar(&runOutFile, "out", "", "write the output to a file")
	runCmd.Flags().BoolVar(&runStream, "stream", false, "print each value as soon as it is confirmed")
	rootCmd.AddCommand(runCmd)
}
