package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/haivivi/lmyield/cmd/lmyield/internal/config"
	"github.com/haivivi/lmyield/pkg/genx/generators"
	"github.com/haivivi/lmyield/pkg/genx/modelloader"
)

var (
	// Global flags
	verbose   bool
	modelsDir string

	// Global configuration (loaded at init time)
	globalConfig *config.Config

	// testMux replaces the model directory in tests.
	testMux *generators.Mux
)

var rootCmd = &cobra.Command{
	Use:   "lmyield",
	Short: "Run yield templates against streaming language models",
	Long: `lmyield - compile block templates and decode model streams into named values.

A template is made of {{#context~}}, {{#human~}}, {{#generated~}} and
{{#instructions~}} blocks followed by one {{#yield~}} block holding
{{gen 'name' until '</DELIM>'}} markers.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/lmyield/
  Linux:   ~/.config/lmyield/
  Windows: %AppData%/lmyield/

Model configs (openai/chat/v1, gemini/generate/v1) live in its models/
subdirectory, or in the directory given with --models.

Examples:
  lmyield compile -f bogus.tmpl --set personality="an evil witch"
  lmyield run -f bogus.tmpl --vars vars.yaml -m openai/gpt-4o-mini --stream
  lmyield models`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging(cmd.ErrOrStderr())
	},
}

// Execute runs the root command. An interrupt cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&modelsDir, "models", "", "model config directory (default <config>/models)")
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

func initLogging(w io.Writer) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// GetConfig returns the global configuration.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// loadModels registers every model config into a fresh mux.
func loadModels() (*generators.Mux, error) {
	if testMux != nil {
		return testMux, nil
	}
	dir := modelsDir
	if dir == "" {
		cfg, err := GetConfig()
		if err != nil {
			return nil, err
		}
		dir = cfg.ModelsPath()
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("model config directory: %w", err)
	}
	mux := generators.NewMux()
	loader := &modelloader.Loader{Mux: mux, Verbose: verbose}
	if _, err := loader.LoadDir(dir); err != nil {
		return nil, err
	}
	return mux, nil
}
