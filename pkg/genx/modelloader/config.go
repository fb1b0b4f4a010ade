// Package modelloader reads model configuration files and registers the
// generators they describe.
//
// A config file is YAML or JSON:
//
//	schema: openai/chat/v1
//	api_key: $OPENAI_API_KEY
//	base_url: https://api.openai.com/v1
//	models:
//	  - name: openai/gpt-4o-mini
//	    model: gpt-4o-mini
//	    use_system_role: true
//	    generate_params:
//	      temperature: 0.7
package modelloader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"

	"github.com/haivivi/lmyield/pkg/genx"
	"github.com/haivivi/lmyield/pkg/genx/generators"
)

type ConfigFile struct {
	Schema string `json:"schema,omitzero" yaml:"schema,omitzero"` // e.g. "openai/chat/v1", "gemini/generate/v1"

	// Legacy selector, used when Schema is empty.
	Kind string `json:"kind,omitzero" yaml:"kind,omitzero"` // "openai", "gemini"

	APIKey  string `json:"api_key,omitzero" yaml:"api_key,omitzero"` // may be "$ENV_NAME"
	BaseURL string `json:"base_url,omitzero" yaml:"base_url,omitzero"`

	Models []Entry `json:"models,omitzero" yaml:"models,omitzero"`
}

type Entry struct {
	Name           string            `json:"name" yaml:"name"`
	Model          string            `json:"model" yaml:"model"`
	GenerateParams *genx.ModelParams `json:"generate_params,omitzero" yaml:"generate_params,omitzero"`
	UseSystemRole  bool              `json:"use_system_role,omitzero" yaml:"use_system_role,omitzero"`
	ExtraFields    map[string]any    `json:"extra_fields,omitzero" yaml:"extra_fields,omitzero"`
	Desc           string            `json:"desc,omitzero" yaml:"desc,omitzero"`
}

// errMissingCredential marks configs that are skipped rather than failed.
type errMissingCredential struct {
	provider string
}

func (e *errMissingCredential) Error() string {
	return fmt.Sprintf("api_key is required for %s", e.provider)
}

// Loader registers generators from config files into Mux.
type Loader struct {
	// Mux receives the generators. Nil means generators.DefaultMux.
	Mux *generators.Mux

	// Verbose logs every request body at debug level.
	Verbose bool

	Logger *slog.Logger
}

// LoadFromDir loads dir into generators.DefaultMux.
func LoadFromDir(dir string) ([]string, error) {
	return (&Loader{}).LoadDir(dir)
}

func (l *Loader) mux() *generators.Mux {
	if l.Mux != nil {
		return l.Mux
	}
	return generators.DefaultMux
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// LoadDir walks dir recursively, registering every .json/.yaml/.yml file.
// Configs whose credentials are empty after env expansion are skipped.
// Returns the registered model names.
func (l *Loader) LoadDir(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		fileNames, err := l.LoadFile(path)
		if err != nil {
			return err
		}
		names = append(names, fileNames...)
		return nil
	})
	return names, err
}

// LoadFile registers the models of one config file.
func (l *Loader) LoadFile(path string) ([]string, error) {
	cfg, err := parseConfig(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	names, err := l.Register(*cfg)
	if err != nil {
		if mc, ok := err.(*errMissingCredential); ok {
			l.logger().Debug("modelloader: skipping config", "path", path, "reason", mc.Error())
			return nil, nil
		}
		return nil, fmt.Errorf("register %s: %w", path, err)
	}
	return names, nil
}

func parseConfig(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ConfigFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported extension: %s", ext)
	}
	return &cfg, nil
}

// Register creates the generators described by cfg.
func (l *Loader) Register(cfg ConfigFile) ([]string, error) {
	cfg.APIKey = expandEnv(cfg.APIKey)
	cfg.BaseURL = expandEnv(cfg.BaseURL)

	provider := strings.ToLower(cfg.Kind)
	if cfg.Schema != "" {
		// {provider}/{subject}/{version}
		parts := strings.Split(cfg.Schema, "/")
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid schema: %s", cfg.Schema)
		}
		provider = parts[0]
	}
	switch provider {
	case "openai":
		return l.registerOpenAI(cfg)
	case "gemini":
		return l.registerGemini(cfg)
	default:
		return nil, fmt.Errorf("unknown generator provider: %q", provider)
	}
}

// expandEnv expands values that start with "$" ($VAR or ${VAR}); anything
// else is returned unchanged.
func expandEnv(s string) string {
	if strings.HasPrefix(s, "$") {
		return os.ExpandEnv(s)
	}
	return s
}

func (l *Loader) registerOpenAI(cfg ConfigFile) ([]string, error) {
	if cfg.APIKey == "" {
		return nil, &errMissingCredential{provider: "openai"}
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if l.Verbose {
		opts = append(opts, option.WithHTTPClient(&http.Client{
			Transport: &verboseTransport{base: http.DefaultTransport, logger: l.logger()},
		}))
	}
	client := openai.NewClient(opts...)

	return l.registerEntries(cfg.Models, func(m Entry) genx.Generator {
		return &genx.OpenAIGenerator{
			Client:         &client,
			Model:          m.Model,
			GenerateParams: m.GenerateParams,
			UseSystemRole:  m.UseSystemRole,
			ExtraFields:    m.ExtraFields,
		}
	})
}

func (l *Loader) registerGemini(cfg ConfigFile) ([]string, error) {
	if cfg.APIKey == "" {
		return nil, &errMissingCredential{provider: "gemini"}
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, err
	}
	return l.registerEntries(cfg.Models, func(m Entry) genx.Generator {
		return &genx.GeminiGenerator{
			Client:         client,
			Model:          m.Model,
			GenerateParams: m.GenerateParams,
		}
	})
}

func (l *Loader) registerEntries(models []Entry, build func(Entry) genx.Generator) ([]string, error) {
	var names []string
	for _, m := range models {
		if m.Name == "" || m.Model == "" {
			return nil, fmt.Errorf("model entry missing name or model")
		}
		if err := l.mux().Handle(m.Name, build(m)); err != nil {
			return nil, fmt.Errorf("register generator %q: %w", m.Name, err)
		}
		names = append(names, m.Name)
	}
	return names, nil
}

type verboseTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *verboseTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err == nil {
			body = pretty.Bytes()
		}
		t.logger.Debug("modelloader: request", "url", req.URL.String(), "body", string(body))
	}
	return t.base.RoundTrip(req)
}
