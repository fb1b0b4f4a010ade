package genx

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/goccy/go-yaml"
)

type Stream interface {
	Next() (*MessageChunk, error)
	Close() error
	CloseWithError(error) error
}

type ModelParams struct {
	MaxTokens        int     `json:"max_tokens,omitzero" yaml:"max_tokens,omitzero"`
	FrequencyPenalty float32 `json:"frequency_penalty,omitzero" yaml:"frequency_penalty,omitzero"`
	N                int     `json:"n,omitzero" yaml:"n,omitzero"`
	Temperature      float32 `json:"temperature,omitzero" yaml:"temperature,omitzero"`
	TopP             float32 `json:"top_p,omitzero" yaml:"top_p,omitzero"`
	PresencePenalty  float32 `json:"presence_penalty,omitzero" yaml:"presence_penalty,omitzero"`
	TopK             float32 `json:"top_k,omitzero" yaml:"top_k,omitzero"`
}

type Prompt struct {
	Name string
	Text string
}

type ModelContext interface {
	Prompts() iter.Seq[*Prompt]
	Messages() iter.Seq[*Message]

	Params() *ModelParams
}

type Generator interface {
	GenerateStream(ctx context.Context, model string, mctx ModelContext) (Stream, error)
}

type Usage struct {
	// Number of tokens in the prompt, cached tokens included.
	PromptTokenCount int64

	// Number of tokens served from the provider's prompt cache.
	CachedContentTokenCount int64

	// Number of tokens generated.
	GeneratedTokenCount int64
}

func (u Usage) String() string {
	b, _ := yaml.Marshal(map[string]map[string]any{
		"Usage": {
			"Prompt":    u.PromptTokenCount,
			"Cached":    u.CachedContentTokenCount,
			"Generated": u.GeneratedTokenCount,
		},
	})
	return string(b)
}

// InspectMessage renders msg for debug output.
func InspectMessage(msg *Message) string {
	if msg == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s", msg.Role)
	if msg.Name != "" {
		fmt.Fprintf(&sb, " (%s)", strings.Trim(fmt.Sprintf("%q", msg.Name), `"`))
	}
	sb.WriteString("\n")
	for _, part := range msg.Contents {
		switch p := part.(type) {
		case Text:
			fmt.Fprintln(&sb, p)
		case *Blob:
			if p != nil {
				fmt.Fprintf(&sb, "%s [%d]\n", p.MIMEType, len(p.Data))
			}
		default:
			fmt.Fprintf(&sb, "[%T]\n", part)
		}
	}
	return sb.String()
}

// InspectModelContext renders every prompt and message of mctx.
func InspectModelContext(mctx ModelContext) string {
	var sb strings.Builder
	for p := range mctx.Prompts() {
		fmt.Fprintf(&sb, "### prompt")
		if p.Name != "" {
			fmt.Fprintf(&sb, " (%s)", p.Name)
		}
		fmt.Fprintf(&sb, "\n%s\n", p.Text)
	}
	for msg := range mctx.Messages() {
		sb.WriteString(InspectMessage(msg))
	}
	return sb.String()
}
