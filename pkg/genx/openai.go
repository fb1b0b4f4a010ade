package genx

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/packages/ssestream"
)

var _ Generator = (*OpenAIGenerator)(nil)

const (
	oaiFinishReasonStop          string = "stop"
	oaiFinishReasonLength        string = "length"
	oaiFinishReasonToolCalls     string = "tool_calls"
	oaiFinishReasonFunctionCall  string = "function_call"
	oaiFinishReasonContentFilter string = "content_filter"

	oaiMaxTextContentLength = 1048576
)

// OpenAIGenerator implements Generator using the OpenAI chat completions API
// or any server speaking it.
type OpenAIGenerator struct {
	Client *openai.Client `json:"-"`

	Model string `json:"model"`

	GenerateParams *ModelParams `json:"generate_params,omitzero"`

	// UseSystemRole sends system text with the "system" role instead of
	// "developer". Most OpenAI-compatible servers need it.
	UseSystemRole bool `json:"use_system_role,omitzero"`

	ExtraFields map[string]any `json:"extra_fields,omitzero"`
}

func (g *OpenAIGenerator) GenerateStream(ctx context.Context, _ string, mctx ModelContext) (Stream, error) {
	params, err := g.chatCompletion(mctx)
	if err != nil {
		return nil, err
	}
	sb := NewStreamBuilder(32)
	go func() {
		if err := oaiPull(sb, g.Client.Chat.Completions.NewStreaming(ctx, params)); err != nil {
			sb.Abort(err)
		}
	}()
	return sb.Stream(), nil
}

func (g *OpenAIGenerator) chatCompletion(mctx ModelContext) (openai.ChatCompletionNewParams, error) {
	msgs, err := g.convModelContext(mctx)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}
	params := openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    g.Model,
	}
	mp := g.GenerateParams
	if p := mctx.Params(); p != nil {
		mp = p
	}
	if mp != nil {
		if mp.FrequencyPenalty > 0 {
			params.FrequencyPenalty = param.NewOpt(float64(mp.FrequencyPenalty))
		}
		if mp.MaxTokens > 0 {
			params.MaxCompletionTokens = param.NewOpt(int64(mp.MaxTokens))
		}
		if mp.N > 0 {
			params.N = param.NewOpt(int64(mp.N))
		}
		if mp.Temperature > 0 {
			params.Temperature = param.NewOpt(float64(mp.Temperature))
		}
		if mp.TopP > 0 {
			params.TopP = param.NewOpt(float64(mp.TopP))
		}
		if mp.PresencePenalty > 0 {
			params.PresencePenalty = param.NewOpt(float64(mp.PresencePenalty))
		}
	}
	if len(g.ExtraFields) > 0 {
		params.SetExtraFields(g.ExtraFields)
	}
	return params, nil
}

func oaiPull(sb *StreamBuilder, stream *ssestream.Stream[openai.ChatCompletionChunk]) error {
	defer stream.Close()

	var index int64
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		var sel *openai.ChatCompletionChunkChoice
		if index == 0 {
			index = chunk.Choices[0].Index
			sel = &chunk.Choices[0]
		} else {
			for i := range chunk.Choices {
				if chunk.Choices[i].Index == index {
					sel = &chunk.Choices[i]
					break
				}
			}
			if sel == nil {
				continue
			}
		}
		if s := sel.Delta.Content; s != "" {
			if err := sb.Text(s); err != nil {
				return err
			}
		}
		switch sel.FinishReason {
		case oaiFinishReasonStop,
			oaiFinishReasonToolCalls,
			oaiFinishReasonFunctionCall:
			return sb.Done(oaiConvUsage(&chunk.Usage))
		case oaiFinishReasonLength:
			return sb.Truncated(oaiConvUsage(&chunk.Usage))
		case oaiFinishReasonContentFilter:
			return sb.Blocked(oaiConvUsage(&chunk.Usage), sel.Delta.Refusal)
		}
		if s := sel.Delta.Refusal; s != "" {
			return sb.Blocked(oaiConvUsage(&chunk.Usage), s)
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}
	// Some compatible servers close the stream without a finish reason.
	return sb.Done(Usage{})
}

func (g *OpenAIGenerator) convModelContext(mctx ModelContext) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := []openai.ChatCompletionMessageParamUnion{}
	for p := range mctx.Prompts() {
		out = append(out, g.convSystem(p.Name, p.Text)...)
	}
	for msg := range mctx.Messages() {
		mps, err := g.convMessage(msg)
		if err != nil {
			return nil, err
		}
		out = append(out, mps...)
	}
	if len(out) == 0 {
		return nil, errors.New("genx/openai: no messages")
	}
	return out, nil
}

// convSystem splits text that exceeds the per-message content limit.
func (g *OpenAIGenerator) convSystem(name, text string) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(text)/oaiMaxTextContentLength+1)
	t := text
	for len(t) > 0 {
		v := t
		if len(v) > oaiMaxTextContentLength {
			v, t = t[:oaiMaxTextContentLength], t[oaiMaxTextContentLength:]
		} else {
			t = ""
		}
		if g.UseSystemRole {
			mp := openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: param.NewOpt(v),
					},
				},
			}
			if name != "" {
				mp.OfSystem.Name = param.NewOpt(name)
			}
			out = append(out, mp)
		} else {
			mp := openai.ChatCompletionMessageParamUnion{
				OfDeveloper: &openai.ChatCompletionDeveloperMessageParam{
					Content: openai.ChatCompletionDeveloperMessageParamContentUnion{
						OfString: param.NewOpt(v),
					},
				},
			}
			if name != "" {
				mp.OfDeveloper.Name = param.NewOpt(name)
			}
			out = append(out, mp)
		}
	}
	return out
}

func (g *OpenAIGenerator) convMessage(msg *Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	for _, part := range msg.Contents {
		if _, ok := part.(Text); !ok {
			return nil, fmt.Errorf("genx/openai: unsupported part %T, model %v takes text only", part, g.Model)
		}
	}
	text := msg.Text()
	switch msg.Role {
	default:
		return nil, fmt.Errorf("genx/openai: unexpected message role: %s", msg.Role)
	case RoleSystem:
		return g.convSystem(msg.Name, text), nil
	case RoleUser:
		mp := openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: param.NewOpt(text),
			},
		}
		if msg.Name != "" {
			mp.Name = param.NewOpt(msg.Name)
		}
		return []openai.ChatCompletionMessageParamUnion{{OfUser: &mp}}, nil
	case RoleModel:
		mp := openai.ChatCompletionAssistantMessageParam{
			Content: openai.ChatCompletionAssistantMessageParamContentUnion{
				OfString: param.NewOpt(text),
			},
		}
		if msg.Name != "" {
			mp.Name = param.NewOpt(msg.Name)
		}
		return []openai.ChatCompletionMessageParamUnion{{OfAssistant: &mp}}, nil
	}
}

func oaiConvUsage(usage *openai.CompletionUsage) Usage {
	return Usage{
		PromptTokenCount:        usage.PromptTokens,
		CachedContentTokenCount: usage.PromptTokensDetails.CachedTokens,
		GeneratedTokenCount:     usage.CompletionTokens,
	}
}
