package genx

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"
)

var _ Generator = (*GeminiGenerator)(nil)

// GeminiGenerator implements Generator using Google Gemini API.
type GeminiGenerator struct {
	Client *genai.Client `json:"-"`

	GenerateParams *ModelParams `json:"generate_params,omitzero"`

	// Model should not start with "models/"
	Model string `json:"model"`
}

func (g *GeminiGenerator) GenerateStream(ctx context.Context, _ string, mctx ModelContext) (Stream, error) {
	cfg, contents, err := g.convModelContext(mctx)
	if err != nil {
		return nil, err
	}
	sb := NewStreamBuilder(32)
	go func() {
		if err := geminiPull(sb, g.Client.Models.GenerateContentStream(ctx, g.Model, contents, cfg)); err != nil {
			sb.Abort(err)
		}
	}()
	return sb.Stream(), nil
}

func geminiPull(builder *StreamBuilder, itr iter.Seq2[*genai.GenerateContentResponse, error]) error {
	var selIdx int32
	for chunk, err := range itr {
		if err != nil {
			return err
		}
		if len(chunk.Candidates) == 0 {
			continue
		}
		var sel *genai.Candidate
		if selIdx == 0 {
			selIdx = chunk.Candidates[0].Index
			sel = chunk.Candidates[0]
		} else {
			for _, c := range chunk.Candidates {
				if c.Index == selIdx {
					sel = c
					break
				}
			}
			if sel == nil {
				continue
			}
		}

		var sb strings.Builder
		if sel.Content != nil {
			for _, p := range sel.Content.Parts {
				if p.Text != "" && !p.Thought {
					sb.WriteString(p.Text)
				}
			}
		}
		if sb.Len() > 0 {
			if err := builder.Text(sb.String()); err != nil {
				return err
			}
		}
		switch sel.FinishReason {
		default:
			return builder.Unexpected(
				geminiConvUsage(chunk.UsageMetadata),
				fmt.Errorf("unexpected finish reason: %s", sel.FinishReason),
			)
		case genai.FinishReasonUnspecified, "":
			// continue
		case genai.FinishReasonStop:
			return builder.Done(geminiConvUsage(chunk.UsageMetadata))
		case genai.FinishReasonMaxTokens:
			return builder.Truncated(geminiConvUsage(chunk.UsageMetadata))
		case genai.FinishReasonSafety:
			var cats []string
			for _, sr := range sel.SafetyRatings {
				if sr.Blocked {
					cats = append(cats, string(sr.Category))
				}
			}
			return builder.Blocked(
				geminiConvUsage(chunk.UsageMetadata),
				"blocked by "+strings.Join(cats, ", "),
			)
		}
	}
	return errors.New("genx/gemini: unexpected end of stream: no finish reason")
}

// geminiConvMessage merges msg into last when the role repeats, Gemini
// requires alternating turns.
func geminiConvMessage(last *genai.Content, msg *Message) (*genai.Content, error) {
	var role string
	switch msg.Role {
	default:
		return nil, fmt.Errorf("genx/gemini: unexpected message role: %s", msg.Role)
	case RoleUser:
		role = "user"
	case RoleModel:
		role = "model"
	}
	var parts []*genai.Part
	for _, c := range msg.Contents {
		switch v := c.(type) {
		case Text:
			parts = append(parts, genai.NewPartFromText(string(v)))
		case *Blob:
			parts = append(parts, genai.NewPartFromBytes(v.Data, v.MIMEType))
		}
	}
	if last == nil || last.Role != role {
		return &genai.Content{
			Role:  role,
			Parts: parts,
		}, nil
	}
	last.Parts = append(last.Parts, parts...)
	return nil, nil
}

func (g *GeminiGenerator) convModelContext(mctx ModelContext) (*genai.GenerateContentConfig, []*genai.Content, error) {
	cfg := genai.GenerateContentConfig{
		SafetySettings: []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryHateSpeech,
				Threshold: genai.HarmBlockThresholdOff,
			},
			{
				Category:  genai.HarmCategoryHarassment,
				Threshold: genai.HarmBlockThresholdOff,
			},
			{
				Category:  genai.HarmCategoryDangerousContent,
				Threshold: genai.HarmBlockThresholdOff,
			},
		},
	}
	system := []*genai.Part{}
	for p := range mctx.Prompts() {
		system = append(system, genai.NewPartFromText(p.Text))
	}
	mp := g.GenerateParams
	if p := mctx.Params(); p != nil {
		mp = p
	}
	if mp != nil {
		cfg.MaxOutputTokens = int32(mp.MaxTokens)
		if mp.Temperature > 0 {
			cfg.Temperature = &mp.Temperature
		}
		if mp.TopP > 0 {
			cfg.TopP = &mp.TopP
		}
		if mp.TopK > 0 {
			cfg.TopK = &mp.TopK
		}
	}

	var (
		contents []*genai.Content
		last     *genai.Content
	)
	for msg := range mctx.Messages() {
		if msg.Role == RoleSystem {
			system = append(system, genai.NewPartFromText(msg.Text()))
			continue
		}
		content, err := geminiConvMessage(last, msg)
		if err != nil {
			return nil, nil, err
		}
		if content != nil {
			contents = append(contents, content)
			last = content
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: system}
	}
	if len(contents) == 0 {
		return nil, nil, errors.New("genx/gemini: no contents")
	}

	return &cfg, contents, nil
}

func geminiConvUsage(usage *genai.GenerateContentResponseUsageMetadata) Usage {
	if usage == nil {
		return Usage{}
	}
	return Usage{
		PromptTokenCount:        int64(usage.PromptTokenCount),
		CachedContentTokenCount: int64(usage.CachedContentTokenCount),
		GeneratedTokenCount:     int64(usage.CandidatesTokenCount),
	}
}
