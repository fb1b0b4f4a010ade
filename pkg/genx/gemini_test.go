package genx

import (
	"testing"
)

func TestGeminiGenerator_convModelContext(t *testing.T) {
	g := &GeminiGenerator{Model: "gemini-test", GenerateParams: &ModelParams{Temperature: 0.5, TopK: 20, MaxTokens: 64}}

	mcb := &ModelContextBuilder{}
	mcb.PromptText("", "be terse")
	mcb.SystemText("", "context")
	mcb.UserText("", "hi")
	mcb.UserText("", "again")
	mcb.ModelText("", "hello")
	cfg, contents, err := g.convModelContext(mcb.Build())
	if err != nil {
		t.Fatalf("convModelContext() error = %v", err)
	}
	if cfg.SystemInstruction == nil || len(cfg.SystemInstruction.Parts) != 2 {
		t.Fatalf("SystemInstruction = %+v, want 2 parts", cfg.SystemInstruction)
	}
	if len(contents) != 2 {
		t.Fatalf("len(contents) = %d, want 2", len(contents))
	}
	if contents[0].Role != "user" || len(contents[0].Parts) != 2 {
		t.Errorf("contents[0] = %+v, want merged user turn", contents[0])
	}
	if contents[1].Role != "model" || contents[1].Parts[0].Text != "hello" {
		t.Errorf("contents[1] = %+v, want model turn", contents[1])
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.5 {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
	if cfg.TopK == nil || *cfg.TopK != 20 || cfg.MaxOutputTokens != 64 {
		t.Errorf("TopK = %v, MaxOutputTokens = %d", cfg.TopK, cfg.MaxOutputTokens)
	}
}

func TestGeminiGenerator_Errors(t *testing.T) {
	g := &GeminiGenerator{Model: "gemini-test"}

	mcb := &ModelContextBuilder{}
	mcb.SystemText("", "only system")
	if _, _, err := g.convModelContext(mcb.Build()); err == nil {
		t.Error("context without contents should fail")
	}
	if _, err := geminiConvMessage(nil, &Message{Role: "tool"}); err == nil {
		t.Error("unknown role should fail")
	}
}

func TestGeminiConvUsage(t *testing.T) {
	if got := geminiConvUsage(nil); got != (Usage{}) {
		t.Errorf("geminiConvUsage(nil) = %+v", got)
	}
}
