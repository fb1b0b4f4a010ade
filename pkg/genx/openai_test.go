package genx

import (
	"strings"
	"testing"
)

func testModelContext() ModelContext {
	mcb := &ModelContextBuilder{}
	mcb.PromptText("persona", "be terse")
	mcb.SystemText("", "context")
	mcb.UserText("alice", "hi")
	mcb.ModelText("", "hello")
	return mcb.Build()
}

func TestOpenAIGenerator_convModelContext(t *testing.T) {
	g := &OpenAIGenerator{Model: "gpt-test", UseSystemRole: true}
	msgs, err := g.convModelContext(testModelContext())
	if err != nil {
		t.Fatalf("convModelContext() error = %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("len = %d, want 4", len(msgs))
	}
	if msgs[0].OfSystem == nil || msgs[0].OfSystem.Name.Value != "persona" {
		t.Errorf("msgs[0] = %+v, want named system", msgs[0])
	}
	if msgs[1].OfSystem == nil {
		t.Errorf("msgs[1] = %+v, want system", msgs[1])
	}
	if msgs[2].OfUser == nil || msgs[2].OfUser.Name.Value != "alice" || msgs[2].OfUser.Content.OfString.Value != "hi" {
		t.Errorf("msgs[2] = %+v, want user alice", msgs[2])
	}
	if msgs[3].OfAssistant == nil || msgs[3].OfAssistant.Content.OfString.Value != "hello" {
		t.Errorf("msgs[3] = %+v, want assistant", msgs[3])
	}
}

func TestOpenAIGenerator_DeveloperRole(t *testing.T) {
	g := &OpenAIGenerator{Model: "gpt-test"}
	msgs := g.convSystem("", "rules")
	if len(msgs) != 1 || msgs[0].OfDeveloper == nil {
		t.Fatalf("convSystem() = %+v, want one developer message", msgs)
	}
}

func TestOpenAIGenerator_convSystem_Split(t *testing.T) {
	g := &OpenAIGenerator{UseSystemRole: true}
	text := strings.Repeat("a", oaiMaxTextContentLength+10)
	msgs := g.convSystem("", text)
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if got := len(msgs[1].OfSystem.Content.OfString.Value); got != 10 {
		t.Errorf("second chunk = %d bytes, want 10", got)
	}
}

func TestOpenAIGenerator_Errors(t *testing.T) {
	g := &OpenAIGenerator{Model: "gpt-test"}
	if _, err := g.convModelContext((&ModelContextBuilder{}).Build()); err == nil {
		t.Error("empty context should fail")
	}
	blob := &Message{Role: RoleUser, Contents: Contents{&Blob{MIMEType: "image/png"}}}
	if _, err := g.convMessage(blob); err == nil {
		t.Error("blob part should fail")
	}
	if _, err := g.convMessage(&Message{Role: "tool"}); err == nil {
		t.Error("unknown role should fail")
	}
}

func TestOpenAIGenerator_chatCompletion(t *testing.T) {
	g := &OpenAIGenerator{
		Model:          "gpt-test",
		UseSystemRole:  true,
		GenerateParams: &ModelParams{Temperature: 0.7, MaxTokens: 128},
	}
	params, err := g.chatCompletion(testModelContext())
	if err != nil {
		t.Fatalf("chatCompletion() error = %v", err)
	}
	if params.Model != "gpt-test" {
		t.Errorf("Model = %q", params.Model)
	}
	if params.MaxCompletionTokens.Value != 128 {
		t.Errorf("MaxCompletionTokens = %v, want 128", params.MaxCompletionTokens.Value)
	}
	if v := params.Temperature.Value; v < 0.69 || v > 0.71 {
		t.Errorf("Temperature = %v, want 0.7", v)
	}

	// Request params override the generator defaults.
	mcb := &ModelContextBuilder{Params: &ModelParams{MaxTokens: 16}}
	mcb.UserText("", "hi")
	params, err = g.chatCompletion(mcb.Build())
	if err != nil {
		t.Fatalf("chatCompletion() error = %v", err)
	}
	if params.MaxCompletionTokens.Value != 16 {
		t.Errorf("MaxCompletionTokens = %v, want 16", params.MaxCompletionTokens.Value)
	}
	if params.Temperature.Valid() {
		t.Errorf("Temperature should be unset, got %v", params.Temperature.Value)
	}
}
