package genx

import (
	"iter"
)

var _ ModelContext = (*modelContext)(nil)

type ModelContextBuilder struct {
	Prompts  []*Prompt
	Messages []*Message

	Params *ModelParams
}

func (mcb *ModelContextBuilder) Build() ModelContext {
	return &modelContext{
		prompts:  mcb.Prompts,
		messages: mcb.Messages,
		params:   mcb.Params,
	}
}

func (mcb *ModelContextBuilder) lastPrompt() (*Prompt, bool) {
	if len(mcb.Prompts) == 0 {
		return nil, false
	}
	return mcb.Prompts[len(mcb.Prompts)-1], true
}

// AddPrompt appends prompt, joining it onto the previous prompt when both
// share a name.
func (mcb *ModelContextBuilder) AddPrompt(prompt *Prompt) {
	if p, ok := mcb.lastPrompt(); ok && p.Name == prompt.Name {
		if p.Text != "" {
			p.Text += "\n" + prompt.Text
		} else {
			p.Text = prompt.Text
		}
		return
	}
	mcb.Prompts = append(mcb.Prompts, prompt)
}

func (mcb *ModelContextBuilder) PromptText(name, text string) {
	mcb.AddPrompt(&Prompt{
		Name: name,
		Text: text,
	})
}

// AddMessage appends msg as its own turn. Consecutive messages of the same
// role are kept apart.
func (mcb *ModelContextBuilder) AddMessage(msg *Message) {
	mcb.Messages = append(mcb.Messages, msg)
}

func (mcb *ModelContextBuilder) SystemText(name, text string) {
	mcb.AddMessage(&Message{
		Role:     RoleSystem,
		Name:     name,
		Contents: Contents{Text(text)},
	})
}

func (mcb *ModelContextBuilder) UserText(name, text string) {
	mcb.AddMessage(&Message{
		Role:     RoleUser,
		Name:     name,
		Contents: Contents{Text(text)},
	})
}

func (mcb *ModelContextBuilder) ModelText(name, text string) {
	mcb.AddMessage(&Message{
		Role:     RoleModel,
		Name:     name,
		Contents: Contents{Text(text)},
	})
}

type modelContext struct {
	prompts  []*Prompt
	messages []*Message

	params *ModelParams
}

func (mctx *modelContext) Prompts() iter.Seq[*Prompt] {
	return func(yield func(*Prompt) bool) {
		for _, prompt := range mctx.prompts {
			if !yield(prompt) {
				return
			}
		}
	}
}

func (mctx *modelContext) Messages() iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		for _, message := range mctx.messages {
			if !yield(message) {
				return
			}
		}
	}
}

func (mctx *modelContext) Params() *ModelParams {
	return mctx.params
}
