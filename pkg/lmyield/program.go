package lmyield

import (
	"github.com/haivivi/lmyield/pkg/genx"
)

// Role is the speaker of a compiled message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var blockRoles = map[BlockKind]Role{
	KindContext:      RoleSystem,
	KindHuman:        RoleUser,
	KindGenerated:    RoleAssistant,
	KindInstructions: RoleAssistant,
}

type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Program is the ordered message list sent to the model.
type Program []Message

// CompileProgram checks the block order and maps every block except yield
// blocks to a message. It returns the program and the final yield block.
//
// The last block must be a yield block. An instructions block, if any, must
// be the one right before it.
func CompileProgram(blocks []Block) (Program, Block, error) {
	if len(blocks) == 0 || blocks[len(blocks)-1].Kind != KindYield {
		return nil, Block{}, &StructureError{Reason: "yield block must be last"}
	}
	for i, b := range blocks {
		if b.Kind == KindInstructions && i != len(blocks)-2 {
			return nil, Block{}, &StructureError{Reason: "instructions must precede yield"}
		}
	}

	prog := make(Program, 0, len(blocks)-1)
	for _, b := range blocks {
		if b.Kind == KindYield {
			continue
		}
		prog = append(prog, Message{
			Role:    blockRoles[b.Kind],
			Content: b.Content,
			Name:    b.Name,
		})
	}
	return prog, blocks[len(blocks)-1], nil
}

// WithReplay returns a copy of p whose last message ends with checkpoint,
// separated by a blank line. An empty program gets checkpoint as a single
// assistant message. p is not modified.
func (p Program) WithReplay(checkpoint string) Program {
	if checkpoint == "" {
		return p
	}
	if len(p) == 0 {
		return Program{{Role: RoleAssistant, Content: checkpoint}}
	}
	out := make(Program, len(p))
	copy(out, p)
	last := &out[len(out)-1]
	last.Content += "\n\n" + checkpoint
	return out
}

// ModelContext converts p into the message list of a generation request.
func (p Program) ModelContext(params *genx.ModelParams) genx.ModelContext {
	mcb := &genx.ModelContextBuilder{Params: params}
	for _, m := range p {
		switch m.Role {
		case RoleSystem:
			mcb.SystemText(m.Name, m.Content)
		case RoleUser:
			mcb.UserText(m.Name, m.Content)
		default:
			mcb.ModelText(m.Name, m.Content)
		}
	}
	return mcb.Build()
}
