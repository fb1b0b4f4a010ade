package genx

import (
	"strings"
)

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
	RoleModel  Role = "model"
)

var (
	_ Part = (*Blob)(nil)
	_ Part = (*Text)(nil)
)

type MessageChunk struct {
	Role Role
	Name string
	Part Part
}

type Message struct {
	Role     Role
	Name     string
	Contents Contents
}

// Text concatenates the text parts of the message.
func (m *Message) Text() string {
	var sb strings.Builder
	for _, p := range m.Contents {
		if t, ok := p.(Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

type Role string

func (r Role) String() string {
	return string(r)
}

type Contents []Part

type Part interface {
	isPart()
}

type Blob struct {
	MIMEType string
	Data     []byte
}

func (*Blob) isPart() {}

type Text string

func (Text) isPart() {}
