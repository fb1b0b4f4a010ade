package genx

import (
	"fmt"

	"github.com/haivivi/lmyield/pkg/buffer"
)

type Status int

const (
	StatusOK Status = iota
	StatusDone
	StatusTruncated
	StatusBlocked
	StatusError
)

type StreamEvent struct {
	Chunk   *MessageChunk
	Status  Status
	Usage   Usage
	Refusal string
	Error   error
}

// StreamBuilder is the producer side of a Stream. Provider pull loops Add
// chunks and finish with exactly one of Done, Truncated, Blocked, Unexpected
// or Abort.
type StreamBuilder struct {
	rb *buffer.BlockBuffer[*StreamEvent]
}

func NewStreamBuilder(size int) *StreamBuilder {
	return &StreamBuilder{
		rb: buffer.BlockN[*StreamEvent](size),
	}
}

func (sb *StreamBuilder) finish(evt *StreamEvent) error {
	if err := sb.rb.Add(evt); err != nil {
		return err
	}
	return sb.rb.CloseWrite()
}

func (sb *StreamBuilder) Done(stats Usage) error {
	return sb.finish(&StreamEvent{Status: StatusDone, Usage: stats})
}

func (sb *StreamBuilder) Truncated(stats Usage) error {
	return sb.finish(&StreamEvent{Status: StatusTruncated, Usage: stats})
}

func (sb *StreamBuilder) Blocked(stats Usage, refusal string) error {
	return sb.finish(&StreamEvent{Status: StatusBlocked, Usage: stats, Refusal: refusal})
}

func (sb *StreamBuilder) Unexpected(stats Usage, err error) error {
	return sb.finish(&StreamEvent{Status: StatusError, Usage: stats, Error: err})
}

func (sb *StreamBuilder) Add(chunks ...*MessageChunk) error {
	for _, c := range chunks {
		if err := sb.rb.Add(&StreamEvent{Chunk: c}); err != nil {
			return err
		}
	}
	return nil
}

// Text adds a model text chunk.
func (sb *StreamBuilder) Text(s string) error {
	return sb.Add(&MessageChunk{Role: RoleModel, Part: Text(s)})
}

func (sb *StreamBuilder) Abort(err error) error {
	return sb.rb.CloseWithError(err)
}

// Closed reports the error the consumer closed the stream with, if any.
func (sb *StreamBuilder) Closed() error {
	return sb.rb.Error()
}

func (sb *StreamBuilder) Stream() Stream {
	return (*streamImpl)(sb)
}

type streamImpl StreamBuilder

func (s *streamImpl) Next() (*MessageChunk, error) {
	evt, err := s.rb.Next()
	if err != nil {
		return nil, err
	}
	switch evt.Status {
	case StatusOK:
		return evt.Chunk, nil
	case StatusDone:
		err = Done(evt.Usage)
	case StatusTruncated:
		err = Truncated(evt.Usage)
	case StatusBlocked:
		err = Blocked(evt.Usage, evt.Refusal)
	case StatusError:
		err = Error(evt.Usage, evt.Error)
	default:
		err = fmt.Errorf("genx: unexpected stream status: %v", evt.Status)
	}
	s.rb.CloseWithError(err)
	return nil, err
}

func (s *streamImpl) Close() error {
	return s.rb.Close()
}

func (s *streamImpl) CloseWithError(err error) error {
	return s.rb.CloseWithError(err)
}
