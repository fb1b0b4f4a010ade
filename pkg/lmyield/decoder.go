package lmyield

import (
	"strings"
	"unicode"
)

// DecodeState is the state of a Decoder after an increment.
type DecodeState int

const (
	// MatchingPrefix: the text so far is a proper prefix of the current
	// instruction's prior literal.
	MatchingPrefix DecodeState = iota
	// CapturingValue: the prior literal matched and the closing delimiter
	// has not arrived yet.
	CapturingValue
	// Complete: every instruction has yielded.
	Complete
	// Deviated: the text stopped matching the expected literal.
	Deviated
)

func (s DecodeState) String() string {
	switch s {
	case MatchingPrefix:
		return "matching-prefix"
	case CapturingValue:
		return "capturing-value"
	case Complete:
		return "complete"
	case Deviated:
		return "deviated"
	default:
		return "unknown"
	}
}

// Decoder matches one attempt's text stream against a queue of instructions.
// It is not safe for concurrent use and is discarded after the attempt.
type Decoder struct {
	pending []Instruction
	next    int

	gen     strings.Builder
	base    int // start of the text not yet consumed by a yield
	scanned int // bytes of the current value already searched for the delimiter
	started bool
	state   DecodeState
}

// NewDecoder returns a decoder for pending. primed is text the model was
// given at the end of its prompt and is treated as already generated.
func NewDecoder(pending []Instruction, primed string) *Decoder {
	d := &Decoder{pending: pending}
	d.gen.WriteString(primed)
	if len(pending) == 0 {
		d.state = Complete
	}
	return d
}

// State returns the state after the last Feed.
func (d *Decoder) State() DecodeState {
	return d.state
}

// Current returns the instruction being decoded, or false once the decoder is
// complete.
func (d *Decoder) Current() (Instruction, bool) {
	if d.next >= len(d.pending) {
		return Instruction{}, false
	}
	return d.pending[d.next], true
}

// Feed appends delta to the generation and returns the values it confirmed,
// in instruction order. Leading whitespace of the model output is skipped.
// After Complete or Deviated further input is ignored.
func (d *Decoder) Feed(delta string) ([]Yield, DecodeState) {
	if d.state == Complete || d.state == Deviated {
		return nil, d.state
	}
	if !d.started {
		delta = strings.TrimLeftFunc(delta, unicode.IsSpace)
		if delta == "" {
			return nil, d.state
		}
		d.started = true
	}
	d.gen.WriteString(delta)

	var yields []Yield
	gen := d.gen.String()
	for d.next < len(d.pending) {
		instr := d.pending[d.next]
		partial := gen[d.base:]

		if len(partial) < len(instr.Prior) {
			if strings.HasPrefix(instr.Prior, partial) {
				d.state = MatchingPrefix
			} else {
				d.state = Deviated
			}
			return yields, d.state
		}
		if !strings.HasPrefix(partial, instr.Prior) {
			d.state = Deviated
			return yields, d.state
		}

		value := partial[len(instr.Prior):]
		idx := strings.Index(value[d.scanned:], instr.Until)
		if idx < 0 {
			// The delimiter may straddle the next increment.
			d.scanned = max(0, len(value)-len(instr.Until)+1)
			d.state = CapturingValue
			return yields, d.state
		}
		idx += d.scanned
		yields = append(yields, Yield{
			Name:        instr.Var,
			Value:       value[:idx],
			Instruction: instr,
		})
		d.base += len(instr.Prior) + idx + len(instr.Until)
		d.scanned = 0
		d.next++
	}
	d.state = Complete
	return yields, d.state
}

// Checkpoint builds the text that resumes generation after a restart: every
// confirmed value enclosed in its literals, then the prior literal of next.
func Checkpoint(confirmed []Yield, next Instruction) string {
	var sb strings.Builder
	for _, y := range confirmed {
		sb.WriteString(y.Instruction.Prior)
		sb.WriteString(y.Value)
		sb.WriteString(y.Instruction.Until)
	}
	sb.WriteString(next.Prior)
	return sb.String()
}
