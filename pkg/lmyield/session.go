package lmyield

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/google/uuid"

	"github.com/haivivi/lmyield/pkg/genx"
)

// DefaultMaxAttempts bounds the attempts of a Session with MaxAttempts unset.
const DefaultMaxAttempts = 8

var (
	errDeviation      = errors.New("lmyield: decoding deviation")
	errPrematureDone  = errors.New("lmyield: stream ended before all values were yielded")
	errEmptyGenerator = errors.New("lmyield: session has no generator")
)

// Session runs a Template against a generator. A Session holds no state
// between calls; concurrent calls are independent.
type Session struct {
	Generator genx.Generator
	Model     string
	Template  *Template

	// Params is passed through to the generator.
	Params *genx.ModelParams

	// MaxAttempts bounds the number of streams opened per call, the first
	// one included. Zero means DefaultMaxAttempts.
	MaxAttempts int

	Logger *slog.Logger
}

func (s *Session) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return DefaultMaxAttempts
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Generate runs the template until every instruction has yielded and returns
// the values in instruction order. On error no values are returned.
func (s *Session) Generate(ctx context.Context) ([]Yield, error) {
	var yields []Yield
	for y, err := range s.Yields(ctx) {
		if err != nil {
			return nil, err
		}
		yields = append(yields, y)
	}
	return yields, nil
}

// Yields runs the template and delivers each value as soon as it is
// confirmed. Values arrive once each, in instruction order. A failed run ends
// with a single error. Breaking out of the loop closes the active stream.
func (s *Session) Yields(ctx context.Context) iter.Seq2[Yield, error] {
	return func(yield func(Yield, error) bool) {
		if s.Generator == nil {
			yield(Yield{}, errEmptyGenerator)
			return
		}
		if s.Template == nil || len(s.Template.Instructions) == 0 {
			yield(Yield{}, ErrEmptyYield)
			return
		}
		prog, primed, err := s.Template.opening()
		if err != nil {
			yield(Yield{}, err)
			return
		}
		r := &run{
			s:      s,
			log:    s.logger().With("session", uuid.NewString(), "model", s.Model),
			instrs: s.Template.Instructions,
		}
		if err := r.loop(ctx, prog, primed, yield); err != nil {
			yield(Yield{}, err)
		}
	}
}

// run is the state of one Yields call.
type run struct {
	s         *Session
	log       *slog.Logger
	instrs    []Instruction
	confirmed []Yield
}

// errStopped signals that the consumer stopped iterating.
var errStopped = errors.New("lmyield: stopped")

func (r *run) loop(ctx context.Context, opening Program, primed string, yield func(Yield, error) bool) error {
	var last error
	limit := r.s.maxAttempts()
	for attempt := 1; attempt <= limit; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		prog := opening
		if attempt > 1 {
			next := r.instrs[len(r.confirmed)]
			prog = r.s.Template.Program.WithReplay(Checkpoint(r.confirmed, next))
			primed = next.Prior
		}
		r.log.Debug("lmyield: new stream", "attempt", attempt, "confirmed", len(r.confirmed))

		err := r.attempt(ctx, prog, primed, yield)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, errStopped):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case genx.IsPermanent(err):
			r.log.Error("lmyield: permanent generator error", "attempt", attempt, "error", err)
			return fmt.Errorf("lmyield: generate: %w", err)
		}
		last = err
		r.log.Info("lmyield: decoding deviation, restarting",
			"attempt", attempt,
			"confirmed", len(r.confirmed),
			"reason", err,
		)
	}
	return &GenerationExhaustedError{Attempts: limit, Last: last}
}

// attempt streams prog once. It returns nil when every instruction yielded,
// or the reason the attempt was abandoned.
func (r *run) attempt(ctx context.Context, prog Program, primed string, yield func(Yield, error) bool) error {
	actx, cancel := context.WithCancel(ctx)
	defer cancel()

	mctx := prog.ModelContext(r.s.Params)
	if r.log.Enabled(actx, slog.LevelDebug) {
		r.log.Debug("lmyield: request", "context", genx.InspectModelContext(mctx))
	}
	stream, err := r.s.Generator.GenerateStream(actx, r.s.Model, mctx)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(actx, func() {
		stream.Close()
	})
	defer func() {
		if stop() {
			stream.Close()
		}
	}()

	dec := NewDecoder(r.instrs[len(r.confirmed):], primed)
	for {
		chunk, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return streamEndCause(err)
		}
		if chunk == nil {
			continue
		}
		text, ok := chunk.Part.(genx.Text)
		if !ok {
			continue
		}
		ys, state := dec.Feed(string(text))
		for _, y := range ys {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.confirmed = append(r.confirmed, y)
			if !yield(y, nil) {
				return errStopped
			}
		}
		switch state {
		case Complete:
			return nil
		case Deviated:
			return errDeviation
		}
	}
}

// streamEndCause maps the terminal error of a stream that ended too early.
func streamEndCause(err error) error {
	var st *genx.State
	if errors.As(err, &st) {
		switch st.Status() {
		case genx.StatusDone:
			return errPrematureDone
		case genx.StatusError:
			return st
		default:
			return fmt.Errorf("%w: %w", errPrematureDone, st)
		}
	}
	return err
}
