// Package genx is the model transport layer of lmyield: a provider-neutral
// streaming interface over chat-style language models.
//
// # Core Types
//
// A ModelContext describes the request: system prompts, an ordered list of
// role-tagged messages and sampling parameters. A Generator turns a
// ModelContext into a Stream:
//
//	type Generator interface {
//	    GenerateStream(ctx context.Context, model string, mctx ModelContext) (Stream, error)
//	}
//
// A Stream is pulled one MessageChunk at a time:
//
//	type Stream interface {
//	    Next() (*MessageChunk, error)
//	    Close() error
//	    CloseWithError(error) error
//	}
//
// Next ends with a *State error describing why the provider stopped:
// ErrDone (errors.Is) for a normal stop, or a truncated, blocked or error
// status. Closing a stream from the consumer side aborts the pull goroutine.
//
// # Providers
//
//   - OpenAIGenerator: OpenAI-compatible chat completions (openai-go)
//   - GeminiGenerator: Google Gemini (google.golang.org/genai)
//
// Providers are registered by name in genx/generators and configured from
// files by genx/modelloader.
package genx
