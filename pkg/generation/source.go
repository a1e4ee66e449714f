// Package generation defines the token-source contract the scheduler consumes
// and the backends that satisfy it.
package generation

import (
	"context"

	"github.com/SergeNasr/ai-threads/pkg/thread"
)

// Source opens an ordered, finite, asynchronous token stream for a
// (thread, prompt) pair. A backend may fail at open time or at any point
// during iteration; the scheduler propagates either failure.
type Source interface {
	Open(ctx context.Context, threadID thread.ID, prompt string) (Stream, error)
}

// Stream yields tokens one at a time in source order. Next returns io.EOF
// once the stream is exhausted; any other error aborts the sequence.
type Stream interface {
	Next(ctx context.Context) (string, error)
}
