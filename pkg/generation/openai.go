package generation

import (
	"context"
	"io"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/SergeNasr/ai-threads/pkg/thread"
)

// OpenAISource backs the generation contract with a real model through
// langchaingo. Credentials come from the environment (OPENAI_API_KEY).
type OpenAISource struct {
	llm llms.Model
}

func NewOpenAISource(model string) (*OpenAISource, error) {
	llm, err := openai.New(openai.WithModel(model))
	if err != nil {
		return nil, err
	}
	return &OpenAISource{llm: llm}, nil
}

func (s *OpenAISource) Open(ctx context.Context, threadID thread.ID, prompt string) (Stream, error) {
	st := &llmStream{
		tokens: make(chan string),
		done:   make(chan error, 1),
	}

	go func() {
		_, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt,
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				select {
				case st.tokens <- string(chunk):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		)
		st.done <- err
		close(st.tokens)
	}()

	return st, nil
}

type llmStream struct {
	tokens chan string
	done   chan error
	err    error
	ended  bool
}

func (st *llmStream) Next(ctx context.Context) (string, error) {
	if st.ended {
		if st.err != nil {
			return "", st.err
		}
		return "", io.EOF
	}
	select {
	case token, ok := <-st.tokens:
		if !ok {
			st.ended = true
			st.err = <-st.done
			if st.err != nil {
				return "", st.err
			}
			return "", io.EOF
		}
		return token, nil
	case <-ctx.Done():
		st.ended = true
		st.err = ctx.Err()
		return "", st.err
	}
}
