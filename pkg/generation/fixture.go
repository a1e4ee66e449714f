package generation

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/SergeNasr/ai-threads/pkg/thread"
)

// Canned assistant replies, one picked per generation. Markdown on purpose:
// the timeline renders raw markdown text.
var responseTemplates = []string{
	`Let me break this down into key components:

- **Core concept**: the idea is to structure the information hierarchically
- **Primary benefit**: better organization and retrieval
- **Implementation**: start with the main topic, then branch into subtopics
- **Considerations**: mind the depth vs. breadth tradeoff

Each of these contributes to a fuller understanding of the subject.`,

	`Here's a step-by-step approach:

1. **Start with the foundation** - establish the core concepts
2. **Identify the key variables** - determine what influences the outcome
3. **Map the relationships** - see how the elements interact
4. **Test your assumptions** - validate each step before proceeding
5. **Iterate and refine** - feed results back into the approach

Working methodically keeps critical details from slipping through.`,

	`## Summary

The main points to remember:

1. **Efficiency matters** - optimize the common cases first
2. **Flexibility is key** - build for changing requirements
3. **Documentation saves time** - invest in it early

### Key takeaways
- Start simple, add complexity as needed
- Measure before optimizing
- Weigh the maintenance cost of each decision`,

	`Good question - let me expand with concrete examples.

**Example 1: e-commerce**
A product catalog is naturally hierarchical:
` + "```" + `
Electronics -> Computers -> Laptops -> Gaming Laptops
` + "```" + `

**Example 2: content management**
A blog organizes content as:
` + "```" + `
Blog -> Category -> Post -> Comments
` + "```" + `

The pattern recurs across domains; the trick is spotting the natural
hierarchy in your data.`,

	`Let's weigh the advantages and disadvantages:

### Pros
- **Improved organization**: a clear structure makes navigation intuitive
- **Better scalability**: the approach grows without becoming unwieldy
- **Easier maintenance**: changes stay localized

### Cons
- **Learning curve**: takes time to internalize
- **Initial overhead**: needs more upfront planning

On balance the benefits usually outweigh the costs beyond trivial projects.`,

	`To fully understand this, some background helps.

**Origins**: the concept goes back to early research on representing
knowledge hierarchically.

**Evolution**:
- tree structures in databases
- document object hierarchies
- component-based UI architectures
- modern state management patterns

**Today**: current implementations combine those learnings with far better
tooling.`,
}

// FixtureSource streams canned responses token by token with a configurable
// per-token delay. It stands in for a real model during development and
// demos; a zero delay makes it usable from tests.
type FixtureSource struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func NewFixtureSource(delay time.Duration, seed int64) *FixtureSource {
	return &FixtureSource{
		delay: delay,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (s *FixtureSource) Open(ctx context.Context, threadID thread.ID, prompt string) (Stream, error) {
	s.mu.Lock()
	response := responseTemplates[s.rng.Intn(len(responseTemplates))]
	s.mu.Unlock()

	return &fixtureStream{
		tokens: SplitTokens(response),
		delay:  s.delay,
	}, nil
}

type fixtureStream struct {
	tokens []string
	pos    int
	delay  time.Duration
}

func (st *fixtureStream) Next(ctx context.Context) (string, error) {
	if st.pos >= len(st.tokens) {
		return "", io.EOF
	}
	if st.delay > 0 {
		timer := time.NewTimer(st.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	token := st.tokens[st.pos]
	st.pos++
	return token, nil
}

// SplitTokens splits text on whitespace boundaries while keeping the
// delimiters, so concatenating the tokens reproduces the input exactly.
func SplitTokens(text string) []string {
	tokens := []string{}
	start := 0
	inSpace := false
	for i, r := range text {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if i == 0 {
			inSpace = isSpace
			continue
		}
		if isSpace != inSpace {
			tokens = append(tokens, text[start:i])
			start = i
			inSpace = isSpace
		}
	}
	if start < len(text) {
		tokens = append(tokens, text[start:])
	}
	return tokens
}
