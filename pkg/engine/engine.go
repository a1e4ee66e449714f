// Package engine drives response generation across the conversation tree:
// branching, the per-thread generation queue, and ancestor navigation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/SergeNasr/ai-threads/pkg/generation"
	"github.com/SergeNasr/ai-threads/pkg/thread"
)

// QueueEntry is one row of the queue status view.
type QueueEntry struct {
	ThreadID thread.ID
	Status   thread.Status
}

// Engine tracks which threads await generation and which are generating, and
// runs one generation task per queued thread when the queue drains. The
// queued and processing sets are disjoint by construction and are never
// handed out for external mutation.
type Engine struct {
	store  *thread.Store
	source generation.Source

	mu         sync.Mutex
	queued     map[thread.ID]struct{}
	processing map[thread.ID]struct{}
}

func New(store *thread.Store, source generation.Source) *Engine {
	return &Engine{
		store:      store,
		source:     source,
		queued:     map[thread.ID]struct{}{},
		processing: map[thread.ID]struct{}{},
	}
}

// Reset clears the queued and processing sets. Test isolation hook; store
// state is untouched.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queued = map[thread.ID]struct{}{}
	e.processing = map[thread.ID]struct{}{}
}

// Branch derives a new thread from the message with the given id, carrying
// the selected excerpt as branch context. An empty parentMessageID creates a
// detached thread with no parent (the "start fresh" flow).
func (e *Engine) Branch(parentMessageID thread.MessageID, selectedText string) (thread.ID, error) {
	if parentMessageID == "" {
		return e.store.CreateThread("", "", ""), nil
	}

	owner, ok := e.store.FindByMessage(parentMessageID)
	if !ok {
		return "", &MessageNotFoundError{MessageID: parentMessageID}
	}

	return e.store.CreateThread(owner.ID, selectedText, parentMessageID), nil
}

// Enqueue marks the thread as awaiting generation. Re-enqueueing a queued or
// streaming thread is a no-op; an unknown thread id is an error.
func (e *Engine) Enqueue(threadID thread.ID) error {
	t, ok := e.store.Get(threadID)
	if !ok {
		return &ThreadNotFoundError{ThreadID: threadID}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if t.Status == thread.StatusStreaming {
		return nil
	}
	if _, busy := e.processing[threadID]; busy {
		return nil
	}
	if _, waiting := e.queued[threadID]; waiting {
		return nil
	}

	e.queued[threadID] = struct{}{}
	e.store.SetStatus(threadID, thread.StatusQueued)
	return nil
}

// ProcessQueue snapshots the queued set, clears it, and runs one generation
// task per snapshotted thread concurrently. It returns after every task has
// settled; the first failure (if any) is returned, successful siblings keep
// their results either way. An empty queue returns immediately without
// touching the generation source.
func (e *Engine) ProcessQueue(ctx context.Context) error {
	e.mu.Lock()
	snapshot := make([]thread.ID, 0, len(e.queued))
	for id := range e.queued {
		snapshot = append(snapshot, id)
	}
	e.queued = map[thread.ID]struct{}{}
	e.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}

	var group errgroup.Group
	for _, id := range snapshot {
		id := id
		group.Go(func() error {
			return e.processThread(ctx, id)
		})
	}
	return group.Wait()
}

func (e *Engine) processThread(ctx context.Context, threadID thread.ID) error {
	t, ok := e.store.Get(threadID)
	if !ok {
		return nil
	}

	e.mu.Lock()
	if _, busy := e.processing[threadID]; busy {
		e.mu.Unlock()
		return nil
	}
	e.processing[threadID] = struct{}{}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.processing, threadID)
		e.mu.Unlock()
	}()

	e.store.SetStatus(threadID, thread.StatusStreaming)

	if err := e.generate(ctx, t); err != nil {
		e.store.SetStatus(threadID, thread.StatusError)
		return fmt.Errorf("generate for thread %s: %w", threadID, err)
	}

	e.store.SetStatus(threadID, thread.StatusIdle)
	return nil
}

func (e *Engine) generate(ctx context.Context, t thread.Thread) error {
	if _, ok := t.LastMessageByRole(thread.RoleUser); !ok {
		// Freshly branched thread with only inherited context: synthesize
		// the first user message before generating.
		prompt := "Please respond."
		if t.BranchContext != "" {
			prompt = fmt.Sprintf("> %s\n\nPlease respond to this context.", t.BranchContext)
		}
		e.store.AddMessage(t.ID, thread.RoleUser, prompt)

		refreshed, ok := e.store.Get(t.ID)
		if !ok {
			return nil
		}
		t = refreshed
	}

	userMessage, ok := t.LastMessageByRole(thread.RoleUser)
	if !ok {
		return errors.New("no user message found")
	}

	placeholderID := e.store.AddMessage(t.ID, thread.RoleAssistant, "")

	stream, err := e.source.Open(ctx, t.ID, userMessage.Content)
	if err != nil {
		return err
	}

	var buf []byte
	for {
		token, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		buf = append(buf, token...)
		e.store.UpdateMessage(placeholderID, string(buf))
	}
}

// QueueStatus lists queued threads followed by processing threads. Order
// within each group is unspecified (set-backed).
func (e *Engine) QueueStatus() []QueueEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := make([]QueueEntry, 0, len(e.queued)+len(e.processing))
	for id := range e.queued {
		entries = append(entries, QueueEntry{ThreadID: id, Status: thread.StatusQueued})
	}
	for id := range e.processing {
		entries = append(entries, QueueEntry{ThreadID: id, Status: thread.StatusStreaming})
	}
	return entries
}

// AncestorChain returns the thread's ancestors root-first, excluding the
// thread itself.
func (e *Engine) AncestorChain(threadID thread.ID) []thread.Thread {
	return e.store.Ancestors(threadID)
}

// ParentThread returns the immediate parent record. Absence (root thread,
// unknown id, dangling parent) is a normal outcome, not an error.
func (e *Engine) ParentThread(threadID thread.ID) (thread.Thread, bool) {
	t, ok := e.store.Get(threadID)
	if !ok || t.ParentID == "" {
		return thread.Thread{}, false
	}
	return e.store.Get(t.ParentID)
}
