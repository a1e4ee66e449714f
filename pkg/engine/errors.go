package engine

import "fmt"

// ThreadNotFoundError reports an enqueue against a thread id the store does
// not know. It enables typed discrimination via errors.As.
type ThreadNotFoundError struct {
	ThreadID string
}

func (e *ThreadNotFoundError) Error() string {
	return fmt.Sprintf("thread %s not found", e.ThreadID)
}

// MessageNotFoundError reports a branch whose parent message id resolves to
// no thread.
type MessageNotFoundError struct {
	MessageID string
}

func (e *MessageNotFoundError) Error() string {
	return fmt.Sprintf("parent message %s not found", e.MessageID)
}
