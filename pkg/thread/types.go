package thread

import "time"

// ID identifies a conversation thread.
type ID = string

// MessageID identifies a single message within a thread.
type MessageID = string

// Status is the UI-visible generation state of a thread.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusQueued    Status = "queued"
	StatusStreaming Status = "streaming"
	StatusError     Status = "error"
)

// Role distinguishes who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Thread is a node in the conversation tree. ParentID, ParentMessageID and
// BranchContext are empty for the root and for detached threads.
type Thread struct {
	ID              ID
	ParentID        ID
	ParentMessageID MessageID
	BranchContext   string
	Status          Status
	Messages        []Message
	CreatedAt       time.Time
}

// Message belongs to exactly one thread. Content is the only field that
// changes after creation; streaming updates overwrite it wholesale.
type Message struct {
	ID        MessageID
	ThreadID  ID
	Role      Role
	Content   string
	CreatedAt time.Time
}

// LastMessageByRole returns the most recent message with the given role,
// or false if the thread holds none.
func (t Thread) LastMessageByRole(role Role) (Message, bool) {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == role {
			return t.Messages[i], true
		}
	}
	return Message{}, false
}

func (t Thread) clone() Thread {
	copied := t
	copied.Messages = make([]Message, len(t.Messages))
	copy(copied.Messages, t.Messages)
	return copied
}
