package thread

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the canonical thread and message records for one process. All
// state lives in memory; mutations replace whole records under the lock so
// readers never observe a partially updated thread.
type Store struct {
	mu      sync.RWMutex
	threads map[ID]Thread
}

func NewStore() *Store {
	return &Store{threads: map[ID]Thread{}}
}

// SeedRoot creates the root thread pre-populated with a welcome message from
// the assistant and returns its id.
func (s *Store) SeedRoot(welcome string) ID {
	rootID := s.CreateThread("", "", "")
	s.AddMessage(rootID, RoleAssistant, welcome)
	return rootID
}

// CreateThread inserts a fresh idle thread and returns its id. Parent
// existence is not validated here; resolution lives in the engine's branch
// path.
func (s *Store) CreateThread(parentID ID, branchContext string, parentMessageID MessageID) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.threads[id] = Thread{
		ID:              id,
		ParentID:        parentID,
		ParentMessageID: parentMessageID,
		BranchContext:   branchContext,
		Status:          StatusIdle,
		Messages:        []Message{},
		CreatedAt:       time.Now(),
	}
	return id
}

// AddMessage appends a message to the named thread. The generated id is
// returned even when the thread does not exist; in that case the append is a
// silent no-op and callers that care must pre-validate.
func (s *Store) AddMessage(threadID ID, role Role, content string) MessageID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	t, ok := s.threads[threadID]
	if !ok {
		return id
	}

	messages := make([]Message, len(t.Messages), len(t.Messages)+1)
	copy(messages, t.Messages)
	messages = append(messages, Message{
		ID:        id,
		ThreadID:  threadID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
	t.Messages = messages
	s.threads[threadID] = t
	return id
}

// UpdateMessage overwrites the content of the message with the given id,
// preserving its position. Unknown ids are a no-op.
func (s *Store) UpdateMessage(messageID MessageID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for threadID, t := range s.threads {
		for i, msg := range t.Messages {
			if msg.ID != messageID {
				continue
			}
			messages := make([]Message, len(t.Messages))
			copy(messages, t.Messages)
			messages[i].Content = content
			t.Messages = messages
			s.threads[threadID] = t
			return
		}
	}
}

// SetStatus overwrites the thread's status. Unknown ids are a no-op.
func (s *Store) SetStatus(threadID ID, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[threadID]
	if !ok {
		return
	}
	t.Status = status
	s.threads[threadID] = t
}

// Get returns a deep copy of the thread, or false if it does not exist.
func (s *Store) Get(threadID ID) (Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threads[threadID]
	if !ok {
		return Thread{}, false
	}
	return t.clone(), true
}

// Has reports whether the thread exists.
func (s *Store) Has(threadID ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.threads[threadID]
	return ok
}

// Threads returns deep copies of every thread, oldest first.
func (s *Store) Threads() []Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Thread, 0, len(s.threads))
	for _, t := range s.threads {
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindByMessage returns the thread owning the message with the given id.
func (s *Store) FindByMessage(messageID MessageID) (Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.threads {
		for _, msg := range t.Messages {
			if msg.ID == messageID {
				return t.clone(), true
			}
		}
	}
	return Thread{}, false
}

// Ancestors walks parent links upward and returns the chain root-first,
// excluding the thread itself. A dangling parent id ends the chain; the root
// and unknown threads yield an empty chain.
func (s *Store) Ancestors(threadID ID) []Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ancestors := []Thread{}
	current, ok := s.threads[threadID]
	if !ok {
		return ancestors
	}
	for current.ParentID != "" {
		parent, ok := s.threads[current.ParentID]
		if !ok {
			break
		}
		ancestors = append([]Thread{parent.clone()}, ancestors...)
		current = parent
	}
	return ancestors
}
