package thread

import "testing"

func TestCreateThreadStartsIdleAndEmpty(t *testing.T) {
	store := NewStore()
	id := store.CreateThread("", "", "")

	created, ok := store.Get(id)
	if !ok {
		t.Fatalf("expected created thread to exist")
	}
	if created.Status != StatusIdle {
		t.Fatalf("expected idle status, got %q", created.Status)
	}
	if len(created.Messages) != 0 {
		t.Fatalf("expected empty message sequence, got %d", len(created.Messages))
	}
	if created.ParentID != "" || created.ParentMessageID != "" || created.BranchContext != "" {
		t.Fatalf("expected blank parent fields, got %+v", created)
	}
}

func TestCreateThreadKeepsBranchFields(t *testing.T) {
	store := NewStore()
	parent := store.CreateThread("", "", "")
	msgID := store.AddMessage(parent, RoleAssistant, "origin")

	child := store.CreateThread(parent, "excerpt", msgID)
	got, ok := store.Get(child)
	if !ok {
		t.Fatalf("expected child thread to exist")
	}
	if got.ParentID != parent {
		t.Fatalf("expected parent id %s, got %s", parent, got.ParentID)
	}
	if got.ParentMessageID != msgID {
		t.Fatalf("expected parent message id %s, got %s", msgID, got.ParentMessageID)
	}
	if got.BranchContext != "excerpt" {
		t.Fatalf("expected branch context excerpt, got %q", got.BranchContext)
	}
}

func TestAddMessageAppendsInOrder(t *testing.T) {
	store := NewStore()
	id := store.CreateThread("", "", "")

	store.AddMessage(id, RoleUser, "first")
	store.AddMessage(id, RoleAssistant, "second")

	got, _ := store.Get(id)
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Content != "first" || got.Messages[1].Content != "second" {
		t.Fatalf("unexpected message order: %+v", got.Messages)
	}
	if got.Messages[0].ThreadID != id {
		t.Fatalf("expected message thread id %s, got %s", id, got.Messages[0].ThreadID)
	}
}

func TestAddMessageUnknownThreadIsNoOp(t *testing.T) {
	store := NewStore()
	msgID := store.AddMessage("missing", RoleUser, "hello")
	if msgID == "" {
		t.Fatalf("expected a generated message id even for unknown thread")
	}
	if len(store.Threads()) != 0 {
		t.Fatalf("expected no threads to be created")
	}
}

func TestUpdateMessagePreservesPosition(t *testing.T) {
	store := NewStore()
	id := store.CreateThread("", "", "")
	first := store.AddMessage(id, RoleUser, "a")
	store.AddMessage(id, RoleAssistant, "b")

	store.UpdateMessage(first, "rewritten")

	got, _ := store.Get(id)
	if got.Messages[0].ID != first {
		t.Fatalf("expected updated message to keep index 0")
	}
	if got.Messages[0].Content != "rewritten" {
		t.Fatalf("expected rewritten content, got %q", got.Messages[0].Content)
	}
	if got.Messages[1].Content != "b" {
		t.Fatalf("expected sibling message untouched, got %q", got.Messages[1].Content)
	}
}

func TestUpdateMessageUnknownIDIsNoOp(t *testing.T) {
	store := NewStore()
	id := store.CreateThread("", "", "")
	store.AddMessage(id, RoleUser, "a")

	store.UpdateMessage("missing", "x")

	got, _ := store.Get(id)
	if got.Messages[0].Content != "a" {
		t.Fatalf("expected content unchanged, got %q", got.Messages[0].Content)
	}
}

func TestSetStatusUnknownThreadIsNoOp(t *testing.T) {
	store := NewStore()
	store.SetStatus("missing", StatusError)
	if len(store.Threads()) != 0 {
		t.Fatalf("expected store to stay empty")
	}
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	store := NewStore()
	id := store.CreateThread("", "", "")
	store.AddMessage(id, RoleUser, "original")

	snapshot, _ := store.Get(id)
	snapshot.Messages[0].Content = "tampered"
	snapshot.Status = StatusError

	fresh, _ := store.Get(id)
	if fresh.Messages[0].Content != "original" {
		t.Fatalf("expected store content isolated from caller mutation, got %q", fresh.Messages[0].Content)
	}
	if fresh.Status != StatusIdle {
		t.Fatalf("expected store status isolated, got %q", fresh.Status)
	}
}

func TestAncestorsRootFirst(t *testing.T) {
	store := NewStore()
	root := store.CreateThread("", "", "")
	a := store.CreateThread(root, "", "")
	b := store.CreateThread(a, "", "")

	chain := store.Ancestors(b)
	if len(chain) != 2 {
		t.Fatalf("expected 2 ancestors, got %d", len(chain))
	}
	if chain[0].ID != root || chain[1].ID != a {
		t.Fatalf("expected [root, a], got [%s, %s]", chain[0].ID, chain[1].ID)
	}
	if len(store.Ancestors(root)) != 0 {
		t.Fatalf("expected root to have no ancestors")
	}
}

func TestAncestorsStopsAtDanglingParent(t *testing.T) {
	store := NewStore()
	orphan := store.CreateThread("gone", "", "")
	child := store.CreateThread(orphan, "", "")

	chain := store.Ancestors(child)
	if len(chain) != 1 {
		t.Fatalf("expected chain to end at dangling parent, got %d entries", len(chain))
	}
	if chain[0].ID != orphan {
		t.Fatalf("expected orphan as only ancestor, got %s", chain[0].ID)
	}
}

func TestFindByMessage(t *testing.T) {
	store := NewStore()
	first := store.CreateThread("", "", "")
	second := store.CreateThread("", "", "")
	msgID := store.AddMessage(second, RoleAssistant, "here")

	owner, ok := store.FindByMessage(msgID)
	if !ok {
		t.Fatalf("expected owner thread to be found")
	}
	if owner.ID != second {
		t.Fatalf("expected owner %s, got %s", second, owner.ID)
	}
	if _, ok := store.FindByMessage("missing"); ok {
		t.Fatalf("did not expect a match for unknown message id")
	}
	_ = first
}

func TestSeedRootCreatesWelcome(t *testing.T) {
	store := NewStore()
	root := store.SeedRoot("welcome aboard")

	got, ok := store.Get(root)
	if !ok {
		t.Fatalf("expected root thread")
	}
	if len(got.Messages) != 1 {
		t.Fatalf("expected exactly one seeded message, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != RoleAssistant {
		t.Fatalf("expected assistant welcome, got %q", got.Messages[0].Role)
	}
	if got.Messages[0].Content != "welcome aboard" {
		t.Fatalf("unexpected welcome content: %q", got.Messages[0].Content)
	}
}

func TestLastMessageByRole(t *testing.T) {
	store := NewStore()
	id := store.CreateThread("", "", "")
	store.AddMessage(id, RoleUser, "one")
	store.AddMessage(id, RoleAssistant, "reply")
	store.AddMessage(id, RoleUser, "two")

	got, _ := store.Get(id)
	last, ok := got.LastMessageByRole(RoleUser)
	if !ok {
		t.Fatalf("expected a user message")
	}
	if last.Content != "two" {
		t.Fatalf("expected most recent user message, got %q", last.Content)
	}
	if _, ok := (Thread{}).LastMessageByRole(RoleUser); ok {
		t.Fatalf("did not expect a match on an empty thread")
	}
}
