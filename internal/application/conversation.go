package application

import (
	"sync"

	"github.com/google/uuid"

	"polyglot/internal/domain"
)

// ConversationStore is the process-wide map of conversation id to ordered
// turn history. It is the only mutable state shared across requests.
//
// Each conversation carries its own lock so that concurrent chats against
// one id append their user+assistant pairs without interleaving, while
// unrelated conversations proceed in parallel.
type ConversationStore struct {
	mu       sync.Mutex
	maxTurns int
	convs    map[string]*conversation
}

type conversation struct {
	mu    sync.Mutex
	turns []domain.Turn
}

// NewConversationStore creates an empty store. maxTurns caps the retained
// history per conversation; zero or negative means unbounded.
func NewConversationStore(maxTurns int) *ConversationStore {
	return &ConversationStore{
		maxTurns: maxTurns,
		convs:    make(map[string]*conversation),
	}
}

// getOrCreate returns the conversation for id, creating it when missing.
func (s *ConversationStore) getOrCreate(id string) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.convs[id]
	if !ok {
		c = &conversation{}
		s.convs[id] = c
	}
	return c
}

// CreateOrGet resolves a conversation id to its history. An empty id
// generates a fresh one. A caller-supplied id unknown to the store
// silently starts a new empty conversation under that id; this mirrors
// how callers continue sessions across restarts and is not an error.
func (s *ConversationStore) CreateOrGet(id string) (string, []domain.Turn) {
	if id == "" {
		id = uuid.NewString()
	}
	c := s.getOrCreate(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	return id, snapshot(c.turns)
}

// Append adds turns to the end of a conversation's history in order,
// creating the conversation if needed.
func (s *ConversationStore) Append(id string, turns ...domain.Turn) {
	c := s.getOrCreate(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = s.trim(append(c.turns, turns...))
}

// Update runs fn with a snapshot of the conversation's history and
// appends the turns fn returns, all under that conversation's lock. A
// second Update on the same id blocks until the first completes, so
// user+assistant pairs land atomically and in arrival order.
func (s *ConversationStore) Update(id string, fn func(history []domain.Turn) ([]domain.Turn, error)) error {
	c := s.getOrCreate(id)

	c.mu.Lock()
	defer c.mu.Unlock()

	added, err := fn(snapshot(c.turns))
	if err != nil {
		return err
	}
	c.turns = s.trim(append(c.turns, added...))
	return nil
}

// RecentHistory returns the last limit turns for id, oldest first. A
// limit of zero or less returns the full history. Unknown ids yield an
// empty slice without creating a conversation.
func (s *ConversationStore) RecentHistory(id string, limit int) []domain.Turn {
	s.mu.Lock()
	c, ok := s.convs[id]
	s.mu.Unlock()
	if !ok {
		return []domain.Turn{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	turns := c.turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return snapshot(turns)
}

// Clear removes a conversation and reports whether it existed.
func (s *ConversationStore) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.convs[id]
	delete(s.convs, id)
	return ok
}

// Len returns the number of live conversations.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}

// trim drops the oldest turns above the retention cap.
func (s *ConversationStore) trim(turns []domain.Turn) []domain.Turn {
	if s.maxTurns > 0 && len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	return turns
}

func snapshot(turns []domain.Turn) []domain.Turn {
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}
