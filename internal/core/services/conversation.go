package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

// keyedQueue serialises work per key in the order it was requested.
// Each waiter holds a ticket that is released when the previous one is.
type keyedQueue struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

func newKeyedQueue() *keyedQueue {
	return &keyedQueue{tails: make(map[string]chan struct{})}
}

// acquire blocks until every earlier ticket for key is released.
// The ticket is taken before waiting, so a cancelled waiter still holds
// its place until its predecessor finishes.
func (q *keyedQueue) acquire(ctx context.Context, key string) (func(), error) {
	q.mu.Lock()
	prev := q.tails[key]
	done := make(chan struct{})
	q.tails[key] = done
	q.mu.Unlock()

	release := func() {
		q.mu.Lock()
		if q.tails[key] == done {
			delete(q.tails, key)
		}
		q.mu.Unlock()
		close(done)
	}

	if prev == nil {
		return release, nil
	}
	select {
	case <-prev:
		return release, nil
	case <-ctx.Done():
		go func() {
			<-prev
			release()
		}()
		return nil, ctx.Err()
	}
}

// TurnFunc produces the next turn from a copy of the history.
type TurnFunc func(ctx context.Context, history []domain.ConversationTurn) (domain.ConversationTurn, error)

// ConversationStore keeps a bounded window of turns per conversation id.
// Turns for one id run one at a time in the order they were requested.
type ConversationStore struct {
	mu       sync.Mutex
	maxTurns int
	history  map[string][]domain.ConversationTurn
	queue    *keyedQueue
}

// NewConversationStore creates a store keeping at most maxTurns per
// conversation. Non-positive values use domain.DefaultMaxTurns.
func NewConversationStore(maxTurns int) *ConversationStore {
	if maxTurns <= 0 {
		maxTurns = domain.DefaultMaxTurns
	}
	return &ConversationStore{
		maxTurns: maxTurns,
		history:  make(map[string][]domain.ConversationTurn),
		queue:    newKeyedQueue(),
	}
}

// Turn runs fn with the current history of id and appends the turn it
// returns. Nothing is recorded when fn fails.
func (s *ConversationStore) Turn(ctx context.Context, id string, fn TurnFunc) (domain.ConversationTurn, error) {
	release, err := s.queue.acquire(ctx, id)
	if err != nil {
		return domain.ConversationTurn{}, err
	}
	defer release()

	turn, err := fn(ctx, s.History(id))
	if err != nil {
		return domain.ConversationTurn{}, err
	}

	s.mu.Lock()
	turns := append(s.history[id], turn)
	if over := len(turns) - s.maxTurns; over > 0 {
		turns = append([]domain.ConversationTurn(nil), turns[over:]...)
	}
	s.history[id] = turns
	s.mu.Unlock()

	return turn, nil
}

// History returns a copy of the turns stored for id, oldest first.
func (s *ConversationStore) History(id string) []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ConversationTurn(nil), s.history[id]...)
}

// Len returns the number of stored turns for id.
func (s *ConversationStore) Len(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history[id])
}

// Reset forgets the history of id.
func (s *ConversationStore) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, id)
}

// MaxTurns returns the per-conversation cap.
func (s *ConversationStore) MaxTurns() int {
	return s.maxTurns
}
