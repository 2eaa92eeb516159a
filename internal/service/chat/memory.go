package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lingobuddy/backend/internal/model/chat"
)

// MemoryStore implements Store with a mutex-guarded map. It backs tests and
// local development when no MONGO_URI is configured, with the same
// upsert-or-append and scoping semantics as the Mongo store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*chat.Session)}
}

// AppendExchange creates the session on first write and appends both turns
// under one lock acquisition, mirroring the single-document upsert.
func (s *MemoryStore) AppendExchange(_ context.Context, userID, sessionID, userMessage, reply string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		session = &chat.Session{ID: sessionID, UserID: userID}
		s.sessions[sessionID] = session
	}

	session.UpdatedAt = time.Now().UTC()
	session.Messages = append(session.Messages,
		chat.Turn{Role: chat.RoleUser, Content: userMessage},
		chat.Turn{Role: chat.RoleAssistant, Content: reply},
	)
	return nil
}

// History returns a copy of the transcript for the matching (session, user)
// pair, or an empty slice when either side of the pair does not match.
func (s *MemoryStore) History(_ context.Context, userID, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return []chat.Turn{}, nil
	}

	turns := make([]chat.Turn, len(session.Messages))
	copy(turns, session.Messages)
	return turns, nil
}

// ListSessions returns the user's sessions most recently updated first.
func (s *MemoryStore) ListSessions(_ context.Context, userID string) ([]chat.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]*chat.Session, 0)
	for _, session := range s.sessions {
		if session.UserID == userID {
			owned = append(owned, session)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
	})

	summaries := make([]chat.SessionSummary, 0, len(owned))
	for _, session := range owned {
		title := session.Title
		if title == "" {
			title = chat.DefaultTitle
		}
		summaries = append(summaries, chat.SessionSummary{ID: session.ID, Title: title})
	}
	return summaries, nil
}

// RenameSession sets a new title on an existing session.
func (s *MemoryStore) RenameSession(_ context.Context, sessionID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	session.Title = title
	return nil
}

// DeleteSession removes the session and its transcript.
func (s *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}
