package chat

import (
	"context"
	"errors"

	"github.com/lingobuddy/backend/internal/model/chat"
)

var ErrSessionNotFound = errors.New("session not found")

// Store manages per-session transcripts and metadata. Implementations must
// be safe for concurrent use; the two turns of one exchange are appended
// atomically so concurrent exchanges on the same session can interleave
// whole exchanges but never split one.
type Store interface {
	// AppendExchange appends a user turn and the assistant reply to the
	// session, creating it (owned by userID) if it does not exist yet.
	// The owner of an existing session is never altered.
	AppendExchange(ctx context.Context, userID, sessionID, userMessage, reply string) error

	// History returns the ordered transcript for the session, scoped to the
	// owning user. An unknown (sessionID, userID) pair yields an empty
	// slice, not an error.
	History(ctx context.Context, userID, sessionID string) ([]chat.Turn, error)

	// ListSessions returns id/title pairs for the user's sessions, most
	// recently updated first.
	ListSessions(ctx context.Context, userID string) ([]chat.SessionSummary, error)

	// RenameSession sets a new title. Returns ErrSessionNotFound if no such
	// session exists.
	RenameSession(ctx context.Context, sessionID, title string) error

	// DeleteSession removes the session and its transcript. Returns
	// ErrSessionNotFound if no such session exists.
	DeleteSession(ctx context.Context, sessionID string) error
}
