package chat

import "time"

// Session is the persisted document for one user-owned conversation.
// The session identifier doubles as the document key.
type Session struct {
	ID        string    `json:"session_id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	Messages  []Turn    `json:"messages" bson:"messages"`
}

// DefaultTitle is used for sessions that were never explicitly named.
const DefaultTitle = "Untitled Session"

// SessionSummary is the projection returned by session listings.
type SessionSummary struct {
	ID    string `json:"session_id" bson:"_id"`
	Title string `json:"title" bson:"title,omitempty"`
}
