package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lingobuddy/backend/internal/model/chat"
)

const historyCollection = "chat_history"

// MongoStore persists sessions as one document per session id.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore wires the store to the chat_history collection of the given
// database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(historyCollection)}
}

// AppendExchange performs a single atomic upsert: $setOnInsert claims the
// owner on first write, $push appends both turns in order. A separate
// exists-then-insert would race with concurrent exchanges on the same id.
func (s *MongoStore) AppendExchange(ctx context.Context, userID, sessionID, userMessage, reply string) error {
	update := bson.M{
		"$setOnInsert": bson.M{"user_id": userID},
		"$set":         bson.M{"updated_at": time.Now().UTC()},
		"$push": bson.M{
			"messages": bson.M{
				"$each": []chat.Turn{
					{Role: chat.RoleUser, Content: userMessage},
					{Role: chat.RoleAssistant, Content: reply},
				},
			},
		},
	}

	if _, err := s.col.UpdateByID(ctx, sessionID, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("appending exchange to session %s: %w", sessionID, err)
	}
	return nil
}

// History looks the session up by both id and owner so one user cannot read
// another's transcript by guessing a session id. A miss is an empty
// transcript, not an error.
func (s *MongoStore) History(ctx context.Context, userID, sessionID string) ([]chat.Turn, error) {
	var doc chat.Session
	err := s.col.FindOne(ctx, bson.M{"_id": sessionID, "user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []chat.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching history for session %s: %w", sessionID, err)
	}

	if doc.Messages == nil {
		return []chat.Turn{}, nil
	}
	return doc.Messages, nil
}

// ListSessions returns the user's sessions newest-activity first.
func (s *MongoStore) ListSessions(ctx context.Context, userID string) ([]chat.SessionSummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "title": 1}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing sessions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	summaries := make([]chat.SessionSummary, 0)
	for cursor.Next(ctx) {
		var summary chat.SessionSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, fmt.Errorf("decoding session summary: %w", err)
		}
		if summary.Title == "" {
			summary.Title = chat.DefaultTitle
		}
		summaries = append(summaries, summary)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions for user %s: %w", userID, err)
	}
	return summaries, nil
}

// RenameSession sets a new title on an existing session.
func (s *MongoStore) RenameSession(ctx context.Context, sessionID, title string) error {
	result, err := s.col.UpdateByID(ctx, sessionID, bson.M{"$set": bson.M{"title": title}})
	if err != nil {
		return fmt.Errorf("renaming session %s: %w", sessionID, err)
	}
	if result.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession removes the session document and its whole transcript.
func (s *MongoStore) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": sessionID})
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}
	if result.DeletedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}
