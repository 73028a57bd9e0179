package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"companion-backend/internal/domain"
)

type turnDoc struct {
	Role      string    `bson:"role"`
	Content   string    `bson:"content"`
	Timestamp time.Time `bson:"timestamp"`
}

type conversationDoc struct {
	ID        string    `bson:"_id"`
	UserID    *string   `bson:"userId"`
	SessionID string    `bson:"sessionId"`
	Messages  []turnDoc `bson:"messages"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toConversationDoc(conv *domain.Conversation) conversationDoc {
	msgs := make([]turnDoc, 0, len(conv.Turns))
	for _, t := range conv.Turns {
		msgs = append(msgs, turnDoc{Role: t.Speaker, Content: t.Text, Timestamp: t.CreatedAt})
	}
	return conversationDoc{
		ID:        conv.ID,
		UserID:    ownerPtr(conv.Owner),
		SessionID: conv.Session,
		Messages:  msgs,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}

func (d conversationDoc) toDomain() *domain.Conversation {
	turns := make([]domain.Turn, 0, len(d.Messages))
	for _, m := range d.Messages {
		turns = append(turns, domain.Turn{Speaker: m.Role, Text: m.Content, CreatedAt: m.Timestamp})
	}
	return &domain.Conversation{
		ID:        d.ID,
		Owner:     ownerRef(d.UserID),
		Session:   d.SessionID,
		Turns:     turns,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// FindConversation returns the conversation for the key, or (nil, nil) if no
// record exists.
func (s *Store) FindConversation(ctx context.Context, owner domain.OwnerRef, session string) (*domain.Conversation, error) {
	var doc conversationDoc
	err := s.chats().FindOne(ctx, conversationFilter(owner, session)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find conversation: %w", err)
	}
	return doc.toDomain(), nil
}

// SaveConversation upserts the whole conversation document in one write, so
// the human turn and its assistant turns land together.
func (s *Store) SaveConversation(ctx context.Context, conv *domain.Conversation) error {
	if conv == nil || conv.ID == "" {
		return errors.New("repository: conversation id is required")
	}
	_, err := s.chats().ReplaceOne(ctx,
		conversationFilter(conv.Owner, conv.Session),
		toConversationDoc(conv),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("repository: save conversation: %w", err)
	}
	return nil
}

// DeleteConversation removes the record for the key entirely. Deleting an
// absent conversation is not an error.
func (s *Store) DeleteConversation(ctx context.Context, owner domain.OwnerRef, session string) error {
	_, err := s.chats().DeleteOne(ctx, conversationFilter(owner, session))
	if err != nil {
		return fmt.Errorf("repository: delete conversation: %w", err)
	}
	return nil
}

// CountConversations counts conversations visible to the scope.
func (s *Store) CountConversations(ctx context.Context, scope domain.Scope) (int64, error) {
	n, err := s.chats().CountDocuments(ctx, scopeFilter(scope))
	if err != nil {
		return 0, fmt.Errorf("repository: count conversations: %w", err)
	}
	return n, nil
}

// ListConversations returns the scope's conversations, most recently active
// first.
func (s *Store) ListConversations(ctx context.Context, scope domain.Scope) ([]domain.Conversation, error) {
	cursor, err := s.chats().Find(ctx, scopeFilter(scope),
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("repository: list conversations: %w", err)
	}
	var docs []conversationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repository: decode conversations: %w", err)
	}
	out := make([]domain.Conversation, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

// DeleteConversations removes every conversation visible to the scope and
// returns how many were deleted.
func (s *Store) DeleteConversations(ctx context.Context, scope domain.Scope) (int64, error) {
	res, err := s.chats().DeleteMany(ctx, scopeFilter(scope))
	if err != nil {
		return 0, fmt.Errorf("repository: delete conversations: %w", err)
	}
	return res.DeletedCount, nil
}
