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

type letterDoc struct {
	ID        string    `bson:"_id"`
	UserID    *string   `bson:"userId"`
	Style     string    `bson:"style"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d letterDoc) toDomain() domain.Letter {
	return domain.Letter{
		ID:        d.ID,
		Owner:     ownerRef(d.UserID),
		Style:     domain.LetterStyle(d.Style),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

type secretDoc struct {
	ID      string  `bson:"_id"`
	UserID  *string `bson:"userId"`
	Content string  `bson:"content"`
}

type visitorDoc struct {
	UserID    *string   `bson:"userId"`
	Count     int64     `bson:"count"`
	LastVisit time.Time `bson:"lastVisit"`
}

type dailyDoc struct {
	ID        string    `bson:"_id"`
	UserID    *string   `bson:"userId"`
	Message   string    `bson:"message"`
	Date      string    `bson:"date"`
	CreatedAt time.Time `bson:"createdAt"`
}

type userDoc struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	PartnerName   string    `bson:"partnerName,omitempty"`
	CompanionName string    `bson:"companionName,omitempty"`
	Persona       string    `bson:"persona,omitempty"`
	CreatedAt     time.Time `bson:"createdAt"`
}

// --- Letters ---

func (s *Store) SaveLetter(ctx context.Context, letter *domain.Letter) error {
	if letter == nil || letter.ID == "" {
		return errors.New("repository: letter id is required")
	}
	_, err := s.letters().InsertOne(ctx, letterDoc{
		ID:        letter.ID,
		UserID:    ownerPtr(letter.Owner),
		Style:     string(letter.Style),
		Content:   letter.Content,
		CreatedAt: letter.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("repository: save letter: %w", err)
	}
	return nil
}

func (s *Store) ListLetters(ctx context.Context, scope domain.Scope) ([]domain.Letter, error) {
	cursor, err := s.letters().Find(ctx, scopeFilter(scope),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("repository: list letters: %w", err)
	}
	var docs []letterDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repository: decode letters: %w", err)
	}
	out := make([]domain.Letter, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *Store) CountLetters(ctx context.Context, scope domain.Scope) (int64, error) {
	n, err := s.letters().CountDocuments(ctx, scopeFilter(scope))
	if err != nil {
		return 0, fmt.Errorf("repository: count letters: %w", err)
	}
	return n, nil
}

// --- Memories ---

func (s *Store) CountMemories(ctx context.Context, scope domain.Scope) (int64, error) {
	n, err := s.memories().CountDocuments(ctx, scopeFilter(scope))
	if err != nil {
		return 0, fmt.Errorf("repository: count memories: %w", err)
	}
	return n, nil
}

// --- Daily messages ---

func (s *Store) GetDailyMessage(ctx context.Context, owner domain.OwnerRef, date string) (*domain.DailyMessage, error) {
	var doc dailyDoc
	err := s.daily().FindOne(ctx, bson.M{"userId": ownerValue(owner), "date": date}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find daily message: %w", err)
	}
	return &domain.DailyMessage{
		ID:        doc.ID,
		Owner:     ownerRef(doc.UserID),
		Message:   doc.Message,
		Date:      doc.Date,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (s *Store) SaveDailyMessage(ctx context.Context, msg *domain.DailyMessage) error {
	if msg == nil || msg.ID == "" {
		return errors.New("repository: daily message id is required")
	}
	_, err := s.daily().ReplaceOne(ctx,
		bson.M{"userId": ownerValue(msg.Owner), "date": msg.Date},
		dailyDoc{
			ID:        msg.ID,
			UserID:    ownerPtr(msg.Owner),
			Message:   msg.Message,
			Date:      msg.Date,
			CreatedAt: msg.CreatedAt,
		},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("repository: save daily message: %w", err)
	}
	return nil
}

func (s *Store) CountDailyMessages(ctx context.Context, scope domain.Scope) (int64, error) {
	n, err := s.daily().CountDocuments(ctx, scopeFilter(scope))
	if err != nil {
		return 0, fmt.Errorf("repository: count daily messages: %w", err)
	}
	return n, nil
}

// --- Secret ---

func (s *Store) GetSecret(ctx context.Context, scope domain.Scope) (*domain.Secret, error) {
	var doc secretDoc
	err := s.secrets().FindOne(ctx, scopeFilter(scope)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find secret: %w", err)
	}
	return &domain.Secret{
		ID:      doc.ID,
		Owner:   ownerRef(doc.UserID),
		Content: doc.Content,
	}, nil
}

// --- Visitors ---

// VisitorStats returns the scope's visit counter. The unscoped admin view
// sums every identity's counter and reports no last visit.
func (s *Store) VisitorStats(ctx context.Context, scope domain.Scope) (domain.Visitor, error) {
	if scope.Role == domain.RoleAdmin {
		cursor, err := s.visitors().Aggregate(ctx, mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: nil},
				{Key: "total", Value: bson.D{{Key: "$sum", Value: "$count"}}},
			}}},
		})
		if err != nil {
			return domain.Visitor{}, fmt.Errorf("repository: visitor aggregate: %w", err)
		}
		var rows []struct {
			Total int64 `bson:"total"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			return domain.Visitor{}, fmt.Errorf("repository: decode visitor aggregate: %w", err)
		}
		if len(rows) == 0 {
			return domain.Visitor{}, nil
		}
		return domain.Visitor{Count: rows[0].Total}, nil
	}

	var doc visitorDoc
	err := s.visitors().FindOne(ctx, scopeFilter(scope)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Visitor{Owner: scope.Owner()}, nil
	}
	if err != nil {
		return domain.Visitor{}, fmt.Errorf("repository: find visitor: %w", err)
	}
	return domain.Visitor{
		Owner:     ownerRef(doc.UserID),
		Count:     doc.Count,
		LastVisit: doc.LastVisit,
	}, nil
}

// RecordVisit bumps the scope's counter, creating it on first visit.
func (s *Store) RecordVisit(ctx context.Context, scope domain.Scope, at time.Time) error {
	_, err := s.visitors().UpdateOne(ctx,
		bson.M{"userId": ownerValue(scope.Owner())},
		bson.M{
			"$inc": bson.M{"count": 1},
			"$set": bson.M{"lastVisit": at},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("repository: record visit: %w", err)
	}
	return nil
}

// --- Users ---

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	cursor, err := s.users().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("repository: list users: %w", err)
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repository: decode users: %w", err)
	}
	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.User{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt})
	}
	return out, nil
}

// GetUserConfig returns the identity's personalization, falling back to the
// defaults for anonymous scopes and identities that never customized
// anything.
func (s *Store) GetUserConfig(ctx context.Context, owner domain.OwnerRef) (domain.UserConfig, error) {
	id, ok := owner.ID()
	if !ok {
		return domain.DefaultUserConfig(), nil
	}

	var doc userDoc
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.DefaultUserConfig(), nil
	}
	if err != nil {
		return domain.UserConfig{}, fmt.Errorf("repository: find user config: %w", err)
	}

	cfg := domain.DefaultUserConfig()
	if doc.PartnerName != "" {
		cfg.PartnerName = doc.PartnerName
	}
	if doc.CompanionName != "" {
		cfg.CompanionName = doc.CompanionName
	}
	if doc.Persona != "" {
		cfg.Persona = doc.Persona
	}
	return cfg, nil
}

// UpdateUserConfig stores the creator's personalization. Empty fields keep
// their defaults on read rather than being rewritten here.
func (s *Store) UpdateUserConfig(ctx context.Context, owner domain.OwnerRef, cfg domain.UserConfig) error {
	id, ok := owner.ID()
	if !ok {
		return errors.New("repository: user config requires an identity")
	}
	_, err := s.users().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"partnerName":   cfg.PartnerName,
			"companionName": cfg.CompanionName,
			"persona":       cfg.Persona,
		}},
	)
	if err != nil {
		return fmt.Errorf("repository: update user config: %w", err)
	}
	return nil
}
