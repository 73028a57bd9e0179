package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// staleUniqueIndexes lists constraints earlier schema versions enforced
// globally on fields that stopped being globally unique once the deployment
// went multi-user. Any surviving unique index over one of these keys is
// dropped at startup.
var staleUniqueIndexes = []struct {
	collection string
	keys       []string
}{
	{colUsers, []string{"coupleCode"}},
	{colSecrets, []string{"userId"}},
	{colVisitors, []string{"userId"}},
	{colDaily, []string{"date"}},
}

// adoptableCollections hold records that may predate multi-user mode and can
// be attached to the sole identity when exactly one exists.
var adoptableCollections = []string{colChats, colLetters, colMemories, colDaily}

// orphanFilter matches records written before owner references existed.
var orphanFilter = bson.M{"$or": bson.A{
	bson.M{"userId": nil},
	bson.M{"userId": bson.M{"$exists": false}},
}}

type indexSpec struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique"`
}

// Reconcile runs the one-time bootstrap: drop stale unique indexes, then
// adopt orphaned records when ownership is unambiguous. Both steps are
// best-effort; failures are logged and swallowed so a half-migrated database
// never blocks startup.
func (s *Store) Reconcile(ctx context.Context) {
	s.dropStaleIndexes(ctx)
	s.adoptOrphans(ctx)
}

func (s *Store) dropStaleIndexes(ctx context.Context) {
	for _, stale := range staleUniqueIndexes {
		col := s.db.Collection(stale.collection)

		cursor, err := col.Indexes().List(ctx)
		if err != nil {
			s.logger.Warn("reconcile: list indexes failed", "collection", stale.collection, "err", err)
			continue
		}
		var specs []indexSpec
		if err := cursor.All(ctx, &specs); err != nil {
			s.logger.Warn("reconcile: decode indexes failed", "collection", stale.collection, "err", err)
			continue
		}

		for _, spec := range specs {
			if spec.Name == "_id_" || !isStaleIndex(spec, stale.keys) {
				continue
			}
			if err := col.Indexes().DropOne(ctx, spec.Name); err != nil {
				s.logger.Warn("reconcile: drop index failed",
					"collection", stale.collection, "index", spec.Name, "err", err)
				continue
			}
			s.logger.Info("reconcile: dropped stale unique index",
				"collection", stale.collection, "index", spec.Name)
		}
	}
}

// isStaleIndex reports whether the index is unique and covers one of the
// legacy keys. Non-unique indexes over the same fields are still valid.
func isStaleIndex(spec indexSpec, staleKeys []string) bool {
	if !spec.Unique {
		return false
	}
	for _, entry := range spec.Key {
		for _, key := range staleKeys {
			if entry.Key == key {
				return true
			}
		}
	}
	return false
}

// adoptOrphans attaches unowned records to the sole identity. With zero
// identities there is nothing to attach to; with several, ownership of the
// orphans is ambiguous and deliberately left alone, but the ambiguity is
// logged so operators know it exists.
func (s *Store) adoptOrphans(ctx context.Context) {
	userCount, err := s.users().CountDocuments(ctx, bson.M{})
	if err != nil {
		s.logger.Warn("reconcile: count users failed", "err", err)
		return
	}

	if userCount != 1 {
		if userCount > 1 {
			s.warnAmbiguousOrphans(ctx, userCount)
		}
		return
	}

	users, err := s.ListUsers(ctx)
	if err != nil || len(users) == 0 {
		s.logger.Warn("reconcile: load sole user failed", "err", err)
		return
	}
	ownerID := users[0].ID

	for _, name := range adoptableCollections {
		res, err := s.db.Collection(name).UpdateMany(ctx, orphanFilter,
			bson.M{"$set": bson.M{"userId": ownerID}})
		if err != nil {
			s.logger.Warn("reconcile: orphan adoption failed", "collection", name, "err", err)
			continue
		}
		if res.ModifiedCount > 0 {
			s.logger.Info("reconcile: adopted orphaned records",
				"collection", name, "count", res.ModifiedCount, "owner", ownerID)
		}
	}
}

func (s *Store) warnAmbiguousOrphans(ctx context.Context, userCount int64) {
	var total int64
	for _, name := range adoptableCollections {
		n, err := s.db.Collection(name).CountDocuments(ctx, orphanFilter)
		if err != nil {
			continue
		}
		total += n
	}
	if total > 0 {
		s.logger.Warn("reconcile: orphaned records left unresolved, ownership ambiguous",
			"users", userCount, "orphans", total)
	}
}
