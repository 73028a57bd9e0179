package repository

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"companion-backend/internal/domain"
)

// scopeFilter is the single enforcement point for multi-tenant isolation:
// every count, list and delete on a scoped collection goes through it. Admin
// sees everything; a set owner sees exactly that identity's records; an
// anonymous scope sees only unowned (legacy) records, which a null query
// value matches whether the field is null or missing.
func scopeFilter(scope domain.Scope) bson.M {
	if scope.Role == domain.RoleAdmin {
		return bson.M{}
	}
	if id, ok := scope.Owner().ID(); ok {
		return bson.M{"userId": id}
	}
	return bson.M{"userId": nil}
}

// conversationFilter narrows a scope filter to one session. The anonymous
// null-owner predicate applies here too: a legacy token always addresses the
// unowned conversation, never someone else's.
func conversationFilter(owner domain.OwnerRef, session string) bson.M {
	return bson.M{"userId": ownerValue(owner), "sessionId": session}
}

// ownerValue maps the tagged owner reference onto its stored form: the
// identity string, or null for unowned records.
func ownerValue(owner domain.OwnerRef) any {
	if id, ok := owner.ID(); ok {
		return id
	}
	return nil
}

// ownerRef reconstructs the tagged reference from a stored nullable field.
func ownerRef(id *string) domain.OwnerRef {
	if id == nil {
		return domain.NoOwner()
	}
	return domain.Owner(*id)
}

// ownerPtr is the inverse of ownerRef, used when writing documents.
func ownerPtr(owner domain.OwnerRef) *string {
	if id, ok := owner.ID(); ok {
		return &id
	}
	return nil
}
