package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"companion-backend/internal/domain"
)

func TestScopeFilter(t *testing.T) {
	cases := []struct {
		name  string
		scope domain.Scope
		want  bson.M
	}{
		{
			name:  "admin matches everything",
			scope: domain.AdminScope(),
			want:  bson.M{},
		},
		{
			name:  "creator scoped to own identity",
			scope: domain.CreatorScope("user-1"),
			want:  bson.M{"userId": "user-1"},
		},
		{
			name:  "entrant scoped to identity",
			scope: domain.EntrantScope("user-2"),
			want:  bson.M{"userId": "user-2"},
		},
		{
			name:  "anonymous scoped to unowned records, not everything",
			scope: domain.AnonymousScope(),
			want:  bson.M{"userId": nil},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, scopeFilter(tc.scope))
		})
	}
}

func TestScopeFilter_DistinctKeysNeverOverlap(t *testing.T) {
	a := scopeFilter(domain.EntrantScope("A"))
	b := scopeFilter(domain.EntrantScope("B"))
	require.NotEqual(t, a["userId"], b["userId"])
}

func TestConversationFilter(t *testing.T) {
	require.Equal(t,
		bson.M{"userId": "user-1", "sessionId": "default"},
		conversationFilter(domain.Owner("user-1"), "default"))

	require.Equal(t,
		bson.M{"userId": nil, "sessionId": "late-night"},
		conversationFilter(domain.NoOwner(), "late-night"))
}

func TestOwnerRoundTrip(t *testing.T) {
	set := domain.Owner("user-9")
	require.Equal(t, set, ownerRef(ownerPtr(set)))
	require.Equal(t, domain.NoOwner(), ownerRef(ownerPtr(domain.NoOwner())))
	require.Nil(t, ownerPtr(domain.NoOwner()))
	require.Equal(t, "user-9", ownerValue(set))
	require.Nil(t, ownerValue(domain.NoOwner()))
}
