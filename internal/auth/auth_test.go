package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"companion-backend/internal/domain"
)

var testSecret = []byte("test-secret")

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func issue(t *testing.T, claims *Claims) string {
	t.Helper()
	raw, err := sign(testSecret, claims)
	require.NoError(t, err)
	return raw
}

func decoded(t *testing.T, raw string) *Claims {
	t.Helper()
	c, err := DecodeToken(raw, testSecret, fixedNow)
	require.NoError(t, err)
	return c
}

// ---------------------------------------------------------------------------
// DecodeToken
// ---------------------------------------------------------------------------

func TestDecodeToken_RoundTrip(t *testing.T) {
	raw, err := IssueCreatorToken(testSecret, "user-1", time.Hour, fixedNow)
	require.NoError(t, err)

	c := decoded(t, raw)
	require.Equal(t, "user-1", c.SubjectID)
	require.True(t, c.IsCreator)
	require.False(t, c.IsAdmin)
}

func TestDecodeToken_Missing(t *testing.T) {
	_, err := DecodeToken("", testSecret, fixedNow)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestDecodeToken_Malformed(t *testing.T) {
	_, err := DecodeToken("not.a.jwt", testSecret, fixedNow)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestDecodeToken_BadSignature(t *testing.T) {
	raw, err := IssueAdminToken([]byte("other-secret"), time.Hour, fixedNow)
	require.NoError(t, err)

	_, err = DecodeToken(raw, testSecret, fixedNow)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestDecodeToken_Expired(t *testing.T) {
	raw, err := IssueEntryToken(testSecret, "user-1", time.Minute, fixedNow)
	require.NoError(t, err)

	later := func() time.Time { return fixedNow().Add(2 * time.Minute) }
	_, err = DecodeToken(raw, testSecret, later)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestDecodeToken_RejectsUnexpectedMethod(t *testing.T) {
	// alg=none tokens must never decode, regardless of claims.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{IsAdmin: true})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = DecodeToken(raw, testSecret, fixedNow)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

// ---------------------------------------------------------------------------
// ResolveAdminOrCreator
// ---------------------------------------------------------------------------

func TestResolveAdminOrCreator_AdminIsUnscoped(t *testing.T) {
	// Admin wins regardless of other fields present on the claims.
	cases := []*Claims{
		{IsAdmin: true},
		{IsAdmin: true, SubjectID: "user-1"},
		{IsAdmin: true, SubjectID: "user-1", IsCreator: true},
	}
	for _, c := range cases {
		scope, err := ResolveAdminOrCreator(c)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, scope.Role)
		require.False(t, scope.Owner().IsSet())
	}
}

func TestResolveAdminOrCreator_CreatorScopedToSubject(t *testing.T) {
	scope, err := ResolveAdminOrCreator(&Claims{SubjectID: "user-7", IsCreator: true})
	require.NoError(t, err)
	require.Equal(t, domain.RoleCreator, scope.Role)

	id, ok := scope.Owner().ID()
	require.True(t, ok)
	require.Equal(t, "user-7", id)
}

func TestResolveAdminOrCreator_InsufficientClaims(t *testing.T) {
	cases := []*Claims{
		{},
		// Subject without the creator flag, and the flag without a subject.
		{SubjectID: "user-1"},
		{IsCreator: true},
		{SubjectID: "", IsCreator: true},
	}
	for _, c := range cases {
		_, err := ResolveAdminOrCreator(c)
		require.ErrorIs(t, err, ErrForbidden)
	}
}

// ---------------------------------------------------------------------------
// ResolveEntry
// ---------------------------------------------------------------------------

func TestResolveEntry_WithSubject(t *testing.T) {
	scope, err := ResolveEntry(&Claims{SubjectID: "user-3"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleEntrant, scope.Role)

	id, ok := scope.Owner().ID()
	require.True(t, ok)
	require.Equal(t, "user-3", id)
}

func TestResolveEntry_NoSubjectIsAnonymousNotAdmin(t *testing.T) {
	scope, err := ResolveEntry(&Claims{})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAnonymous, scope.Role)
	require.False(t, scope.Owner().IsSet())
}

func TestResolveEntry_IgnoresRoleFlags(t *testing.T) {
	// A creator using their own entry access sees the same partition as
	// their paired entrant: the scope key is what partitions data.
	scope, err := ResolveEntry(&Claims{SubjectID: "user-3", IsCreator: true})
	require.NoError(t, err)
	require.Equal(t, domain.RoleEntrant, scope.Role)
}

// ---------------------------------------------------------------------------
// ResolveCreator
// ---------------------------------------------------------------------------

func TestResolveCreator(t *testing.T) {
	scope, err := ResolveCreator(&Claims{SubjectID: "user-9", IsCreator: true})
	require.NoError(t, err)
	require.Equal(t, domain.RoleCreator, scope.Role)

	_, err = ResolveCreator(&Claims{SubjectID: "user-9"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = ResolveCreator(&Claims{IsAdmin: true})
	require.ErrorIs(t, err, ErrForbidden)
}

// ---------------------------------------------------------------------------
// End to end: issued token through decode and resolve
// ---------------------------------------------------------------------------

func TestIssuedEntryToken_ResolvesLikeCreatorToken(t *testing.T) {
	creatorRaw, err := IssueCreatorToken(testSecret, "user-5", time.Hour, fixedNow)
	require.NoError(t, err)
	entryRaw, err := IssueEntryToken(testSecret, "user-5", time.Hour, fixedNow)
	require.NoError(t, err)

	creatorScope, err := ResolveAdminOrCreator(decoded(t, creatorRaw))
	require.NoError(t, err)
	entryScope, err := ResolveEntry(decoded(t, entryRaw))
	require.NoError(t, err)

	require.Equal(t, creatorScope.Owner(), entryScope.Owner())
}

func TestIssueCreatorToken_RequiresSubject(t *testing.T) {
	_, err := IssueCreatorToken(testSecret, "", time.Hour, fixedNow)
	require.Error(t, err)
}
