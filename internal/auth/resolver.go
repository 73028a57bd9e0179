package auth

import (
	"fmt"

	"companion-backend/internal/domain"
)

// ResolveAdminOrCreator classifies claims for the administrative route
// family. Admin tokens operate unscoped; creator tokens are scoped to their
// own identity so a creator's dashboard shows only their data.
func ResolveAdminOrCreator(c *Claims) (domain.Scope, error) {
	if c == nil {
		return domain.Scope{}, ErrInvalidCredential
	}
	if c.IsAdmin {
		return domain.AdminScope(), nil
	}
	if c.SubjectID != "" && c.IsCreator {
		return domain.CreatorScope(c.SubjectID), nil
	}
	return domain.Scope{}, fmt.Errorf("%w: not an admin or creator token", ErrForbidden)
}

// ResolveEntry classifies claims for the feature route family. Any validly
// decoded entry credential is accepted; only credential validity gates entry,
// never role flags. Tokens without a subject resolve to the anonymous scope
// of legacy single-user deployments.
func ResolveEntry(c *Claims) (domain.Scope, error) {
	if c == nil {
		return domain.Scope{}, ErrInvalidCredential
	}
	if c.SubjectID != "" {
		return domain.EntrantScope(c.SubjectID), nil
	}
	return domain.AnonymousScope(), nil
}

// ResolveCreator classifies claims for identity-management routes, which
// admit only the owning creator.
func ResolveCreator(c *Claims) (domain.Scope, error) {
	if c == nil {
		return domain.Scope{}, ErrInvalidCredential
	}
	if c.SubjectID == "" || !c.IsCreator {
		return domain.Scope{}, fmt.Errorf("%w: not a creator token", ErrForbidden)
	}
	return domain.CreatorScope(c.SubjectID), nil
}
