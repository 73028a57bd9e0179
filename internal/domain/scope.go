package domain

import "encoding/json"

// Role is the closed set of identity roles produced by the access resolver.
// Downstream consumers switch on Role instead of re-checking token flags.
type Role int

const (
	// RoleAdmin operates unscoped and sees every identity's data.
	RoleAdmin Role = iota
	// RoleCreator owns an identity and sees only that identity's data.
	RoleCreator
	// RoleEntrant holds an entry token for a specific identity.
	RoleEntrant
	// RoleAnonymous holds a legacy entry token with no identity. It is
	// scoped to unowned records, never to the global view.
	RoleAnonymous
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleCreator:
		return "creator"
	case RoleEntrant:
		return "entrant"
	case RoleAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// OwnerRef is a tagged reference to an owning identity. The zero value means
// "no owner", which is distinct from an empty identity string; records written
// before multi-user mode carry the zero value until reconciliation adopts
// them. It marshals to the identity string or JSON null.
type OwnerRef struct {
	id  string
	set bool
}

// Owner returns a set OwnerRef for the given identity.
func Owner(id string) OwnerRef {
	return OwnerRef{id: id, set: true}
}

// NoOwner returns the unset OwnerRef.
func NoOwner() OwnerRef {
	return OwnerRef{}
}

// ID returns the identity reference and whether one is set.
func (o OwnerRef) ID() (string, bool) {
	return o.id, o.set
}

// IsSet reports whether the reference names an identity.
func (o OwnerRef) IsSet() bool {
	return o.set
}

func (o OwnerRef) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.id)
}

func (o *OwnerRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OwnerRef{}
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*o = Owner(id)
	return nil
}

// Scope is the effective access scope derived from a decoded credential.
// Admin and Anonymous scopes carry no owner; they differ in what the scope
// filter resolves to (match-all versus match-unowned).
type Scope struct {
	Role  Role
	owner OwnerRef
}

// AdminScope sees all data, unfiltered.
func AdminScope() Scope {
	return Scope{Role: RoleAdmin}
}

// CreatorScope sees only the creator's own identity partition.
func CreatorScope(subjectID string) Scope {
	return Scope{Role: RoleCreator, owner: Owner(subjectID)}
}

// EntrantScope is feature access for a specific identity. A creator and the
// entrant paired with them resolve to the same owner, so both see identical
// data: the owner key, not the credential kind, partitions the data.
func EntrantScope(subjectID string) Scope {
	return Scope{Role: RoleEntrant, owner: Owner(subjectID)}
}

// AnonymousScope is legacy single-user feature access bound to unowned records.
func AnonymousScope() Scope {
	return Scope{Role: RoleAnonymous}
}

// Owner returns the scoping key. For Admin it is unset meaning "all data";
// for Anonymous it is unset meaning "unowned data only".
func (s Scope) Owner() OwnerRef {
	return s.owner
}
