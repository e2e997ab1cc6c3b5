package auth

import (
	"backend_customerpro/models"

	"gorm.io/gorm"
)

// Visibility is the list scope of an identity: everything, or only own records.
type Visibility int

const (
	VisibilityAll Visibility = iota
	VisibilityOwn
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Allow grants the operation.
	Allow Decision = iota
	// DenyUnauthenticated means no identity could be resolved.
	DenyUnauthenticated
	// DenyForbidden means the identity exists but does not own the record.
	DenyForbidden
)

// VisibilityScope decides how wide an identity may see. Admins and back office
// see everything, field representatives only their own records.
func VisibilityScope(id *Identity) Visibility {
	if id == nil || id.IsField() {
		return VisibilityOwn
	}
	if id.IsAdmin || id.Role == models.RoleOffice {
		return VisibilityAll
	}
	// Unknown role without admin rights: same isolation as a field rep.
	return VisibilityOwn
}

// CanRead decides read access to a record owned by ownerID.
func CanRead(id *Identity, ownerID uint) Decision {
	return canAccess(id, ownerID)
}

// CanWrite decides write access to a record owned by ownerID. Back office
// intentionally gets the same blanket access as admins; see DESIGN.md.
func CanWrite(id *Identity, ownerID uint) Decision {
	return canAccess(id, ownerID)
}

func canAccess(id *Identity, ownerID uint) Decision {
	if id == nil {
		return DenyUnauthenticated
	}
	if VisibilityScope(id) == VisibilityAll {
		return Allow
	}
	if id.UserID == ownerID {
		return Allow
	}
	return DenyForbidden
}

// ScopeQuery narrows a list query to the identity's visibility. Isolation is
// applied at the query level so counts and pagination never leak foreign data.
func ScopeQuery(id *Identity, query *gorm.DB) *gorm.DB {
	if id == nil {
		// Anonymous callers are handled before queries run; if one slips
		// through it must match nothing.
		return query.Where("1 = 0")
	}
	if VisibilityScope(id) == VisibilityOwn {
		return query.Where("created_by = ?", id.UserID)
	}
	return query
}
