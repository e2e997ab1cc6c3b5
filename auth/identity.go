package auth

import "backend_customerpro/models"

// Identity is a resolved caller. A nil *Identity means anonymous; resolution
// never fails with an error, absence of identity is a normal outcome.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

// IsField reports whether the identity is a field representative without
// admin rights, i.e. subject to strict data isolation.
func (id *Identity) IsField() bool {
	return !id.IsAdmin && id.Role == models.RoleField
}
