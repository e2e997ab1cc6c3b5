package auth

import (
	"testing"

	"backend_customerpro/models"

	"github.com/stretchr/testify/assert"
)

func fieldIdentity(userID uint) *Identity {
	return &Identity{UserID: userID, Username: "rep", Role: models.RoleField}
}

func TestVisibilityScope(t *testing.T) {
	assert.Equal(t, VisibilityOwn, VisibilityScope(fieldIdentity(2)))
	assert.Equal(t, VisibilityAll, VisibilityScope(&Identity{UserID: 4, Role: models.RoleOffice}))
	assert.Equal(t, VisibilityAll, VisibilityScope(&Identity{UserID: 1, Role: models.RoleField, IsAdmin: true}))
	assert.Equal(t, VisibilityOwn, VisibilityScope(nil))
	// An unrecognized role without admin rights stays isolated.
	assert.Equal(t, VisibilityOwn, VisibilityScope(&Identity{UserID: 5, Role: "Praktikant"}))
}

func TestIsField(t *testing.T) {
	assert.True(t, fieldIdentity(2).IsField())
	assert.False(t, (&Identity{UserID: 4, Role: models.RoleOffice}).IsField())
	assert.False(t, (&Identity{UserID: 1, Role: models.RoleField, IsAdmin: true}).IsField())
}

func TestCanReadFieldRole(t *testing.T) {
	identity := fieldIdentity(2)

	assert.Equal(t, Allow, CanRead(identity, 2))
	assert.Equal(t, DenyForbidden, CanRead(identity, 3))
}

func TestCanWriteFieldRole(t *testing.T) {
	identity := fieldIdentity(2)

	assert.Equal(t, Allow, CanWrite(identity, 2))
	assert.Equal(t, DenyForbidden, CanWrite(identity, 3))
}

func TestOfficeAndAdminBlanketAccess(t *testing.T) {
	office := &Identity{UserID: 4, Role: models.RoleOffice}
	admin := &Identity{UserID: 1, Role: models.RoleField, IsAdmin: true}

	for _, ownerID := range []uint{1, 2, 3, 99} {
		assert.Equal(t, Allow, CanRead(office, ownerID))
		assert.Equal(t, Allow, CanWrite(office, ownerID))
		assert.Equal(t, Allow, CanRead(admin, ownerID))
		assert.Equal(t, Allow, CanWrite(admin, ownerID))
	}
}

func TestAnonymousDenied(t *testing.T) {
	assert.Equal(t, DenyUnauthenticated, CanRead(nil, 1))
	assert.Equal(t, DenyUnauthenticated, CanWrite(nil, 1))
}
