package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"backend_customerpro/models"
	"backend_customerpro/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashedAndUnique(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	admin := testutils.CreateTestUser(t, db, "admin", "42", models.RoleField, true)

	body := map[string]interface{}{"username": "neu", "password": "geheim", "role": models.RoleOffice}
	w := doRequest(router, "POST", "/api/users", body, &admin)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.User
	require.NoError(t, db.Where("username = ?", "neu").First(&created).Error)
	assert.Equal(t, models.RoleOffice, created.Role)
	// Stored hashed, never as submitted.
	assert.NotEqual(t, "geheim", created.Password)
	assert.Contains(t, created.Password, "$")
	// And never serialized.
	assert.NotContains(t, w.Body.String(), created.Password)

	// Duplicate username conflicts.
	w = doRequest(router, "POST", "/api/users", body, &admin)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)

	body := map[string]interface{}{"username": "neu", "password": "geheim"}
	w := doRequest(router, "POST", "/api/users", body, &paul)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, "POST", "/api/users", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteUserProtectedAdmin(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	// id 1 is the protected system admin.
	admin := testutils.CreateTestUser(t, db, "admin", "42", models.RoleField, true)
	require.Equal(t, uint(1), admin.ID)
	second := testutils.CreateTestUser(t, db, "chef", "chef123", models.RoleField, true)

	// Not even the admin itself may delete id 1.
	w := doRequest(router, "DELETE", "/api/users/1", nil, &admin)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, "DELETE", "/api/users/1", nil, &second)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = 1").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Other users can be deleted.
	w = doRequest(router, "DELETE", fmt.Sprintf("/api/users/%d", second.ID), nil, &admin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListUsersHidesPasswords(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)

	w := doRequest(router, "GET", "/api/users", nil, &paul)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeList(t, w), 1)
	assert.False(t, strings.Contains(w.Body.String(), "password"))
	assert.False(t, strings.Contains(w.Body.String(), "paul123"))
}

func TestListUsersAnonymousEmpty(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)
	testutils.CreateTestUser(t, db, "thomas", "thomas123", models.RoleField, false)

	// The directory would hand out exactly the id/username pairs the header
	// fallback trusts; without an identity it stays empty.
	w := doRequest(router, "GET", "/api/users", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 0)
	assert.False(t, strings.Contains(w.Body.String(), "paul"))
}

func TestFieldUserDataSnapshot(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)
	maria := testutils.CreateTestUser(t, db, "maria", "maria123", models.RoleOffice, false)
	thomas := testutils.CreateTestUser(t, db, "thomas", "thomas123", models.RoleField, false)

	customer := testutils.CreateTestCustomer(t, db, paul.ID, "P001", "Pauls Kunde GmbH")
	require.NoError(t, db.Create(&models.ConstructionSite{CustomerID: customer.ID, Name: "Bau", Address: "Weg", CreatedBy: paul.ID}).Error)
	require.NoError(t, db.Create(&models.Tour{Title: "Aktiv", CreatedBy: paul.ID}).Error)
	require.NoError(t, db.Create(&models.Tour{Title: "Archiv", CreatedBy: paul.ID, Archived: true}).Error)

	// Back office gets the full snapshot keyed to the target user.
	w := doRequest(router, "GET", fmt.Sprintf("/api/users/aussendienst/%d/data", paul.ID), nil, &maria)
	require.Equal(t, http.StatusOK, w.Code)
	snapshot := decodeObject(t, w)
	assert.Len(t, snapshot["customers"], 1)
	assert.Len(t, snapshot["active_tours"], 1)
	assert.Len(t, snapshot["archived_tours"], 1)
	assert.Len(t, snapshot["construction_sites"], 1)

	// A field rep gets the empty snapshot, with success.
	w = doRequest(router, "GET", fmt.Sprintf("/api/users/aussendienst/%d/data", paul.ID), nil, &thomas)
	require.Equal(t, http.StatusOK, w.Code)
	snapshot = decodeObject(t, w)
	assert.Len(t, snapshot["customers"], 0)

	// Unknown target: still the empty snapshot, existence never leaks.
	w = doRequest(router, "GET", "/api/users/aussendienst/9999/data", nil, &maria)
	require.Equal(t, http.StatusOK, w.Code)
	snapshot = decodeObject(t, w)
	assert.Len(t, snapshot["customers"], 0)

	// Anonymous: same.
	w = doRequest(router, "GET", fmt.Sprintf("/api/users/aussendienst/%d/data", paul.ID), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
