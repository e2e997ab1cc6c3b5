package testutils

import (
	"testing"

	"backend_customerpro/auth"
	"backend_customerpro/database"
	"backend_customerpro/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory sqlite database with the full schema.
// All tests should go through this to keep the migrations consistent.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateTestUser inserts a user with a hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB, username, password, role string, isAdmin bool) models.User {
	t.Helper()

	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Username: username, Password: hashed, Role: role, IsAdmin: isAdmin}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateTestCustomer inserts a customer owned by the given user.
func CreateTestCustomer(t *testing.T, db *gorm.DB, ownerID uint, number, name string) models.Customer {
	t.Helper()

	customer := models.Customer{CustomerNumber: number, Name: name, CreatedBy: ownerID}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}
