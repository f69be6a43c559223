package services

import (
	"fmt"
	"testing"

	"inkwell/internal/db"
	"inkwell/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory database with the full
// schema migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func createPost(t *testing.T, gdb *gorm.DB, author *models.User, text string) *models.Post {
	t.Helper()

	post := models.Post{UserID: author.ID, Text: text}
	require.NoError(t, gdb.Create(&post).Error)
	return &post
}
