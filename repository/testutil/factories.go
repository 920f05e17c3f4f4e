package testutil

import (
	"github.com/CakePasha/HordaBot/models"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(userID int64, username string) *models.User {
	return &models.User{
		UserID:   userID,
		Username: username,
	}
}

// CreateTestUserWithReferrer creates a test user referred by another user
func CreateTestUserWithReferrer(userID int64, username string, referrerID int64) *models.User {
	user := CreateTestUser(userID, username)
	user.ReferrerID = &referrerID
	return user
}
