package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CakePasha/HordaBot/models"
)

func TestUserService_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)

	user, err := svc.GetUser(ctx, 42)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_GetUserStats(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	owner := &models.User{UserID: 1, Username: "alice", ReferralsCount: 2, Discount: 4}
	invited := []*models.User{
		{UserID: 2, Username: "bob", ReferrerID: int64Ptr(1)},
		{UserID: 3, Username: "", ReferrerID: int64Ptr(1)},
	}

	mockRepo.On("GetByUsername", ctx, "alice").Return(owner, nil)
	mockRepo.On("GetReferrals", ctx, int64(1)).Return(invited, nil)

	user, referrals, err := svc.GetUserStats(ctx, "alice")

	assert.NoError(t, err)
	assert.Equal(t, owner, user)
	assert.Len(t, referrals, 2)
}

func TestUserService_GetUserStats_UnknownUsername(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	mockRepo.On("GetByUsername", ctx, "ghost").Return(nil, nil)

	_, _, err := svc.GetUserStats(ctx, "ghost")

	assert.ErrorIs(t, err, ErrUserNotFound)
	mockRepo.AssertNotCalled(t, "GetReferrals")
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	mockRepo.On("Delete", ctx, int64(42)).Return(true, nil)

	assert.NoError(t, svc.DeleteUser(ctx, 42))
	mockRepo.AssertExpectations(t)
}

func TestUserService_DeleteUser_Missing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	mockRepo.On("Delete", ctx, int64(42)).Return(false, nil)

	assert.ErrorIs(t, svc.DeleteUser(ctx, 42), ErrUserNotFound)
}

func TestUserService_ListUsers_Error(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo)

	mockRepo.On("GetAll", ctx).Return(nil, errors.New("database error"))

	users, err := svc.ListUsers(ctx)

	assert.Nil(t, users)
	assert.Error(t, err)
}
