package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CakePasha/HordaBot/events"
	"github.com/CakePasha/HordaBot/models"
)

func int64Ptr(v int64) *int64 { return &v }

func TestReferralService_Register_NewUserNoReferrer(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)
	svc := NewReferralService(mockRepo, mockPublisher)

	created := &models.User{UserID: 100, Username: "alice"}

	mockRepo.On("GetByID", ctx, int64(100)).Return(nil, nil).Once()
	mockRepo.On("Create", ctx, int64(100), "alice", (*int64)(nil)).Return(true, nil)
	mockRepo.On("GetByID", ctx, int64(100)).Return(created, nil).Once()

	result, err := svc.Register(ctx, 100, "alice", nil)

	assert.NoError(t, err)
	assert.Equal(t, created, result.User)
	assert.False(t, result.AlreadyRegistered)
	assert.False(t, result.ReferrerDropped)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "IncrementReferralCount")
	mockPublisher.AssertNotCalled(t, "Emit")
}

func TestReferralService_Register_Idempotent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)
	svc := NewReferralService(mockRepo, mockPublisher)

	existing := &models.User{UserID: 100, Username: "alice", ReferralsCount: 3, Discount: 6}

	mockRepo.On("GetByID", ctx, int64(100)).Return(existing, nil)

	result, err := svc.Register(ctx, 100, "alice", int64Ptr(200))

	assert.NoError(t, err)
	assert.True(t, result.AlreadyRegistered)
	assert.Equal(t, existing, result.User)

	// No mutation of any kind on a repeat registration
	mockRepo.AssertNotCalled(t, "Create")
	mockRepo.AssertNotCalled(t, "IncrementReferralCount")
	mockRepo.AssertNotCalled(t, "UpdateDiscount")
	mockPublisher.AssertNotCalled(t, "Emit")
}

func TestReferralService_Register_ValidReferrer(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)
	svc := NewReferralService(mockRepo, mockPublisher)

	referrer := &models.User{UserID: 200, Username: "bob"}
	created := &models.User{UserID: 100, Username: "alice", ReferrerID: int64Ptr(200)}

	mockRepo.On("GetByID", ctx, int64(100)).Return(nil, nil).Once()
	mockRepo.On("GetByID", ctx, int64(200)).Return(referrer, nil)
	mockRepo.On("Create", ctx, int64(100), "alice", int64Ptr(200)).Return(true, nil)
	mockRepo.On("IncrementReferralCount", ctx, int64(200)).Return(int64(1), nil)
	mockRepo.On("UpdateDiscount", ctx, int64(200), 2.0).Return(nil)
	mockPublisher.On("Emit", ctx, mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.ReferralGainedEvent)
		return ok && ev.ReferrerID == 200 && ev.ReferredID == 100 &&
			ev.NewCount == 1 && ev.NewDiscount == 2.0
	})).Return()
	mockRepo.On("GetByID", ctx, int64(100)).Return(created, nil).Once()

	result, err := svc.Register(ctx, 100, "alice", int64Ptr(200))

	assert.NoError(t, err)
	assert.False(t, result.AlreadyRegistered)
	assert.False(t, result.ReferrerDropped)
	assert.Equal(t, created, result.User)

	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestReferralService_Register_ReferrerNotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)
	svc := NewReferralService(mockRepo, mockPublisher)

	created := &models.User{UserID: 100, Username: "alice"}

	mockRepo.On("GetByID", ctx, int64(100)).Return(nil, nil).Once()
	mockRepo.On("GetByID", ctx, int64(999)).Return(nil, nil)
	// The link is dropped: create proceeds with a nil referrer
	mockRepo.On("Create", ctx, int64(100), "alice", (*int64)(nil)).Return(true, nil)
	mockRepo.On("GetByID", ctx, int64(100)).Return(created, nil).Once()

	result, err := svc.Register(ctx, 100, "alice", int64Ptr(999))

	assert.NoError(t, err)
	assert.True(t, result.ReferrerDropped)
	assert.False(t, result.AlreadyRegistered)
	assert.Equal(t, created, result.User)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "IncrementReferralCount")
	mockPublisher.AssertNotCalled(t, "Emit")
}

func TestReferralService_Register_SelfReferralIgnored(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)
	svc := NewReferralService(mockRepo, mockPublisher)

	created := &models.User{UserID: 100, Username: "alice"}

	mockRepo.On("GetByID", ctx, int64(100)).Return(nil, nil).Once()
	mockRepo.On("Create", ctx, int64(100), "alice", (*int64)(nil)).Return(true, nil)
	mockRepo.On("GetByID", ctx, int64(100)).Return(created, nil).Once()

	result, err := svc.Register(ctx, 100, "alice", int64Ptr(100))

	assert.NoError(t, err)
	assert.False(t, result.ReferrerDropped)
	assert.Nil(t, result.User.ReferrerID)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "IncrementReferralCount")
}

func TestReferralService_Register_CreateRace(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)
	svc := NewReferralService(mockRepo, mockPublisher)

	winner := &models.User{UserID: 100, Username: "alice"}

	// Record appears between the existence check and the insert
	mockRepo.On("GetByID", ctx, int64(100)).Return(nil, nil).Once()
	mockRepo.On("Create", ctx, int64(100), "alice", (*int64)(nil)).Return(false, nil)
	mockRepo.On("GetByID", ctx, int64(100)).Return(winner, nil).Once()

	result, err := svc.Register(ctx, 100, "alice", nil)

	assert.NoError(t, err)
	assert.True(t, result.AlreadyRegistered)
	assert.Equal(t, winner, result.User)

	mockRepo.AssertNotCalled(t, "IncrementReferralCount")
}

func TestReferralService_Register_TierCapAfterManyReferrals(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)
	svc := NewReferralService(mockRepo, mockPublisher)

	referrer := &models.User{UserID: 200, Username: "bob", ReferralsCount: 29}
	created := &models.User{UserID: 100, Username: "alice", ReferrerID: int64Ptr(200)}

	mockRepo.On("GetByID", ctx, int64(100)).Return(nil, nil).Once()
	mockRepo.On("GetByID", ctx, int64(200)).Return(referrer, nil)
	mockRepo.On("Create", ctx, int64(100), "alice", int64Ptr(200)).Return(true, nil)
	mockRepo.On("IncrementReferralCount", ctx, int64(200)).Return(int64(30), nil)
	// 30 referrals is past the cap: the recomputed discount stays at 50
	mockRepo.On("UpdateDiscount", ctx, int64(200), 50.0).Return(nil)
	mockPublisher.On("Emit", ctx, mock.Anything).Return()
	mockRepo.On("GetByID", ctx, int64(100)).Return(created, nil).Once()

	_, err := svc.Register(ctx, 100, "alice", int64Ptr(200))

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestReferralService_Register_RepoError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)
	svc := NewReferralService(mockRepo, mockPublisher)

	mockRepo.On("GetByID", ctx, int64(100)).Return(nil, errors.New("database error"))

	result, err := svc.Register(ctx, 100, "alice", nil)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to check existing user")
}
