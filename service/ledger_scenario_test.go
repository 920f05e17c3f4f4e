package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CakePasha/HordaBot/events"
	"github.com/CakePasha/HordaBot/models"
)

// fakeUserRepo is an in-memory UserRepository for exercising the full
// ledger flow across services without a database.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, userID int64, username string, referrerID *int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; ok {
		return false, nil
	}
	f.users[userID] = &models.User{UserID: userID, Username: username, ReferrerID: referrerID}
	return true, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeUserRepo) GetReferrals(_ context.Context, referrerID int64) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.users {
		if u.ReferrerID != nil && *u.ReferrerID == referrerID {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) IncrementReferralCount(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return 0, ErrUserNotFound
	}
	u.ReferralsCount++
	return u.ReferralsCount, nil
}

func (f *fakeUserRepo) UpdateDiscount(_ context.Context, userID int64, discount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Discount = discount
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return false, nil
	}
	delete(f.users, userID)
	return true, nil
}

// nopPublisher discards events; the scenario asserts on stored state only.
type nopPublisher struct{}

func (nopPublisher) Emit(context.Context, events.Event) {}

func TestLedgerScenario_EndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	publisher := nopPublisher{}

	referrals := NewReferralService(repo, publisher)
	discounts := NewDiscountService(repo, publisher)
	users := NewUserService(repo)

	// A registers with no referrer
	resA, err := referrals.Register(ctx, 1, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resA.User.ReferralsCount)
	assert.Equal(t, 0.0, resA.User.Discount)

	// B registers with referrer A
	refA := int64(1)
	resB, err := referrals.Register(ctx, 2, "bob", &refA)
	require.NoError(t, err)
	require.NotNil(t, resB.User.ReferrerID)
	assert.Equal(t, int64(1), *resB.User.ReferrerID)

	a, err := users.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ReferralsCount)
	assert.Equal(t, 2.0, a.Discount)

	// Admin grants A +5
	a, err = discounts.Grant(ctx, "alice", 5)
	require.NoError(t, err)
	assert.Equal(t, 7.0, a.Discount)

	// Admin registers a purchase for B: the bonus lands on A
	b, a, err := discounts.RegisterPurchase(ctx, "bob", 25)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 17.0, a.Discount)
	assert.Equal(t, 0.0, b.Discount)

	b, err = users.GetUser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.ReferralsCount)
	assert.Equal(t, 0.0, b.Discount)

	// Admin revokes 20 from A: floored at zero
	a, err = discounts.Revoke(ctx, "alice", 20)
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.Discount)

	// Deleting A leaves B with a dangling referrer that earns nothing
	require.NoError(t, users.DeleteUser(ctx, 1))
	_, referrer, err := discounts.RegisterPurchase(ctx, "bob", 25)
	require.NoError(t, err)
	assert.Nil(t, referrer)
}
