package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/CakePasha/HordaBot/events"
)

// referralService implements the ReferralService interface
type referralService struct {
	userRepo       UserRepository
	eventPublisher EventPublisher
}

// NewReferralService creates a new referral service
func NewReferralService(userRepo UserRepository, eventPublisher EventPublisher) ReferralService {
	return &referralService{
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
	}
}

// Register creates a user record on first arrival. A second call for the
// same user ID is a no-op reporting AlreadyRegistered. A referrer ID that
// does not resolve to an existing user (or points at the arriving user
// itself) is dropped with a warning rather than failing the registration;
// the link is not retried later.
func (s *referralService) Register(ctx context.Context, userID int64, username string, referrerID *int64) (*RegistrationResult, error) {
	existing, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		log.WithField("userID", userID).Info("User already registered")
		return &RegistrationResult{User: existing, AlreadyRegistered: true}, nil
	}

	result := &RegistrationResult{}

	// Self-referral earns nothing
	if referrerID != nil && *referrerID == userID {
		referrerID = nil
	}

	if referrerID != nil {
		referrer, err := s.userRepo.GetByID(ctx, *referrerID)
		if err != nil {
			return nil, fmt.Errorf("failed to validate referrer: %w", err)
		}
		if referrer == nil {
			log.WithFields(log.Fields{
				"userID":     userID,
				"referrerID": *referrerID,
			}).Warn("Referrer does not exist, registering without referral link")
			referrerID = nil
			result.ReferrerDropped = true
		}
	}

	created, err := s.userRepo.Create(ctx, userID, username, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		// Lost a race with a concurrent registration of the same ID;
		// equivalent to the existing-user path above.
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload user: %w", err)
		}
		return &RegistrationResult{User: user, AlreadyRegistered: true}, nil
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"username":   username,
		"referrerID": referrerID,
	}).Info("Registered new user")

	if referrerID != nil {
		if err := s.creditReferrer(ctx, *referrerID, userID); err != nil {
			// The new user is already committed; surface the referrer
			// update failure without undoing the registration.
			return nil, err
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	result.User = user

	return result, nil
}

// creditReferrer bumps the referrer's counter, recomputes their tier
// discount and notifies them. The increment and the discount write are two
// independent commits: a crash in between leaves the discount one tier
// stale until the referrer's next referral recomputes it.
func (s *referralService) creditReferrer(ctx context.Context, referrerID, referredID int64) error {
	newCount, err := s.userRepo.IncrementReferralCount(ctx, referrerID)
	if err != nil {
		return fmt.Errorf("failed to increment referral count: %w", err)
	}

	newDiscount := TierDiscount(newCount)
	if err := s.userRepo.UpdateDiscount(ctx, referrerID, newDiscount); err != nil {
		return fmt.Errorf("failed to update referrer discount: %w", err)
	}

	log.WithFields(log.Fields{
		"referrerID":  referrerID,
		"newCount":    newCount,
		"newDiscount": newDiscount,
	}).Info("Credited referrer")

	s.eventPublisher.Emit(ctx, events.ReferralGainedEvent{
		ReferrerID:  referrerID,
		ReferredID:  referredID,
		NewCount:    newCount,
		NewDiscount: newDiscount,
	})

	return nil
}
