package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/CakePasha/HordaBot/events"
	"github.com/CakePasha/HordaBot/models"
)

// discountService implements the DiscountService interface
type discountService struct {
	userRepo       UserRepository
	eventPublisher EventPublisher
}

// NewDiscountService creates a new discount service
func NewDiscountService(userRepo UserRepository, eventPublisher EventPublisher) DiscountService {
	return &discountService{
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
	}
}

// Grant adds amount to the named user's discount. Uncapped: administrators
// may push a discount past the tier ceiling.
func (s *discountService) Grant(ctx context.Context, username string, amount float64) (*models.User, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	newDiscount := ApplyGrant(user.Discount, amount)
	if err := s.userRepo.UpdateDiscount(ctx, user.UserID, newDiscount); err != nil {
		return nil, fmt.Errorf("failed to grant discount: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":      user.UserID,
		"amount":      amount,
		"newDiscount": newDiscount,
	}).Info("Granted discount")

	s.eventPublisher.Emit(ctx, events.DiscountGrantedEvent{
		UserID:      user.UserID,
		Amount:      amount,
		NewDiscount: newDiscount,
	})

	user.Discount = newDiscount
	return user, nil
}

// Revoke subtracts amount from the named user's discount, floored at zero.
func (s *discountService) Revoke(ctx context.Context, username string, amount float64) (*models.User, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	newDiscount := ApplyRevoke(user.Discount, amount)
	if err := s.userRepo.UpdateDiscount(ctx, user.UserID, newDiscount); err != nil {
		return nil, fmt.Errorf("failed to revoke discount: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":      user.UserID,
		"amount":      amount,
		"newDiscount": newDiscount,
	}).Info("Revoked discount")

	s.eventPublisher.Emit(ctx, events.DiscountRevokedEvent{
		UserID:      user.UserID,
		Amount:      amount,
		NewDiscount: newDiscount,
	})

	user.Discount = newDiscount
	return user, nil
}

// RegisterPurchase records an administrator-asserted purchase by the named
// user. When the purchaser has a referrer that still exists, the referrer
// receives the fixed purchase bonus; the purchaser's own record is never
// touched. The amount is reported back to the caller but not stored.
func (s *discountService) RegisterPurchase(ctx context.Context, username string, amount float64) (*models.User, *models.User, error) {
	purchaser, err := s.lookup(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	if purchaser.ReferrerID == nil {
		log.WithField("userID", purchaser.UserID).Info("Purchase registered, no referrer to credit")
		return purchaser, nil, nil
	}

	referrer, err := s.userRepo.GetByID(ctx, *purchaser.ReferrerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get referrer: %w", err)
	}
	if referrer == nil {
		// Referrer was deleted since registration; the dangling link
		// simply earns nothing.
		log.WithFields(log.Fields{
			"userID":     purchaser.UserID,
			"referrerID": *purchaser.ReferrerID,
		}).Info("Purchase registered, referrer no longer exists")
		return purchaser, nil, nil
	}

	newDiscount := ApplyPurchaseBonus(referrer.Discount)
	if err := s.userRepo.UpdateDiscount(ctx, referrer.UserID, newDiscount); err != nil {
		return nil, nil, fmt.Errorf("failed to credit purchase bonus: %w", err)
	}

	log.WithFields(log.Fields{
		"purchaserID": purchaser.UserID,
		"referrerID":  referrer.UserID,
		"amount":      amount,
		"newDiscount": newDiscount,
	}).Info("Credited purchase bonus to referrer")

	s.eventPublisher.Emit(ctx, events.PurchaseBonusEvent{
		ReferrerID:  referrer.UserID,
		Bonus:       PurchaseBonus,
		NewDiscount: newDiscount,
	})

	referrer.Discount = newDiscount
	return purchaser, referrer, nil
}

func (s *discountService) lookup(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user @%s: %w", username, ErrUserNotFound)
	}
	return user, nil
}
