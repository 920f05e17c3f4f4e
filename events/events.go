package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeReferralGained  EventType = "referral_gained"
	EventTypeDiscountGranted EventType = "discount_granted"
	EventTypeDiscountRevoked EventType = "discount_revoked"
	EventTypePurchaseBonus   EventType = "purchase_bonus"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	// TargetUserID is the Telegram ID of the user the notification is
	// addressed to.
	TargetUserID() int64
}

// ReferralGainedEvent is emitted when a referrer gains a new referral
type ReferralGainedEvent struct {
	ReferrerID  int64
	ReferredID  int64
	NewCount    int64
	NewDiscount float64
}

func (e ReferralGainedEvent) Type() EventType     { return EventTypeReferralGained }
func (e ReferralGainedEvent) TargetUserID() int64 { return e.ReferrerID }

// DiscountGrantedEvent is emitted when an administrator grants a discount
type DiscountGrantedEvent struct {
	UserID      int64
	Amount      float64
	NewDiscount float64
}

func (e DiscountGrantedEvent) Type() EventType     { return EventTypeDiscountGranted }
func (e DiscountGrantedEvent) TargetUserID() int64 { return e.UserID }

// DiscountRevokedEvent is emitted when an administrator revokes a discount
type DiscountRevokedEvent struct {
	UserID      int64
	Amount      float64
	NewDiscount float64
}

func (e DiscountRevokedEvent) Type() EventType     { return EventTypeDiscountRevoked }
func (e DiscountRevokedEvent) TargetUserID() int64 { return e.UserID }

// PurchaseBonusEvent is emitted to a referrer when one of their referrals
// makes a purchase
type PurchaseBonusEvent struct {
	ReferrerID  int64
	Bonus       float64
	NewDiscount float64
}

func (e PurchaseBonusEvent) Type() EventType     { return EventTypePurchaseBonus }
func (e PurchaseBonusEvent) TargetUserID() int64 { return e.ReferrerID }

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching. Delivery is
// fire-and-forget: a failing or panicking handler never affects the
// mutation that produced the event.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"targetUserID": event.TargetUserID(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Call handlers asynchronously to avoid blocking
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}
