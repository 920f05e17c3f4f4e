package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"github.com/CakePasha/HordaBot/events"
)

// subscribeNotifications wires ledger events to Telegram notifications.
// Delivery is best effort: a blocked bot or deleted chat only produces a
// log line, never an error on the mutation path.
func (b *Bot) subscribeNotifications(eventBus *events.Bus) {
	eventBus.Subscribe(events.EventTypeReferralGained, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.ReferralGainedEvent)
		if !ok {
			return
		}
		b.notify(ctx, e.ReferrerID, fmt.Sprintf(
			"🎉 *You have +1 new referral!*\n"+
				"*Your discount has been increased by 2%%.*\n"+
				"*Current discount: %g%%.*",
			e.NewDiscount,
		))
	})

	eventBus.Subscribe(events.EventTypeDiscountGranted, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.DiscountGrantedEvent)
		if !ok {
			return
		}
		b.notify(ctx, e.UserID, fmt.Sprintf(
			"🎉 *You have received a bonus discount: %.2f%%*\n"+
				"*Your current discount: %.2f%%.*",
			e.Amount, e.NewDiscount,
		))
	})

	eventBus.Subscribe(events.EventTypeDiscountRevoked, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.DiscountRevokedEvent)
		if !ok {
			return
		}
		b.notify(ctx, e.UserID, fmt.Sprintf(
			"❌ *Your discount has been decreased on: %.2f%%*\n"+
				"*Your current discount: %.2f%% ⭐*",
			e.Amount, e.NewDiscount,
		))
	})

	eventBus.Subscribe(events.EventTypePurchaseBonus, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.PurchaseBonusEvent)
		if !ok {
			return
		}
		b.notify(ctx, e.ReferrerID, fmt.Sprintf(
			"*🎉 The user you invited made a purchase!*\n"+
				"*You've received a discount: %g%%.*\n"+
				"*Current discount: %g%%.*",
			e.Bonus, e.NewDiscount,
		))
	})
}

func (b *Bot) notify(ctx context.Context, userID int64, text string) {
	_, err := b.tg.SendMessage(ctx, tu.Message(
		tu.ID(userID),
		text,
	).WithParseMode(telego.ModeMarkdown))
	if err != nil {
		log.WithFields(log.Fields{
			"userID": userID,
		}).Warnf("Failed to deliver notification: %v", err)
	}
}
