package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"github.com/CakePasha/HordaBot/config"
	"github.com/CakePasha/HordaBot/events"
	"github.com/CakePasha/HordaBot/service"
)

// Bot is the Telegram transport layer. It translates chat updates into
// service calls and service events back into chat messages; all business
// rules live in the service package.
type Bot struct {
	cfg             *config.Config
	tg              *telego.Bot
	handler         *th.BotHandler
	referralService service.ReferralService
	userService     service.UserService
	discountService service.DiscountService
	rateLimiter     *service.CommandRateLimiter
}

// New creates the bot and subscribes its notifier to the event bus
func New(cfg *config.Config, referralService service.ReferralService, userService service.UserService, discountService service.DiscountService, rateLimiter *service.CommandRateLimiter, eventBus *events.Bus) (*Bot, error) {
	tg, err := telego.NewBot(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		cfg:             cfg,
		tg:              tg,
		referralService: referralService,
		userService:     userService,
		discountService: discountService,
		rateLimiter:     rateLimiter,
	}

	b.subscribeNotifications(eventBus)

	return b, nil
}

// Start begins long polling and blocks until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.tg.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	handler, err := th.NewBotHandler(b.tg, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}
	b.handler = handler

	b.registerHandlers(handler)

	go func() {
		<-ctx.Done()
		if err := handler.Stop(); err != nil {
			log.Errorf("Failed to stop bot handler: %v", err)
		}
	}()

	log.Info("Bot handler started")
	return handler.Start()
}

// Close stops update handling
func (b *Bot) Close() error {
	if b.handler != nil {
		return b.handler.Stop()
	}
	return nil
}

func (b *Bot) registerHandlers(handler *th.BotHandler) {
	// A bad update must never take the process down
	handler.Use(func(ctx *th.Context, update telego.Update) error {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Recovered from handler panic")
			}
		}()
		if err := ctx.Next(update); err != nil {
			log.WithField("updateID", update.UpdateID).Errorf("Handler error: %v", err)
		}
		return nil
	})

	// User-facing commands and menu buttons
	handler.Handle(b.handleStart, th.CommandEqual("start"))
	handler.Handle(b.handleProfile, th.TextEqual(buttonProfile))
	handler.Handle(b.handleReferralSystem, th.TextEqual(buttonReferral))
	handler.Handle(b.handleAbout, th.TextEqual(buttonAbout))
	handler.Handle(b.handleHelp, th.TextEqual(buttonHelp))

	// Catalog screens
	handler.Handle(b.handleCatalog, th.TextEqual(buttonCatalog))
	handler.Handle(b.handleTurkishCards, th.TextEqual(buttonTurkishCards))
	handler.Handle(b.handleBack, th.TextEqual(buttonBack))
	for text, reply := range catalogScreens {
		replyText := reply
		handler.Handle(func(ctx *th.Context, update telego.Update) error {
			return b.reply(ctx, update.Message.Chat.ID, replyText)
		}, th.TextEqual(text))
	}

	// Admin commands
	handler.Handle(b.handleListUsers, th.CommandEqual("users"))
	handler.Handle(b.handleGetUser, th.CommandEqual("user"))
	handler.Handle(b.handleUserStats, th.CommandEqual("userstat"))
	handler.Handle(b.handleDeleteUser, th.CommandEqual("delete_user"))
	handler.Handle(b.handleGrant, th.CommandEqual("give_discount"))
	handler.Handle(b.handleRevoke, th.CommandEqual("remove_discount"))
	handler.Handle(b.handleRegisterPurchase, th.CommandEqual("register_purchase"))

	// Everything else
	handler.Handle(b.handleUnknown, th.AnyMessageWithText())
}

// reply sends a Markdown message to a chat
func (b *Bot) reply(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx.Context(), tu.Message(
		tu.ID(chatID),
		text,
	).WithParseMode(telego.ModeMarkdown))
	if err != nil {
		log.WithField("chatID", chatID).Errorf("Failed to send reply: %v", err)
	}
	return nil
}

// replyWithKeyboard sends a Markdown message with a reply keyboard
func (b *Bot) replyWithKeyboard(ctx *th.Context, chatID int64, text string, keyboard *telego.ReplyKeyboardMarkup) error {
	_, err := ctx.Bot().SendMessage(ctx.Context(), tu.Message(
		tu.ID(chatID),
		text,
	).WithParseMode(telego.ModeMarkdown).WithReplyMarkup(keyboard))
	if err != nil {
		log.WithField("chatID", chatID).Errorf("Failed to send reply: %v", err)
	}
	return nil
}
