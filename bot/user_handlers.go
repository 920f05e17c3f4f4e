package bot

import (
	"errors"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"github.com/CakePasha/HordaBot/service"
)

const welcomePhotoURL = "https://i.imgur.com/lnr4Z0M.jpeg"

func (b *Bot) handleStart(ctx *th.Context, update telego.Update) error {
	message := update.Message
	from := message.From
	if from == nil {
		return nil
	}

	if !b.rateLimiter.Allow(from.ID, "start") {
		return b.reply(ctx, message.Chat.ID, "⏳ Please wait before using this command again.")
	}

	referrerID := parseStartReferrer(message.Text)
	if referrerID != nil {
		log.WithFields(log.Fields{
			"userID":     from.ID,
			"referrerID": *referrerID,
		}).Info("User arrived via referral link")
	}

	result, err := b.referralService.Register(ctx.Context(), from.ID, from.Username, referrerID)
	if err != nil {
		log.Errorf("Failed to register user %d: %v", from.ID, err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	if result.AlreadyRegistered {
		log.WithField("userID", from.ID).Info("Known user issued /start again")
	}

	caption := fmt.Sprintf(
		"Hello, *%s*! \nWelcome to *Horda Shop*! 🎉\n\n"+
			"*💫 Tap the menu below to snoop around.*\n"+
			"*Deals don’t bite, but they do disappear🫥 — so don’t blink...*\n\n\n"+
			"*🪴Our News Channel:* [@HORDAHORDA]",
		from.FirstName,
	)

	_, err = ctx.Bot().SendPhoto(ctx.Context(), tu.Photo(
		tu.ID(message.Chat.ID),
		tu.FileFromURL(welcomePhotoURL),
	).WithCaption(caption).WithParseMode(telego.ModeMarkdown).WithReplyMarkup(mainMenuKeyboard()))
	if err != nil {
		log.Errorf("Failed to send welcome photo: %v", err)
		return b.replyWithKeyboard(ctx, message.Chat.ID, caption, mainMenuKeyboard())
	}
	return nil
}

func (b *Bot) handleProfile(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message.From == nil {
		return nil
	}

	user, err := b.userService.GetUser(ctx.Context(), message.From.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.reply(ctx, message.Chat.ID, "You are not registered in the system yet.")
		}
		log.Errorf("Failed to load profile for %d: %v", message.From.ID, err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	return b.reply(ctx, message.Chat.ID, fmt.Sprintf(
		"*👤 Your Profile*\n\n"+
			"*👥 Referrals: *%d\n"+
			"*-You've referred %d friends! Keep it up!*\n\n"+
			"*💸 Discount: *%.2f%%\n"+
			"*- Active discount for you!*",
		user.ReferralsCount, user.ReferralsCount, user.Discount,
	))
}

func (b *Bot) handleReferralSystem(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message.From == nil {
		return nil
	}

	botUser, err := ctx.Bot().GetMe(ctx.Context())
	if err != nil {
		log.Errorf("Failed to resolve bot username: %v", err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	referralLink := fmt.Sprintf("https://t.me/%s?start=%d", botUser.Username, message.From.ID)
	return b.reply(ctx, message.Chat.ID, fmt.Sprintf(
		"*🎉 Referral System*\n\n"+
			"*Invite* your *friends* and earn *rewards!*\n"+
			"For every user who joins with your link, you’ll receive:\n\n"+
			"• *🔁 2%% discount automatically just for the referral*\n\n"+
			"• *💸 +10%% if your referral makes a purchase*\n\n"+
			"*Your referral link: %s*",
		referralLink,
	))
}

func (b *Bot) handleCatalog(ctx *th.Context, update telego.Update) error {
	return b.replyWithKeyboard(ctx, update.Message.Chat.ID, "Choose a category:", catalogKeyboard())
}

func (b *Bot) handleTurkishCards(ctx *th.Context, update telego.Update) error {
	return b.replyWithKeyboard(ctx, update.Message.Chat.ID, "Choose a card type:", turkishCardsKeyboard())
}

func (b *Bot) handleBack(ctx *th.Context, update telego.Update) error {
	return b.replyWithKeyboard(ctx, update.Message.Chat.ID, "You are back to the main menu.", mainMenuKeyboard())
}

func (b *Bot) handleAbout(ctx *th.Context, update telego.Update) error {
	return b.reply(ctx, update.Message.Chat.ID,
		"*Horda Shop. We don’t beg — we deliver.*\n\n"+
			"*Fast deals, clean setup, zero bullshit.*\n\n"+
			"You came for the *price* — you’ll stay for the service 👊\n\n"+
			"*Cheap? Yeah 🤩*\n"+
			"*Shady? Nah 😎*\n\n"+
			"*We move different...*",
	)
}

func (b *Bot) handleHelp(ctx *th.Context, update telego.Update) error {
	return b.reply(ctx, update.Message.Chat.ID,
		"*Got any questions?*\n\n"+
			"Feel free to reach out to us anytime:\n"+
			"*📩 @headphony*",
	)
}

func (b *Bot) handleUnknown(ctx *th.Context, update telego.Update) error {
	return b.reply(ctx, update.Message.Chat.ID, "There is no such command. Try again!")
}
