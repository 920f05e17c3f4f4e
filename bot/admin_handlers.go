package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	log "github.com/sirupsen/logrus"

	"github.com/CakePasha/HordaBot/models"
	"github.com/CakePasha/HordaBot/service"
)

const permissionDeniedReply = "🚫 You don't have permission to use this command."

// requireAdmin replies with a rejection and returns false for non-admins
func (b *Bot) requireAdmin(ctx *th.Context, message *telego.Message) bool {
	if message.From == nil || !b.cfg.IsAdmin(message.From.ID) {
		userID := int64(0)
		if message.From != nil {
			userID = message.From.ID
		}
		log.WithFields(log.Fields{
			"userID":  userID,
			"command": message.Text,
		}).Warn("Unauthorized admin command attempt")
		_ = b.reply(ctx, message.Chat.ID, permissionDeniedReply)
		return false
	}
	return true
}

// replyParseError sends the canned reply for a malformed admin command
func (b *Bot) replyParseError(ctx *th.Context, chatID int64, err error) {
	var invalid *invalidArgumentError
	if errors.As(err, &invalid) {
		_ = b.reply(ctx, chatID, invalid.reply)
		return
	}
	_ = b.reply(ctx, chatID, "Invalid input. Please try again.")
}

func formatUserCard(user *models.User) string {
	username := user.Username
	if username == "" {
		username = "N/A"
	}
	return fmt.Sprintf(
		"🆔 *User ID:* `%d`\n"+
			"👤 *Username:* %s\n"+
			"👥 *Referrals:* %d\n"+
			"💸 *Discount:* %g%%\n",
		user.UserID, username, user.ReferralsCount, user.Discount,
	)
}

func (b *Bot) handleListUsers(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if !b.requireAdmin(ctx, message) {
		return nil
	}

	users, err := b.userService.ListUsers(ctx.Context())
	if err != nil {
		log.Errorf("Failed to list users: %v", err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	if len(users) == 0 {
		return b.reply(ctx, message.Chat.ID, "No users found in the database.")
	}

	var response strings.Builder
	response.WriteString("👥 *List of Users:*\n\n")
	for _, user := range users {
		response.WriteString(formatUserCard(user))
		response.WriteString("\n")
	}

	return b.reply(ctx, message.Chat.ID, response.String())
}

func (b *Bot) handleGetUser(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if !b.requireAdmin(ctx, message) {
		return nil
	}

	args, err := parseUserIDArg(message.Text, "/user <user_id>")
	if err != nil {
		b.replyParseError(ctx, message.Chat.ID, err)
		return nil
	}

	user, err := b.userService.GetUser(ctx.Context(), args.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.reply(ctx, message.Chat.ID, fmt.Sprintf("No user found with ID `%d`.", args.UserID))
		}
		log.Errorf("Failed to get user %d: %v", args.UserID, err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	return b.reply(ctx, message.Chat.ID, "👤 *User Profile:*\n\n"+formatUserCard(user))
}

func (b *Bot) handleUserStats(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if !b.requireAdmin(ctx, message) {
		return nil
	}

	args, err := parseUsernameArg(message.Text, "/userstat @username")
	if err != nil {
		b.replyParseError(ctx, message.Chat.ID, err)
		return nil
	}

	user, referrals, err := b.userService.GetUserStats(ctx.Context(), args.Username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.reply(ctx, message.Chat.ID, fmt.Sprintf("No user found with username `@%s`.", args.Username))
		}
		log.Errorf("Failed to get stats for %q: %v", args.Username, err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	invitedList := "No invited users."
	if len(referrals) > 0 {
		lines := make([]string, 0, len(referrals))
		for _, invited := range referrals {
			name := invited.Username
			if name == "" {
				name = "N/A"
			}
			lines = append(lines, fmt.Sprintf("👤 @%s (ID: `%d`)", name, invited.UserID))
		}
		invitedList = strings.Join(lines, "\n")
	}

	response := "👤 *User Profile:*\n\n" +
		formatUserCard(user) +
		fmt.Sprintf("\n📋 *Invited Users:*\n%s", invitedList)

	return b.reply(ctx, message.Chat.ID, response)
}

func (b *Bot) handleDeleteUser(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if !b.requireAdmin(ctx, message) {
		return nil
	}

	args, err := parseUserIDArg(message.Text, "/delete_user <user_id>")
	if err != nil {
		b.replyParseError(ctx, message.Chat.ID, err)
		return nil
	}

	if err := b.userService.DeleteUser(ctx.Context(), args.UserID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.reply(ctx, message.Chat.ID, fmt.Sprintf("No user found with ID `%d`.", args.UserID))
		}
		log.Errorf("Failed to delete user %d: %v", args.UserID, err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	return b.reply(ctx, message.Chat.ID, fmt.Sprintf("User with ID `%d` has been deleted.", args.UserID))
}

func (b *Bot) handleGrant(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if !b.requireAdmin(ctx, message) {
		return nil
	}

	args, err := parseUsernameAmountArgs(message.Text, "/give_discount @username <discount>")
	if err != nil {
		b.replyParseError(ctx, message.Chat.ID, err)
		return nil
	}

	user, err := b.discountService.Grant(ctx.Context(), args.Username, args.Amount)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.reply(ctx, message.Chat.ID, fmt.Sprintf("User with username `@%s` not found.", args.Username))
		}
		log.Errorf("Failed to grant discount to %q: %v", args.Username, err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	return b.reply(ctx, message.Chat.ID, fmt.Sprintf(
		"User `@%s` has been granted a discount: %.2f%%.\nNew user discount: %.2f%%.",
		args.Username, args.Amount, user.Discount,
	))
}

func (b *Bot) handleRevoke(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if !b.requireAdmin(ctx, message) {
		return nil
	}

	args, err := parseUsernameAmountArgs(message.Text, "/remove_discount @username <discount>")
	if err != nil {
		b.replyParseError(ctx, message.Chat.ID, err)
		return nil
	}

	user, err := b.discountService.Revoke(ctx.Context(), args.Username, args.Amount)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.reply(ctx, message.Chat.ID, fmt.Sprintf("User with username `@%s` not found.", args.Username))
		}
		log.Errorf("Failed to revoke discount from %q: %v", args.Username, err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	return b.reply(ctx, message.Chat.ID, fmt.Sprintf(
		"User `@%s` discount has been decreased by %.2f%%.\nNew user discount: %.2f%%.",
		args.Username, args.Amount, user.Discount,
	))
}

func (b *Bot) handleRegisterPurchase(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if !b.requireAdmin(ctx, message) {
		return nil
	}

	args, err := parseUsernameAmountArgs(message.Text, "/register_purchase @username <amount>")
	if err != nil {
		b.replyParseError(ctx, message.Chat.ID, err)
		return nil
	}

	_, _, err = b.discountService.RegisterPurchase(ctx.Context(), args.Username, args.Amount)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return b.reply(ctx, message.Chat.ID, fmt.Sprintf("User with username `@%s` not found.", args.Username))
		}
		log.Errorf("Failed to register purchase for %q: %v", args.Username, err)
		return b.reply(ctx, message.Chat.ID, "Something went wrong. Please try again later.")
	}

	return b.reply(ctx, message.Chat.ID, fmt.Sprintf(
		"Purchase by user `@%s` for the amount `%g` has been successfully registered.",
		args.Username, args.Amount,
	))
}
