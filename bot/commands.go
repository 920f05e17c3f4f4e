package bot

import (
	"math"
	"strconv"
	"strings"
)

// Admin command arguments are validated once, here, at the transport
// boundary. Handlers and services only ever see the typed forms.

type userIDArg struct {
	UserID int64
}

type usernameArg struct {
	Username string
}

type usernameAmountArgs struct {
	Username string
	Amount   float64
}

// invalidArgumentError carries the exact chat reply for a malformed command
type invalidArgumentError struct {
	reply string
}

func (e *invalidArgumentError) Error() string { return e.reply }

func usageError(usage string) error {
	return &invalidArgumentError{reply: "Usage: `" + usage + "`"}
}

func parseUserIDArg(text, usage string) (userIDArg, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return userIDArg{}, usageError(usage)
	}

	userID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return userIDArg{}, &invalidArgumentError{reply: "Invalid user ID. Please provide a valid number."}
	}
	return userIDArg{UserID: userID}, nil
}

func parseUsernameArg(text, usage string) (usernameArg, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return usernameArg{}, usageError(usage)
	}

	username := strings.TrimPrefix(fields[1], "@")
	if username == "" {
		return usernameArg{}, usageError(usage)
	}
	return usernameArg{Username: username}, nil
}

func parseUsernameAmountArgs(text, usage string) (usernameAmountArgs, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return usernameAmountArgs{}, usageError(usage)
	}

	username := strings.TrimPrefix(fields[1], "@")
	if username == "" {
		return usernameAmountArgs{}, usageError(usage)
	}

	amount, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return usernameAmountArgs{}, &invalidArgumentError{reply: "Invalid input. Please provide a valid username and amount."}
	}

	return usernameAmountArgs{Username: username, Amount: amount}, nil
}

// parseStartReferrer extracts the optional referral payload from
// "/start <referrer_id>". A malformed payload is treated as no referrer
// rather than an error, so a broken link still registers the user.
func parseStartReferrer(text string) *int64 {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil
	}

	referrerID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil
	}
	return &referrerID
}
