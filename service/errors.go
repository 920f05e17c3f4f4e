package service

import "errors"

// ErrUserNotFound is returned by admin operations that target a user ID or
// username with no matching record. Recoverable at the command boundary;
// translated to a chat reply, never fatal.
var ErrUserNotFound = errors.New("user not found")
