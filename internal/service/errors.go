package service

import "errors"

// Messages are shown to the end user as-is.
var (
	ErrUsernameExists     = errors.New("Username already exists")
	ErrEmailExists        = errors.New("Email already exists")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrSessionExpired     = errors.New("Session expired, please log in again")
	ErrUnauthorized       = errors.New("Unauthorized access")
	ErrInvalidQuantity    = errors.New("Invalid quantity")
	ErrNotEnoughStock     = errors.New("Not enough stock!")
	ErrAdminOnly          = errors.New("Admin access only")
	ErrUserNotFound       = errors.New("User not found")
	ErrSelfDelete         = errors.New("You cannot delete your own account!")
	ErrLastAdmin          = errors.New("Cannot delete the last admin account!")
	ErrLastAdminDemotion  = errors.New("Cannot remove the last admin account!")
	ErrNotPremium         = errors.New("User is not a premium subscriber")
	ErrPaymentNotFound    = errors.New("Payment not found")
	ErrPaymentReviewed    = errors.New("Payment has already been reviewed")
)
