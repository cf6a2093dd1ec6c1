package model

import "errors"

var (
	// ErrUserNotFound is returned when no user exists for the given id or username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when creating a user with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned when a password hash comparison fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidItem is returned when a purchase names an unknown or non-purchasable item.
	ErrInvalidItem = errors.New("item is not available for purchase")
	// ErrAlreadyOwned is returned when purchasing a title the user already owns.
	ErrAlreadyOwned = errors.New("item already owned")
	// ErrInvalidPrice is returned when a purchase price is zero or negative.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrInsufficientFunds is returned when the coin balance cannot cover a purchase.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotOwned is returned when equipping a title the user does not own.
	ErrNotOwned = errors.New("title not owned")
	// ErrInvalidTheme is returned when a theme is not in the allow-list.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidView is returned when a view is not in the allow-list.
	ErrInvalidView = errors.New("invalid view")
	// ErrStoreUnavailable is returned when the user store cannot be reached in time.
	ErrStoreUnavailable = errors.New("user store unavailable")
)
