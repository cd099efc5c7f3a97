package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken        = errors.New("INVALID_TOKEN")
	ErrInvalidAmount       = errors.New("INVALID_AMOUNT")
	ErrInvalidAction       = errors.New("INVALID_ACTION")
	ErrInsufficientBalance = errors.New("INSUFFICIENT_BALANCE")
	ErrOrderNotFound       = errors.New("ORDER_NOT_FOUND")
	ErrOrderNotProcessable = errors.New("ORDER_NOT_PROCESSABLE")
	ErrGameNotFound        = errors.New("GAME_NOT_FOUND")
	ErrPackageNotFound     = errors.New("PACKAGE_NOT_FOUND")
	ErrZoneRequired        = errors.New("ZONE_REQUIRED")
	ErrPlayerNotFound      = errors.New("PLAYER_NOT_FOUND")
	ErrProviderUnavailable = errors.New("PROVIDER_UNAVAILABLE")
	ErrGatewayDisabled     = errors.New("GATEWAY_DISABLED")
	ErrEmailTaken          = errors.New("EMAIL_TAKEN")
)
