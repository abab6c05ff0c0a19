package errors

import "errors"

var (
	ErrInvalidRegistration        = errors.New("invalid registration input")
	ErrAccountExists              = errors.New("account with this username, email or address already exists")
	ErrAccountNotFound            = errors.New("account not found")
	ErrInvalidCredentials         = errors.New("invalid credentials")
	ErrAccountNotVerified         = errors.New("account is not verified")
	ErrOperatorRegistrationDenied = errors.New("operator registration is not permitted")
	ErrOperatorNotFound           = errors.New("no operator account is registered")
)
