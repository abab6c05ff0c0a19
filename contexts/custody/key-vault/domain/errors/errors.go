package errors

import "errors"

var (
	ErrEmptyKeyMaterial = errors.New("key material must not be empty")
	ErrMalformedBlob    = errors.New("sealed key blob is malformed or has been tampered with")
	ErrVaultSecret      = errors.New("vault secret is required")
)
