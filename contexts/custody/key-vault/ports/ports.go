package ports

import "crypto/cipher"

// SealerFactory builds the authenticated cipher used to seal key material.
type SealerFactory interface {
	NewSealer(secret string) (cipher.AEAD, error)
}
