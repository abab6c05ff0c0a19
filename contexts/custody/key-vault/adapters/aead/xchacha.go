package aead

import (
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	domainerrors "ballotbridge/contexts/custody/key-vault/domain/errors"
	"ballotbridge/contexts/custody/key-vault/ports"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// hkdfInfo scopes the derived key to custody so the same configured secret
// can never produce the request-authentication key.
const hkdfInfo = "ballotbridge key-vault sealing key v1"

// XChaCha derives a 256-bit key from the vault secret with HKDF-SHA256 and
// seals with XChaCha20-Poly1305 (24-byte nonces, safe to draw at random).
type XChaCha struct{}

func (XChaCha) NewSealer(secret string) (cipher.AEAD, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, domainerrors.ErrVaultSecret
	}
	key := make([]byte, chacha20poly1305.KeySize)
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive vault key: %w", err)
	}
	return chacha20poly1305.NewX(key)
}

var _ ports.SealerFactory = XChaCha{}
