package application

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"

	domainerrors "ballotbridge/contexts/custody/key-vault/domain/errors"
)

const blobSeparator = ":"

// sealContext is bound into every blob as additional data so a blob sealed
// for another purpose with the same secret does not open here.
var sealContext = []byte("ballotbridge/custodial-signing-key/v1")

// Vault seals and opens custodial signing keys.
type Vault struct {
	sealer cipher.AEAD
	random io.Reader
	logger *slog.Logger
}

func NewVault(sealer cipher.AEAD, random io.Reader, logger *slog.Logger) *Vault {
	if random == nil {
		random = rand.Reader
	}
	return &Vault{
		sealer: sealer,
		random: random,
		logger: ResolveLogger(logger),
	}
}

// Encrypt seals raw key bytes under a fresh random nonce.
func (v *Vault) Encrypt(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", domainerrors.ErrEmptyKeyMaterial
	}
	nonce := make([]byte, v.sealer.NonceSize())
	if _, err := io.ReadFull(v.random, nonce); err != nil {
		v.logger.Error("vault nonce generation failed",
			"event", "key_vault_nonce_failed",
			"module", "custody/key-vault",
			"layer", "application",
			"error", err.Error(),
		)
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := v.sealer.Seal(nil, nonce, raw, sealContext)
	return hex.EncodeToString(nonce) + blobSeparator + hex.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt. Any structural or
// authentication failure yields ErrMalformedBlob.
func (v *Vault) Decrypt(blob string) ([]byte, error) {
	nonceHex, sealedHex, ok := strings.Cut(strings.TrimSpace(blob), blobSeparator)
	if !ok || strings.Contains(sealedHex, blobSeparator) {
		return nil, v.integrityFailure("separator")
	}
	nonce, err := hex.DecodeString(nonceHex)
	if err != nil || len(nonce) != v.sealer.NonceSize() {
		return nil, v.integrityFailure("nonce")
	}
	sealed, err := hex.DecodeString(sealedHex)
	if err != nil || len(sealed) <= v.sealer.Overhead() {
		return nil, v.integrityFailure("ciphertext")
	}
	raw, err := v.sealer.Open(nil, nonce, sealed, sealContext)
	if err != nil {
		return nil, v.integrityFailure("authentication")
	}
	return raw, nil
}

func (v *Vault) integrityFailure(stage string) error {
	v.logger.Warn("vault rejected sealed key blob",
		"event", "key_vault_blob_rejected",
		"module", "custody/key-vault",
		"layer", "application",
		"stage", stage,
	)
	return domainerrors.ErrMalformedBlob
}
