package ledger

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// GenerateWallet creates a fresh ed25519 keypair and returns its base58
// public address together with the 64-byte private key.
func GenerateWallet() (string, Key, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", nil, fmt.Errorf("generate wallet: %w", err)
	}
	return base58.Encode(pub), Key(priv), nil
}

// AddressOf derives the public address for a private key.
func AddressOf(key Key) (string, error) {
	if len(key) != ed25519.PrivateKeySize {
		return "", ErrInvalidKey
	}
	pub, ok := ed25519.PrivateKey(key).Public().(ed25519.PublicKey)
	if !ok {
		return "", ErrInvalidKey
	}
	return base58.Encode(pub), nil
}

// ValidAddress reports whether the address decodes to a 32-byte public key.
func ValidAddress(address string) bool {
	return len(base58.Decode(address)) == ed25519.PublicKeySize
}

// ElectionSlot derives the address of the single election account from the
// configured seed and the program identifier.
func ElectionSlot(seed string, programID string) string {
	sum := sha256.Sum256([]byte(seed + "/" + programID))
	return base58.Encode(sum[:])
}

// Sign signs message with key and returns the signer address and the base58
// signature.
func Sign(key Key, message []byte) (string, string, error) {
	address, err := AddressOf(key)
	if err != nil {
		return "", "", err
	}
	return address, base58.Encode(ed25519.Sign(ed25519.PrivateKey(key), message)), nil
}

// VerifySignature checks a base58 signature produced by Sign.
func VerifySignature(address string, message []byte, signature string) bool {
	pub := base58.Decode(address)
	sig := base58.Decode(signature)
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}
