// Package wallet supplies the bot's signing identity. The secret key is
// base58-encoded ed25519 material supplied out-of-band via environment;
// its absence is a fatal configuration error handled at startup.
package wallet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// Wallet holds an ed25519 keypair.
type Wallet struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// FromBase58 decodes a base58 secret key. Accepts the standard 64-byte
// Solana secret (seed || pubkey) or a bare 32-byte seed.
func FromBase58(secret string) (*Wallet, error) {
	if secret == "" {
		return nil, fmt.Errorf("empty secret key")
	}

	decoded, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}

	var priv ed25519.PrivateKey
	switch len(decoded) {
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(decoded)
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(decoded)
	default:
		return nil, fmt.Errorf("secret key must be %d or %d bytes, got %d",
			ed25519.PrivateKeySize, ed25519.SeedSize, len(decoded))
	}

	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("derive public key")
	}

	// A 64-byte secret embeds its public half; verify they agree.
	if len(decoded) == ed25519.PrivateKeySize {
		derived := ed25519.NewKeyFromSeed(decoded[:ed25519.SeedSize])
		if !derived.Public().(ed25519.PublicKey).Equal(pub) {
			return nil, fmt.Errorf("secret key public half does not match seed")
		}
	}

	return &Wallet{priv: priv, pub: pub}, nil
}

// PublicKey returns the base58-encoded public key.
func (w *Wallet) PublicKey() string {
	return base58.Encode(w.pub)
}

// Sign signs an arbitrary message with the wallet's private key.
func (w *Wallet) Sign(message []byte) []byte {
	return ed25519.Sign(w.priv, message)
}
