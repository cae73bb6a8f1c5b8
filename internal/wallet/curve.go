package wallet

import (
	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// IsOnCurve reports whether a base58 address decodes to a valid ed25519
// curve point. Wallet addresses are always on the curve; program-derived
// addresses are not. Used to validate configured addresses before trading.
func IsOnCurve(address string) bool {
	decoded, err := base58.Decode(address)
	if err != nil || len(decoded) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}
