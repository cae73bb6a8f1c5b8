package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(address|direction|executed_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(address string, direction string, executedAtMs int64) string {
	data := fmt.Sprintf("%s|%s|%d", address, direction, executedAtMs)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
