package wallet

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

const signatureSize = 64

// SignTransactionBase64 signs a base64-encoded wire transaction (legacy or
// versioned) and returns the signed transaction re-encoded as base64. The
// wallet must be one of the transaction's required signers.
func (w *Wallet) SignTransactionBase64(txBase64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(txBase64)
	if err != nil {
		return "", fmt.Errorf("decode transaction: %w", err)
	}

	signed, err := w.SignTransaction(raw)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(signed), nil
}

// SignTransaction signs a wire-format transaction in place of the wallet's
// signature slot. Transaction layout: compact-u16 signature count, count
// 64-byte signatures, then the message bytes that get signed.
func (w *Wallet) SignTransaction(raw []byte) ([]byte, error) {
	numSigs, offset, err := decodeCompactU16(raw)
	if err != nil {
		return nil, fmt.Errorf("parse signature count: %w", err)
	}

	msgStart := offset + numSigs*signatureSize
	if msgStart >= len(raw) {
		return nil, fmt.Errorf("transaction truncated: %d signature slots, %d bytes", numSigs, len(raw))
	}
	message := raw[msgStart:]

	signers, err := parseMessageSigners(message)
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	slot := -1
	for i, key := range signers {
		if bytes.Equal(key, w.pub) {
			slot = i
			break
		}
	}
	if slot < 0 {
		return nil, fmt.Errorf("wallet %s is not a required signer", w.PublicKey())
	}
	if slot >= numSigs {
		return nil, fmt.Errorf("signer slot %d exceeds %d signature slots", slot, numSigs)
	}

	signature := ed25519.Sign(w.priv, message)

	signed := make([]byte, len(raw))
	copy(signed, raw)
	copy(signed[offset+slot*signatureSize:], signature)

	return signed, nil
}

// parseMessageSigners returns the required-signer account keys of a legacy
// or v0 message.
// Message layout: optional version prefix (high bit set), then header
// (numRequiredSignatures, numReadonlySigned, numReadonlyUnsigned), then a
// compact-u16 array of 32-byte account keys. Required signers come first.
func parseMessageSigners(message []byte) ([]ed25519.PublicKey, error) {
	if len(message) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	pos := 0
	if message[0]&0x80 != 0 {
		// Versioned message; only v0 exists on the wire today.
		if version := message[0] & 0x7f; version != 0 {
			return nil, fmt.Errorf("unsupported message version %d", version)
		}
		pos = 1
	}

	if len(message) < pos+3 {
		return nil, fmt.Errorf("message header truncated")
	}
	numRequired := int(message[pos])
	pos += 3

	numKeys, n, err := decodeCompactU16(message[pos:])
	if err != nil {
		return nil, fmt.Errorf("parse account key count: %w", err)
	}
	pos += n

	if numRequired > numKeys {
		return nil, fmt.Errorf("%d required signers but only %d account keys", numRequired, numKeys)
	}
	if len(message) < pos+numKeys*ed25519.PublicKeySize {
		return nil, fmt.Errorf("account keys truncated")
	}

	signers := make([]ed25519.PublicKey, numRequired)
	for i := 0; i < numRequired; i++ {
		start := pos + i*ed25519.PublicKeySize
		signers[i] = ed25519.PublicKey(message[start : start+ed25519.PublicKeySize])
	}

	return signers, nil
}

// decodeCompactU16 decodes Solana's compact-u16 length prefix (up to 3
// bytes, 7 bits each, little-endian). Returns the value and bytes consumed.
func decodeCompactU16(data []byte) (int, int, error) {
	value := 0
	for i := 0; i < 3; i++ {
		if i >= len(data) {
			return 0, 0, fmt.Errorf("compact-u16 truncated")
		}
		b := data[i]
		value |= int(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			if value > 0xffff {
				return 0, 0, fmt.Errorf("compact-u16 overflow")
			}
			return value, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("compact-u16 too long")
}

// encodeCompactU16 encodes a compact-u16 length prefix.
func encodeCompactU16(value int) []byte {
	var out []byte
	for {
		b := byte(value & 0x7f)
		value >>= 7
		if value == 0 {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}
