package wallet

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"testing"

	"github.com/mr-tron/base58"
)

// testSeed is a fixed 32-byte seed for deterministic keys.
var testSeed = bytes.Repeat([]byte{7}, ed25519.SeedSize)

func testWallet(t *testing.T) *Wallet {
	t.Helper()
	priv := ed25519.NewKeyFromSeed(testSeed)
	w, err := FromBase58(base58.Encode(priv))
	if err != nil {
		t.Fatalf("FromBase58: %v", err)
	}
	return w
}

func TestFromBase58_FullSecret(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(testSeed)

	w, err := FromBase58(base58.Encode(priv))
	if err != nil {
		t.Fatalf("FromBase58: %v", err)
	}

	wantPub := base58.Encode(priv.Public().(ed25519.PublicKey))
	if w.PublicKey() != wantPub {
		t.Errorf("public key = %s, want %s", w.PublicKey(), wantPub)
	}
}

func TestFromBase58_SeedOnly(t *testing.T) {
	w, err := FromBase58(base58.Encode(testSeed))
	if err != nil {
		t.Fatalf("FromBase58: %v", err)
	}

	full := testWallet(t)
	if w.PublicKey() != full.PublicKey() {
		t.Error("seed-only and full-secret wallets should derive the same public key")
	}
}

func TestFromBase58_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"not base58":   "0OIl",
		"wrong length": base58.Encode([]byte{1, 2, 3}),
	}

	for name, secret := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromBase58(secret); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFromBase58_MismatchedPublicHalf(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(testSeed)
	corrupted := make([]byte, len(priv))
	copy(corrupted, priv)
	corrupted[ed25519.SeedSize] ^= 0xff // flip a bit in the embedded pubkey

	if _, err := FromBase58(base58.Encode(corrupted)); err == nil {
		t.Error("expected error for mismatched public half")
	}
}

func TestSign_Verifies(t *testing.T) {
	w := testWallet(t)
	message := []byte("hello solana")

	sig := w.Sign(message)

	pub, err := base58.Decode(w.PublicKey())
	if err != nil {
		t.Fatalf("decode pubkey: %v", err)
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), message, sig) {
		t.Error("signature does not verify")
	}
}

// buildTransaction constructs a wire transaction with the given signer keys
// and an all-zero signature section, like a swap provider would return.
func buildTransaction(t *testing.T, versioned bool, signers []ed25519.PublicKey, extraKeys int) []byte {
	t.Helper()

	var msg []byte
	if versioned {
		msg = append(msg, 0x80) // v0 prefix
	}
	msg = append(msg, byte(len(signers)), 0, 1) // header
	msg = append(msg, encodeCompactU16(len(signers)+extraKeys)...)
	for _, key := range signers {
		msg = append(msg, key...)
	}
	for i := 0; i < extraKeys; i++ {
		msg = append(msg, bytes.Repeat([]byte{byte(0x40 + i)}, 32)...)
	}
	// Recent blockhash and a trivial instruction list
	msg = append(msg, bytes.Repeat([]byte{9}, 32)...)
	msg = append(msg, encodeCompactU16(0)...)

	tx := encodeCompactU16(len(signers))
	tx = append(tx, make([]byte, len(signers)*signatureSize)...)
	tx = append(tx, msg...)
	return tx
}

func TestSignTransaction_Legacy(t *testing.T) {
	w := testWallet(t)
	pub, _ := base58.Decode(w.PublicKey())

	tx := buildTransaction(t, false, []ed25519.PublicKey{ed25519.PublicKey(pub)}, 2)

	signed, err := w.SignTransaction(tx)
	if err != nil {
		t.Fatalf("SignTransaction: %v", err)
	}

	numSigs, offset, err := decodeCompactU16(signed)
	if err != nil || numSigs != 1 {
		t.Fatalf("parse signed tx: numSigs=%d err=%v", numSigs, err)
	}

	sig := signed[offset : offset+signatureSize]
	message := signed[offset+signatureSize:]
	if !ed25519.Verify(ed25519.PublicKey(pub), message, sig) {
		t.Error("embedded signature does not verify against message bytes")
	}
}

func TestSignTransaction_Versioned(t *testing.T) {
	w := testWallet(t)
	pub, _ := base58.Decode(w.PublicKey())

	// Wallet is the second of two signers.
	other := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{3}, ed25519.SeedSize))
	signers := []ed25519.PublicKey{
		other.Public().(ed25519.PublicKey),
		ed25519.PublicKey(pub),
	}

	tx := buildTransaction(t, true, signers, 1)

	signed, err := w.SignTransaction(tx)
	if err != nil {
		t.Fatalf("SignTransaction: %v", err)
	}

	_, offset, _ := decodeCompactU16(signed)
	message := signed[offset+2*signatureSize:]

	// Slot 0 untouched, slot 1 carries our signature.
	first := signed[offset : offset+signatureSize]
	if !bytes.Equal(first, make([]byte, signatureSize)) {
		t.Error("foreign signature slot must not be modified")
	}
	second := signed[offset+signatureSize : offset+2*signatureSize]
	if !ed25519.Verify(ed25519.PublicKey(pub), message, second) {
		t.Error("embedded signature does not verify against message bytes")
	}
}

func TestSignTransaction_NotASigner(t *testing.T) {
	w := testWallet(t)

	other := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{5}, ed25519.SeedSize))
	tx := buildTransaction(t, true, []ed25519.PublicKey{other.Public().(ed25519.PublicKey)}, 0)

	if _, err := w.SignTransaction(tx); err == nil {
		t.Error("expected error when wallet is not a required signer")
	}
}

func TestSignTransactionBase64_RoundTrip(t *testing.T) {
	w := testWallet(t)
	pub, _ := base58.Decode(w.PublicKey())

	tx := buildTransaction(t, true, []ed25519.PublicKey{ed25519.PublicKey(pub)}, 0)
	encoded := base64.StdEncoding.EncodeToString(tx)

	signedB64, err := w.SignTransactionBase64(encoded)
	if err != nil {
		t.Fatalf("SignTransactionBase64: %v", err)
	}

	signed, err := base64.StdEncoding.DecodeString(signedB64)
	if err != nil {
		t.Fatalf("decode signed tx: %v", err)
	}
	if len(signed) != len(tx) {
		t.Errorf("signed length = %d, want %d", len(signed), len(tx))
	}
}

func TestSignTransactionBase64_InvalidEncoding(t *testing.T) {
	w := testWallet(t)
	if _, err := w.SignTransactionBase64("***"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestDecodeCompactU16(t *testing.T) {
	tests := []struct {
		data  []byte
		value int
		n     int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x05}, 5, 1},
		{[]byte{0x7f}, 127, 1},
		{[]byte{0x80, 0x01}, 128, 2},
		{[]byte{0xff, 0x01}, 255, 2},
		{[]byte{0x80, 0x80, 0x01}, 16384, 3},
	}

	for _, tt := range tests {
		value, n, err := decodeCompactU16(tt.data)
		if err != nil {
			t.Errorf("decodeCompactU16(%v): %v", tt.data, err)
			continue
		}
		if value != tt.value || n != tt.n {
			t.Errorf("decodeCompactU16(%v) = (%d, %d), want (%d, %d)", tt.data, value, n, tt.value, tt.n)
		}
	}

	if _, _, err := decodeCompactU16(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestCompactU16_RoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, 127, 128, 255, 16383, 16384, 65535} {
		encoded := encodeCompactU16(v)
		decoded, n, err := decodeCompactU16(encoded)
		if err != nil {
			t.Errorf("round trip %d: %v", v, err)
			continue
		}
		if decoded != v || n != len(encoded) {
			t.Errorf("round trip %d: got %d (consumed %d of %d)", v, decoded, n, len(encoded))
		}
	}
}

func TestIsOnCurve(t *testing.T) {
	w := testWallet(t)
	if !IsOnCurve(w.PublicKey()) {
		t.Error("ed25519 public key should be on the curve")
	}

	if IsOnCurve("") {
		t.Error("empty address is not on the curve")
	}
	if IsOnCurve("tooshort") {
		t.Error("short address is not on the curve")
	}
}
