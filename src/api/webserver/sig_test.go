package webserver

import (
	"encoding/hex"
	"strings"
	"testing"

	schnorrkel "github.com/ChainSafe/go-schnorrkel"
)

func TestVerifySignatureRoundTrip(t *testing.T) {
	priv, pub, err := schnorrkel.GenerateKeypair()
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	pubBytes := pub.Encode()
	addr := "0x" + hex.EncodeToString(pubBytes[:])
	nonce := "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"

	sig, err := priv.Sign(schnorrkel.NewSigningContext([]byte("substrate"), []byte(nonce)))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sigBytes := sig.Encode()
	sigHex := hex.EncodeToString(sigBytes[:])

	if err := verifySignature(addr, sigHex, nonce); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := verifySignature(addr, sigHex, "0x0000"); err == nil {
		t.Fatal("signature over wrong nonce accepted")
	}
	if err := verifySignature(addr, "0x"+strings.Repeat("00", 64), nonce); err == nil {
		t.Fatal("zero signature accepted")
	}
	if err := verifySignature(addr, "0xabcd", nonce); err == nil {
		t.Fatal("short signature accepted")
	}
}

func TestIsValidWalletAddress(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"0x" + strings.Repeat("ab", 32), true},
		{"0x" + strings.Repeat("ab", 31), false},
		{"0x" + strings.Repeat("zz", 32), false},
		{"15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5", true},
		{"tooshort", false},
		{"15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5!", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isValidWalletAddress(tc.addr); got != tc.want {
			t.Errorf("isValidWalletAddress(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestDecodeAddress(t *testing.T) {
	hexAddr := "0x" + strings.Repeat("cd", 32)
	raw, err := decodeAddress(hexAddr)
	if err != nil || len(raw) != 32 {
		t.Fatalf("decode hex: %v len=%d", err, len(raw))
	}

	// Polkadot treasury address, a well-formed SS58 string.
	raw, err = decodeAddress("13UVJyLnbVp9RBZYFwFGyDvVd1y27Tt8tkntv6Q7JVPhFsTB")
	if err != nil || len(raw) != 32 {
		t.Fatalf("decode ss58: %v len=%d", err, len(raw))
	}

	if _, err := decodeAddress("not-base58-0OIl"); err == nil {
		t.Fatal("invalid address decoded")
	}
}
