package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/easlabs/custody/errors"
)

func TestBech32KnownVector(t *testing.T) {
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	want, err := hex.DecodeString("746573742d7061796c6f6164")
	if err != nil {
		t.Fatal(err)
	}

	hrp, payload, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if hrp != "tiov" {
		t.Fatalf("unexpected human readable part: %q", hrp)
	}
	if !bytes.Equal(want, payload) {
		t.Fatalf("invalid decode: %x", payload)
	}

	raw, err := Encode(hrp, payload)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	if string(raw) != enc {
		t.Fatalf("invalid encoding: %q", raw)
	}
}

func TestBech32RoundTrip(t *testing.T) {
	addr := bytes.Repeat([]byte{0xab, 0x01}, 10)

	raw, err := Encode("eas", addr)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	hrp, payload, err := Decode(string(raw))
	if err != nil {
		t.Fatalf("cannot decode: %s", err)
	}
	if hrp != "eas" || !bytes.Equal(payload, addr) {
		t.Fatalf("round trip mismatch: %q %x", hrp, payload)
	}
}

func TestBech32Errors(t *testing.T) {
	if _, _, err := Decode("not-bech32"); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if _, err := Encode("", []byte("x")); !errors.ErrEmpty.Is(err) {
		t.Fatalf("unexpected encode error: %v", err)
	}
}
