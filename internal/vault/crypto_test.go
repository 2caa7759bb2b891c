package vault

import (
	"bytes"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	plaintext := []byte(`{"children":[{"id":"1","name":"John Doe"}]}`)

	sealed, err := Seal(plaintext, key)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if bytes.Contains(sealed, []byte("John Doe")) {
		t.Error("sealed payload leaks plaintext")
	}

	opened, err := Open(sealed, key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("expected %q, got %q", plaintext, opened)
	}
}

func TestOpenWrongKey(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, 32)
	other := bytes.Repeat([]byte{0x02}, 32)

	sealed, err := Seal([]byte("secret"), key)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if _, err := Open(sealed, other); err == nil {
		t.Error("expected error when opening with the wrong key")
	}
}

func TestInvalidKeyLength(t *testing.T) {
	if _, err := Seal([]byte("x"), []byte("short")); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestOpenTruncated(t *testing.T) {
	key := bytes.Repeat([]byte{0x07}, 16)
	if _, err := Open([]byte{0x01, 0x02}, key); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
}
