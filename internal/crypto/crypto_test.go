package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/CXPhoenix/ResQrypt/internal/container"
	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	salt2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	if salt1 == salt2 {
		t.Error("two generated salts should differ")
	}
}

func TestGenerateNonce(t *testing.T) {
	n1, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce: %v", err)
	}
	n2, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce: %v", err)
	}
	if n1 == n2 {
		t.Error("two generated nonces should differ")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	params := container.KdfParams{MemoryMiB: 8, Iterations: 1, Parallelism: 1}
	var salt [SaltLen]byte

	key1 := DeriveKey([]byte("password"), salt, params)
	key2 := DeriveKey([]byte("password"), salt, params)
	if !bytes.Equal(key1, key2) {
		t.Error("same password and salt should derive the same key")
	}
	if len(key1) != KeyLen {
		t.Errorf("key length = %d, want %d", len(key1), KeyLen)
	}
}

func TestDeriveKeyDifferentSaltsDiffer(t *testing.T) {
	params := container.KdfParams{MemoryMiB: 8, Iterations: 1, Parallelism: 1}
	var saltA, saltB [SaltLen]byte
	saltB[0] = 1

	keyA := DeriveKey([]byte("password"), saltA, params)
	keyB := DeriveKey([]byte("password"), saltB, params)
	if bytes.Equal(keyA, keyB) {
		t.Error("different salts should derive different keys")
	}
}

func TestClearBytes(t *testing.T) {
	data := []byte("sensitive data")
	ClearBytes(data)
	for i, b := range data {
		if b != 0 {
			t.Errorf("byte %d not cleared: %d", i, b)
		}
	}
}

func TestSealOpenRoundtrip(t *testing.T) {
	key := make([]byte, KeyLen)
	var nonce [NonceLen]byte
	aad := []byte("header bytes")
	plaintext := []byte("Hello, World!")

	ciphertext, err := Seal(key, nonce, aad, plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(ciphertext) != len(plaintext)+16 {
		t.Errorf("ciphertext length = %d, want %d", len(ciphertext), len(plaintext)+16)
	}

	decrypted, err := Open(key, nonce, aad, ciphertext)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(plaintext, decrypted) {
		t.Error("round trip did not preserve plaintext")
	}
}

func TestOpenWrongKeyFails(t *testing.T) {
	key1 := make([]byte, KeyLen)
	key2 := make([]byte, KeyLen)
	key2[0] = 1
	var nonce [NonceLen]byte
	aad := []byte("header bytes")

	ciphertext, err := Seal(key1, nonce, aad, []byte("secret"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	_, err = Open(key2, nonce, aad, ciphertext)
	if !errors.Is(err, resqerr.ErrAuthenticationFailed) {
		t.Errorf("Open with wrong key: got %v, want ErrAuthenticationFailed", err)
	}
}

func TestOpenTamperedCiphertextFails(t *testing.T) {
	key := make([]byte, KeyLen)
	var nonce [NonceLen]byte
	aad := []byte("header bytes")

	ciphertext, err := Seal(key, nonce, aad, []byte("secret data"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	ciphertext[0] ^= 0xFF

	_, err = Open(key, nonce, aad, ciphertext)
	if !errors.Is(err, resqerr.ErrAuthenticationFailed) {
		t.Errorf("Open with tampered ciphertext: got %v, want ErrAuthenticationFailed", err)
	}
}

func TestOpenTamperedAADFails(t *testing.T) {
	key := make([]byte, KeyLen)
	var nonce [NonceLen]byte

	ciphertext, err := Seal(key, nonce, []byte("header v1"), []byte("secret data"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	_, err = Open(key, nonce, []byte("header v2"), ciphertext)
	if !errors.Is(err, resqerr.ErrAuthenticationFailed) {
		t.Errorf("Open with mismatched AAD: got %v, want ErrAuthenticationFailed", err)
	}
}

func TestOpenEmptyPlaintext(t *testing.T) {
	key := make([]byte, KeyLen)
	var nonce [NonceLen]byte
	aad := []byte("header bytes")

	ciphertext, err := Seal(key, nonce, aad, nil)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	plaintext, err := Open(key, nonce, aad, ciphertext)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(plaintext) != 0 {
		t.Errorf("expected empty plaintext, got %d bytes", len(plaintext))
	}
}
