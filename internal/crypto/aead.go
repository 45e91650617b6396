package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

// Seal encrypts plaintext under key and nonce, binding aad (the
// container header) into the authentication tag without encrypting it.
// The returned slice is ciphertext with the 16-byte tag appended.
func Seal(key []byte, nonce [NonceLen]byte, aad, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce[:], plaintext, aad), nil
}

// Open authenticates and decrypts ciphertext (with its trailing tag)
// under key, nonce, and aad. A tag mismatch — wrong password, tampered
// ciphertext, or a corrupted header — always surfaces as
// resqerr.ErrAuthenticationFailed; the two causes are deliberately not
// distinguished.
func Open(key []byte, nonce [NonceLen]byte, aad, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.Overhead() {
		return nil, resqerr.Wrap(resqerr.ErrAuthenticationFailed, "RESQ_CIPHERTEXT_SHORT",
			"ciphertext shorter than the authentication tag", nil)
	}

	plaintext, err := gcm.Open(nil, nonce[:], ciphertext, aad)
	if err != nil {
		return nil, resqerr.Wrap(resqerr.ErrAuthenticationFailed, "RESQ_AUTH_FAILED",
			"authentication failed: wrong password or corrupted data", err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, resqerr.Wrap(resqerr.ErrAuthenticationFailed, "RESQ_CIPHER_INIT",
			"failed to initialize AES cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, resqerr.Wrap(resqerr.ErrAuthenticationFailed, "RESQ_GCM_INIT",
			"failed to initialize GCM mode", err)
	}
	return gcm, nil
}
