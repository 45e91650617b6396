// Package crypto derives encryption keys from passwords and performs
// AES-256-GCM authenticated encryption over the derived key.
package crypto

import (
	"crypto/rand"
	"runtime"

	"golang.org/x/crypto/argon2"

	"github.com/CXPhoenix/ResQrypt/internal/container"
	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

// KeyLen is the derived key length, sized for AES-256.
const KeyLen = 32

// SaltLen is the KDF salt length.
const SaltLen = 32

// NonceLen is the AES-GCM nonce length.
const NonceLen = 12

// DeriveKey derives a KeyLen-byte key from password and salt using
// Argon2id. params must already have been validated with
// container.KdfParams.Validate — callers on the decrypt path MUST do
// this before calling DeriveKey, to avoid letting a hostile header force
// an unbounded allocation.
func DeriveKey(password []byte, salt [SaltLen]byte, params container.KdfParams) []byte {
	return argon2.IDKey(password, salt[:], params.Iterations, params.MemoryMiB*1024, uint8(params.Parallelism), KeyLen)
}

// GenerateSalt draws a fresh KDF salt from the operating system's
// secure random source.
func GenerateSalt() ([SaltLen]byte, error) {
	var salt [SaltLen]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return salt, resqerr.Wrap(resqerr.ErrIo, "RESQ_SALT_GEN", "failed to generate salt", err)
	}
	return salt, nil
}

// GenerateNonce draws a fresh AES-GCM nonce from the operating system's
// secure random source.
func GenerateNonce() ([NonceLen]byte, error) {
	var nonce [NonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nonce, resqerr.Wrap(resqerr.ErrIo, "RESQ_NONCE_GEN", "failed to generate nonce", err)
	}
	return nonce, nil
}

// ClearBytes overwrites b with zeros in place so secret material does
// not linger in memory after use.
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
