// Package container implements the ResQrypt file header codec: encoding
// and decoding of the fixed 66-byte framing that precedes every
// ciphertext, and that doubles as the AEAD associated data.
package container

import (
	"encoding/binary"

	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

// Magic identifies a resqrypt container.
var Magic = [8]byte{'R', 'E', 'S', 'Q', 'R', 'Y', 'P', 'T'}

// Version is the only supported format version.
const Version byte = 0x01

// Flag bits. Any other bit set in the header is a protocol error.
const (
	FlagCompressed byte = 1 << 0
	FlagArchive    byte = 1 << 1

	knownFlags = FlagCompressed | FlagArchive
)

// Size is the fixed on-disk header length in bytes.
const Size = 8 + 1 + 1 + 4 + 4 + 4 + 32 + 12

// TagSize is the AES-256-GCM authentication tag length.
const TagSize = 16

// KdfParams is the (memory, iterations, parallelism) tuple carried in the
// header so decryption can reconstruct the derivation without out-of-band
// configuration.
type KdfParams struct {
	MemoryMiB   uint32
	Iterations  uint32
	Parallelism uint32
}

// Default KDF parameters, per the domain defaults.
var DefaultKdfParams = KdfParams{MemoryMiB: 64, Iterations: 3, Parallelism: 4}

// Valid ranges for KDF parameters, enforced before Argon2id ever runs.
const (
	MinMemoryMiB   = 8
	MaxMemoryMiB   = 4096
	MinIterations  = 1
	MaxIterations  = 20
	MinParallelism = 1
	MaxParallelism = 16
)

// Validate rejects KDF parameters outside the allowed ranges. This check
// MUST run on every header decoded from an untrusted file before Argon2id
// is invoked, to prevent a hostile file from forcing a multi-gigabyte
// allocation.
func (p KdfParams) Validate() error {
	if p.MemoryMiB < MinMemoryMiB || p.MemoryMiB > MaxMemoryMiB {
		return resqerr.Wrap(resqerr.ErrInvalidKdfParams, "RESQ_KDF_MEMORY",
			"Argon2 memory cost out of range", nil)
	}
	if p.Iterations < MinIterations || p.Iterations > MaxIterations {
		return resqerr.Wrap(resqerr.ErrInvalidKdfParams, "RESQ_KDF_ITERATIONS",
			"Argon2 iteration count out of range", nil)
	}
	if p.Parallelism < MinParallelism || p.Parallelism > MaxParallelism {
		return resqerr.Wrap(resqerr.ErrInvalidKdfParams, "RESQ_KDF_PARALLELISM",
			"Argon2 parallelism out of range", nil)
	}
	return nil
}

// Header is the decoded form of the 66-byte container prefix.
type Header struct {
	Flags  byte
	Kdf    KdfParams
	Salt   [32]byte
	Nonce  [12]byte
}

// IsCompressed reports whether the payload was zstd-compressed before
// encryption.
func (h Header) IsCompressed() bool { return h.Flags&FlagCompressed != 0 }

// IsArchive reports whether the payload is a tar archive of a directory.
func (h Header) IsArchive() bool { return h.Flags&FlagArchive != 0 }

// Encode serializes h into a fresh Size-byte buffer. Encoding is total:
// it never fails.
func Encode(h Header) []byte {
	buf := make([]byte, Size)
	copy(buf[0:8], Magic[:])
	buf[8] = Version
	buf[9] = h.Flags
	binary.LittleEndian.PutUint32(buf[10:14], h.Kdf.MemoryMiB)
	binary.LittleEndian.PutUint32(buf[14:18], h.Kdf.Iterations)
	binary.LittleEndian.PutUint32(buf[18:22], h.Kdf.Parallelism)
	copy(buf[22:54], h.Salt[:])
	copy(buf[54:66], h.Nonce[:])
	return buf
}

// Decode parses a Size-byte header. The magic, version, and flag bytes
// are validated before any KDF parameter or salt/nonce bytes are
// inspected, per the framing invariant that bad magic/version/flags must
// be distinguishable from a truncated file.
func Decode(buf []byte) (Header, error) {
	if len(buf) < Size {
		return Header{}, resqerr.Wrap(resqerr.ErrTruncated, "RESQ_HEADER_SHORT",
			"container shorter than the fixed header", nil)
	}
	if string(buf[0:8]) != string(Magic[:]) {
		return Header{}, resqerr.Wrap(resqerr.ErrBadMagic, "RESQ_BAD_MAGIC",
			"not a valid resqrypt file (invalid magic bytes)", nil)
	}
	if buf[8] != Version {
		return Header{}, resqerr.Wrap(resqerr.ErrUnsupportedVersion, "RESQ_BAD_VERSION",
			"unsupported file format version", nil)
	}
	flags := buf[9]
	if flags&^knownFlags != 0 {
		return Header{}, resqerr.Wrap(resqerr.ErrReservedFlag, "RESQ_RESERVED_FLAG",
			"reserved flag bit set", nil)
	}

	h := Header{
		Flags: flags,
		Kdf: KdfParams{
			MemoryMiB:   binary.LittleEndian.Uint32(buf[10:14]),
			Iterations:  binary.LittleEndian.Uint32(buf[14:18]),
			Parallelism: binary.LittleEndian.Uint32(buf[18:22]),
		},
	}
	copy(h.Salt[:], buf[22:54])
	copy(h.Nonce[:], buf[54:66])
	return h, nil
}
