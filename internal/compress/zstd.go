// Package compress implements smart-skip zstd compression: data that is
// already a zstd frame is passed through unchanged rather than
// recompressed.
package compress

import (
	"github.com/klauspost/compress/zstd"

	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

// Magic is the zstd frame magic number used for smart-skip detection.
var Magic = [4]byte{0x28, 0xB5, 0x2F, 0xFD}

// defaultZstdLevel is the balanced speed/ratio level; it is not recorded
// in the container header because zstd decoding does not need it.
const defaultZstdLevel = 3

// IsZstdFrame reports whether data begins with the zstd frame magic.
func IsZstdFrame(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return data[0] == Magic[0] && data[1] == Magic[1] && data[2] == Magic[2] && data[3] == Magic[3]
}

// MaybeCompress compresses data with zstd unless it is already a zstd
// frame, in which case it is returned unchanged. The returned bool
// reports whether compression was applied.
func MaybeCompress(data []byte) ([]byte, bool, error) {
	if IsZstdFrame(data) {
		return data, false, nil
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(defaultZstdLevel)))
	if err != nil {
		return nil, false, resqerr.Wrap(resqerr.ErrCorruptCompressed, "RESQ_ZSTD_ENCODER",
			"failed to create zstd encoder", err)
	}
	defer enc.Close()

	return enc.EncodeAll(data, nil), true, nil
}

// Decompress reverses MaybeCompress for payloads that were actually
// compressed. It only runs after AEAD authentication has already
// succeeded, so a failure here indicates a programmer error or a
// format-version mismatch rather than tampering.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, resqerr.Wrap(resqerr.ErrCorruptCompressed, "RESQ_ZSTD_DECODER",
			"failed to create zstd decoder", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, resqerr.Wrap(resqerr.ErrCorruptCompressed, "RESQ_ZSTD_DECODE",
			"corrupt compressed stream", err)
	}
	return out, nil
}
