package pipeline

import (
	"context"

	"github.com/CXPhoenix/ResQrypt/internal/archive"
	"github.com/CXPhoenix/ResQrypt/internal/compress"
	"github.com/CXPhoenix/ResQrypt/internal/container"
	"github.com/CXPhoenix/ResQrypt/internal/crypto"
	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
	"github.com/CXPhoenix/ResQrypt/internal/storage"
)

// DecryptRequest is the narrow interface the CLI uses to drive a
// decryption. OutputPath is a directory target when the container
// carries the archive flag, a file target otherwise.
type DecryptRequest struct {
	Context    context.Context
	InputPath  string
	OutputPath string
	Password   PasswordProvider
	Overwrite  bool
	Verbose    Sink
}

// DecryptResult summarizes a completed decryption for the caller to
// report to the user.
type DecryptResult struct {
	OutputSize int
	Compressed bool
	Archive    bool
}

// Decrypt runs the full decrypt pipeline: read the container, decode and
// validate its header, derive the key, authenticate and open the
// ciphertext, decompress and unpack as the header's flags direct, and
// write the result.
func Decrypt(req DecryptRequest) (DecryptResult, error) {
	if err := storage.ValidatePath(req.InputPath); err != nil {
		return DecryptResult{}, err
	}
	if err := storage.ValidatePath(req.OutputPath); err != nil {
		return DecryptResult{}, err
	}

	req.Verbose.report("Reading container...")
	raw, err := storage.ReadFile(req.InputPath)
	if err != nil {
		return DecryptResult{}, err
	}

	req.Verbose.report("Parsing header...")
	header, err := container.Decode(raw)
	if err != nil {
		return DecryptResult{}, err
	}
	headerBytes := raw[:container.Size]
	ciphertext := raw[container.Size:]

	if header.IsArchive() && storage.FileExists(req.OutputPath) && !storage.IsDir(req.OutputPath) {
		return DecryptResult{}, resqerr.Wrap(resqerr.ErrOutputTypeMismatch, "RESQ_OUTPUT_IS_FILE",
			"output path is an existing file, expected a directory target for an archive", nil)
	}
	if !header.IsArchive() && storage.IsDir(req.OutputPath) {
		return DecryptResult{}, resqerr.Wrap(resqerr.ErrOutputTypeMismatch, "RESQ_OUTPUT_IS_DIR",
			"output path is an existing directory, expected a file target", nil)
	}

	// KDF parameters are validated before Argon2id ever runs, so a
	// corrupted or hostile header cannot force an unbounded memory claim.
	if err := header.Kdf.Validate(); err != nil {
		return DecryptResult{}, err
	}

	if err := checkCancel(req.Context); err != nil {
		return DecryptResult{}, err
	}

	req.Verbose.report("Deriving decryption key...")
	password, err := req.Password.Password()
	if err != nil {
		return DecryptResult{}, resqerr.Wrap(resqerr.ErrPasswordUnavailable, "RESQ_PASSWORD", "failed to obtain password", err)
	}
	defer crypto.ClearBytes(password)
	if len(password) == 0 {
		return DecryptResult{}, resqerr.Wrap(resqerr.ErrPasswordUnavailable, "RESQ_EMPTY_PASSWORD", "password cannot be empty", nil)
	}

	key := crypto.DeriveKey(password, header.Salt, header.Kdf)
	defer crypto.ClearBytes(key)

	if err := checkCancel(req.Context); err != nil {
		return DecryptResult{}, err
	}

	req.Verbose.report("Authenticating and decrypting...")
	plaintext, err := crypto.Open(key, header.Nonce, headerBytes, ciphertext)
	if err != nil {
		return DecryptResult{}, err
	}
	defer crypto.ClearBytes(plaintext)

	if err := checkCancel(req.Context); err != nil {
		return DecryptResult{}, err
	}

	payload := plaintext
	if header.IsCompressed() {
		req.Verbose.report("Decompressing...")
		decompressed, err := compress.Decompress(plaintext)
		if err != nil {
			return DecryptResult{}, err
		}
		payload = decompressed
	}

	if err := checkCancel(req.Context); err != nil {
		return DecryptResult{}, err
	}

	req.Verbose.report("Writing output...")
	outputSize := len(payload)
	if header.IsArchive() {
		if err := archive.Unpack(payload, req.OutputPath); err != nil {
			return DecryptResult{}, err
		}
	} else {
		if err := storage.WriteContainerAtomic(req.OutputPath, payload, req.Overwrite); err != nil {
			return DecryptResult{}, err
		}
	}

	return DecryptResult{
		OutputSize: outputSize,
		Compressed: header.IsCompressed(),
		Archive:    header.IsArchive(),
	}, nil
}
