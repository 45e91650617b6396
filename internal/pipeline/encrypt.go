package pipeline

import (
	"context"
	"fmt"

	"github.com/CXPhoenix/ResQrypt/internal/archive"
	"github.com/CXPhoenix/ResQrypt/internal/compress"
	"github.com/CXPhoenix/ResQrypt/internal/container"
	"github.com/CXPhoenix/ResQrypt/internal/crypto"
	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
	"github.com/CXPhoenix/ResQrypt/internal/storage"
)

// EncryptRequest is the narrow interface the CLI (or any other
// collaborator) uses to drive an encryption. KdfParams is optional;
// nil selects container.DefaultKdfParams.
type EncryptRequest struct {
	Context    context.Context
	InputPath  string
	OutputPath string
	Password   PasswordProvider
	KdfParams  *container.KdfParams
	Overwrite  bool
	Verbose    Sink
}

// EncryptResult summarizes a completed encryption for the caller to
// report to the user.
type EncryptResult struct {
	InputSize  int
	OutputSize int
	Compressed bool
	Archive    bool
}

// Encrypt runs the full encrypt pipeline: materialize the input (archive
// if a directory), smart-compress, derive a key from a fresh salt,
// seal with AES-256-GCM using the header as AAD, and write the
// container atomically.
func Encrypt(req EncryptRequest) (EncryptResult, error) {
	if err := storage.ValidatePath(req.InputPath); err != nil {
		return EncryptResult{}, err
	}
	if err := storage.ValidatePath(req.OutputPath); err != nil {
		return EncryptResult{}, err
	}
	if err := checkOutputTarget(req.OutputPath, req.Overwrite); err != nil {
		return EncryptResult{}, err
	}

	req.Verbose.report("Reading input...")
	plaintext, flags, err := materializeInput(req.InputPath)
	if err != nil {
		return EncryptResult{}, err
	}
	inputSize := len(plaintext)

	if err := checkCancel(req.Context); err != nil {
		return EncryptResult{}, err
	}

	req.Verbose.report("Compressing...")
	payload, wasCompressed, err := compress.MaybeCompress(plaintext)
	if err != nil {
		return EncryptResult{}, err
	}
	if wasCompressed {
		flags |= container.FlagCompressed
	} else {
		req.Verbose.report("Detected zstd format, skipping compression...")
	}

	if err := checkCancel(req.Context); err != nil {
		return EncryptResult{}, err
	}

	req.Verbose.report("Deriving encryption key...")
	kdfParams := resolveKdfParams(req.KdfParams)
	if err := kdfParams.Validate(); err != nil {
		return EncryptResult{}, err
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return EncryptResult{}, err
	}

	password, err := req.Password.Password()
	if err != nil {
		return EncryptResult{}, resqerr.Wrap(resqerr.ErrPasswordUnavailable, "RESQ_PASSWORD", "failed to obtain password", err)
	}
	defer crypto.ClearBytes(password)
	if len(password) == 0 {
		return EncryptResult{}, resqerr.Wrap(resqerr.ErrPasswordUnavailable, "RESQ_EMPTY_PASSWORD", "password cannot be empty", nil)
	}

	key := crypto.DeriveKey(password, salt, kdfParams)
	defer crypto.ClearBytes(key)

	if err := checkCancel(req.Context); err != nil {
		return EncryptResult{}, err
	}

	req.Verbose.report("Encrypting...")
	nonce, err := crypto.GenerateNonce()
	if err != nil {
		return EncryptResult{}, err
	}

	header := container.Header{Flags: flags, Kdf: kdfParams, Salt: salt, Nonce: nonce}
	headerBytes := container.Encode(header)

	ciphertext, err := crypto.Seal(key, nonce, headerBytes, payload)
	crypto.ClearBytes(payload)
	if err != nil {
		return EncryptResult{}, err
	}

	if err := checkCancel(req.Context); err != nil {
		return EncryptResult{}, err
	}

	req.Verbose.report("Writing output...")
	out := append(headerBytes, ciphertext...)
	if err := storage.WriteContainerAtomic(req.OutputPath, out, req.Overwrite); err != nil {
		return EncryptResult{}, err
	}

	return EncryptResult{
		InputSize:  inputSize,
		OutputSize: len(out),
		Compressed: header.IsCompressed(),
		Archive:    header.IsArchive(),
	}, nil
}

// materializeInput reads a file or, if inputPath is a directory, packs
// it into a tar stream, returning the archive flag to set.
func materializeInput(inputPath string) ([]byte, byte, error) {
	if storage.IsDir(inputPath) {
		data, err := archive.Pack(inputPath)
		if err != nil {
			return nil, 0, err
		}
		return data, container.FlagArchive, nil
	}

	if !storage.FileExists(inputPath) {
		return nil, 0, resqerr.Wrap(resqerr.ErrIo, "RESQ_INPUT_MISSING",
			fmt.Sprintf("input path does not exist: %s", inputPath), nil)
	}

	data, err := storage.ReadFile(inputPath)
	if err != nil {
		return nil, 0, err
	}
	return data, 0, nil
}

// checkOutputTarget rejects an output path whose existing type conflicts
// with the container file Encrypt is about to write, per spec.md's Open
// Questions resolution: type mismatches are a hard error, never guessed.
func checkOutputTarget(outputPath string, overwrite bool) error {
	if storage.IsDir(outputPath) {
		return resqerr.Wrap(resqerr.ErrOutputTypeMismatch, "RESQ_OUTPUT_IS_DIR",
			"output path is an existing directory, expected a file target", nil)
	}
	if storage.FileExists(outputPath) && !overwrite {
		return resqerr.Wrap(resqerr.ErrOutputExists, "RESQ_OUTPUT_EXISTS", "output already exists", nil)
	}
	return nil
}
