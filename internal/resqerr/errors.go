// Package resqerr defines the error taxonomy shared by every ResQrypt
// component and the exit code each kind maps to on the CLI.
package resqerr

import (
	"errors"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Exit codes, per the CLI contract.
const (
	ExitOK             = 0
	ExitGeneric        = 1
	ExitAuthentication = 2
	ExitFraming        = 3
)

// Sentinel errors. Use errors.Is against these, never string matching.
var (
	ErrIo                   = errors.New("resqrypt: I/O error")
	ErrBadMagic             = errors.New("resqrypt: not a resqrypt file")
	ErrUnsupportedVersion   = errors.New("resqrypt: unsupported file format version")
	ErrReservedFlag         = errors.New("resqrypt: reserved header flag bit set")
	ErrTruncated            = errors.New("resqrypt: truncated container")
	ErrInvalidKdfParams     = errors.New("resqrypt: invalid KDF parameters in header")
	ErrAuthenticationFailed = errors.New("resqrypt: authentication failed")
	ErrCorruptCompressed    = errors.New("resqrypt: corrupt compressed stream")
	ErrUnsafeArchive        = errors.New("resqrypt: unsafe archive entry")
	ErrPasswordUnavailable  = errors.New("resqrypt: no password available")
	ErrOutputExists         = errors.New("resqrypt: output already exists")
	ErrOutputTypeMismatch   = errors.New("resqrypt: output path type mismatch")
)

// ExitCode returns the process exit code for err, walking its chain with
// errors.Is against the sentinels above. Unrecognized errors exit 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrAuthenticationFailed):
		return ExitAuthentication
	case errors.Is(err, ErrBadMagic),
		errors.Is(err, ErrUnsupportedVersion),
		errors.Is(err, ErrReservedFlag),
		errors.Is(err, ErrTruncated),
		errors.Is(err, ErrInvalidKdfParams):
		return ExitFraming
	default:
		return ExitGeneric
	}
}

// Wrap attaches a rich, code-carrying error (via go-errors) to sentinel,
// mirroring the double-%w idiom used throughout the AGILira crypto
// packages: callers can still errors.Is(err, sentinel) while the wrapped
// go-errors value keeps a stable machine-readable code and message.
func Wrap(sentinel error, code, msg string, cause error) error {
	var rich error
	if cause != nil {
		rich = goerrors.Wrap(cause, code, msg)
	} else {
		rich = goerrors.New(code, msg)
	}
	return fmt.Errorf("%w: %w", sentinel, rich)
}

// IoError wraps an I/O failure with path context.
func IoError(path string, cause error) error {
	return Wrap(ErrIo, "RESQ_IO", fmt.Sprintf("I/O error for %q", path), cause)
}
