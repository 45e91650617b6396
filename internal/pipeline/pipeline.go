// Package pipeline wires the header codec, archiver, compressor, key
// deriver, and AEAD cipher into the encrypt and decrypt flows. It is the
// only package that knows the end-to-end ordering; everything below it
// is a single-purpose primitive.
package pipeline

import (
	"context"

	"github.com/CXPhoenix/ResQrypt/internal/container"
)

// PasswordProvider abstracts how a password is obtained — from a CLI
// flag, an environment variable, or an interactive terminal prompt. The
// pipeline never knows which.
type PasswordProvider interface {
	// Password returns the password bytes to use. Callers own the
	// returned slice and must zeroize it once the pipeline returns.
	Password() ([]byte, error)
}

// StaticPassword is a PasswordProvider backed by an already-known value
// (e.g. -p/--password or RESQRYPT_PASSWORD).
type StaticPassword []byte

// Password returns p unchanged.
func (p StaticPassword) Password() ([]byte, error) { return p, nil }

// Sink receives human-readable progress messages for one pipeline stage.
// A nil Sink means "no verbose output" — the orchestrator itself never
// formats or colors these messages, it only reports stage names.
type Sink func(stage string)

func (s Sink) report(stage string) {
	if s != nil {
		s(stage)
	}
}

// checkCancel returns ctx.Err() if ctx has already been canceled.
// Cancellation is only checked at stage boundaries, never inside
// Argon2id itself.
func checkCancel(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}

// resolveKdfParams returns override if non-nil, otherwise the domain
// default.
func resolveKdfParams(override *container.KdfParams) container.KdfParams {
	if override != nil {
		return *override
	}
	return container.DefaultKdfParams
}
