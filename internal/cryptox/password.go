// Package cryptox hashes and verifies account passwords with argon2id.
//
// Hashes are stored as PHC strings:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMismatch is returned by Verify when the password does not match.
var ErrMismatch = errors.New("cryptox: password does not match")

// DecodeError reports a stored hash that cannot be parsed. It means the
// datastore holds corrupt data, not that the caller typed a wrong password.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cryptox: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultParams follow the OWASP baseline for argon2id.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}

// Bounds accepted when decoding a stored hash. Anything outside them is
// corrupt data: argon2 panics on zero rounds or threads, and the memory
// cost is allocated as given.
const (
	maxMemory  = 1 << 20 // KiB
	maxTime    = 32
	minSaltLen = 8
	minKeyLen  = 16
	maxKeyLen  = 128
)

type Hasher struct {
	p Params

	dummy    string
	dummyErr error
}

// NewHasher also prepares the dummy hash, so the first unknown-handle login
// costs the same as any other.
func NewHasher(p Params) *Hasher {
	h := &Hasher{p: p}
	h.dummy, h.dummyErr = h.makeDummy()
	return h
}

func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: generate salt: %w", err)
	}
	return h.encode(password, salt), nil
}

func (h *Hasher) encode(password string, salt []byte) string {
	key := argon2.IDKey([]byte(password), salt, h.p.Time, h.p.Memory, h.p.Threads, h.p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.p.Memory, h.p.Time, h.p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// Verify checks password against an encoded hash. The parameters stored in
// the hash are used, not the hasher's own.
func (h *Hasher) Verify(password, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return &DecodeError{Field: "format", Err: errors.New("not an argon2id PHC string")}
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return &DecodeError{Field: "version", Err: err}
	}
	if version != argon2.Version {
		return &DecodeError{Field: "version", Err: fmt.Errorf("unsupported version %d", version)}
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return &DecodeError{Field: "params", Err: err}
	}

	if err := checkParams(memory, time, threads); err != nil {
		return &DecodeError{Field: "params", Err: err}
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return &DecodeError{Field: "salt", Err: err}
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return &DecodeError{Field: "hash", Err: err}
	}
	if len(salt) < minSaltLen {
		return &DecodeError{Field: "salt", Err: fmt.Errorf("length %d below %d", len(salt), minSaltLen)}
	}
	if len(want) < minKeyLen || len(want) > maxKeyLen {
		return &DecodeError{Field: "hash", Err: fmt.Errorf("length %d outside [%d, %d]", len(want), minKeyLen, maxKeyLen)}
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

func checkParams(memory, time uint32, threads uint8) error {
	switch {
	case time < 1 || time > maxTime:
		return fmt.Errorf("t=%d outside [1, %d]", time, maxTime)
	case threads < 1:
		return fmt.Errorf("p=%d below 1", threads)
	case memory < 8*uint32(threads) || memory > maxMemory:
		return fmt.Errorf("m=%d outside [%d, %d]", memory, 8*uint32(threads), maxMemory)
	}
	return nil
}

// Dummy returns a valid hash of a random password made with the hasher's
// parameters. Verifying against it costs the same as verifying a real
// account and never succeeds.
func (h *Hasher) Dummy() (string, error) {
	return h.dummy, h.dummyErr
}

func (h *Hasher) makeDummy() (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("cryptox: dummy hash: %w", err)
	}
	return h.Hash(base64.RawStdEncoding.EncodeToString(secret))
}
