package apperr

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/keeper/internal/dbx"
	"github.com/dmitrijs2005/keeper/internal/server/auth"
)

// jwtMisconfigured are token library failures caused by the deployed key
// material rather than by the presented token.
var jwtMisconfigured = []struct {
	err    error
	detail string
}{
	{jwt.ErrNotECPrivateKey, "EC private key is invalid"},
	{jwt.ErrNotECPublicKey, "EC public key is invalid"},
	{jwt.ErrNotRSAPrivateKey, "RSA private key is invalid"},
	{jwt.ErrNotRSAPublicKey, "RSA public key is invalid"},
	{jwt.ErrNotEdPrivateKey, "Ed25519 private key is invalid"},
	{jwt.ErrNotEdPublicKey, "Ed25519 public key is invalid"},
	{jwt.ErrInvalidKey, "signing key is invalid"},
	{jwt.ErrInvalidKeyType, "signing key has the wrong type"},
	{jwt.ErrHashUnavailable, "signing hash is unavailable"},
}

// jwtMalformed are failures caused by a structurally broken token or an
// algorithm/key format the client should not have sent.
var jwtMalformed = []error{
	jwt.ErrTokenMalformed,
	jwt.ErrTokenUnverifiable,
	jwt.ErrKeyMustBePEMEncoded,
}

// FromJWT classifies an error returned by the token library or by
// auth.Issuer. Anything not recognised is TokenInvalid.
func FromJWT(err error) error {
	if err == nil {
		return nil
	}

	var signErr *auth.SigningError
	if errors.As(err, &signErr) {
		return Misconfiguredf("token signing failed: %v", signErr.Err)
	}
	for _, m := range jwtMisconfigured {
		if errors.Is(err, m.err) {
			return Misconfigured(m.detail)
		}
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}

	for _, m := range jwtMalformed {
		if errors.Is(err, m) {
			return ErrTokenMalformed
		}
	}

	return ErrTokenInvalid
}

// FromStorage classifies a datastore error. Only failures raised while
// constructing the datastore are operator actionable; the rest are internal.
func FromStorage(err error) error {
	if err == nil {
		return nil
	}
	var setupErr *dbx.SetupError
	if errors.As(err, &setupErr) {
		return Misconfigured(setupErr.Error())
	}
	return Internal(err.Error())
}

// FromVerification collapses any password/signature verification failure
// into CredentialsInvalid. The cause is discarded on purpose so callers
// cannot tell one failure from another.
func FromVerification(err error) error {
	if err == nil {
		return nil
	}
	return ErrCredentialsInvalid
}

// FromDecode folds a decoding failure (base64, hex, JSON) into
// InternalError, keeping the message for the operator.
func FromDecode(err error) error {
	if err == nil {
		return nil
	}
	return Internal(err.Error())
}
