// Package auth issues and parses the access tokens accepted by the HTTP and
// gRPC edges. Errors are returned as produced by the token library; callers
// classify them with apperr.FromJWT.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Supported signing algorithms.
const (
	AlgHS256 = "HS256"
	AlgRS256 = "RS256"
	AlgES256 = "ES256"
)

// Claims is the token payload. The subject is the account id.
type Claims struct {
	jwt.RegisteredClaims
}

// SigningError wraps a failure to sign a token with the configured key.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string { return "token signing failed: " + e.Err.Error() }

func (e *SigningError) Unwrap() error { return e.Err }

// Options configure an Issuer.
//
// HS256 uses Secret. RS256 and ES256 use PEM encoded keys; a deployment that
// only verifies tokens may leave PrivateKeyPEM empty.
type Options struct {
	Algorithm     string
	Secret        []byte
	PrivateKeyPEM []byte
	PublicKeyPEM  []byte
	TTL           time.Duration
	Issuer        string
}

// Issuer signs and verifies access tokens.
type Issuer struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	ttl       time.Duration
	issuer    string
	now       func() time.Time
}

// NewIssuer loads key material for o.Algorithm.
func NewIssuer(o Options) (*Issuer, error) {
	i := &Issuer{ttl: o.TTL, issuer: o.Issuer, now: time.Now}

	switch o.Algorithm {
	case AlgHS256, "":
		if len(o.Secret) == 0 {
			return nil, fmt.Errorf("hs256 secret is empty: %w", jwt.ErrInvalidKey)
		}
		i.method = jwt.SigningMethodHS256
		i.signKey = o.Secret
		i.verifyKey = o.Secret

	case AlgRS256:
		i.method = jwt.SigningMethodRS256
		if len(o.PrivateKeyPEM) > 0 {
			key, err := jwt.ParseRSAPrivateKeyFromPEM(o.PrivateKeyPEM)
			if err != nil {
				return nil, fmt.Errorf("rs256 private key: %w", err)
			}
			i.signKey = key
			i.verifyKey = &key.PublicKey
		}
		if len(o.PublicKeyPEM) > 0 {
			key, err := jwt.ParseRSAPublicKeyFromPEM(o.PublicKeyPEM)
			if err != nil {
				return nil, fmt.Errorf("rs256 public key: %w", err)
			}
			i.verifyKey = key
		}

	case AlgES256:
		i.method = jwt.SigningMethodES256
		if len(o.PrivateKeyPEM) > 0 {
			key, err := jwt.ParseECPrivateKeyFromPEM(o.PrivateKeyPEM)
			if err != nil {
				return nil, fmt.Errorf("es256 private key: %w", err)
			}
			i.signKey = key
			i.verifyKey = &key.PublicKey
		}
		if len(o.PublicKeyPEM) > 0 {
			key, err := jwt.ParseECPublicKeyFromPEM(o.PublicKeyPEM)
			if err != nil {
				return nil, fmt.Errorf("es256 public key: %w", err)
			}
			i.verifyKey = key
		}

	default:
		return nil, fmt.Errorf("algorithm %q: %w", o.Algorithm, jwt.ErrTokenUnverifiable)
	}

	if i.verifyKey == nil {
		return nil, fmt.Errorf("%s needs a private or public key: %w", o.Algorithm, jwt.ErrInvalidKey)
	}

	return i, nil
}

// Algorithm returns the configured signing algorithm.
func (i *Issuer) Algorithm() string { return i.method.Alg() }

// Issue returns a signed token for subject valid for the configured TTL.
func (i *Issuer) Issue(subject string) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.signKey)
	if err != nil {
		return "", &SigningError{Err: err}
	}
	return signed, nil
}

// Parse verifies token and returns its subject.
func (i *Issuer) Parse(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.verifyKey, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" {
		return "", errors.Join(jwt.ErrTokenInvalidClaims, jwt.ErrTokenRequiredClaimMissing)
	}

	return claims.Subject, nil
}
