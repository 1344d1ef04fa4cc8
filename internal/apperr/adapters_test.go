package apperr

import (
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/keeper/internal/dbx"
	"github.com/dmitrijs2005/keeper/internal/server/auth"
)

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	e, ok := As(err)
	require.True(t, ok, "expected apperr.Error, got %T", err)
	return e.Kind()
}

func TestFromJWT(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"expired", errors.Join(jwt.ErrTokenInvalidClaims, jwt.ErrTokenExpired), KindTokenExpired},
		{"malformed structure", fmt.Errorf("%w: token contains an invalid number of segments", jwt.ErrTokenMalformed), KindTokenMalformed},
		{"invalid algorithm name", fmt.Errorf("%w: signing method (alg) is unavailable", jwt.ErrTokenUnverifiable), KindTokenMalformed},
		{"invalid key format", jwt.ErrKeyMustBePEMEncoded, KindTokenMalformed},
		{"invalid ec private key", jwt.ErrNotECPrivateKey, KindServerMisconfigured},
		{"invalid ec public key", jwt.ErrNotECPublicKey, KindServerMisconfigured},
		{"invalid rsa private key", jwt.ErrNotRSAPrivateKey, KindServerMisconfigured},
		{"invalid rsa public key", fmt.Errorf("load: %w", jwt.ErrNotRSAPublicKey), KindServerMisconfigured},
		{"wrong key type", jwt.ErrInvalidKeyType, KindServerMisconfigured},
		{"signing failure", &auth.SigningError{Err: errors.New("rsa: decryption error")}, KindServerMisconfigured},
		{"bad signature", jwt.ErrTokenSignatureInvalid, KindTokenInvalid},
		{"ecdsa verification", jwt.ErrECDSAVerification, KindTokenInvalid},
		{"ed25519 verification", jwt.ErrEd25519Verification, KindTokenInvalid},
		{"not valid yet", errors.Join(jwt.ErrTokenInvalidClaims, jwt.ErrTokenNotValidYet), KindTokenInvalid},
		{"anything else", errors.New("something odd"), KindTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kindOf(t, FromJWT(tt.err)))
		})
	}

	assert.Nil(t, FromJWT(nil))
}

func TestFromJWT_MisconfiguredDetailStaysOffTheMessage(t *testing.T) {
	t.Parallel()

	err := FromJWT(&auth.SigningError{Err: errors.New("key id 7 rejected")})
	e, ok := As(err)
	require.True(t, ok)
	assert.Contains(t, e.Detail(), "key id 7 rejected")
	assert.NotContains(t, e.Error(), "key id 7")
}

func TestFromStorage(t *testing.T) {
	t.Parallel()

	setup := &dbx.SetupError{Op: "ping", Err: errors.New("connection refused")}
	e, ok := As(FromStorage(fmt.Errorf("startup: %w", setup)))
	require.True(t, ok)
	assert.Equal(t, KindServerMisconfigured, e.Kind())
	assert.Equal(t, "datastore ping: connection refused", e.Detail())

	e, ok = As(FromStorage(sql.ErrConnDone))
	require.True(t, ok)
	assert.Equal(t, Internal(sql.ErrConnDone.Error()), e)

	assert.Nil(t, FromStorage(nil))
}

func TestFromVerification_AlwaysCredentialsInvalid(t *testing.T) {
	t.Parallel()

	causes := []error{
		errors.New("hash mismatch"),
		errors.New("salt too short"),
		fmt.Errorf("wrapped: %w", errors.New("mac invalid")),
	}
	var first error
	for _, c := range causes {
		got := FromVerification(c)
		assert.Equal(t, ErrCredentialsInvalid, got)
		if first == nil {
			first = got
		}
		assert.Equal(t, first, got)
		assert.NotContains(t, got.Error(), c.Error())
	}

	assert.Nil(t, FromVerification(nil))
}

func TestFromDecode(t *testing.T) {
	t.Parallel()

	_, b64Err := base64.RawStdEncoding.DecodeString("%%%")
	_, hexErr := hex.DecodeString("zz")
	jsonErr := json.Unmarshal([]byte("{"), &struct{}{})

	for _, cause := range []error{b64Err, hexErr, jsonErr} {
		require.Error(t, cause)
		e, ok := As(FromDecode(cause))
		require.True(t, ok)
		assert.Equal(t, Internal(cause.Error()), e)
	}

	assert.Nil(t, FromDecode(nil))
}
