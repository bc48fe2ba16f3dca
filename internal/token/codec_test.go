package token_test

import (
	"strings"
	"testing"
	"time"

	"akun/internal/models"
	"akun/internal/token"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test_jwt_secret")

func strPtr(s string) *string { return &s }

func TestCodec_RoundTrip(t *testing.T) {
	codec := token.NewCodec(0)

	identities := []models.Identity{
		{Username: "alice", Email: strPtr("alice@example.com")},
		{Username: "bob"},
		{Username: "carol", Email: strPtr("")},
	}
	for _, identity := range identities {
		tokenString, err := codec.Encode(identity, testSecret)
		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		decoded, err := codec.Decode(tokenString, testSecret)
		require.NoError(t, err)
		assert.Equal(t, identity, decoded)
	}
}

func TestCodec_RoundTripWithExpiry(t *testing.T) {
	codec := token.NewCodec(time.Hour)
	identity := models.Identity{Username: "alice", Email: strPtr("alice@example.com")}

	tokenString, err := codec.Encode(identity, testSecret)
	require.NoError(t, err)

	decoded, err := codec.Decode(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, identity, decoded)
}

func TestCodec_WrongSecret(t *testing.T) {
	codec := token.NewCodec(time.Hour)

	tokenString, err := codec.Encode(models.Identity{Username: "alice"}, testSecret)
	require.NoError(t, err)

	_, err = codec.Decode(tokenString, []byte("other_secret"))
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestCodec_Expired(t *testing.T) {
	codec := token.NewCodec(-time.Hour)

	tokenString, err := codec.Encode(models.Identity{Username: "alice"}, testSecret)
	require.NoError(t, err)

	_, err = codec.Decode(tokenString, testSecret)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
	assert.Contains(t, err.Error(), "expired")
}

func TestCodec_Malformed(t *testing.T) {
	codec := token.NewCodec(0)

	for _, tokenString := range []string{"", "garbage", "not.a.token", "a.b"} {
		_, err := codec.Decode(tokenString, testSecret)
		assert.ErrorIs(t, err, token.ErrMalformedToken, "token %q", tokenString)
	}
}

func TestCodec_MissingUsernameIsMalformed(t *testing.T) {
	codec := token.NewCodec(0)

	tokenString, err := codec.Encode(models.Identity{}, testSecret)
	require.NoError(t, err)

	_, err = codec.Decode(tokenString, testSecret)
	assert.ErrorIs(t, err, token.ErrMalformedToken)
}

func TestCodec_RejectsOtherSigningMethods(t *testing.T) {
	codec := token.NewCodec(0)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"username": "mallory"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Decode(unsigned, testSecret)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestCodec_SwappedPayloadFails(t *testing.T) {
	codec := token.NewCodec(0)

	aliceToken, err := codec.Encode(models.Identity{Username: "alice"}, testSecret)
	require.NoError(t, err)
	malloryToken, err := codec.Encode(models.Identity{Username: "mallory"}, []byte("mallory_secret"))
	require.NoError(t, err)

	alice := strings.Split(aliceToken, ".")
	mallory := strings.Split(malloryToken, ".")
	forged := alice[0] + "." + mallory[1] + "." + alice[2]

	_, err = codec.Decode(forged, testSecret)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestCodec_TamperingAlwaysFails(t *testing.T) {
	codec := token.NewCodec(time.Hour)

	tokenString, err := codec.Encode(models.Identity{Username: "alice", Email: strPtr("alice@example.com")}, testSecret)
	require.NoError(t, err)

	// Truncation.
	for n := 1; n < len(tokenString); n += 7 {
		_, err := codec.Decode(tokenString[:len(tokenString)-n], testSecret)
		assert.Error(t, err, "truncated by %d", n)
	}

	// The last character of a segment may carry padding bits only, so
	// every other character is flipped.
	for i := 0; i < len(tokenString); i++ {
		if tokenString[i] == '.' || i == len(tokenString)-1 || tokenString[i+1] == '.' {
			continue
		}
		replacement := byte('A')
		if tokenString[i] == 'A' {
			replacement = 'B'
		}
		tampered := tokenString[:i] + string(replacement) + tokenString[i+1:]

		_, err := codec.Decode(tampered, testSecret)
		assert.Error(t, err, "flipped byte %d", i)
	}
}
