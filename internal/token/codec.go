package token

import (
	"errors"
	"fmt"
	"time"

	"akun/internal/models"

	"github.com/dgrijalva/jwt-go"
)

var (
	// ErrInvalidToken is returned when a token fails its integrity check or has expired.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMalformedToken is returned when a token does not decode to an identity.
	ErrMalformedToken = errors.New("malformed token")
)

type claims struct {
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	jwt.StandardClaims
}

// Codec encodes identities into signed session tokens and decodes them back.
// The signing secret is supplied on every call.
type Codec struct {
	ttl time.Duration // zero means tokens never expire
}

// NewCodec creates a new Codec issuing tokens valid for ttl.
func NewCodec(ttl time.Duration) *Codec {
	return &Codec{ttl: ttl}
}

// Encode signs identity with secret using HS256.
func (c *Codec) Encode(identity models.Identity, secret []byte) (string, error) {
	now := time.Now()
	cl := claims{
		Username: identity.Username,
		Email:    identity.Email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt: now.Unix(),
		},
	}
	if c.ttl != 0 {
		cl.ExpiresAt = now.Add(c.ttl).Unix()
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Decode verifies tokenString with secret and returns the identity it carries.
func (c *Codec) Decode(tokenString string, secret []byte) (models.Identity, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(tokenString, &cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return models.Identity{}, classify(err)
	}
	if cl.Username == "" {
		return models.Identity{}, fmt.Errorf("%w: missing username", ErrMalformedToken)
	}

	return models.Identity{Username: cl.Username, Email: cl.Email}, nil
}

func classify(err error) error {
	var ve *jwt.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	switch {
	case ve.Errors&jwt.ValidationErrorMalformed != 0:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case ve.Errors&jwt.ValidationErrorExpired != 0:
		return fmt.Errorf("%w: token expired", ErrInvalidToken)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
}
