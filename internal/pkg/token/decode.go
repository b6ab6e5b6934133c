package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// claims carries the backend-minted identity claim. The backend signs
// tokens with a secret the client never holds, so decoding here reads the
// payload without signature verification; authenticity is established by
// the backend rejecting forged tokens on the first resolved call.
type claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Decode extracts the subject (user) id from a bearer credential without
// touching network or storage. It fails with ErrTokenInvalid when the
// credential cannot be parsed or lacks the subject claim, and with
// ErrTokenExpired when the embedded expiry has passed. It never panics on
// malformed input.
func Decode(credential string) (string, error) {
	parser := jwt.NewParser()

	var c claims
	if _, _, err := parser.ParseUnverified(credential, &c); err != nil {
		return "", ErrTokenInvalid
	}

	if c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()) {
		return "", ErrTokenExpired
	}

	if c.UserID == "" {
		return "", ErrTokenInvalid
	}

	return c.UserID, nil
}
