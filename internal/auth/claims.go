package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrNoUserID       = errors.New("token carries no user id")
)

// userIDClaims lists the payload fields the API has used for the user id.
var userIDClaims = []string{"id", "_id", "userId"}

// UserIDFromToken reads the payload without verifying the signature; the
// token was issued by the remote API and is only ever checked there.
func UserIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	for _, name := range userIDClaims {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v, nil
			}
		case float64:
			return fmt.Sprintf("%.0f", v), nil
		}
	}
	return "", ErrNoUserID
}
