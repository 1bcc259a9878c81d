package utils // package utils provides token helpers shared by the HTTP and WebSocket entry points

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// Roles carried in the role claim.
const (
	RolePlayer    = "PLAYER"
	RoleModerator = "MODERATOR"
)

// ErrInvalidToken covers every reason a token is rejected.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is what the login server puts in the token a client
// presents when it connects.  Subject holds the penguin id.
type SessionClaims struct {
	Nickname string `json:"nickname"`
	Color    int    `json:"color,omitempty"`
	Member   bool   `json:"member,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// PenguinID parses the numeric subject.
func (c SessionClaims) PenguinID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return id, nil
}

// AccessToken is a signed token along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken signs an HS256 token for a penguin.  The game server only
// verifies tokens; this exists for the login server and for tests.
func NewSessionToken(secret string, penguinID int, c SessionClaims, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	c.Subject = strconv.Itoa(penguinID)
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(exp)
	if c.Role == "" {
		c.Role = RolePlayer
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw with secret and returns its claims.  Only
// HS256 is accepted and the expiry is required.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	var claims SessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
