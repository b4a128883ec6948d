package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sidLength is the length of a session id. Short ids keep logs and lobby
// screens readable; uniqueness per lobby (max 4 players) is what matters.
const sidLength = 8

// Session identifies one player across polling requests.
type Session struct {
	SID  string
	Name string
}

// sessionClaims is the JWT payload for a guest session token.
type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// IssueToken allocates a fresh session id for the given display name and
// returns it with a signed HS256 token carrying both.
func IssueToken(secret, name string) (token string, sid string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("session secret is not configured")
	}
	sid = uuid.NewString()[:sidLength]

	claims := sessionClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  sid,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	return token, sid, nil
}

// ParseToken validates a session token and returns the session it carries.
func ParseToken(secret, tokenString string) (Session, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Session{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return Session{}, fmt.Errorf("invalid session token")
	}
	return Session{SID: claims.Subject, Name: claims.Name}, nil
}
