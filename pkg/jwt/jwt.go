package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated actor and its capabilities.
type Claims struct {
	ActorID      int64    `json:"actor_id"`
	Capabilities []string `json:"caps"`
	jwt.RegisteredClaims
}

// HasCapability reports whether the token grants the named capability.
func (c *Claims) HasCapability(capability string) bool {
	for _, name := range c.Capabilities {
		if name == capability {
			return true
		}
	}
	return false
}

// Manager handles JWT operations.
type Manager struct {
	secret string
	expiry time.Duration
}

func NewManager(secret string, expiryMinutes int) *Manager {
	return &Manager{
		secret: secret,
		expiry: time.Duration(expiryMinutes) * time.Minute,
	}
}

// GenerateToken issues an access token for an actor with the given capabilities.
func (m *Manager) GenerateToken(actorID int64, capabilities []string) (string, error) {
	claims := Claims{
		ActorID:      actorID,
		Capabilities: capabilities,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses a token.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
