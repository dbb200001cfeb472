package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidIssuer   = errors.New("invalid token issuer")
	ErrInvalidAudience = errors.New("invalid token audience")
)

// Settings controls token signing and validation.
type Settings struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

var (
	mu       sync.RWMutex
	settings = Settings{
		Secret:   []byte("development-insecure-secret-change-me"),
		Issuer:   "admin-dashboard-api",
		Audience: "admin-dashboard-clients",
		TTL:      24 * time.Hour,
	}
)

// Configure replaces the signing settings; empty fields keep their current value.
func Configure(s Settings) {
	mu.Lock()
	defer mu.Unlock()
	if len(s.Secret) > 0 {
		settings.Secret = s.Secret
	}
	if s.Issuer != "" {
		settings.Issuer = s.Issuer
	}
	if s.Audience != "" {
		settings.Audience = s.Audience
	}
	if s.TTL > 0 {
		settings.TTL = s.TTL
	}
}

func current() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return settings
}

// Claims represents the JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken generates a JWT token for the given user
func GenerateToken(userID, username, role string) (string, error) {
	s := current()
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.Issuer,
			Audience:  jwt.ClaimStrings{s.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	s := current()
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != s.Issuer {
		return nil, ErrInvalidIssuer
	}
	// Manually check audience for compatibility with jwt v5 types
	for _, aud := range claims.Audience {
		if aud == s.Audience {
			return claims, nil
		}
	}
	return nil, ErrInvalidAudience
}
