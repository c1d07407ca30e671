// server/internal/auth/auth.go
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Sub   string `json:"sub"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateJWT signs a token for the given identity.
func GenerateJWT(secret []byte, expiration time.Duration, email, role, sub string) (string, error) {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	claims := &JWTClaims{
		Email: email,
		Role:  role,
		Sub:   sub,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseJWT validates a token string and returns its claims.
func ParseJWT(secret []byte, tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
