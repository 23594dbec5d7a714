package utils

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

var ErrInvalidToken = errors.New("invalid token")

// RoomTokenClaims authorizes one user to join one room.
type RoomTokenClaims struct {
	RoomId   string `json:"roomId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthEnabled reports whether a signing secret is configured. Without
// one the websocket endpoint is open (local development mode).
func AuthEnabled() bool { return len(jwtSecret) > 0 }

// ValidateRoomToken parses and validates an HS256 room token.
func ValidateRoomToken(tokenStr string) (*RoomTokenClaims, error) {
	claims := &RoomTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
