package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"storefront/apperr"
)

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret []byte, userID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", apperr.Wrap(err, apperr.Internal, "failed to sign token")
	}
	return signed, nil
}

func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.Unauthorized, "unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.New(apperr.Unauthorized, "invalid or expired token")
	}
	return claims, nil
}
