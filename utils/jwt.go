package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 2 * time.Hour

var secretKey = []byte("supersecret")

// SetSigningKey replaces the HMAC key used for session tokens.
func SetSigningKey(key string) {
	if key != "" {
		secretKey = []byte(key)
	}
}

// TokenClaims is the session identity carried in a token.
type TokenClaims struct {
	UserID   string
	Email    string
	UserType string
}

func GenerateToken(userID, email, userType string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   userID,
		"email":    email,
		"userType": userType,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(secretKey)
}

func VerifyToken(token string) (TokenClaims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return TokenClaims{}, errors.New("could not parse token")
	}
	if !parsedToken.Valid {
		return TokenClaims{}, errors.New("invalid token")
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errors.New("invalid token claims")
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return TokenClaims{}, errors.New("token has no user")
	}
	email, _ := claims["email"].(string)
	userType, _ := claims["userType"].(string)

	return TokenClaims{UserID: userID, Email: email, UserType: userType}, nil
}
