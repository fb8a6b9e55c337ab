package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// JwtIssuer is stamped into every issued token and checked on validation.
const JwtIssuer = "talento"

// SECRET_KEY signs and verifies every access token.
var SECRET_KEY = os.Getenv("SECRET_KEY")

// tokens live for 24 hours, there is no refresh flow
const tokenTTL = 24 * time.Hour

// GenerateAccessToken issues a signed access token for the given user id.
func GenerateAccessToken(userID uint) (string, error) {

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    JwtIssuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signedToken, err := token.SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", fmt.Errorf("Failed to sign token: %s", err)
	}

	return signedToken, nil
}

// ValidateAccessToken parses and verifies an encoded access token.
func ValidateAccessToken(encodedToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodedToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(SECRET_KEY), nil
	})
}
