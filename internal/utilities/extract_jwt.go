package utilities

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractBearerToken pulls the token out of the Authorization header.
// An absent header returns an empty token with no error so callers can
// distinguish "no credentials" from "bad credentials".
func ExtractBearerToken(c *gin.Context) (string, error) {

	const bearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		return "", nil
	}

	if !strings.HasPrefix(authHeader, bearerSchema) || len(authHeader) == len(bearerSchema) {
		return "", fmt.Errorf("Invalid authorization header")
	}

	return authHeader[len(bearerSchema):], nil
}
