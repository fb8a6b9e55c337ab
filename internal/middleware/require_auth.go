// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/aspectfv/talento-mvp/internal/auth"
	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/model"
	"github.com/aspectfv/talento-mvp/internal/utilities"
)

// RequireAuth validates a Bearer token in the Authorization header and
// attaches the re-fetched user record to the request context.
//
// Status mapping: missing credentials are 401, credentials that are present
// but invalid or expired are 403. A valid token whose subject no longer
// exists is 401, the identity is gone.
func RequireAuth(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := resolveIdentity(ctx, db)
		if !ok {
			return
		}

		ctx.Set("user", user)
		ctx.Next()
	}
}

// OptionalAuth resolves an identity when a bearer token is supplied but lets
// anonymous requests through. A token that is present and invalid is still
// rejected.
func OptionalAuth(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err == nil && tokenString == "" {
			ctx.Next()
			return
		}

		user, ok := resolveIdentity(ctx, db)
		if !ok {
			return
		}

		ctx.Set("user", user)
		ctx.Next()
	}
}

func resolveIdentity(ctx *gin.Context, db *database.DBinstanceStruct) (model.User, bool) {
	tokenString, err := utilities.ExtractBearerToken(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return model.User{}, false
	}
	if tokenString == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Access token required",
		})
		return model.User{}, false
	}

	token, err := auth.ValidateAccessToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "Access token expired",
			})
			return model.User{}, false
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Invalid token",
		})
		return model.User{}, false
	}

	if !token.Valid {
		ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Invalid token",
		})
		return model.User{}, false
	}

	claims := token.Claims.(*jwt.RegisteredClaims)
	if claims.Issuer != auth.JwtIssuer {
		ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Invalid token issuer",
		})
		return model.User{}, false
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Invalid token",
		})
		return model.User{}, false
	}

	// never trust claims alone, re-fetch for current role and company
	var foundUser model.User
	if err := db.Where("id = ?", userID).First(&foundUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Invalid token",
			})
			return model.User{}, false
		}

		ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
		})
		return model.User{}, false
	}

	return foundUser, true
}
