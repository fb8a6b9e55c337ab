// Package auth contains handlers relate to log in and session identity
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/model"
	"github.com/aspectfv/talento-mvp/internal/utilities"
	"github.com/aspectfv/talento-mvp/internal/validation"
)

// AuthHandler holds DB reference for handler methods.
type AuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewAuthHandler creates a new instance of AuthHandler with the provided database connection.
func NewAuthHandler(db *database.DBinstanceStruct) *AuthHandler {
	return &AuthHandler{
		DB: db,
	}
}

type loginInfo struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler verifies email/password credentials and issues an access token.
// A missing account and a wrong password produce the same response.
// @Summary Log in with email and password
// @Description Issues a signed access token valid for 24 hours
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.LoginResponse "Token and user record"
// @Failure 400 {object} validation.ErrorBody "Malformed credentials body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid credentials"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if !validation.BindJSON(c, &info) {
		return
	}

	var user model.User
	err := h.DB.Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Invalid credentials",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	// accounts created through OAuth carry no local password
	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Invalid credentials",
		})
		return
	}

	token, err := GenerateAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  user,
	})
}

// MeHandler returns the identity resolved from the bearer token.
// @Summary Get the current authenticated identity
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.User
// @Failure 401 {object} utilities.ErrorResponse "Missing credentials"
// @Failure 403 {object} utilities.ErrorResponse "Invalid token"
// @Router /auth/me [get]
func (h *AuthHandler) MeHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
