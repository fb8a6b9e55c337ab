package auth

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func TestLogin_success(t *testing.T) {
	handler := NewAuthHandler(testDB)
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    database.TestSeeker1.Email,
		"password": database.TestSeedPassword,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp["token"])

	user := resp["user"].(map[string]interface{})
	assert.Equal(t, database.TestSeeker1.Email, user["email"])
	assert.Equal(t, "seeker", user["role"])
	assert.Nil(t, user["password"])
}

func TestLogin_unknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	handler := NewAuthHandler(testDB)

	recNoUser, respNoUser, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    "ghost@nowhere.example.com",
		"password": "whatever123",
	})
	assert.NoError(t, err)

	recBadPwd, respBadPwd, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    database.TestSeeker1.Email,
		"password": "wrong-password",
	})
	assert.NoError(t, err)

	// no information leak: both failures are byte-identical
	assert.Equal(t, http.StatusUnauthorized, recNoUser.Code)
	assert.Equal(t, http.StatusUnauthorized, recBadPwd.Code)
	assert.Equal(t, "Invalid credentials", respNoUser["error"])
	assert.Equal(t, respNoUser, respBadPwd)
}

func TestLogin_missingPassword(t *testing.T) {
	handler := NewAuthHandler(testDB)
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email": database.TestSeeker1.Email,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", resp["error"])

	details := resp["details"].(map[string]interface{})
	assert.Contains(t, details, "password")
}

func TestLogin_invalidEmailFormat(t *testing.T) {
	handler := NewAuthHandler(testDB)
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    "not-an-email",
		"password": "whatever123",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", resp["error"])
}

func TestGenerateAccessToken_claims(t *testing.T) {
	signed, err := GenerateAccessToken(database.TestSeeker1.ID)
	assert.NoError(t, err)

	token, err := ValidateAccessToken(signed)
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, JwtIssuer, claims.Issuer)
	assert.Equal(t, strconv.FormatUint(uint64(database.TestSeeker1.ID), 10), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateAccessToken_rejectsForgedSignature(t *testing.T) {
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    JwtIssuer,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := forged.SignedString([]byte("some-other-key"))
	assert.NoError(t, err)

	_, err = ValidateAccessToken(signed)
	assert.Error(t, err)
}
