package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aspectfv/talento-mvp/internal/model"
	"github.com/aspectfv/talento-mvp/internal/utilities"
)

func TestGoogleLogin_firstSignInCreatesSeeker(t *testing.T) {
	mockUser := model.GoogleUserInfo{
		GID:        "google_new_456",
		Email:      "nora.newcomer@gmail.example.com",
		GivenName:  "Nora",
		FamilyName: "Newcomer",
	}
	mockServer := NewMockOAuth2Server([]model.GoogleUserInfo{mockUser})
	defer mockServer.Close()

	handler := NewOauthLoginHandler(testDB, mockServer.Config, mockServer.MockInfoEndpoint)

	authCode, err := mockServer.GetAuthCode(mockUser.GID)
	assert.NoError(t, err)

	rec, resp, err := utilities.SimulateAPICall(handler.SeekerGoogleLoginHandler, "/auth/google", http.MethodPost, map[string]string{
		"code": authCode,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code, "Expected 201 Created for first sign-in")
	assert.NotEmpty(t, resp["token"])
	assert.True(t, mockServer.IsUserTokenExchanged(mockUser.GID))

	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "seeker", user["role"])
	assert.Nil(t, user["password"])

	var created model.User
	err = testDB.Where("google_id = ?", mockUser.GID).First(&created).Error
	assert.NoError(t, err)
	assert.Equal(t, mockUser.Email, created.Email)
	assert.Equal(t, model.RoleSeeker, created.Role)
	assert.Equal(t, "Nora", created.FirstName)
	assert.Equal(t, "Newcomer", created.LastName)
	assert.Empty(t, created.Password)
}

func TestGoogleLogin_secondSignInLogsIn(t *testing.T) {
	mockUser := model.GoogleUserInfo{
		GID:        "google_repeat_789",
		Email:      "rita.returning@gmail.example.com",
		GivenName:  "Rita",
		FamilyName: "Returning",
	}
	mockServer := NewMockOAuth2Server([]model.GoogleUserInfo{mockUser})
	defer mockServer.Close()

	handler := NewOauthLoginHandler(testDB, mockServer.Config, mockServer.MockInfoEndpoint)

	authCode, err := mockServer.GetAuthCode(mockUser.GID)
	assert.NoError(t, err)
	rec, _, err := utilities.SimulateAPICall(handler.SeekerGoogleLoginHandler, "/auth/google", http.MethodPost, map[string]string{
		"code": authCode,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	authCode, err = mockServer.GetAuthCode(mockUser.GID)
	assert.NoError(t, err)
	rec, resp, err := utilities.SimulateAPICall(handler.SeekerGoogleLoginHandler, "/auth/google", http.MethodPost, map[string]string{
		"code": authCode,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code, "Expected 200 OK for a returning user")
	assert.NotEmpty(t, resp["token"])

	var count int64
	testDB.Model(&model.User{}).Where("google_id = ?", mockUser.GID).Count(&count)
	assert.Equal(t, int64(1), count, "Repeat sign-ins must not duplicate the account")
}

func TestGoogleLogin_invalidAuthCode(t *testing.T) {
	mockUser := model.GoogleUserInfo{
		GID:   "google_untouched_111",
		Email: "untouched@gmail.example.com",
	}
	mockServer := NewMockOAuth2Server([]model.GoogleUserInfo{mockUser})
	defer mockServer.Close()

	handler := NewOauthLoginHandler(testDB, mockServer.Config, mockServer.MockInfoEndpoint)

	rec, _, err := utilities.SimulateAPICall(handler.SeekerGoogleLoginHandler, "/auth/google", http.MethodPost, map[string]string{
		"code": "bogus-code-12345",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, mockServer.IsUserTokenExchanged(mockUser.GID))

	var count int64
	testDB.Model(&model.User{}).Where("google_id = ?", mockUser.GID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGoogleLogin_missingAuthCode(t *testing.T) {
	mockServer := NewMockOAuth2Server(nil)
	defer mockServer.Close()

	handler := NewOauthLoginHandler(testDB, mockServer.Config, mockServer.MockInfoEndpoint)

	rec, resp, err := utilities.SimulateAPICall(handler.SeekerGoogleLoginHandler, "/auth/google", http.MethodPost, map[string]string{})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "No authorization code provided")
}

func TestGoogleLogin_userInfoFetchFailure(t *testing.T) {
	mockUser := model.GoogleUserInfo{
		GID:   "google_failing_999",
		Email: "failing@gmail.example.com",
	}
	mockServer := NewMockOAuth2Server([]model.GoogleUserInfo{mockUser})
	defer mockServer.Close()

	// Valid token exchange but a userinfo endpoint that answers 404
	handler := NewOauthLoginHandler(testDB, mockServer.Config, mockServer.URL()+"/missing")

	authCode, err := mockServer.GetAuthCode(mockUser.GID)
	assert.NoError(t, err)
	rec, resp, err := utilities.SimulateAPICall(handler.SeekerGoogleLoginHandler, "/auth/google", http.MethodPost, map[string]string{
		"code": authCode,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "Failed to fetch user information")

	var count int64
	testDB.Model(&model.User{}).Where("google_id = ?", mockUser.GID).Count(&count)
	assert.Equal(t, int64(0), count, "No account may be created when userinfo fails")
}
