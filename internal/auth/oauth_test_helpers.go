package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/aspectfv/talento-mvp/internal/model"
)

// MockOAuth2Server stands in for Google's token and userinfo endpoints so
// OAuth sign-in can be tested without real credentials. Auth codes are issued
// per registered user and redeemed the same way as the real flow: code for
// token at the token endpoint, token for profile at the userinfo endpoint.
type MockOAuth2Server struct {
	// Config points the oauth2 client at the mock endpoints.
	Config *oauth2.Config
	// MockInfoEndpoint is the userinfo URL to hand to the login handler.
	MockInfoEndpoint string

	server    *httptest.Server
	mu        sync.Mutex
	users     map[string]model.GoogleUserInfo
	codes     map[string]string
	tokens    map[string]string
	exchanged map[string]bool
}

// NewMockOAuth2Server starts a mock OAuth2 server knowing the given users,
// keyed by their Google ID. Callers must Close it when done.
func NewMockOAuth2Server(users []model.GoogleUserInfo) *MockOAuth2Server {
	m := &MockOAuth2Server{
		users:     make(map[string]model.GoogleUserInfo),
		codes:     make(map[string]string),
		tokens:    make(map[string]string),
		exchanged: make(map[string]bool),
	}
	for _, u := range users {
		m.users[u.GID] = u
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", m.handleToken)
	mux.HandleFunc("/userinfo", m.handleUserInfo)
	m.server = httptest.NewServer(mux)

	m.Config = &oauth2.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  m.server.URL + "/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  m.server.URL + "/auth",
			TokenURL: m.server.URL + "/token",
		},
	}
	m.MockInfoEndpoint = m.server.URL + "/userinfo"
	return m
}

// GetAuthCode issues an authorization code for a registered user.
func (m *MockOAuth2Server) GetAuthCode(gid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[gid]; !ok {
		return "", fmt.Errorf("no mock user with google id %q", gid)
	}
	authCode := "mock-code-" + gid
	m.codes[authCode] = gid
	return authCode, nil
}

// IsUserTokenExchanged reports whether the user's auth code was redeemed at
// the token endpoint.
func (m *MockOAuth2Server) IsUserTokenExchanged(gid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchanged[gid]
}

// URL returns the base address of the mock server.
func (m *MockOAuth2Server) URL() string {
	return m.server.URL
}

// Close shuts the mock server down.
func (m *MockOAuth2Server) Close() {
	m.server.Close()
}

func (m *MockOAuth2Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	authCode := r.FormValue("code")
	gid, ok := m.codes[authCode]
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
		return
	}
	delete(m.codes, authCode)

	accessToken := "mock-token-" + gid
	m.tokens[accessToken] = gid
	m.exchanged[gid] = true

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (m *MockOAuth2Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	const prefix = "Bearer "
	authHeader := r.Header.Get("Authorization")

	m.mu.Lock()
	gid, ok := m.tokens[strings.TrimPrefix(authHeader, prefix)]
	user := m.users[gid]
	m.mu.Unlock()

	if !strings.HasPrefix(authHeader, prefix) || !ok {
		http.Error(w, "invalid access token", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(user)
}
