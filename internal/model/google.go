package model

// GoogleUserInfo maps the Google userinfo endpoint response used during
// OAuth sign-in.
type GoogleUserInfo struct {
	GID        string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}
