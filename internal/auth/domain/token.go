package domain

// TokenPair is what the login and refresh endpoints return: a short-lived
// access token and a longer-lived refresh token, both self-contained JWTs.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "bearer"
	ExpiresIn    int64  `json:"expires_in"` // seconds until access expiry
}
