package transport

type TokenResponse struct {
	AccessToken   string `json:"access_token"`
	TokenType     string `json:"token_type"`
	ExpiresIn     int64  `json:"expires_in"`
	Scope         string `json:"scope"`
	UserFirstName string `json:"userFirstName"`
	UserID        int64  `json:"userId"`
	JTI           string `json:"jti"`
}

type OAuthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}
