package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
	// AuthCustom uses a custom authentication function.
	AuthCustom
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Apply is a custom function to modify the request (AuthCustom).
	Apply func(*http.Request)
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// NoAuth explicitly disables auth, overriding any adapter default.
func NoAuth() *AuthConfig {
	return &AuthConfig{Type: AuthNone}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// HasCredential reports whether the config attaches anything to requests.
func (a *AuthConfig) HasCredential() bool {
	if a == nil {
		return false
	}
	switch a.Type {
	case AuthBearer:
		return a.Token != ""
	case AuthCustom:
		return a.Apply != nil
	default:
		return false
	}
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		if a.Token != "" {
			req.Header.Set("Authorization", "Bearer "+a.Token)
		}
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}
