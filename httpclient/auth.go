package httpclient

import "net/http"

// AuthConfig sets one credential header on every request.
type AuthConfig struct {
	// Header defaults to Authorization.
	Header string
	Value  string
}

// BearerAuth sends token as "Authorization: Bearer <token>", the scheme
// the OpenAI-compatible transcription and LLM APIs use.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Value: "Bearer " + token}
}

// APIKeyAuth sends key verbatim in the named header, for self-hosted
// sidecars behind a gateway that checks e.g. X-API-Key.
func APIKeyAuth(header, key string) *AuthConfig {
	return &AuthConfig{Header: header, Value: key}
}

// KeyAuth picks APIKeyAuth when header is set and BearerAuth otherwise. An
// empty key means no credentials.
func KeyAuth(key, header string) *AuthConfig {
	switch {
	case key == "":
		return nil
	case header != "":
		return APIKeyAuth(header, key)
	default:
		return BearerAuth(key)
	}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Value == "" {
		return
	}
	header := a.Header
	if header == "" {
		header = "Authorization"
	}
	req.Header.Set(header, a.Value)
}
