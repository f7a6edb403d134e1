package session

import (
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session holds the viewer's bearer token for API calls. The client
// never verifies the signature (that is the server's job); it only
// reads the claims to know, before making a call, whether the token is
// present and unexpired.
type Session struct {
	token  string
	claims jwt.MapClaims
}

// New builds a session from a raw bearer token. An empty or malformed
// token yields a signed-out session rather than an error.
func New(token string) *Session {
	s := &Session{token: token}
	if token == "" {
		return s
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		s.token = ""
		return s
	}
	if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
		s.claims = claims
	}
	return s
}

// Token returns the raw bearer token
func (s *Session) Token() string {
	return s.token
}

// UserID extracts the userId claim, if present
func (s *Session) UserID() string {
	if s.claims == nil {
		return ""
	}
	// JWT claims decode as generic JSON values
	if id, ok := s.claims["userId"].(string); ok {
		return id
	}
	return ""
}

// IsAuthenticated reports whether the session carries a usable token.
// A token without an exp claim is assumed valid; the server rejects it
// with a 401 if not.
func (s *Session) IsAuthenticated() bool {
	if s.token == "" {
		return false
	}
	return !s.Expired()
}

// Expired checks the token's exp claim against the current time
func (s *Session) Expired() bool {
	if s.claims == nil {
		return false
	}
	exp, ok := s.claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().After(time.Unix(int64(exp), 0))
}

// LoginURL builds the web app's login address with the return path
// preserved, so the viewer lands back on the course after signing in
func LoginURL(webBaseURL, returnPath string) string {
	return webBaseURL + "/login?redirect=" + url.QueryEscape(returnPath)
}
