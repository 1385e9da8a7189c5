package auth

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	SessionCookieName = "sid"
	SessionHeader     = "X-Session-ID"
)

// Session ids end up inside storage keys, so only a safe alphabet is accepted.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// ExtractSessionID prefers the sid cookie and falls back to the header.
// Malformed ids are ignored.
func ExtractSessionID(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && ValidSessionID(cookie.Value) {
		return cookie.Value
	}
	if sid := r.Header.Get(SessionHeader); ValidSessionID(sid) {
		return sid
	}
	return ""
}

func ValidSessionID(sid string) bool {
	return sessionIDPattern.MatchString(sid)
}

func NewSessionID() string {
	return uuid.NewString()
}
