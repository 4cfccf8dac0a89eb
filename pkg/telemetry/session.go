// Package telemetry pkg/telemetry/session.go
package telemetry

import "net/http"

// Session cookie names issued by the storefront's auth layer.
const (
	CookieUserID    = "gh_user_id"
	CookieUserEmail = "gh_user_email"
	CookieUserRole  = "gh_user_role"

	// GuestRole marks an explicitly unauthenticated session.
	GuestRole = "guest"
)

// Session is the authenticated identity carried by a request.
type Session struct {
	UserID string
	Email  string
	Role   string
}

// SessionFromRequest extracts the session cookie triple. It returns nil for
// guests: a session counts only when all three cookies are present and
// non-empty and the role is not the guest role. Partial cookie sets are
// treated as no session at all, never padded with placeholder values.
func SessionFromRequest(r *http.Request) *Session {
	userID := cookieValue(r, CookieUserID)
	email := cookieValue(r, CookieUserEmail)
	role := cookieValue(r, CookieUserRole)

	if userID == "" || email == "" || role == "" || role == GuestRole {
		return nil
	}

	return &Session{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}

	return c.Value
}
