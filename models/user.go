package models

import "time"

// UserProfile represents a registered customer or staff account on the
// remote API. Guests have no profile.
type UserProfile struct {
	ID        int    `json:"id"`
	Nombre    string `json:"nombre"`
	Email     string `json:"email"`
	Direccion string `json:"direccion"` // required for delivery orders
	Telefono  string `json:"telefono"`
	Admin     bool   `json:"admin"`
}

// Session holds the kiosk's current identity and table context. It is
// client state, persisted to the local store, never sent as-is on the wire.
type Session struct {
	User      *UserProfile `json:"user,omitempty"`
	Token     string       `json:"token"`
	TableID   int          `json:"table_id"`
	ClientID  string       `json:"client_id"`
	Admin     bool         `json:"admin"`
	Guest     bool         `json:"guest"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Active reports whether the session counts as signed in: a token is
// present and the wall-clock expiry has not passed. The server remains the
// authority and will reject an expired token regardless of this check.
func (s *Session) Active(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// Address returns the saved delivery address, empty for guests and for
// profiles without one.
func (s *Session) Address() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Direccion
}
