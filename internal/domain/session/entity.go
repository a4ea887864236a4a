// internal/domain/session/entity.go
package session

// Profile represents the authenticated user's profile as served by the
// storefront API
type Profile struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// Session is a read-only snapshot of the authenticated user, loaded once at
// session start and passed explicitly to whichever component needs it. It
// is invalidated by Logout; components never reach for ambient user state.
type Session struct {
	Token   string
	Profile Profile
}

// UserID returns the authenticated user's id
func (s *Session) UserID() uint {
	return s.Profile.ID
}
