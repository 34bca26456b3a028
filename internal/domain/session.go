package domain

import "time"

// Session represents the logged-in user, persisted locally between runs.
// Validity is anchored to LoginTime: a session expires a fixed lifetime
// after login regardless of activity. LastActivity is informational.
type Session struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	ProfileImage   string    `json:"profile_image"`
	FavoriteGenres []string  `json:"favorite_genres"`
	JoinDate       time.Time `json:"join_date"`
	LoginTime      time.Time `json:"login_time"`
	LastActivity   time.Time `json:"last_activity"`
	Token          string    `json:"token"`
}

// Valid reports whether the session is still usable at the given time.
func (s *Session) Valid(now time.Time, lifetime time.Duration) bool {
	if s == nil || s.LoginTime.IsZero() {
		return false
	}
	return now.Sub(s.LoginTime) < lifetime
}

// Touch refreshes the last-activity timestamp. It deliberately does not
// re-check expiry: sessions expire on a fixed schedule from login.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}
