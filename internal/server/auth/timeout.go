package auth

import (
	"time"

	"github.com/dmitrijs2005/todolists/internal/server/models"
)

// DefaultSessionTimeout is the idle period after which a session is dropped.
const DefaultSessionTimeout = 60 * time.Minute

// SessionExpired reports whether the time since the user's last login has
// reached timeout. The boundary is inclusive. A user that never logged in
// has no session to expire and yields false; callers treat that user as
// anonymous before asking.
func SessionExpired(user *models.User, now time.Time, timeout time.Duration) bool {
	if user == nil || user.LastLogin == nil {
		return false
	}
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return now.Sub(*user.LastLogin) >= timeout
}
