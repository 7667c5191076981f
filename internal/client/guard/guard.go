// Package guard implements the client-side navigation gate for protected
// areas. It is advisory only: the backend re-checks authorization on every
// call.
package guard

import "github.com/rafaelmdsouza/vitrine/internal/client/session"

// Redirect targets used when access is denied.
const (
	RedirectHome      = "/"
	RedirectDashboard = "/dashboard"
)

// Guard gates access based on the cached session.
type Guard struct {
	Store *session.Store
	// RequireAdmin additionally demands the cached user's admin flag.
	RequireAdmin bool
}

// Decision is the outcome of a guard check. When Allowed is false, Redirect
// names where the user should be sent instead.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Check evaluates the current session: no token sends the user home, a
// missing admin flag sends them to the dashboard, otherwise access is
// allowed.
func (g Guard) Check() Decision {
	sess, ok := g.Store.Get()
	if !ok {
		return Decision{Redirect: RedirectHome}
	}
	if g.RequireAdmin && !sess.User.IsAdmin {
		return Decision{Redirect: RedirectDashboard}
	}
	return Decision{Allowed: true}
}
