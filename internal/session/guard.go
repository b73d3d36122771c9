// Package session gates protected routes on the backend's session state.
package session

import (
	"context"
	"log"

	"pharmapos/internal/nav"
)

// Checker reports whether the backend considers the caller logged in.
type Checker interface {
	CheckSession(ctx context.Context) (bool, error)
}

type Logouter interface {
	Logout(ctx context.Context) error
}

// Guard redirects to the login route whenever the session is missing.
type Guard struct {
	checker Checker
	nav     nav.Navigator
	logger  *log.Logger
}

func NewGuard(checker Checker, n nav.Navigator, logger *log.Logger) *Guard {
	return &Guard{checker: checker, nav: n, logger: logger}
}

// CheckOrRedirect returns true when the session is valid. Otherwise, whether
// the backend said so or could not be reached, it navigates to the login
// route and returns false; the caller must stop initializing its page.
func (g *Guard) CheckOrRedirect(ctx context.Context) bool {
	loggedIn, err := g.checker.CheckSession(ctx)
	if err != nil {
		g.logger.Printf("session check failed: %v", err)
		g.nav.Navigate(nav.Login)
		return false
	}
	if !loggedIn {
		g.nav.Navigate(nav.Login)
		return false
	}
	return true
}

// Logout tells the backend to end the session and always lands on the login
// route, even when the backend is unreachable.
func (g *Guard) Logout(ctx context.Context, l Logouter) {
	defer g.nav.Navigate(nav.Login)
	if err := l.Logout(ctx); err != nil {
		g.logger.Printf("logout request failed: %v", err)
	}
}
