// Package login drives the login form.
package login

import (
	"context"
	"net/url"

	"pharmapos/internal/apiclient"
	"pharmapos/internal/nav"
)

type Authenticator interface {
	Login(ctx context.Context, form map[string]string) error
}

// Controller holds the state of the login form: the inline error text and
// whether the password field shows its contents.
type Controller struct {
	auth Authenticator
	nav  nav.Navigator

	ErrorText       string
	PasswordVisible bool
}

func NewController(auth Authenticator, n nav.Navigator) *Controller {
	return &Controller{auth: auth, nav: n}
}

// Submit posts every form field and moves to the dashboard on success. On
// failure the server's message, or a generic one, becomes the inline error
// and the route does not change.
func (c *Controller) Submit(ctx context.Context, form url.Values) error {
	c.ErrorText = ""
	if err := c.auth.Login(ctx, Flatten(form)); err != nil {
		c.ErrorText = apiclient.Message(err)
		if c.ErrorText == "" {
			c.ErrorText = "Login failed"
		}
		return err
	}
	c.nav.Navigate(nav.Dashboard)
	return nil
}

// Flatten keeps the last value of each field, the way a form serialized
// into a plain object does.
func Flatten(form url.Values) map[string]string {
	out := make(map[string]string, len(form))
	for k, vs := range form {
		if len(vs) == 0 {
			out[k] = ""
			continue
		}
		out[k] = vs[len(vs)-1]
	}
	return out
}

// Toggle is the visible state of the password field and its control.
type Toggle struct {
	InputType string
	Label     string
	AriaLabel string
}

// TogglePassword flips password visibility and returns the new state.
func (c *Controller) TogglePassword() Toggle {
	c.PasswordVisible = !c.PasswordVisible
	return c.Toggle()
}

// Toggle reports the current password field state without changing it.
func (c *Controller) Toggle() Toggle {
	if c.PasswordVisible {
		return Toggle{InputType: "text", Label: "Hide", AriaLabel: "Hide password"}
	}
	return Toggle{InputType: "password", Label: "Show", AriaLabel: "Show password"}
}
