package tolet

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/draft"
	"github.com/eringen/tolet/session"
)

// failure names what to tell the user when a backend call fails.
type failure struct {
	Fallback  string // any other error without a server message
	Forbidden string // 403
	Expired   string // 401
	Redirect  string // where to send the browser afterwards
}

const sessionExpired = "Your session has expired. Please login again."

// fail converts err into a notification and a redirect. A 401 ends the
// session, a 403 leaves it alone.
func (a *App) fail(c echo.Context, err error, f failure) error {
	ctx := c.Request().Context()
	switch {
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		// The browser went away; nobody is left to notify.
		return nil
	case api.IsAuth(err):
		msg := f.Expired
		if msg == "" {
			msg = sessionExpired
		}
		a.endSession(c)
		a.flash(c, flashError, msg)
		return c.Redirect(http.StatusSeeOther, "/login")
	case api.IsForbidden(err):
		msg := f.Forbidden
		if msg == "" {
			msg = api.UserMessage(err, f.Fallback)
		}
		a.flash(c, flashError, msg)
	case errors.Is(err, draft.ErrClosed):
		a.flash(c, flashWarning, "This form is no longer open.")
	case errors.Is(err, draft.ErrNotReady):
		a.flash(c, flashWarning, "Please wait for the form to finish.")
	default:
		var ve *api.ValidationError
		if !errors.As(err, &ve) {
			a.Logger.Warn("backend call failed", "path", c.Request().URL.Path, "error", err)
		}
		a.flash(c, flashError, api.UserMessage(err, f.Fallback))
	}
	return c.Redirect(http.StatusSeeOther, f.Redirect)
}

// endSession logs the visitor out and drops their open forms.
func (a *App) endSession(c echo.Context) {
	sid := SessionID(c)
	if err := a.Sessions.Logout(c.Request().Context(), sid); err != nil {
		a.Logger.Warn("logout", "error", err)
	}
	if n := a.Drafts.DiscardOwner(sid); n > 0 {
		a.Logger.Debug("discarded forms on logout", "count", n)
	}
	a.Listings.Invalidate(sid)
	setVisitor(c, session.State{})
}
