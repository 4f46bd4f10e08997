package tolet

import (
	"sort"
	"strings"

	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/tolet/views"
)

const (
	flashSuccess = "success"
	flashError   = "error"
	flashWarning = "warning"
)

// flash queues a notification for the next rendered page.
func (a *App) flash(c echo.Context, kind, msg string) {
	sess, err := echosession.Get(cookieName, c)
	if sess == nil {
		a.Logger.Warn("flash without session", "error", err)
		return
	}
	sess.AddFlash(kind + ":" + msg)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		a.Logger.Warn("save flash", "error", err)
	}
}

// popFlashes drains queued notifications. It must run before the response
// is committed.
func (a *App) popFlashes(c echo.Context) []views.Flash {
	sess, _ := echosession.Get(cookieName, c)
	if sess == nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		a.Logger.Warn("clear flashes", "error", err)
	}
	out := make([]views.Flash, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		kind, msg, found := strings.Cut(s, ":")
		if !found {
			kind, msg = flashSuccess, s
		}
		out = append(out, views.Flash{Kind: kind, Message: msg})
	}
	return out
}

// chrome builds the layout data for the current visitor.
func (a *App) chrome(c echo.Context, title string) views.Chrome {
	st := Visitor(c)
	ch := views.Chrome{
		SiteName:   a.Config.Name,
		Title:      title,
		Path:       c.Request().URL.Path,
		CSRF:       CsrfToken(c),
		LoggedIn:   st.LoggedIn,
		CanPublish: st.CanPublish(),
		Flashes:    a.popFlashes(c),
	}
	if st.User != nil {
		ch.UserName = st.User.Name
	}
	return ch
}

// idSet reads a comma-joined id list kept in the cookie session under key.
func idSet(c echo.Context, key string) map[string]bool {
	out := map[string]bool{}
	sess, _ := echosession.Get(cookieName, c)
	if sess == nil {
		return out
	}
	raw, _ := sess.Values[key].(string)
	for _, id := range strings.Split(raw, ",") {
		if id != "" {
			out[id] = true
		}
	}
	return out
}

// markID adds or removes id in the set under key and persists it.
func markID(c echo.Context, key, id string, on bool) error {
	sess, err := echosession.Get(cookieName, c)
	if sess == nil {
		return err
	}
	set := idSet(c, key)
	if on {
		set[id] = true
	} else {
		delete(set, id)
	}
	ids := make([]string, 0, len(set))
	for k := range set {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	sess.Values[key] = strings.Join(ids, ",")
	return sess.Save(c.Request(), c.Response())
}

// chromeWith is chrome plus one notification shown on this render only.
func (a *App) chromeWith(c echo.Context, title, kind, msg string) views.Chrome {
	ch := a.chrome(c, title)
	ch.Flashes = append(ch.Flashes, views.Flash{Kind: kind, Message: msg})
	return ch
}
