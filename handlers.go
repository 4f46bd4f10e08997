package tolet

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/tolet/views"
)

func handleIndex(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/login")
}

func (a *App) handleHome(c echo.Context) error {
	return Render(c, views.Home(views.HomePage{Chrome: a.chrome(c, "Home")}))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(views.ErrorPage{
			Chrome:  a.chrome(c, "Page Not Found"),
			Code:    http.StatusNotFound,
			Message: "The page you are looking for does not exist.",
		}))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "path", c.Request().URL.Path, "error", err)
		if rerr := RenderStatus(c, code, views.ServerError(views.ErrorPage{
			Chrome:  a.chrome(c, "Something went wrong"),
			Code:    code,
			Message: "Something went wrong. Please try again.",
		})); rerr != nil {
			_ = c.String(code, http.StatusText(code))
		}
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
