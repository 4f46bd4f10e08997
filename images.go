package tolet

import (
	"errors"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/eringen/tolet/staging"
)

// handleStagedPreview streams one of the form's staged uploads back to the
// browser that picked it.
func (a *App) handleStagedPreview(c echo.Context) error {
	f := formOf(c)
	name := path.Base(c.Param("name"))
	sf, ok := f.OwnsStaged(f.ID + "/" + name)
	if !ok {
		return echo.ErrNotFound
	}
	rc, err := a.Drafts.Store().Open(c.Request().Context(), sf.Key)
	if errors.Is(err, staging.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	defer rc.Close()
	c.Response().Header().Set("Cache-Control", "private, max-age=600")
	c.Response().Header().Set("X-Content-Type-Options", "nosniff")
	return c.Stream(http.StatusOK, sf.ContentType, rc)
}
