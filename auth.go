package tolet

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/views"
)

const tooManyAttempts = "Too many login attempts. Please try again later."

func (a *App) handleLoginPage(c echo.Context) error {
	if Visitor(c).LoggedIn {
		return c.Redirect(http.StatusSeeOther, "/home")
	}
	return Render(c, views.Login(views.LoginPage{Chrome: a.chrome(c, "Login")}))
}

func (a *App) handleLogin(c echo.Context) error {
	in := api.Credentials{
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("password"),
	}
	rerender := func(code int, msg string) error {
		return RenderStatus(c, code, views.Login(views.LoginPage{Chrome: a.chromeWith(c, "Login", flashError, msg), Email: in.Email}))
	}

	ctx := c.Request().Context()
	ip := c.RealIP()
	ok, err := a.limiter.Check(ctx, ip)
	if err != nil {
		a.Logger.Error("login limiter", "error", err)
	}
	if !ok {
		return rerender(http.StatusTooManyRequests, tooManyAttempts)
	}

	if err := validateLogin(in); err != nil {
		return rerender(http.StatusUnprocessableEntity, api.UserMessage(err, ""))
	}

	res, err := a.API.Login(ctx, in)
	if err != nil {
		var ne *api.NetworkError
		if errors.As(err, &ne) {
			a.Logger.Warn("login", "error", err)
			return rerender(http.StatusBadGateway, api.UserMessage(err, ""))
		}
		if rerr := a.limiter.Record(ctx, ip); rerr != nil {
			a.Logger.Error("record login failure", "error", rerr)
		}
		return rerender(http.StatusUnauthorized, "Wrong email or password")
	}

	st, err := a.Sessions.Login(ctx, SessionID(c), res)
	if err != nil {
		return err
	}
	a.Listings.Invalidate(SessionID(c))
	setVisitor(c, st)
	a.flash(c, flashSuccess, "Login successful!")
	return c.Redirect(http.StatusSeeOther, "/home")
}

func (a *App) handleRegisterPage(c echo.Context) error {
	return Render(c, views.Register(views.RegisterPage{
		Chrome: a.chrome(c, "Sign Up"),
		Roles:  roleOptions(""),
	}))
}

func (a *App) handleRegister(c echo.Context) error {
	in := api.Registration{
		FirstName: strings.TrimSpace(c.FormValue("firstName")),
		LastName:  strings.TrimSpace(c.FormValue("lastName")),
		Email:     strings.TrimSpace(c.FormValue("email")),
		Password:  c.FormValue("password"),
		Phone:     strings.TrimSpace(c.FormValue("phone")),
		Role:      c.FormValue("role"),
		Answer:    strings.TrimSpace(c.FormValue("answer")),
	}
	rerender := func(code int, msg string) error {
		return RenderStatus(c, code, views.Register(views.RegisterPage{
			Chrome:    a.chromeWith(c, "Sign Up", flashError, msg),
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Phone:     in.Phone,
			Answer:    in.Answer,
			Roles:     roleOptions(in.Role),
		}))
	}

	if err := validateRegistration(in); err != nil {
		return rerender(http.StatusUnprocessableEntity, api.UserMessage(err, ""))
	}

	ctx := c.Request().Context()
	res, err := a.API.Register(ctx, in)
	if err != nil {
		a.Logger.Info("register", "error", err)
		return rerender(http.StatusBadRequest, api.UserMessage(err, "Signup failed. Email might already be registered."))
	}
	st, err := a.Sessions.Register(ctx, SessionID(c), res)
	if err != nil {
		return err
	}
	setVisitor(c, st)
	a.flash(c, flashSuccess, "Signup successful!")
	return c.Redirect(http.StatusSeeOther, "/home")
}

func (a *App) handleForgotPage(c echo.Context) error {
	return Render(c, views.Forgot(views.ForgotPage{Chrome: a.chrome(c, "Forgot Password")}))
}

func (a *App) handleForgot(c echo.Context) error {
	in := api.Recovery{
		Email:  strings.TrimSpace(c.FormValue("email")),
		Answer: strings.TrimSpace(c.FormValue("answer")),
	}
	rerender := func(code int, msg string) error {
		return RenderStatus(c, code, views.Forgot(views.ForgotPage{Chrome: a.chromeWith(c, "Forgot Password", flashError, msg), Email: in.Email}))
	}
	if err := validateRecovery(in); err != nil {
		return rerender(http.StatusUnprocessableEntity, api.UserMessage(err, ""))
	}
	if _, err := a.API.ForgotPassword(c.Request().Context(), in); err != nil {
		a.Logger.Info("forgot password", "error", err)
		return rerender(http.StatusBadRequest, api.UserMessage(err, "Failed to send reset link"))
	}
	a.flash(c, flashSuccess, "Reset link sent to your email")
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (a *App) handleResetPage(c echo.Context) error {
	return Render(c, views.Reset(views.ResetPage{
		Chrome: a.chrome(c, "Reset Password"),
		Token:  c.Param("token"),
	}))
}

func (a *App) handleReset(c echo.Context) error {
	token := c.Param("token")
	password := c.FormValue("password")
	rerender := func(code int, msg string) error {
		return RenderStatus(c, code, views.Reset(views.ResetPage{Chrome: a.chromeWith(c, "Reset Password", flashError, msg), Token: token}))
	}
	if err := validateReset(password, c.FormValue("confirm")); err != nil {
		return rerender(http.StatusUnprocessableEntity, api.UserMessage(err, ""))
	}
	msg, err := a.API.ResetPassword(c.Request().Context(), token, password)
	if err != nil {
		a.Logger.Info("reset password", "error", err)
		return rerender(http.StatusBadRequest, api.UserMessage(err, "Password reset failed or link expired"))
	}
	text := msg.Message
	if text == "" {
		text = "Password reset successful"
	}
	a.flash(c, flashSuccess, text)
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (a *App) handleLogout(c echo.Context) error {
	a.endSession(c)
	a.flash(c, flashSuccess, "logout successful")
	return c.Redirect(http.StatusSeeOther, "/login")
}
