package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/game_shop/internal/logging"
	authmw "github.com/Skotchmaster/game_shop/internal/middleware/auth"
	"github.com/Skotchmaster/game_shop/internal/service"
	"github.com/Skotchmaster/game_shop/internal/session"
	"github.com/Skotchmaster/game_shop/internal/tokens"
	"github.com/Skotchmaster/game_shop/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
	MW  *authmw.AutoRefreshMiddleware
}

func (h *AuthHTTP) Home(c echo.Context) error {
	return redirect(c, authmw.DashboardPath)
}

func (h *AuthHTTP) RegisterPage(c echo.Context) error {
	return render(c, http.StatusOK, "register", echo.Map{"Form": transport.RegisterForm{}})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var form transport.RegisterForm
	if err := c.Bind(&form); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	page := echo.Map{"Form": form}

	if err := c.Validate(&form); err != nil {
		var fe transport.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		page["Errors"] = fe
		return render(c, http.StatusOK, "register", page)
	}

	if _, err := h.Svc.Register(ctx, form.Email, form.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			page["Errors"] = transport.FieldErrors{"email": "This email is already registered."}
			return render(c, http.StatusOK, "register", page)
		case errors.Is(err, service.ErrValidation):
			page["Errors"] = transport.FieldErrors{"email": "This field is required."}
			return render(c, http.StatusOK, "register", page)
		}
		return err
	}

	l.Info("register_success")
	flash(c, session.FlashSuccess, "Registration successful. Please log in.")
	return redirect(c, authmw.LoginPath)
}

func (h *AuthHTTP) LoginPage(c echo.Context) error {
	return render(c, http.StatusOK, "login", echo.Map{"Form": transport.LoginForm{}})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var form transport.LoginForm
	if err := c.Bind(&form); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	page := echo.Map{"Form": transport.LoginForm{Email: form.Email}}

	if err := c.Validate(&form); err != nil {
		var fe transport.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		page["Errors"] = fe
		return render(c, http.StatusOK, "login", page)
	}

	res, err := h.Svc.Login(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			flash(c, session.FlashDanger, "Invalid email or password")
			return render(c, http.StatusOK, "login", page)
		}
		l.Error("login_error", "status", 500, "error", err)
		return err
	}

	h.MW.SetAuthCookies(c, res)
	l.Info("login_success", "user_id", res.User.ID)
	return redirect(c, authmw.DashboardPath)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			l.Error("logout_error", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		}
	}
	h.MW.ClearAuthCookies(c)
	session.FromContext(c).Clear()

	l.Info("logout_success")
	return redirect(c, authmw.LoginPath)
}

func (h *AuthHTTP) Dashboard(c echo.Context) error {
	return render(c, http.StatusOK, "dashboard", nil)
}
