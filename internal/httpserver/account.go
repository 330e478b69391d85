package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/game_shop/internal/logging"
	authmw "github.com/Skotchmaster/game_shop/internal/middleware/auth"
	"github.com/Skotchmaster/game_shop/internal/service"
	"github.com/Skotchmaster/game_shop/internal/session"
	"github.com/Skotchmaster/game_shop/internal/transport"
)

type AccountHTTP struct {
	Svc *service.UserService
}

func (h *AccountHTTP) AccountPage(c echo.Context) error {
	user := authmw.CurrentUser(c)
	return render(c, http.StatusOK, "account", echo.Map{"Form": transport.AccountForm{Email: user.Email}})
}

func (h *AccountHTTP) UpdateAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.update")
	user := authmw.CurrentUser(c)

	var form transport.AccountForm
	if err := c.Bind(&form); err != nil {
		l.Warn("update_account_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	page := echo.Map{"Form": transport.AccountForm{Email: form.Email}}

	fail := func(fe transport.FieldErrors) error {
		page["Errors"] = fe
		return render(c, http.StatusOK, "account", page)
	}

	if err := c.Validate(&form); err != nil {
		var fe transport.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		return fail(fe)
	}
	if form.NewPassword != "" && form.CurrentPassword == "" {
		return fail(transport.FieldErrors{"current_password": "Enter your current password to set a new one."})
	}

	err := h.Svc.UpdateAccount(ctx, user, service.AccountUpdate{
		Email:           form.Email,
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmailTaken):
		return fail(transport.FieldErrors{"email": "This email is already registered."})
	case errors.Is(err, service.ErrWrongPassword):
		return fail(transport.FieldErrors{"current_password": "Current password is incorrect."})
	case errors.Is(err, service.ErrValidation):
		return fail(transport.FieldErrors{"email": "This field is required."})
	default:
		return err
	}

	flash(c, session.FlashSuccess, "Your account has been updated.")
	return redirect(c, "/account")
}
