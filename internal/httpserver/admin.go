package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/game_shop/internal/logging"
	authmw "github.com/Skotchmaster/game_shop/internal/middleware/auth"
	"github.com/Skotchmaster/game_shop/internal/models"
	"github.com/Skotchmaster/game_shop/internal/service"
	"github.com/Skotchmaster/game_shop/internal/session"
	"github.com/Skotchmaster/game_shop/internal/transport"
)

// AdminHTTP serves user and catalogue management. Every route is mounted
// behind RequireAdmin.
type AdminHTTP struct {
	Users     *service.UserService
	Catalogue *service.CatalogueService
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "users", echo.Map{"Users": users})
}

func (h *AdminHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_user")
	me := authmw.CurrentUser(c)

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Users.Delete(ctx, me.ID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDelete):
			l.Warn("delete_user_error", "status", 400, "reason", "self delete", "user_id", id)
			flash(c, session.FlashDanger, "You cannot delete your own account.")
			return redirect(c, "/users")
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found.")
		}
		l.Error("delete_user_error", "status", 500, "user_id", id, "error", err)
		return err
	}

	l.Info("delete_user_success", "user_id", id)
	flash(c, session.FlashSuccess, "User deleted.")
	return redirect(c, "/users")
}

func (h *AdminHTTP) PromoteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.promote_user")
	me := authmw.CurrentUser(c)

	id, err := pathID(c)
	if err != nil {
		return err
	}
	u, err := h.Users.Promote(ctx, me.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found.")
		}
		l.Error("promote_user_error", "status", 500, "user_id", id, "error", err)
		return err
	}

	flash(c, session.FlashSuccess, fmt.Sprintf("%s is now an administrator.", u.Email))
	return redirect(c, "/users")
}

func (h *AdminHTTP) Games(c echo.Context) error {
	games, err := h.Catalogue.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin_games", echo.Map{"Games": games})
}

func (h *AdminHTTP) DeleteGame(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_game")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Catalogue.DeleteGame(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Game not found.")
		}
		l.Error("delete_game_error", "status", 500, "game_id", id, "error", err)
		return err
	}

	flash(c, session.FlashSuccess, "Game deleted.")
	return redirect(c, "/admin/games")
}

// loadGame returns a blank game for id 0, which the edit form treats as a
// new listing.
func (h *AdminHTTP) loadGame(c echo.Context) (*models.Game, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return &models.Game{}, nil
	}
	g, err := h.Catalogue.Game(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Game not found.")
		}
		return nil, err
	}
	return g, nil
}

func (h *AdminHTTP) EditGamePage(c echo.Context) error {
	g, err := h.loadGame(c)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "edit_game", echo.Map{"GameID": g.ID, "Form": transport.GameFormFrom(*g)})
}

func (h *AdminHTTP) EditGame(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.edit_game")

	g, err := h.loadGame(c)
	if err != nil {
		return err
	}

	var form transport.GameForm
	if err := c.Bind(&form); err != nil {
		l.Warn("edit_game_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		var fe transport.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		return render(c, http.StatusOK, "edit_game", echo.Map{"GameID": g.ID, "Form": form, "Errors": fe})
	}

	form.Apply(g)
	if err := h.Catalogue.SaveGame(ctx, g); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Game not found.")
		}
		l.Error("edit_game_error", "status", 500, "game_id", g.ID, "error", err)
		return err
	}

	flash(c, session.FlashSuccess, fmt.Sprintf("%q saved.", g.Title))
	return redirect(c, "/admin/games")
}
