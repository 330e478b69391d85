package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/game_shop/internal/cart"
	"github.com/Skotchmaster/game_shop/internal/logging"
	authmw "github.com/Skotchmaster/game_shop/internal/middleware/auth"
	"github.com/Skotchmaster/game_shop/internal/service"
	"github.com/Skotchmaster/game_shop/internal/session"
)

type CartHTTP struct {
	Svc *service.ShopService
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")
	user := authmw.CurrentUser(c)

	id, err := pathID(c)
	if err != nil {
		return err
	}
	added, err := h.Svc.AddToCart(ctx, user.ID, cart.New(session.FromContext(c)), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("add_to_cart_error", "status", 404, "game_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Game not found.")
		}
		l.Error("add_to_cart_error", "status", 500, "game_id", id, "error", err)
		return err
	}

	if added {
		flash(c, session.FlashSuccess, "Game added to your cart.")
	} else {
		flash(c, session.FlashInfo, "This game is already in your cart.")
	}
	return redirect(c, safeNext(c.FormValue("next"), "/catalogue"))
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	id, err := pathID(c)
	if err != nil {
		return err
	}
	removed, err := h.Svc.RemoveFromCart(ctx, user.ID, cart.New(session.FromContext(c)), id)
	if err != nil {
		return err
	}

	if removed {
		flash(c, session.FlashSuccess, "Game removed from your cart.")
	} else {
		flash(c, session.FlashInfo, "That game was not in your cart.")
	}
	return redirect(c, "/cart")
}

func (h *CartHTTP) Cart(c echo.Context) error {
	ctx := c.Request().Context()
	view, err := h.Svc.CartContents(ctx, cart.New(session.FromContext(c)))
	if err != nil {
		logging.FromContext(ctx).Error("cart_error", "status", 500, "error", err)
		return err
	}
	return render(c, http.StatusOK, "cart", echo.Map{"Cart": view})
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")
	user := authmw.CurrentUser(c)

	added, err := h.Svc.Checkout(ctx, user.ID, cart.New(session.FromContext(c)))
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			flash(c, session.FlashWarning, "Your cart is empty.")
			return redirect(c, "/cart")
		}
		l.Error("checkout_error", "status", 500, "reason", "cannot persist ownership", "error", err)
		return err
	}

	switch n := len(added); n {
	case 0:
		flash(c, session.FlashInfo, "You already own everything that was in your cart.")
	case 1:
		flash(c, session.FlashSuccess, "Purchase complete. 1 game was added to your library.")
	default:
		flash(c, session.FlashSuccess, fmt.Sprintf("Purchase complete. %d games were added to your library.", n))
	}
	return redirect(c, "/inventory")
}

func (h *CartHTTP) Inventory(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	games, err := h.Svc.Inventory(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("inventory_error", "status", 500, "error", err)
		return err
	}
	return render(c, http.StatusOK, "inventory", echo.Map{"Games": games})
}
