package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/game_shop/internal/cart"
	"github.com/Skotchmaster/game_shop/internal/catalogue"
	"github.com/Skotchmaster/game_shop/internal/logging"
	authmw "github.com/Skotchmaster/game_shop/internal/middleware/auth"
	"github.com/Skotchmaster/game_shop/internal/search"
	"github.com/Skotchmaster/game_shop/internal/service"
	"github.com/Skotchmaster/game_shop/internal/session"
)

type CatalogueHTTP struct {
	Svc *service.CatalogueService
}

func criteriaFromQuery(c echo.Context) catalogue.Criteria {
	return catalogue.Criteria{
		Title:    c.QueryParam("title"),
		Genres:   c.QueryParams()["genres"],
		MinPrice: queryFloat(c, "min_price"),
		MaxPrice: queryFloat(c, "max_price"),
		MinSize:  queryFloat(c, "min_size"),
		MaxSize:  queryFloat(c, "max_size"),
	}
}

// Catalogue shows the filtered catalogue. Requests sent by the filter
// script get only the game cards back.
func (h *CatalogueHTTP) Catalogue(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalogue.browse")
	user := authmw.CurrentUser(c)

	res, err := h.Svc.Browse(ctx, user.ID, criteriaFromQuery(c))
	if err != nil {
		l.Error("browse_error", "status", 500, "reason", "cannot load catalogue", "error", err)
		return err
	}

	if c.Request().Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest" {
		return renderPartial(c, "game_cards", echo.Map{"Items": res.Items})
	}
	return render(c, http.StatusOK, "catalogue", echo.Map{"Result": res, "Items": res.Items})
}

func (h *CatalogueHTTP) Game(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalogue.game")
	user := authmw.CurrentUser(c)

	id, err := pathID(c)
	if err != nil {
		return err
	}
	game, err := h.Svc.Game(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_game_error", "status", 404, "game_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Game not found.")
		}
		return err
	}
	owned, err := h.Svc.Owns(ctx, user.ID, id)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "game", echo.Map{
		"Game":   game,
		"Owned":  owned,
		"InCart": cart.New(session.FromContext(c)).Contains(id),
	})
}

func (h *CatalogueHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalogue.search")
	user := authmw.CurrentUser(c)

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	from, size := search.Window(page, search.DefaultPageSize)

	res, err := h.Svc.Search(ctx, user.ID, c.QueryParam("q"), from, size)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return err
	}

	data := echo.Map{"Result": res, "Items": res.Items}
	if page > 1 {
		data["PrevPage"] = page - 1
	}
	if int64(from+size) < res.Total {
		data["NextPage"] = page + 1
	}
	return render(c, http.StatusOK, "search", data)
}
