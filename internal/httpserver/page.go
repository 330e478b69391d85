package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/game_shop/internal/logging"
	authmw "github.com/Skotchmaster/game_shop/internal/middleware/auth"
	"github.com/Skotchmaster/game_shop/internal/middleware/csrf"
	"github.com/Skotchmaster/game_shop/internal/session"
	"github.com/Skotchmaster/game_shop/internal/transport"
)

// render fills in what every page shows (current user, CSRF token, pending
// flashes) and renders the named page inside the layout.
func render(c echo.Context, status int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	data["User"] = authmw.CurrentUser(c)
	data["CSRFToken"] = csrf.Token(c)
	data["Flashes"] = session.Flashes(session.FromContext(c))
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = transport.FieldErrors{}
	}
	return c.Render(status, name, data)
}

// renderPartial renders a fragment without consuming flashes.
func renderPartial(c echo.Context, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	data["CSRFToken"] = csrf.Token(c)
	return c.Render(http.StatusOK, name, data)
}

func flash(c echo.Context, category, msg string) {
	session.AddFlash(session.FromContext(c), category, msg)
}

func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusFound, to)
}

// pathID parses the :id route parameter. Anything that is not an id cannot
// name an entity, so it is reported as not found.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return uint(id), nil
}

// queryFloat returns nil for a missing or malformed number.
func queryFloat(c echo.Context, name string) *float64 {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}

// safeNext accepts only local absolute paths as redirect targets.
func safeNext(next, def string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return def
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return def
	}
	return next
}

// errorHandler renders HTTP errors as an HTML page, and as JSON for the
// health endpoints.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("request_error", "status", code, "path", c.Path(), "error", err)
	}

	var rErr error
	switch {
	case c.Request().Method == http.MethodHead:
		rErr = c.NoContent(code)
	case strings.HasPrefix(c.Request().URL.Path, "/health"):
		rErr = c.JSON(code, echo.Map{"message": msg})
	default:
		rErr = render(c, code, "error", echo.Map{"Code": code, "Message": msg})
		if rErr != nil {
			rErr = c.String(code, msg)
		}
	}
	if rErr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", rErr)
	}
}
