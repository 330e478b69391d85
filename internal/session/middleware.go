package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/game_shop/internal/logging"
)

const (
	CookieName = "session_id"
	contextKey = "session"
)

type Config struct {
	Store  Store
	TTL    time.Duration
	Secure bool
}

// Middleware loads the session named by the cookie (or starts a new one),
// exposes it through FromContext and persists it when the handler changed it
// and returned without error. A stored session that is past half its lifetime
// is saved too, so the expiry in the store follows the cookie.
func Middleware(cfg Config) echo.MiddlewareFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			var (
				s          *Session
				prevExpiry time.Time
			)
			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				loaded, gErr := cfg.Store.Get(ctx, ck.Value)
				switch {
				case gErr == nil:
					s = loaded
					prevExpiry = loaded.ExpiresAt
				case !errors.Is(gErr, ErrNotFound):
					l.Error("session_load_error", "error", gErr)
					return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
				}
			}
			if s == nil {
				s = newSession(uuid.NewString(), cfg.TTL)
			}
			s.ExpiresAt = time.Now().UTC().Add(cfg.TTL)

			c.SetCookie(&http.Cookie{
				Name:     CookieName,
				Value:    s.ID,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(contextKey, s)

			if err := next(c); err != nil {
				return err
			}

			stale := !prevExpiry.IsZero() && time.Until(prevExpiry) < cfg.TTL/2
			if s.modified || stale {
				if err := cfg.Store.Save(ctx, s); err != nil {
					l.Error("session_save_error", "session_id", s.ID, "error", err)
				}
			}
			return nil
		}
	}
}

// FromContext returns the request's session. Outside the middleware it
// returns a detached session so callers never see nil.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok {
		return s
	}
	s := newSession(uuid.NewString(), time.Hour)
	c.Set(contextKey, s)
	return s
}
