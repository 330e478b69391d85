package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/game_shop/internal/logging"
	"github.com/Skotchmaster/game_shop/internal/models"
	"github.com/Skotchmaster/game_shop/internal/service"
	"github.com/Skotchmaster/game_shop/internal/session"
	"github.com/Skotchmaster/game_shop/internal/tokens"
)

const (
	userKey = "user"

	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Authenticator is the part of the auth service the guards need.
type Authenticator interface {
	Refresh(ctx context.Context, refreshToken string) (*service.LoginResult, error)
	CurrentUser(ctx context.Context, id uint) (*models.User, error)
}

// AutoRefreshMiddleware authenticates requests from the access token cookie,
// silently rotating the token pair when only the refresh token is still
// valid.
type AutoRefreshMiddleware struct {
	JWTSecret []byte
	Auth      Authenticator
	Secure    bool
}

func NewAutoRefreshMiddleware(secret []byte, auth Authenticator, secure bool) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{JWTSecret: secret, Auth: auth, Secure: secure}
}

// RequireLogin redirects anonymous visitors to the login page.
func (m *AutoRefreshMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.authenticate(c)
		if err != nil {
			return err
		}
		if user == nil {
			return c.Redirect(http.StatusFound, LoginPath)
		}
		return next(c)
	}
}

// RequireAdmin lets administrators through. Everyone else is sent back to
// the dashboard with a warning.
func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireLogin(func(c echo.Context) error {
		u := CurrentUser(c)
		if !u.IsAdmin {
			logging.FromContext(c.Request().Context()).Warn("admin_required", "status", 302, "user_id", u.ID)
			session.AddFlash(session.FromContext(c), session.FlashWarning, "Access denied.")
			return c.Redirect(http.StatusFound, DashboardPath)
		}
		return next(c)
	})
}

// RedirectIfAuthenticated keeps logged in users away from the login and
// registration pages.
func (m *AutoRefreshMiddleware) RedirectIfAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.authenticate(c)
		if err != nil {
			return err
		}
		if user != nil {
			return c.Redirect(http.StatusFound, DashboardPath)
		}
		return next(c)
	}
}

// authenticate resolves the current user. It returns nil without error for
// anonymous requests; errors are storage failures only.
func (m *AutoRefreshMiddleware) authenticate(c echo.Context) (*models.User, error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("middleware", "auth")

	var userID uint
	if ck, err := c.Cookie(tokens.AccessCookie); err == nil && ck.Value != "" {
		claims, pErr := tokens.AccessClaimsFromToken(ck.Value, m.JWTSecret)
		switch {
		case pErr == nil:
			if userID, pErr = claims.UserID(); pErr != nil {
				m.clearAuthCookies(c)
				return nil, nil
			}
		case errors.Is(pErr, jwt.ErrTokenExpired):
		default:
			l.Warn("auth_error", "reason", "invalid access token", "error", pErr)
			m.clearAuthCookies(c)
			return nil, nil
		}
	}

	if userID == 0 {
		ck, err := c.Cookie(tokens.RefreshCookie)
		if err != nil || ck.Value == "" {
			return nil, nil
		}
		res, rErr := m.Auth.Refresh(ctx, ck.Value)
		if rErr != nil {
			if errors.Is(rErr, service.ErrUnauthorized) {
				l.Info("auth_refresh_rejected", "error", rErr)
				m.clearAuthCookies(c)
				return nil, nil
			}
			return nil, rErr
		}
		m.SetAuthCookies(c, res)
		setUserContext(c, res.User)
		return res.User, nil
	}

	user, err := m.Auth.CurrentUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			m.clearAuthCookies(c)
			return nil, nil
		}
		return nil, err
	}
	setUserContext(c, user)
	return user, nil
}

func (m *AutoRefreshMiddleware) SetAuthCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp, m.Secure))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp, m.Secure))
}

func (m *AutoRefreshMiddleware) ClearAuthCookies(c echo.Context) { m.clearAuthCookies(c) }

func (m *AutoRefreshMiddleware) clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", m.Secure))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", m.Secure))
}

func setUserContext(c echo.Context, u *models.User) {
	c.Set(userKey, u)
	c.Set("user_id", u.ID)
	c.Set("role", tokens.Role(u.IsAdmin))
}

// CurrentUser returns the authenticated user, or nil outside the guards.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}
