package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	authmw "github.com/Skotchmaster/game_shop/internal/middleware/auth"
	"github.com/Skotchmaster/game_shop/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/game_shop/internal/middleware/logging"
	"github.com/Skotchmaster/game_shop/internal/service"
	"github.com/Skotchmaster/game_shop/internal/session"
	"github.com/Skotchmaster/game_shop/internal/transport"
)

type Deps struct {
	DB     *gorm.DB
	Logger *slog.Logger

	Sessions      session.Store
	SessionTTL    time.Duration
	SecureCookies bool
	JWTSecret     []byte

	Auth      *service.AuthService
	Users     *service.UserService
	Catalogue *service.CatalogueService
	Shop      *service.ShopService
}

// New builds the echo instance with the renderer, validator, error page and
// the global middleware chain, then registers every route.
func New(d *Deps) (*echo.Echo, error) {
	r, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r
	e.Validator = transport.NewValidator()
	e.HTTPErrorHandler = errorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(common(d.Logger)...)

	Register(e, d)
	return e, nil
}

// common is the chain every request passes through, health checks included.
func common(logger *slog.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(logger),
		middleware.Secure(),
		middleware.BodyLimit("1M"),
	}
}

func Register(e *echo.Echo, d *Deps) {
	health := &HealthHTTP{DB: d.DB}
	e.GET("/health/live", health.Live)
	e.GET("/health/ready", health.Ready)
	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))

	authMW := authmw.NewAutoRefreshMiddleware(d.JWTSecret, d.Auth, d.SecureCookies)
	authH := &AuthHTTP{Svc: d.Auth, MW: authMW}
	catalogueH := &CatalogueHTTP{Svc: d.Catalogue}
	cartH := &CartHTTP{Svc: d.Shop}
	accountH := &AccountHTTP{Svc: d.Users}
	adminH := &AdminHTTP{Users: d.Users, Catalogue: d.Catalogue}

	app := e.Group("",
		session.Middleware(session.Config{Store: d.Sessions, TTL: d.SessionTTL, Secure: d.SecureCookies}),
		csrf.Middleware(csrf.Config{Secure: d.SecureCookies, EnforceSameOrigin: true}),
	)

	app.GET("/", authH.Home)

	anon := authMW.RedirectIfAuthenticated
	app.GET("/register", authH.RegisterPage, anon)
	app.POST("/register", authH.Register, anon)
	app.GET("/login", authH.LoginPage, anon)
	app.POST("/login", authH.Login, anon)

	user := authMW.RequireLogin
	app.GET("/logout", authH.Logout, user)
	app.GET("/dashboard", authH.Dashboard, user)
	app.GET("/catalogue", catalogueH.Catalogue, user)
	app.GET("/search", catalogueH.Search, user)
	app.GET("/game/:id", catalogueH.Game, user)
	app.POST("/add_to_cart/:id", cartH.AddToCart, user)
	app.POST("/remove_from_cart/:id", cartH.RemoveFromCart, user)
	app.GET("/cart", cartH.Cart, user)
	app.POST("/checkout", cartH.Checkout, user)
	app.GET("/inventory", cartH.Inventory, user)
	app.GET("/account", accountH.AccountPage, user)
	app.POST("/account", accountH.UpdateAccount, user)

	admin := authMW.RequireAdmin
	app.GET("/users", adminH.ListUsers, admin)
	app.POST("/admin/delete_user/:id", adminH.DeleteUser, admin)
	app.POST("/admin/promote_user/:id", adminH.PromoteUser, admin)
	app.GET("/admin/games", adminH.Games, admin)
	app.POST("/admin/delete_game/:id", adminH.DeleteGame, admin)
	app.GET("/admin/edit_game/:id", adminH.EditGamePage, admin)
	app.POST("/admin/edit_game/:id", adminH.EditGame, admin)
}

// NewServer wraps e in an http.Server with the configured timeouts.
func NewServer(e *echo.Echo, addr string, read, write, idle time.Duration) *http.Server {
	e.Server.Addr = addr
	e.Server.ReadTimeout = read
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Server.WriteTimeout = write
	e.Server.IdleTimeout = idle
	return e.Server
}
