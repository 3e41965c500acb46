// Package webserver owns the echo instance: JSON serialization, bearer
// token verification on the API group, and route registration helpers
// used by the handler packages.
package webserver

import (
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/config"
	"github.com/vendora/salesdesk/internal/auth"
)

const (
	// ClaimsContextKey is where the JWT middleware stores verified claims.
	ClaimsContextKey = "seller"
	// DBContextKey is where the database handle travels per request.
	DBContextKey = "db"
)

type WebServer struct {
	cfg  *config.AppConfig
	root *echo.Echo
	api  *echo.Group
	pub  *echo.Group
}

var server *WebServer

// Init builds the server. Routes under the authenticated group reject
// missing or invalid tokens before any handler (and hence any entity)
// is touched.
func Init(cfg *config.AppConfig, db *gorm.DB, authSvc *auth.Service) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = NewJsoniterSerializer()
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(ZapLogger())
	e.Use(injectDB(db))

	pub := e.Group("/api/v1")

	api := e.Group("/api/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		ContextKey: ClaimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authSvc.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"code":    "INVALID_TOKEN",
				"message": "Missing or invalid bearer token",
			})
		},
	}))

	server = &WebServer{cfg: cfg, root: e, api: api, pub: pub}
	return server
}

func injectDB(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(DBContextKey, db)
			return next(c)
		}
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}
	if code >= http.StatusInternalServerError {
		zap.L().Error("http error", zap.String("path", c.Path()), zap.Error(err))
	}
	_ = c.JSON(code, map[string]interface{}{
		"code":    http.StatusText(code),
		"message": message,
	})
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.S().Infof("api listening on %s", addr)
	return s.root.Start(addr)
}

func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Route registration helpers; Pub* endpoints skip token verification.

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}
