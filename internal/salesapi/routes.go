package salesapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vendora/salesdesk/internal/auth"
	"github.com/vendora/salesdesk/internal/orders"
	"github.com/vendora/salesdesk/internal/reports"
	"github.com/vendora/salesdesk/internal/webserver"
)

var (
	authService   *auth.Service
	orderService  *orders.Service
	reportService *reports.Service
)

// Init wires the services and registers every route on the webserver.
func Init(authSvc *auth.Service, orderSvc *orders.Service, reportSvc *reports.Service) {
	authService = authSvc
	orderService = orderSvc
	reportService = reportSvc

	webserver.PubGET("/health", healthCheck)
	registerAuthRoutes()
	registerClientRoutes()
	registerProductRoutes()
	registerOrderRoutes()
	registerReportRoutes()
}

func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
