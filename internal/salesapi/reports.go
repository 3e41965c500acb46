package salesapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vendora/salesdesk/internal/reports"
	"github.com/vendora/salesdesk/internal/webserver"
)

// Rankings are global: every authenticated seller sees the same lists.
func registerReportRoutes() {
	webserver.ApiGET("/reports/top-clients", topClients)
	webserver.ApiGET("/reports/top-sellers", topSellers)
}

func parseLimit(c echo.Context, def int) int {
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		return v
	}
	return def
}

func topClients(c echo.Context) error {
	rows, err := reportService.TopClients(c.Request().Context(), parseLimit(c, reports.DefaultTopClients))
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, rows)
}

func topSellers(c echo.Context) error {
	rows, err := reportService.TopSellers(c.Request().Context(), parseLimit(c, reports.DefaultTopSellers))
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, rows)
}
