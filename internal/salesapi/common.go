// Package salesapi exposes the sales operations over HTTP: auth,
// clients, the shared product catalog, orders and ranked reports.
package salesapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/auth"
	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/webserver"
	"github.com/vendora/salesdesk/pkg/common"
)

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.DBContextKey).(*gorm.DB)
}

// currentClaims returns the verified token claims for the request.
func currentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(webserver.ClaimsContextKey).(*auth.Claims)
	return claims
}

// currentSellerID returns the authenticated seller id, 0 when absent.
func currentSellerID(c echo.Context) int64 {
	if claims := currentClaims(c); claims != nil {
		return claims.ID
	}
	return 0
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": "OK",
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":      "OK",
		"data":      rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// failFromError maps domain errors to stable machine codes; anything
// outside the taxonomy is logged and reported as a database failure so
// callers can tell validation failures from infrastructure ones.
func failFromError(c echo.Context, err error) error {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", stockErr.Error(), map[string]interface{}{
			"product_id":   strconv.FormatInt(stockErr.ProductID, 10),
			"product_name": stockErr.ProductName,
			"requested":    stockErr.Requested,
			"available":    stockErr.Available,
		})
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Record not found", nil)
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, http.StatusForbidden, "UNAUTHORIZED", "You do not own this record", nil)
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return fail(c, http.StatusConflict, "ALREADY_REGISTERED", "Email already registered", nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	case errors.Is(err, domain.ErrInvalidToken):
		return fail(c, http.StatusUnauthorized, "INVALID_TOKEN", "Missing or invalid bearer token", nil)
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "Line item quantities must be positive", nil)
	case errors.Is(err, domain.ErrInvalidStatus):
		return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status", nil)
	case errors.Is(err, domain.ErrStatusTransition):
		return fail(c, http.StatusConflict, "STATUS_TRANSITION", "Status transition not allowed", nil)
	default:
		zap.L().Error("storage failure", zap.String("path", c.Path()), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Storage operation failed", nil)
	}
}

// auditLog records a mutation; failures only log, they never fail the
// request.
func auditLog(c echo.Context, action, desc string) {
	claims := currentClaims(c)
	name := ""
	if claims != nil {
		name = claims.Email
	}
	entry := domain.AuditLog{
		ID:         common.UUIDint64(),
		SellerName: name,
		OprIP:      c.RealIP(),
		Action:     action,
		Desc:       desc,
		OptTime:    time.Now(),
	}
	if err := GetDB(c).Create(&entry).Error; err != nil {
		zap.L().Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}
