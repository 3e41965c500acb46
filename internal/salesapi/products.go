package salesapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/webserver"
	"github.com/vendora/salesdesk/pkg/common"
)

// The catalog is shared: any authenticated seller may manage products.
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/search", searchProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

type productPayload struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
	Stock *int     `json:"stock"`
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return failFromError(c, err)
	}
	var rows []domain.Product
	if err := db.Order("name ASC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return failFromError(c, err)
	}
	return paged(c, rows, total, page, pageSize)
}

// searchProducts is a lightweight name search capped at a few results.
func searchProducts(c echo.Context) error {
	text := strings.TrimSpace(c.QueryParam("text"))
	if text == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Search text is required", nil)
	}
	limit := 5
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 50 {
		limit = v
	}
	var rows []domain.Product
	err := GetDB(c).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(text)+"%").
		Order("name ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return failFromError(c, err)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if payload.Price == nil || *payload.Price < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price is required and must be >= 0", nil)
	}
	if payload.Stock == nil || *payload.Stock < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Stock is required and must be >= 0", nil)
	}

	now := time.Now()
	p := domain.Product{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Price:     *payload.Price,
		Stock:     *payload.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return failFromError(c, err)
	}
	auditLog(c, "product.create", fmt.Sprintf("product %d (%s) created", p.ID, p.Name))
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return failFromError(c, err)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	if payload.Name != "" {
		p.Name = strings.TrimSpace(payload.Name)
	}
	if payload.Price != nil {
		if *payload.Price < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
		}
		p.Price = *payload.Price
	}
	if payload.Stock != nil {
		if *payload.Stock < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Stock must be >= 0", nil)
		}
		p.Stock = *payload.Stock
	}
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return failFromError(c, err)
	}
	auditLog(c, "product.update", fmt.Sprintf("product %d updated", id))
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return failFromError(c, err)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return failFromError(c, err)
	}
	auditLog(c, "product.delete", fmt.Sprintf("product %d deleted", id))
	return ok(c, map[string]interface{}{"id": id})
}
