package salesapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/ownership"
	"github.com/vendora/salesdesk/internal/webserver"
	"github.com/vendora/salesdesk/pkg/common"
)

func registerClientRoutes() {
	webserver.ApiGET("/clients", listClients)
	webserver.ApiGET("/clients/mine", listMyClients)
	webserver.ApiGET("/clients/:id", getClient)
	webserver.ApiPOST("/clients", createClient)
	webserver.ApiPUT("/clients/:id", updateClient)
	webserver.ApiDELETE("/clients/:id", deleteClient)
}

func listClients(c echo.Context) error {
	page, pageSize := parsePagination(c)
	base := GetDB(c).Model(&domain.Client{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return failFromError(c, err)
	}
	var clients []domain.Client
	if err := base.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&clients).Error; err != nil {
		return failFromError(c, err)
	}
	return paged(c, clients, total, page, pageSize)
}

// listMyClients returns only the clients owned by the caller.
func listMyClients(c echo.Context) error {
	var clients []domain.Client
	if err := GetDB(c).Where("seller_id = ?", currentSellerID(c)).Order("id DESC").Find(&clients).Error; err != nil {
		return failFromError(c, err)
	}
	return ok(c, clients)
}

func getClient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid client ID", nil)
	}
	var client domain.Client
	if err := GetDB(c).Where("id = ?", id).First(&client).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Client not found", nil)
	} else if err != nil {
		return failFromError(c, err)
	}
	if err := ownership.Authorize(currentSellerID(c), client); err != nil {
		return failFromError(c, err)
	}
	return ok(c, client)
}

type clientPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func createClient(c echo.Context) error {
	var payload clientPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse client parameters", nil)
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || strings.TrimSpace(payload.FirstName) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Client first name and email are required", nil)
	}

	var dup domain.Client
	if err := GetDB(c).Where("email = ?", payload.Email).First(&dup).Error; err == nil {
		return failFromError(c, domain.ErrAlreadyRegistered)
	}

	now := time.Now()
	client := domain.Client{
		ID:        common.UUIDint64(),
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
		Company:   payload.Company,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Address:   payload.Address,
		SellerID:  currentSellerID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&client).Error; err != nil {
		return failFromError(c, err)
	}
	auditLog(c, "client.create", fmt.Sprintf("client %d created", client.ID))
	return ok(c, client)
}

func updateClient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid client ID", nil)
	}
	var client domain.Client
	if err := GetDB(c).Where("id = ?", id).First(&client).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Client not found", nil)
	} else if err != nil {
		return failFromError(c, err)
	}
	if err := ownership.Authorize(currentSellerID(c), client); err != nil {
		return failFromError(c, err)
	}

	var payload clientPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse client parameters", nil)
	}

	// SellerID is immutable; only contact fields may change.
	updates := map[string]interface{}{}
	if payload.FirstName != "" {
		updates["first_name"] = strings.TrimSpace(payload.FirstName)
	}
	if payload.LastName != "" {
		updates["last_name"] = strings.TrimSpace(payload.LastName)
	}
	if payload.Company != "" {
		updates["company"] = payload.Company
	}
	if payload.Email != "" {
		email := strings.ToLower(strings.TrimSpace(payload.Email))
		var dup domain.Client
		if err := GetDB(c).Where("email = ? AND id != ?", email, id).First(&dup).Error; err == nil {
			return failFromError(c, domain.ErrAlreadyRegistered)
		}
		updates["email"] = email
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.Address != "" {
		updates["address"] = payload.Address
	}
	updates["updated_at"] = time.Now()

	if err := GetDB(c).Model(&client).Updates(updates).Error; err != nil {
		return failFromError(c, err)
	}
	GetDB(c).Where("id = ?", id).First(&client)
	auditLog(c, "client.update", fmt.Sprintf("client %d updated", id))
	return ok(c, client)
}

func deleteClient(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid client ID", nil)
	}
	var client domain.Client
	if err := GetDB(c).Where("id = ?", id).First(&client).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Client not found", nil)
	} else if err != nil {
		return failFromError(c, err)
	}
	if err := ownership.Authorize(currentSellerID(c), client); err != nil {
		return failFromError(c, err)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Client{}).Error; err != nil {
		return failFromError(c, err)
	}
	auditLog(c, "client.delete", fmt.Sprintf("client %d deleted", id))
	return ok(c, map[string]interface{}{"id": id})
}
