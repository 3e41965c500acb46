package salesapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/orders"
	"github.com/vendora/salesdesk/internal/webserver"
)

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/mine", listMyOrders)
	webserver.ApiGET("/orders/status/:status", listOrdersByStatus)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPOST("/orders", createOrder)
	webserver.ApiPUT("/orders/:id", updateOrder)
	webserver.ApiDELETE("/orders/:id", deleteOrder)
}

type orderItemPayload struct {
	ProductID int64 `json:"product_id,string"`
	Quantity  int   `json:"quantity"`
}

type createOrderPayload struct {
	ClientID int64              `json:"client_id,string"`
	Items    []orderItemPayload `json:"items"`
	Status   string             `json:"status"`
}

type updateOrderPayload struct {
	ClientID *int64             `json:"client_id,string"`
	Items    []orderItemPayload `json:"items"`
	Status   *string            `json:"status"`
}

func toItemInputs(items []orderItemPayload) []orders.ItemInput {
	out := make([]orders.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, orders.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func listOrders(c echo.Context) error {
	rows, err := orderService.ListAll(c.Request().Context())
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, rows)
}

func listMyOrders(c echo.Context) error {
	rows, err := orderService.ListBySeller(c.Request().Context(), currentSellerID(c))
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, rows)
}

func listOrdersByStatus(c echo.Context) error {
	status := domain.OrderStatus(c.Param("status"))
	rows, err := orderService.ListByStatus(c.Request().Context(), currentSellerID(c), status)
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, rows)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := orderService.Get(c.Request().Context(), currentSellerID(c), id)
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, order)
}

func createOrder(c echo.Context) error {
	var payload createOrderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}
	if payload.ClientID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Client is required", nil)
	}
	if len(payload.Items) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "At least one line item is required", nil)
	}

	order, err := orderService.Create(c.Request().Context(), currentSellerID(c), orders.CreateInput{
		ClientID: payload.ClientID,
		Items:    toItemInputs(payload.Items),
		Status:   domain.OrderStatus(payload.Status),
	})
	if err != nil {
		return failFromError(c, err)
	}
	auditLog(c, "order.create", fmt.Sprintf("order %d created for client %d", order.ID, order.ClientID))
	return ok(c, order)
}

func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload updateOrderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}

	in := orders.UpdateInput{ClientID: payload.ClientID}
	if payload.Items != nil {
		in.Items = toItemInputs(payload.Items)
	}
	if payload.Status != nil {
		status := domain.OrderStatus(*payload.Status)
		in.Status = &status
	}

	order, err := orderService.Update(c.Request().Context(), currentSellerID(c), id, in)
	if err != nil {
		return failFromError(c, err)
	}
	auditLog(c, "order.update", fmt.Sprintf("order %d updated", id))
	return ok(c, order)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := orderService.Delete(c.Request().Context(), currentSellerID(c), id); err != nil {
		return failFromError(c, err)
	}
	auditLog(c, "order.delete", fmt.Sprintf("order %d deleted", id))
	return ok(c, map[string]interface{}{"id": id})
}
