package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// CreateOrder places an order for the authenticated user. The user id never
// comes from the body.
func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order_error", "invalid body", err)
	}

	order, err := h.Svc.PlaceOrder(ctx, service.PlaceOrderInput{
		UserID:     userID,
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		PaymentID:  req.PaymentID,
	})
	if err != nil {
		return fail(c, l, "create_order_error", err)
	}

	l.Info("create_order_success", "status", http.StatusCreated, "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	orders, err := h.Svc.ListOrders(ctx, userID)
	if err != nil {
		return fail(c, l, "get_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_order_error", err.Error(), err)
	}

	order, err := h.Svc.GetOrder(ctx, userID, id)
	if err != nil {
		return fail(c, l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "cancel_order_error", err.Error(), err)
	}

	order, err := h.Svc.CancelOrder(ctx, userID, id)
	if err != nil {
		return fail(c, l, "cancel_order_error", err)
	}

	l.Info("cancel_order_success", "order_id", id)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "delete_order_error", err.Error(), err)
	}
	if err := h.Svc.DeleteOrder(ctx, userID, id); err != nil {
		return fail(c, l, "delete_order_error", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "update_status_error", err.Error(), err)
	}
	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_status_error", "invalid body", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(c, l, "update_status_error", err)
	}

	l.Info("update_status_success", "order_id", id, "order_status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) AssignDelivery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.assign_delivery")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "assign_delivery_error", err.Error(), err)
	}
	var req transport.AssignDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "assign_delivery_error", "invalid body", err)
	}

	order, err := h.Svc.AssignDelivery(ctx, id, req.DeliveryPersonID)
	if err != nil {
		return fail(c, l, "assign_delivery_error", err)
	}

	l.Info("assign_delivery_success", "order_id", id, "delivery_person_id", req.DeliveryPersonID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GetDeliveryPersons(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.get_persons")

	items, err := h.Svc.ListDeliveryPersons(ctx)
	if err != nil {
		return fail(c, l, "get_delivery_persons_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHTTP) CreateDeliveryPerson(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.create_person")

	var req transport.DeliveryPersonRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_delivery_person_error", "invalid body", err)
	}

	dp, err := h.Svc.CreateDeliveryPerson(ctx, req.Name, req.Email, req.Phone)
	if err != nil {
		return fail(c, l, "create_delivery_person_error", err)
	}

	l.Info("create_delivery_person_success", "delivery_person_id", dp.ID)
	return c.JSON(http.StatusCreated, dp)
}
