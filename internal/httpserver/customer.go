package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type CustomerHTTP struct {
	Svc *service.CustomerService
}

func (h *CustomerHTTP) GetCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customers")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.List(ctx, userID)
	if err != nil {
		return fail(c, l, "get_customers_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CustomerHTTP) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create_customer")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_customer_error", "invalid body", err)
	}

	customer, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		return fail(c, l, "create_customer_error", err)
	}

	l.Info("create_customer_success", "customer_id", customer.ID)
	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHTTP) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customer")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_customer_error", err.Error(), err)
	}

	customer, err := h.Svc.Get(ctx, userID, id)
	if err != nil {
		return fail(c, l, "get_customer_error", err)
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHTTP) PatchCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.patch_customer")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "patch_customer_error", err.Error(), err)
	}
	var req transport.PatchCustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_customer_error", "invalid body", err)
	}

	customer, err := h.Svc.Patch(ctx, userID, id, req)
	if err != nil {
		return fail(c, l, "patch_customer_error", err)
	}

	l.Info("patch_customer_success", "customer_id", id)
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHTTP) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete_customer")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "delete_customer_error", err.Error(), err)
	}
	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		return fail(c, l, "delete_customer_error", err)
	}

	l.Info("delete_customer_success", "customer_id", id)
	return c.NoContent(http.StatusNoContent)
}
