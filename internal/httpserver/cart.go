package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(c, l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart_error", "invalid body", err)
	}

	item, err := h.Svc.AddToCart(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, l, "add_to_cart_error", err)
	}

	l.Info("add_to_cart_success", "cart_item_id", item.ID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) GetCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart_item")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_cart_item_error", err.Error(), err)
	}

	item, err := h.Svc.Get(ctx, userID, id)
	if err != nil {
		return fail(c, l, "get_cart_item_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) PatchCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.patch_cart_item")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "patch_cart_item_error", err.Error(), err)
	}
	var req transport.PatchCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_cart_item_error", "invalid body", err)
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, id, req.Quantity)
	if err != nil {
		return fail(c, l, "patch_cart_item_error", err)
	}

	l.Info("patch_cart_item_success", "cart_item_id", id, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) DeleteCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete_cart_item")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "delete_cart_item_error", err.Error(), err)
	}
	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		return fail(c, l, "delete_cart_item_error", err)
	}

	l.Info("delete_cart_item_success", "cart_item_id", id)
	return c.NoContent(http.StatusNoContent)
}
