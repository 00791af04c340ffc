package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get_wishlist")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.List(ctx, userID)
	if err != nil {
		return fail(c, l, "get_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *WishlistHTTP) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.AddToWishlistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_wishlist_error", "invalid body", err)
	}

	item, err := h.Svc.Add(ctx, userID, req.ProductID)
	if err != nil {
		return fail(c, l, "add_to_wishlist_error", err)
	}

	l.Info("add_to_wishlist_success", "wishlist_item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *WishlistHTTP) GetWishlistItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get_item")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_wishlist_item_error", err.Error(), err)
	}

	item, err := h.Svc.Get(ctx, userID, id)
	if err != nil {
		return fail(c, l, "get_wishlist_item_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *WishlistHTTP) DeleteWishlistItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.delete_item")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "delete_wishlist_item_error", err.Error(), err)
	}
	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		return fail(c, l, "delete_wishlist_item_error", err)
	}

	l.Info("delete_wishlist_item_success", "wishlist_item_id", id)
	return c.NoContent(http.StatusNoContent)
}
