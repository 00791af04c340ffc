package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
	"github.com/Skotchmaster/dairy_shop/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

// pageParams reads page and page_size, accepting size as an alias.
func pageParams(c echo.Context) (page, offset, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("page_size"), 0)
	if size == 0 {
		size = util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	}
	offset, limit = util.Calculate(page, size)
	return page, offset, limit
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.ListProducts(ctx, service.ProductQuery{
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return fail(c, l, "get_products_error", err)
	}

	l.Info("get_products_success", "total", total)
	return c.JSON(http.StatusOK, transport.Page[models.Product]{
		Data: items,
		Meta: util.NewMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_product_error", err.Error(), err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(c, l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(c, l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "patch_product_error", err.Error(), err)
	}
	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_product_error", "invalid body", err)
	}

	product, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return fail(c, l, "patch_product_error", err)
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "delete_product_error", err.Error(), err)
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(c, l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(c, l, "search_error", err)
	}

	l.Info("search_success", "total", total)
	return c.JSON(http.StatusOK, transport.Page[models.Product]{
		Data: items,
		Meta: util.NewMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) GetStocks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stock.get_stocks")

	stocks, err := h.Svc.ListStocks(ctx)
	if err != nil {
		return fail(c, l, "get_stocks_error", err)
	}
	return c.JSON(http.StatusOK, stocks)
}

func (h *CatalogHTTP) GetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stock.get_stock")

	id, err := paramID(c, "product_id")
	if err != nil {
		return badRequest(l, "get_stock_error", err.Error(), err)
	}
	stock, err := h.Svc.GetStock(ctx, id)
	if err != nil {
		return fail(c, l, "get_stock_error", err)
	}
	return c.JSON(http.StatusOK, stock)
}

func (h *CatalogHTTP) SetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stock.set_stock")

	id, err := paramID(c, "product_id")
	if err != nil {
		return badRequest(l, "set_stock_error", err.Error(), err)
	}
	var req transport.StockQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_stock_error", "invalid body", err)
	}

	stock, err := h.Svc.SetStock(ctx, id, req.Quantity)
	if err != nil {
		return fail(c, l, "set_stock_error", err)
	}

	l.Info("set_stock_success", "product_id", id, "quantity", stock.Quantity)
	return c.JSON(http.StatusOK, stock)
}

func (h *CatalogHTTP) Restock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "stock.restock")

	id, err := paramID(c, "product_id")
	if err != nil {
		return badRequest(l, "restock_error", err.Error(), err)
	}
	var req transport.StockQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "restock_error", "invalid body", err)
	}

	stock, err := h.Svc.Restock(ctx, id, req.Quantity)
	if err != nil {
		return fail(c, l, "restock_error", err)
	}

	l.Info("restock_success", "product_id", id, "quantity", stock.Quantity)
	return c.JSON(http.StatusOK, stock)
}
