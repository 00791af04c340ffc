package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

// GetReviews lists reviews of every user, optionally narrowed by ?product=.
func (h *ReviewHTTP) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_reviews")

	var productID uint
	if raw := c.QueryParam("product"); raw != "" {
		id, err := parseID("product", raw)
		if err != nil {
			return badRequest(l, "get_reviews_error", err.Error(), err)
		}
		productID = id
	}

	items, err := h.Svc.List(ctx, productID)
	if err != nil {
		return fail(c, l, "get_reviews_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create_review")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_review_error", "invalid body", err)
	}

	review, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		return fail(c, l, "create_review_error", err)
	}

	l.Info("create_review_success", "review_id", review.ID)
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHTTP) GetReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_review")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_review_error", err.Error(), err)
	}

	review, err := h.Svc.Get(ctx, userID, id)
	if err != nil {
		return fail(c, l, "get_review_error", err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) PatchReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.patch_review")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "patch_review_error", err.Error(), err)
	}
	var req transport.PatchReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_review_error", "invalid body", err)
	}

	review, err := h.Svc.Patch(ctx, userID, id, req)
	if err != nil {
		return fail(c, l, "patch_review_error", err)
	}

	l.Info("patch_review_success", "review_id", id)
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete_review")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "delete_review_error", err.Error(), err)
	}
	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		return fail(c, l, "delete_review_error", err)
	}

	l.Info("delete_review_success", "review_id", id)
	return c.NoContent(http.StatusNoContent)
}
