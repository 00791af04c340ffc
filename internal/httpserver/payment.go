package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_intent")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.CreateIntentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_intent_error", "invalid body", err)
	}

	res, err := h.Svc.CreateIntent(ctx, userID, req.Amount)
	if err != nil {
		return fail(c, l, "create_intent_error", err)
	}

	l.Info("create_intent_success", "payment_id", res.PaymentID)
	return c.JSON(http.StatusOK, transport.CreateIntentResponse{
		ClientSecret:   res.ClientSecret,
		PaymentID:      res.PaymentID,
		PublishableKey: res.PublishableKey,
	})
}

func (h *PaymentHTTP) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.verify")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req transport.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "verify_payment_error", "invalid body", err)
	}

	payment, err := h.Svc.Verify(ctx, userID, req.PaymentIntentID)
	if err != nil {
		return fail(c, l, "verify_payment_error", err)
	}

	l.Info("verify_payment_success", "payment_id", payment.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "payment successful",
		"payment": payment,
	})
}

func (h *PaymentHTTP) GetPayments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.get_payments")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.ListPayments(ctx, userID)
	if err != nil {
		return fail(c, l, "get_payments_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *PaymentHTTP) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.get_payment")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_payment_error", err.Error(), err)
	}

	payment, err := h.Svc.GetPayment(ctx, userID, id)
	if err != nil {
		return fail(c, l, "get_payment_error", err)
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHTTP) DeletePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.delete_payment")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "delete_payment_error", err.Error(), err)
	}
	if err := h.Svc.DeletePayment(ctx, userID, id); err != nil {
		return fail(c, l, "delete_payment_error", err)
	}

	l.Info("delete_payment_success", "payment_id", id)
	return c.NoContent(http.StatusNoContent)
}
