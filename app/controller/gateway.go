package controller

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-tripay/app/factory"
	"github.com/vibast-solutions/ms-go-tripay/app/mapper"
	"github.com/vibast-solutions/ms-go-tripay/app/service"
	"github.com/vibast-solutions/ms-go-tripay/app/tripay"
	"github.com/vibast-solutions/ms-go-tripay/app/types"
)

const callbackSignatureHeader = "X-Callback-Signature"
const callbackEventHeader = "X-Callback-Event"

type GatewayController struct {
	gatewayService *service.GatewayService
	privateKey     string
	logger         logrus.FieldLogger
}

func NewGatewayController(gatewayService *service.GatewayService, privateKey string) *GatewayController {
	return &GatewayController{
		gatewayService: gatewayService,
		privateKey:     privateKey,
		logger:         factory.NewModuleLogger("gateway-controller"),
	}
}

func (c *GatewayController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *GatewayController) GetCheckoutOptions(ctx echo.Context) error {
	label, channels := c.gatewayService.CheckoutOptions()
	return ctx.JSON(http.StatusOK, &types.CheckoutOptionsResponse{
		Label:    label,
		Channels: channels,
	})
}

func (c *GatewayController) CreateCheckout(ctx echo.Context) error {
	req, err := types.NewCreateCheckoutRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	order, err := c.gatewayService.CreateCheckout(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest),
			errors.Is(err, service.ErrCurrencyNotSupported),
			errors.Is(err, service.ErrChannelNotEnabled):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUpstream):
			return ctx.JSON(http.StatusBadGateway, &types.CheckoutResponse{
				Success: false,
				Message: err.Error(),
			})
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create checkout failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	checkoutURL := ""
	if order.CheckoutURL != nil {
		checkoutURL = *order.CheckoutURL
	}
	return ctx.JSON(http.StatusCreated, &types.CheckoutResponse{
		Success: true,
		Data:    &types.CheckoutData{CheckoutURL: checkoutURL},
	})
}

func (c *GatewayController) GetOrder(ctx echo.Context) error {
	req, err := types.NewGetOrderRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	order, notes, err := c.gatewayService.GetOrder(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "order not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get order failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.OrderEnvelopeResponse{Order: mapper.OrderToResponse(order, notes)})
}

// HandleIPN authenticates and reconciles one Tripay callback. Authentication
// failures reject hard with 4xx before the body is interpreted; everything
// past the signature check answers 200 so Tripay stops redelivering.
func (c *GatewayController) HandleIPN(ctx echo.Context) error {
	request := ctx.Request()

	signature := strings.TrimSpace(request.Header.Get(callbackSignatureHeader))
	if signature == "" {
		return c.writeError(ctx, http.StatusUnauthorized, "x-callback-signature header is required")
	}

	payload, err := io.ReadAll(request.Body)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	if !tripay.VerifySignature(payload, signature, c.privateKey) {
		factory.LoggerWithContext(c.logger, ctx).Warn("IPN signature verification failed")
		return c.writeError(ctx, http.StatusUnauthorized, "invalid callback signature")
	}

	if event := strings.TrimSpace(request.Header.Get(callbackEventHeader)); event != tripay.EventPaymentStatus {
		return ctx.JSON(http.StatusOK, &types.IPNResponse{
			Success: false,
			Message: "no action taken for event: " + event,
		})
	}

	webhookEvent, err := tripay.ParseWebhookEvent(payload)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid JSON payload")
	}

	result, err := c.gatewayService.HandleIPN(request.Context(), webhookEvent, signature, payload)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Handle IPN failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.IPNResponse{
		Success: result.Success,
		Message: result.Message,
	})
}

func (c *GatewayController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
