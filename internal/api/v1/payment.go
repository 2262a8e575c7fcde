package v1

import (
	"net/http"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/service"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// @Summary Create a payment
// @Description Creates the payment with the provider and records it with its transactions
// @Tags Payments
// @Accept json
// @Produce json
// @Security OpenAM
// @Param payment body object true "Provider payment"
// @Success 201 {object} object
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payments/payment [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	req, err := readProviderRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.CreatePayment(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to create payment", "error", err)
		c.Error(err)
		return
	}

	writeProviderResponse(c, resp, http.StatusCreated)
}

// @Summary Execute an approved payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security OpenAM
// @Param id path string true "Provider payment id"
// @Param execution body object true "Payer execution"
// @Success 200 {object} object
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payments/payment/{id}/execute [post]
func (h *PaymentHandler) ExecutePayment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Payment ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	req, err := readProviderRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ExecutePayment(c.Request.Context(), id, req)
	if err != nil {
		h.log.Errorw("failed to execute payment", "payment_id", id, "error", err)
		c.Error(err)
		return
	}

	writeProviderResponse(c, resp, 0)
}

// @Summary Get payment details from the provider
// @Tags Payments
// @Produce json
// @Security OpenAM
// @Param id path string true "Provider payment id"
// @Success 200 {object} object
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payments/payment/{id} [get]
func (h *PaymentHandler) GetPaymentDetails(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Payment ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPaymentDetails(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to get payment details", "payment_id", id, "error", err)
		c.Error(err)
		return
	}

	writeProviderResponse(c, resp, 0)
}
