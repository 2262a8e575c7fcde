package v1

import (
	"net/http"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/service"
	"github.com/gin-gonic/gin"
)

type AgreementHandler struct {
	service service.AgreementService
	log     *logger.Logger
}

func NewAgreementHandler(service service.AgreementService, log *logger.Logger) *AgreementHandler {
	return &AgreementHandler{service: service, log: log}
}

// @Summary Create a billing agreement
// @Description Creates the agreement with the provider and records it locally until the payer approves it
// @Tags Agreements
// @Accept json
// @Produce json
// @Security OpenAM
// @Param agreement body object true "Provider billing agreement"
// @Success 201 {object} object
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /payments/billing-agreements [post]
func (h *AgreementHandler) CreateAgreement(c *gin.Context) {
	req, err := readProviderRequest(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.CreateAgreement(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to create agreement", "error", err)
		c.Error(err)
		return
	}

	writeProviderResponse(c, resp, http.StatusCreated)
}

// @Summary Execute an approved billing agreement
// @Tags Agreements
// @Produce json
// @Security OpenAM
// @Param token path string true "Approval token"
// @Success 200 {object} object
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payments/billing-agreements/{token}/agreement-execute [post]
func (h *AgreementHandler) ExecuteAgreement(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.Error(ierr.NewError("token is required").
			WithHint("Approval token is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ExecuteAgreement(c.Request.Context(), token)
	if err != nil {
		h.log.Errorw("failed to execute agreement", "token", token, "error", err)
		c.Error(err)
		return
	}

	writeProviderResponse(c, resp, 0)
}
