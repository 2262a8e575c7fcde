package v1

import (
	"net/http"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/service"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service service.ReportService
	log     *logger.Logger
}

func NewReportHandler(service service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{service: service, log: log}
}

func (h *ReportHandler) bindFilter(c *gin.Context) (*types.ReportFilter, bool) {
	filter := types.NewDefaultReportFilter(types.GetClientID(c.Request.Context()))
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return nil, false
	}
	return filter, true
}

// @Summary List billing agreements
// @Description Lists the calling client's billing agreements
// @Tags Reports
// @Produce json
// @Security OpenAM
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListAgreementsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /reports/billing-agreements [get]
func (h *ReportHandler) ListAgreements(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	resp, err := h.service.ListAgreements(c.Request.Context(), filter)
	if err != nil {
		h.log.Errorw("failed to list agreements", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List payments
// @Description Lists the calling client's payments
// @Tags Reports
// @Produce json
// @Security OpenAM
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /reports/payments [get]
func (h *ReportHandler) ListPayments(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	resp, err := h.service.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.log.Errorw("failed to list payments", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
