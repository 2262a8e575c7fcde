package v1

import (
	"net/http"

	"github.com/flexprice/paymirror/internal/api/dto"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/service"
	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewWebhookHandler(service service.NotificationService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, log: log}
}

// @Summary Receive a provider notification
// @Description Records and reconciles one webhook notification. Every notification that was durably
// @Description recorded is acknowledged with 200, including duplicates and rejected resources.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param notification body object true "Provider notification"
// @Success 200 {object} dto.NotificationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 503 {object} ierr.ErrorResponse
// @Router /notifications/webhooks [post]
func (h *WebhookHandler) ReceiveNotification(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read request body").
			Mark(ierr.ErrMalformedPayload))
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), raw)
	if err != nil {
		h.log.Errorw("failed to ingest notification", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewNotificationResponse(result))
}
