package v1

import (
	"github.com/flexprice/paymirror/internal/api/dto"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/gin-gonic/gin"
)

const contentTypeJSON = "application/json"

// readProviderRequest reads the raw client payload, which must be a JSON object
func readProviderRequest(c *gin.Context) (*dto.ProviderRequest, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read request body").
			Mark(ierr.ErrValidation)
	}
	return dto.NewProviderRequest(raw)
}

// writeProviderResponse writes resp for the client. okStatus replaces the
// provider status on success when set.
func writeProviderResponse(c *gin.Context, resp *dto.ProviderResponse, okStatus int) {
	body, err := resp.Render()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to render provider response").
			Mark(ierr.ErrSystem))
		return
	}

	status := resp.StatusCode
	if resp.OK() && okStatus != 0 {
		status = okStatus
	}
	c.Data(status, contentTypeJSON, body)
}
