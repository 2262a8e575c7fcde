package middleware

import (
	"github.com/flexprice/paymirror/internal/auth"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/gin-gonic/gin"
)

// ClientAuthMiddleware requires the identity headers on client requests,
// checks the user token with the identity provider and stores the client id
// and both tokens in the request context for the handlers.
func ClientAuthMiddleware(verifier auth.Verifier, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader(types.HeaderClientID)
		clientToken := c.GetHeader(types.HeaderClientToken)
		providerToken := c.GetHeader(types.HeaderProviderToken)

		if clientID == "" || clientToken == "" || providerToken == "" {
			c.Error(ierr.NewError("identity headers missing").
				WithHint("Openam-Client, Openam-Client-Token and Paypal-Access-Token headers are required").
				Mark(ierr.ErrValidation))
			c.Abort()
			return
		}

		if err := verifier.Verify(c.Request.Context(), clientToken); err != nil {
			logger.Debugw("client token rejected", "client_id", clientID, "error", err)
			c.Error(err)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetClientID(ctx, clientID)
		ctx = types.SetClientToken(ctx, clientToken)
		ctx = types.SetProviderToken(ctx, providerToken)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
