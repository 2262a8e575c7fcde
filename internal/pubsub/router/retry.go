package router

import (
	"net"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/logger"
)

// shouldRetry reports whether a failed message is worth redelivering.
// Only transient infrastructure failures are; a body that was rejected
// once is rejected again.
func shouldRetry(logger *logger.Logger, err error) bool {
	if ierr.IsStoreUnavailable(err) {
		logger.Debugw("retrying due to store failure", "error", err)
		return true
	}

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		logger.Debugw("retrying due to network timeout", "error", netErr)
		return true
	}

	if ierr.IsReconcileRejection(err) ||
		ierr.IsValidation(err) ||
		ierr.IsNotFound(err) {
		return false
	}

	// By default, retry unknown errors
	return true
}
