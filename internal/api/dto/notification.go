package dto

import (
	"github.com/flexprice/paymirror/internal/reconcile"
)

// NotificationResponse acknowledges one provider notification. No provider
// payload is echoed back.
type NotificationResponse struct {
	Resource string `json:"resource"`
	ID       string `json:"id,omitempty"`
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason,omitempty"`
}

func NewNotificationResponse(r *reconcile.Result) *NotificationResponse {
	return &NotificationResponse{
		Resource: string(r.Kind),
		ID:       r.ID,
		Outcome:  string(r.Outcome),
		Reason:   r.Reason,
	}
}
