package reconcile

import (
	"context"

	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/types"
)

// Dispatcher routes a notification body to the reconciler of its kind.
// The set of routes is fixed at construction.
type Dispatcher struct {
	routes map[types.ResourceKind]Reconciler
	logger *logger.Logger
}

func NewDispatcher(
	plan *PlanReconciler,
	agreement *AgreementReconciler,
	sale *SaleReconciler,
	authorization *AuthorizationReconciler,
	capture *CaptureReconciler,
	refund *RefundReconciler,
	logger *logger.Logger,
) *Dispatcher {
	routes := make(map[types.ResourceKind]Reconciler, len(types.NotificationKinds))
	for _, r := range []Reconciler{plan, agreement, sale, authorization, capture, refund} {
		routes[r.Kind()] = r
	}
	return &Dispatcher{routes: routes, logger: logger}
}

// Dispatch reconciles body as resourceType. Unknown types are reported as
// unrecognized without error so they are acknowledged and not redelivered.
func (d *Dispatcher) Dispatch(ctx context.Context, resourceType string, body []byte) (*Result, error) {
	kind, ok := types.ParseNotificationKind(resourceType)
	if !ok {
		d.logger.Warnw("unrecognized resource type", "resource_type", resourceType)
		return &Result{Kind: kind, Outcome: OutcomeUnrecognized}, nil
	}
	return d.routes[kind].Reconcile(ctx, body)
}

// Reconcile applies body with the reconciler for kind. It is used for
// resources nested in other provider responses.
func (d *Dispatcher) Reconcile(ctx context.Context, kind types.ResourceKind, body []byte) (*Result, error) {
	r, ok := d.routes[kind]
	if !ok {
		return &Result{Kind: kind, Outcome: OutcomeUnrecognized}, nil
	}
	return r.Reconcile(ctx, body)
}
