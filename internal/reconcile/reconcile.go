// Package reconcile applies provider resource bodies to the local mirror.
//
// Each resource kind has its own reconciler. A reconciler projects the body,
// takes the per-resource lock, and either inserts a new record or updates
// the existing one under the terminal state guard. Callers run reconcilers
// inside a transaction; the lock is held until that transaction ends.
package reconcile

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/agreement"
	"github.com/flexprice/paymirror/internal/domain/authorization"
	"github.com/flexprice/paymirror/internal/domain/capture"
	"github.com/flexprice/paymirror/internal/domain/payment"
	"github.com/flexprice/paymirror/internal/domain/plan"
	"github.com/flexprice/paymirror/internal/domain/refund"
	"github.com/flexprice/paymirror/internal/domain/sale"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/lock"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/types"
	"go.uber.org/fx"
)

type Outcome string

const (
	OutcomeInserted     Outcome = "inserted"
	OutcomeUpdated      Outcome = "updated"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeUnrecognized Outcome = "unrecognized"
	OutcomeRejected     Outcome = "rejected"
)

// Result describes what happened to one resource body
type Result struct {
	Kind       types.ResourceKind `json:"resource"`
	ID         string             `json:"id,omitempty"`
	ProviderID string             `json:"-"`
	Outcome    Outcome            `json:"outcome"`
	Reason     string             `json:"reason,omitempty"`
}

// Reconciler applies one kind of resource body
type Reconciler interface {
	Kind() types.ResourceKind
	Reconcile(ctx context.Context, body []byte) (*Result, error)
}

// Params holds the collaborators shared by every reconciler
type Params struct {
	fx.In

	Logger            *logger.Logger
	Locker            lock.Locker
	PlanRepo          plan.Repository
	AgreementRepo     agreement.Repository
	PaymentRepo       payment.Repository
	SaleRepo          sale.Repository
	AuthorizationRepo authorization.Repository
	CaptureRepo       capture.Repository
	RefundRepo        refund.Repository
}

// Module provides the reconcilers and the notification dispatcher
func Module() fx.Option {
	return fx.Provide(
		NewPlanReconciler,
		NewAgreementReconciler,
		NewPaymentReconciler,
		NewSaleReconciler,
		NewAuthorizationReconciler,
		NewCaptureReconciler,
		NewRefundReconciler,
		NewDispatcher,
	)
}

func inserted(kind types.ResourceKind, id, providerID string) *Result {
	return &Result{Kind: kind, ID: id, ProviderID: providerID, Outcome: OutcomeInserted}
}

func updated(kind types.ResourceKind, id, providerID string) *Result {
	return &Result{Kind: kind, ID: id, ProviderID: providerID, Outcome: OutcomeUpdated}
}

// acquire takes the lock for one resource. Lock failures are infrastructure
// failures and are reported as such.
func acquire(ctx context.Context, locker lock.Locker, kind types.ResourceKind, id string) (func(), error) {
	release, err := locker.Lock(ctx, lock.Key(kind.String(), id))
	if err != nil {
		if ierr.IsStoreUnavailable(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHintf("Could not lock %s %s", kind, id).
			Mark(ierr.ErrStoreUnavailable)
	}
	return release, nil
}

// guardTerminal rejects any mutation of a record in a terminal state unless
// the incoming body restates that state. A body without a state is rejected
// too.
func guardTerminal(kind types.ResourceKind, providerID, current, incoming string) error {
	if !types.IsTerminalState(kind, current) || types.SameState(current, incoming) {
		return nil
	}
	if incoming == "" {
		incoming = "an unstated state"
	}
	return ierr.NewErrorf("%s %s is %s and cannot move to %s", kind, providerID, current, incoming).
		WithHintf("The %s is already in a final state", kind).
		WithReportableDetails(map[string]any{
			"resource":       kind,
			"provider_id":    providerID,
			"current_state":  current,
			"incoming_state": incoming,
		}).
		Mark(ierr.ErrTerminalState)
}

// keepState returns current when the incoming body reports no state. Callers
// run guardTerminal first.
func keepState(incoming, current string) string {
	if incoming == "" {
		return current
	}
	return incoming
}

func parentNotFound(kind types.ResourceKind, providerID string, refs map[string]any) error {
	details := map[string]any{"resource": kind, "provider_id": providerID}
	for k, v := range refs {
		details[k] = v
	}
	return ierr.NewErrorf("declared parent of %s %s is not recorded", kind, providerID).
		WithHintf("The parent of this %s is unknown", kind).
		WithReportableDetails(details).
		Mark(ierr.ErrParentNotFound)
}
