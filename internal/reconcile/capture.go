package reconcile

import (
	"context"
	"time"

	"github.com/flexprice/paymirror/internal/domain/capture"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

type CaptureReconciler struct {
	Params
}

func NewCaptureReconciler(p Params) *CaptureReconciler {
	return &CaptureReconciler{Params: p}
}

func (r *CaptureReconciler) Kind() types.ResourceKind {
	return types.ResourceKindCapture
}

// Reconcile always reports a defined result for a capture: inserted,
// updated, or an error naming why the body was not applied.
func (r *CaptureReconciler) Reconcile(ctx context.Context, body []byte) (*Result, error) {
	incoming, err := projection.Capture(body)
	if err != nil {
		return nil, err
	}
	if err := incoming.Validate(); err != nil {
		return nil, err
	}

	release, err := acquire(ctx, r.Locker, r.Kind(), incoming.ProviderID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := r.resolveParent(ctx, incoming); err != nil {
		return nil, err
	}

	existing, err := r.CaptureRepo.GetByProviderID(ctx, incoming.ProviderID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing == nil {
		incoming.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CAPTURE)
		incoming.BaseModel = types.GetDefaultBaseModel()
		if err := r.CaptureRepo.Create(ctx, incoming); err != nil {
			return nil, err
		}
		return inserted(r.Kind(), incoming.ID, incoming.ProviderID), nil
	}

	if err := guardTerminal(r.Kind(), existing.ProviderID, existing.State, incoming.State); err != nil {
		return nil, err
	}
	incoming.State = keepState(incoming.State, existing.State)
	incoming.InheritIdentity(existing)
	incoming.UpdatedAt = time.Now().UTC()
	if err := r.CaptureRepo.Update(ctx, incoming); err != nil {
		return nil, err
	}
	return updated(r.Kind(), incoming.ID, incoming.ProviderID), nil
}

// resolveParent links the capture to the authorization named by its
// authorization link, falling back to its parent payment
func (r *CaptureReconciler) resolveParent(ctx context.Context, c *capture.Capture) error {
	if c.AuthorizationRef != nil {
		a, err := r.AuthorizationRepo.GetByProviderID(ctx, *c.AuthorizationRef)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if a != nil {
			c.AuthorizationID = lo.ToPtr(a.ID)
			return nil
		}
	}
	if c.ParentPaymentRef != nil {
		p, err := r.PaymentRepo.GetByProviderID(ctx, *c.ParentPaymentRef)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if p != nil {
			c.PaymentID = lo.ToPtr(p.ID)
			return nil
		}
	}
	return parentNotFound(r.Kind(), c.ProviderID, map[string]any{
		"authorization_id": lo.FromPtr(c.AuthorizationRef),
		"parent_payment":   lo.FromPtr(c.ParentPaymentRef),
	})
}
