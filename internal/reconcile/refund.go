package reconcile

import (
	"context"
	"time"

	"github.com/flexprice/paymirror/internal/domain/refund"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

type RefundReconciler struct {
	Params
}

func NewRefundReconciler(p Params) *RefundReconciler {
	return &RefundReconciler{Params: p}
}

func (r *RefundReconciler) Kind() types.ResourceKind {
	return types.ResourceKindRefund
}

func (r *RefundReconciler) Reconcile(ctx context.Context, body []byte) (*Result, error) {
	incoming, err := projection.Refund(body)
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

	existing, err := r.RefundRepo.GetByProviderID(ctx, incoming.ProviderID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing == nil {
		incoming.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REFUND)
		incoming.BaseModel = types.GetDefaultBaseModel()
		if err := r.RefundRepo.Create(ctx, incoming); err != nil {
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
	if err := r.RefundRepo.Update(ctx, incoming); err != nil {
		return nil, err
	}
	return updated(r.Kind(), incoming.ID, incoming.ProviderID), nil
}

// resolveParent links the refund to its sale, or to its capture when the
// sale is not recorded
func (r *RefundReconciler) resolveParent(ctx context.Context, rf *refund.Refund) error {
	if rf.SaleRef != nil {
		s, err := r.SaleRepo.GetByProviderID(ctx, *rf.SaleRef)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if s != nil {
			rf.SaleID = lo.ToPtr(s.ID)
			return nil
		}
	}
	if rf.CaptureRef != nil {
		c, err := r.CaptureRepo.GetByProviderID(ctx, *rf.CaptureRef)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if c != nil {
			rf.CaptureID = lo.ToPtr(c.ID)
			return nil
		}
	}
	return parentNotFound(r.Kind(), rf.ProviderID, map[string]any{
		"sale_id":    lo.FromPtr(rf.SaleRef),
		"capture_id": lo.FromPtr(rf.CaptureRef),
	})
}
