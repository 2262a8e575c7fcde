package reconcile

import (
	"context"
	"time"

	"github.com/flexprice/paymirror/internal/domain/sale"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

type SaleReconciler struct {
	Params
}

func NewSaleReconciler(p Params) *SaleReconciler {
	return &SaleReconciler{Params: p}
}

func (r *SaleReconciler) Kind() types.ResourceKind {
	return types.ResourceKindSale
}

func (r *SaleReconciler) Reconcile(ctx context.Context, body []byte) (*Result, error) {
	incoming, err := projection.Sale(body)
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

	existing, err := r.SaleRepo.GetByProviderID(ctx, incoming.ProviderID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing == nil {
		incoming.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SALE)
		incoming.BaseModel = types.GetDefaultBaseModel()
		if err := r.SaleRepo.Create(ctx, incoming); err != nil {
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
	if err := r.SaleRepo.Update(ctx, incoming); err != nil {
		return nil, err
	}
	return updated(r.Kind(), incoming.ID, incoming.ProviderID), nil
}

// resolveParent links the sale to its agreement, or to its payment when no
// agreement is recorded for it
func (r *SaleReconciler) resolveParent(ctx context.Context, s *sale.Sale) error {
	if s.BillingAgreementRef != nil {
		a, err := r.AgreementRepo.GetByProviderID(ctx, *s.BillingAgreementRef)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if a != nil {
			s.AgreementID = lo.ToPtr(a.ID)
			return nil
		}
	}
	if s.ParentPaymentRef != nil {
		p, err := r.PaymentRepo.GetByProviderID(ctx, *s.ParentPaymentRef)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if p != nil {
			s.PaymentID = lo.ToPtr(p.ID)
			return nil
		}
	}
	return parentNotFound(r.Kind(), s.ProviderID, map[string]any{
		"billing_agreement_id": lo.FromPtr(s.BillingAgreementRef),
		"parent_payment":       lo.FromPtr(s.ParentPaymentRef),
	})
}
