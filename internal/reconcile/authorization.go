package reconcile

import (
	"context"
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/types"
)

type AuthorizationReconciler struct {
	Params
}

func NewAuthorizationReconciler(p Params) *AuthorizationReconciler {
	return &AuthorizationReconciler{Params: p}
}

func (r *AuthorizationReconciler) Kind() types.ResourceKind {
	return types.ResourceKindAuthorization
}

func (r *AuthorizationReconciler) Reconcile(ctx context.Context, body []byte) (*Result, error) {
	incoming, err := projection.Authorization(body)
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

	parent, err := r.PaymentRepo.GetByProviderID(ctx, *incoming.ParentPaymentRef)
	if ierr.IsNotFound(err) {
		return nil, parentNotFound(r.Kind(), incoming.ProviderID, map[string]any{"parent_payment": *incoming.ParentPaymentRef})
	}
	if err != nil {
		return nil, err
	}
	incoming.PaymentID = parent.ID

	existing, err := r.AuthorizationRepo.GetByProviderID(ctx, incoming.ProviderID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing == nil {
		incoming.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUTHORIZATION)
		incoming.BaseModel = types.GetDefaultBaseModel()
		if err := r.AuthorizationRepo.Create(ctx, incoming); err != nil {
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
	if err := r.AuthorizationRepo.Update(ctx, incoming); err != nil {
		return nil, err
	}
	return updated(r.Kind(), incoming.ID, incoming.ProviderID), nil
}
