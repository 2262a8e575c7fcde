package reconcile

import (
	"context"
	"time"

	"github.com/flexprice/paymirror/internal/domain/payment"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/types"
)

// PaymentReconciler mirrors one-off payments. Payments are not part of the
// notification set; they are written by the create and execute flows.
type PaymentReconciler struct {
	Params
}

func NewPaymentReconciler(p Params) *PaymentReconciler {
	return &PaymentReconciler{Params: p}
}

func (r *PaymentReconciler) Kind() types.ResourceKind {
	return types.ResourceKindPayment
}

func (r *PaymentReconciler) Reconcile(ctx context.Context, body []byte) (*Result, error) {
	p, err := projection.Payment(body)
	if err != nil {
		return nil, err
	}
	return r.Apply(ctx, p)
}

// Apply inserts or updates a payment. Transactions are written with the
// first record of the payment; a later body only adds them when none are
// recorded yet, since provider transactions carry no stable id.
func (r *PaymentReconciler) Apply(ctx context.Context, incoming *payment.Payment) (*Result, error) {
	if err := incoming.Validate(); err != nil {
		return nil, err
	}

	release, err := acquire(ctx, r.Locker, r.Kind(), incoming.ProviderID)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := r.PaymentRepo.GetByProviderID(ctx, incoming.ProviderID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	var result *Result
	if existing == nil {
		incoming.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT)
		incoming.BaseModel = types.GetDefaultBaseModel()
		if err := r.PaymentRepo.Create(ctx, incoming); err != nil {
			return nil, err
		}
		result = inserted(r.Kind(), incoming.ID, incoming.ProviderID)
	} else {
		if err := guardTerminal(r.Kind(), existing.ProviderID, existing.State, incoming.State); err != nil {
			return nil, err
		}
		incoming.State = keepState(incoming.State, existing.State)
		incoming.InheritIdentity(existing)
		incoming.UpdatedAt = time.Now().UTC()
		if err := r.PaymentRepo.Update(ctx, incoming); err != nil {
			return nil, err
		}
		result = updated(r.Kind(), incoming.ID, incoming.ProviderID)
	}

	if err := r.addTransactions(ctx, incoming, existing == nil); err != nil {
		return nil, err
	}

	r.Logger.Debugw("reconciled payment",
		"payment_id", incoming.ID,
		"provider_id", incoming.ProviderID,
		"state", incoming.State,
		"outcome", result.Outcome,
	)
	return result, nil
}

func (r *PaymentReconciler) addTransactions(ctx context.Context, p *payment.Payment, isNew bool) error {
	if len(p.Transactions) == 0 {
		return nil
	}
	if !isNew {
		current, err := r.PaymentRepo.ListTransactions(ctx, p.ID)
		if err != nil {
			return err
		}
		if len(current) > 0 {
			return nil
		}
	}

	now := time.Now().UTC()
	for _, txn := range p.Transactions {
		txn.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_TXN)
		txn.PaymentID = p.ID
		txn.BaseModel = types.BaseModel{CreatedAt: now, UpdatedAt: now}
		if err := r.PaymentRepo.CreateTransaction(ctx, txn); err != nil {
			return err
		}
	}
	return nil
}
