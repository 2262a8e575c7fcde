package reconcile

import (
	"context"
	"time"

	"github.com/flexprice/paymirror/internal/domain/agreement"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

// AgreementReconciler mirrors billing agreements. An agreement is first
// recorded with only its payment token; execution assigns the provider id
// to that same record.
type AgreementReconciler struct {
	Params
}

func NewAgreementReconciler(p Params) *AgreementReconciler {
	return &AgreementReconciler{Params: p}
}

func (r *AgreementReconciler) Kind() types.ResourceKind {
	return types.ResourceKindAgreement
}

func (r *AgreementReconciler) Reconcile(ctx context.Context, body []byte) (*Result, error) {
	a, err := projection.Agreement(body)
	if err != nil {
		return nil, err
	}
	return r.Apply(ctx, a)
}

// Apply inserts or updates an executed agreement keyed by provider id.
// Inserting requires the agreement's plan to be recorded.
func (r *AgreementReconciler) Apply(ctx context.Context, incoming *agreement.Agreement) (*Result, error) {
	if err := incoming.Validate(); err != nil {
		return nil, err
	}

	release, err := acquire(ctx, r.Locker, r.Kind(), *incoming.ProviderID)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := r.AgreementRepo.GetByProviderID(ctx, *incoming.ProviderID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return r.update(ctx, existing, incoming)
	}
	return r.insert(ctx, incoming)
}

// CreatePending records the agreement returned by a creation call. It has
// no provider id yet and is addressed by the approval token.
func (r *AgreementReconciler) CreatePending(ctx context.Context, incoming *agreement.Agreement) (*Result, error) {
	if incoming.IsExecuted() {
		return r.Apply(ctx, incoming)
	}
	if err := incoming.ValidatePending(); err != nil {
		return nil, err
	}

	release, err := acquire(ctx, r.Locker, types.ResourceKind("agreement-token"), *incoming.PaymentToken)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := r.AgreementRepo.GetPendingByToken(ctx, *incoming.PaymentToken)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return r.update(ctx, existing, incoming)
	}
	return r.insert(ctx, incoming)
}

// Execute applies the execution response for token. The pending record
// created with token is promoted: it receives the provider id and keeps its
// token. When a notification already recorded the provider id, that record
// takes over the pending record's client, plan and creation time and the
// pending record is superseded.
func (r *AgreementReconciler) Execute(ctx context.Context, token string, body []byte) (*Result, error) {
	incoming, err := projection.Agreement(body)
	if err != nil {
		return nil, err
	}
	if err := incoming.Validate(); err != nil {
		return nil, err
	}
	if incoming.PaymentToken == nil && token != "" {
		incoming.PaymentToken = lo.ToPtr(token)
	}

	releaseToken, err := acquire(ctx, r.Locker, types.ResourceKind("agreement-token"), token)
	if err != nil {
		return nil, err
	}
	defer releaseToken()

	release, err := acquire(ctx, r.Locker, r.Kind(), *incoming.ProviderID)
	if err != nil {
		return nil, err
	}
	defer release()

	executed, err := r.AgreementRepo.GetByProviderID(ctx, *incoming.ProviderID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	var pending *agreement.Agreement
	if token != "" {
		pending, err = r.AgreementRepo.GetPendingByToken(ctx, token)
		if err != nil && !ierr.IsNotFound(err) {
			return nil, err
		}
	}

	switch {
	case executed != nil && pending != nil:
		return r.absorb(ctx, executed, pending, incoming)
	case executed != nil:
		return r.update(ctx, executed, incoming)
	case pending != nil:
		r.Logger.Infow("promoting pending agreement",
			"agreement_id", pending.ID,
			"payment_token", token,
			"provider_id", *incoming.ProviderID,
		)
		return r.update(ctx, pending, incoming)
	}
	return r.insert(ctx, incoming)
}

// absorb merges the pending record into the executed record that a
// notification inserted first, then supersedes the pending record.
func (r *AgreementReconciler) absorb(ctx context.Context, executed, pending, incoming *agreement.Agreement) (*Result, error) {
	if err := guardTerminal(r.Kind(), lo.FromPtr(executed.ProviderID), executed.State, incoming.State); err != nil {
		return nil, err
	}

	if executed.ClientID == nil {
		executed.ClientID = pending.ClientID
	}
	if executed.PlanID == "" {
		executed.PlanID = pending.PlanID
	}
	if pending.CreatedAt.Before(executed.CreatedAt) {
		executed.CreatedAt = pending.CreatedAt
	}

	if err := r.AgreementRepo.Supersede(ctx, pending.ID, executed.ID); err != nil {
		return nil, err
	}

	r.Logger.Infow("merged pending agreement into executed record",
		"agreement_id", executed.ID,
		"superseded_id", pending.ID,
		"payment_token", lo.FromPtr(pending.PaymentToken),
		"provider_id", lo.FromPtr(executed.ProviderID),
	)
	return r.update(ctx, executed, incoming)
}

func (r *AgreementReconciler) insert(ctx context.Context, a *agreement.Agreement) (*Result, error) {
	if a.PlanID == "" {
		planID, err := r.resolvePlan(ctx, a)
		if err != nil {
			return nil, err
		}
		a.PlanID = planID
	}

	a.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AGREEMENT)
	a.BaseModel = types.GetDefaultBaseModel()
	if err := r.AgreementRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	r.Logger.Debugw("inserted agreement",
		"agreement_id", a.ID,
		"provider_id", lo.FromPtr(a.ProviderID),
		"payment_token", lo.FromPtr(a.PaymentToken),
		"state", a.State,
	)
	return inserted(r.Kind(), a.ID, lo.FromPtr(a.ProviderID)), nil
}

func (r *AgreementReconciler) update(ctx context.Context, existing, incoming *agreement.Agreement) (*Result, error) {
	key := lo.FromPtr(existing.ProviderID)
	if key == "" {
		key = lo.FromPtr(existing.PaymentToken)
	}

	if err := guardTerminal(r.Kind(), key, existing.State, incoming.State); err != nil {
		return nil, err
	}
	incoming.State = keepState(incoming.State, existing.State)

	incoming.InheritIdentity(existing)
	incoming.UpdatedAt = time.Now().UTC()
	if err := r.AgreementRepo.Update(ctx, incoming); err != nil {
		return nil, err
	}

	r.Logger.Debugw("updated agreement",
		"agreement_id", incoming.ID,
		"provider_id", lo.FromPtr(incoming.ProviderID),
		"state", incoming.State,
	)
	return updated(r.Kind(), incoming.ID, lo.FromPtr(incoming.ProviderID)), nil
}

// resolvePlan maps the body's plan.id onto the local plan
func (r *AgreementReconciler) resolvePlan(ctx context.Context, a *agreement.Agreement) (string, error) {
	if a.PlanProviderID == nil {
		return "", ierr.NewError("agreement declares no plan").
			WithHint("Agreement body must carry plan.id").
			Mark(ierr.ErrMalformedPayload)
	}

	p, err := r.PlanRepo.GetByProviderID(ctx, *a.PlanProviderID)
	if ierr.IsNotFound(err) {
		return "", parentNotFound(r.Kind(), lo.FromPtr(a.ProviderID), map[string]any{"plan_id": *a.PlanProviderID})
	}
	if err != nil {
		return "", err
	}
	return p.ID, nil
}
