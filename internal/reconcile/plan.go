package reconcile

import (
	"context"
	"time"

	"github.com/flexprice/paymirror/internal/domain/plan"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/types"
)

type PlanReconciler struct {
	Params
}

func NewPlanReconciler(p Params) *PlanReconciler {
	return &PlanReconciler{Params: p}
}

func (r *PlanReconciler) Kind() types.ResourceKind {
	return types.ResourceKindPlan
}

func (r *PlanReconciler) Reconcile(ctx context.Context, body []byte) (*Result, error) {
	p, err := projection.Plan(body)
	if err != nil {
		return nil, err
	}
	return r.Apply(ctx, p)
}

// Apply inserts or updates a projected plan and merges its payment
// definitions by definition id. Definitions missing from the body are kept.
func (r *PlanReconciler) Apply(ctx context.Context, incoming *plan.Plan) (*Result, error) {
	if err := incoming.Validate(); err != nil {
		return nil, err
	}

	release, err := acquire(ctx, r.Locker, r.Kind(), incoming.ProviderID)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := r.PlanRepo.GetByProviderID(ctx, incoming.ProviderID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	var result *Result
	if existing == nil {
		incoming.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN)
		incoming.BaseModel = types.GetDefaultBaseModel()
		if err := r.PlanRepo.Create(ctx, incoming); err != nil {
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
		if err := r.PlanRepo.Update(ctx, incoming); err != nil {
			return nil, err
		}
		result = updated(r.Kind(), incoming.ID, incoming.ProviderID)
	}

	if err := r.mergeDefinitions(ctx, incoming); err != nil {
		return nil, err
	}

	r.Logger.Debugw("reconciled plan",
		"plan_id", incoming.ID,
		"provider_id", incoming.ProviderID,
		"state", incoming.State,
		"outcome", result.Outcome,
		"definitions", len(incoming.Definitions),
	)
	return result, nil
}

func (r *PlanReconciler) mergeDefinitions(ctx context.Context, p *plan.Plan) error {
	if len(p.Definitions) == 0 {
		return nil
	}

	current, err := r.PlanRepo.ListDefinitions(ctx, p.ID)
	if err != nil {
		return err
	}
	byDefinitionID := make(map[string]*plan.PaymentDefinition, len(current))
	for _, d := range current {
		byDefinitionID[d.DefinitionID] = d
	}

	now := time.Now().UTC()
	for _, d := range p.Definitions {
		d.PlanID = p.ID
		if prev, ok := byDefinitionID[d.DefinitionID]; ok {
			d.InheritIdentity(prev)
			d.UpdatedAt = now
			if err := r.PlanRepo.UpdateDefinition(ctx, d); err != nil {
				return err
			}
			continue
		}
		d.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_DEFINITION)
		d.BaseModel = types.BaseModel{CreatedAt: now, UpdatedAt: now}
		if err := r.PlanRepo.CreateDefinition(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Activate moves a recorded plan to ACTIVE after the provider accepted the
// activation. The provider returns no body, so the stored payload is kept.
func (r *PlanReconciler) Activate(ctx context.Context, providerID string) (*Result, error) {
	release, err := acquire(ctx, r.Locker, r.Kind(), providerID)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := r.PlanRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := guardTerminal(r.Kind(), providerID, existing.State, types.PlanStateActive); err != nil {
		return nil, err
	}

	existing.State = types.PlanStateActive
	existing.UpdatedAt = time.Now().UTC()
	if err := r.PlanRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return updated(r.Kind(), existing.ID, existing.ProviderID), nil
}
