package service

import (
	"context"

	"github.com/flexprice/paymirror/internal/api/dto"
	"github.com/flexprice/paymirror/internal/domain/plan"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/gateway"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/reconcile"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

type PlanService interface {
	CreatePlan(ctx context.Context, req *dto.ProviderRequest) (*dto.ProviderResponse, error)
	ActivatePlan(ctx context.Context, providerID string) (*dto.ProviderResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) CreatePlan(ctx context.Context, req *dto.ProviderRequest) (*dto.ProviderResponse, error) {
	res, err := s.Gateway.Create(ctx, types.ResourceKindPlan, types.GetProviderToken(ctx), req.Body)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		s.Logger.Errorw("provider rejected plan creation",
			"client_id", types.GetClientID(ctx),
			"status", res.StatusCode,
		)
		return dto.NewProviderResponse(res), nil
	}

	p, err := projection.Plan(res.Body)
	if err != nil {
		return nil, err
	}
	p.ClientID = lo.ToPtr(types.GetClientID(ctx))

	var result *reconcile.Result
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		result, err = s.PlanReconciler.Apply(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created plan",
		"client_id", types.GetClientID(ctx),
		"plan_id", result.ID,
		"provider_id", p.ProviderID,
		"definitions", len(p.Definitions),
	)
	return dto.NewRecordedResponse(res, types.ResourceKindPlan, result.ID), nil
}

// ActivatePlan activates the plan at the provider, then marks the local
// record ACTIVE. A plan created outside this service is fetched before the
// transaction opens and recorded inside it.
func (s *planService) ActivatePlan(ctx context.Context, providerID string) (*dto.ProviderResponse, error) {
	if providerID == "" {
		return nil, ierr.NewError("plan id is required").
			WithHint("Plan id is required").
			Mark(ierr.ErrValidation)
	}

	res, err := s.Gateway.Activate(ctx, types.ResourceKindPlan, providerID, types.GetProviderToken(ctx))
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		s.Logger.Errorw("provider rejected plan activation",
			"client_id", types.GetClientID(ctx),
			"provider_id", providerID,
			"status", res.StatusCode,
		)
		return dto.NewProviderResponse(res), nil
	}

	var remote *plan.Plan
	if _, err := s.PlanRepo.GetByProviderID(ctx, providerID); ierr.IsNotFound(err) {
		remote, err = s.fetchRemotePlan(ctx, providerID)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if remote != nil {
			if _, err := s.PlanReconciler.Apply(ctx, remote); err != nil {
				return err
			}
		}
		_, err := s.PlanReconciler.Activate(ctx, providerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("activated plan",
		"client_id", types.GetClientID(ctx),
		"provider_id", providerID,
	)
	return dto.NewProviderResponse(res), nil
}

func (s *planService) fetchRemotePlan(ctx context.Context, providerID string) (*plan.Plan, error) {
	res, err := s.Gateway.Get(ctx, types.ResourceKindPlan, providerID, types.GetProviderToken(ctx))
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, unexpectedProviderResponse(res, types.ResourceKindPlan, providerID)
	}

	p, err := projection.Plan(res.Body)
	if err != nil {
		return nil, err
	}
	p.ClientID = lo.ToPtr(types.GetClientID(ctx))
	return p, nil
}

func unexpectedProviderResponse(res *gateway.Result, kind types.ResourceKind, id string) error {
	return ierr.NewErrorf("provider answered %d for %s %s", res.StatusCode, kind, id).
		WithHintf("Could not read the %s from the provider", kind).
		WithReportableDetails(map[string]any{
			"resource":    kind,
			"provider_id": id,
			"status":      res.StatusCode,
		}).
		Mark(ierr.ErrHTTPClient)
}
