package service

import (
	"context"

	"github.com/flexprice/paymirror/internal/api/dto"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/reconcile"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
)

type AgreementService interface {
	CreateAgreement(ctx context.Context, req *dto.ProviderRequest) (*dto.ProviderResponse, error)
	ExecuteAgreement(ctx context.Context, token string) (*dto.ProviderResponse, error)
}

type agreementService struct {
	ServiceParams
}

func NewAgreementService(params ServiceParams) AgreementService {
	return &agreementService{ServiceParams: params}
}

// CreateAgreement creates the agreement at the provider and records it
// under its approval token until it is executed
func (s *agreementService) CreateAgreement(ctx context.Context, req *dto.ProviderRequest) (*dto.ProviderResponse, error) {
	res, err := s.Gateway.Create(ctx, types.ResourceKindAgreement, types.GetProviderToken(ctx), req.Body)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		s.Logger.Errorw("provider rejected agreement creation",
			"client_id", types.GetClientID(ctx),
			"status", res.StatusCode,
		)
		return dto.NewProviderResponse(res), nil
	}

	a, err := projection.Agreement(res.Body)
	if err != nil {
		return nil, err
	}
	if a.PlanProviderID == nil {
		// the creation response does not always echo the plan back
		if requested, err := projection.Agreement(req.Body); err == nil {
			a.PlanProviderID = requested.PlanProviderID
		}
	}
	a.ClientID = lo.ToPtr(types.GetClientID(ctx))

	var result *reconcile.Result
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		result, err = s.AgreementReconciler.CreatePending(ctx, a)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created agreement",
		"client_id", types.GetClientID(ctx),
		"agreement_id", result.ID,
		"payment_token", lo.FromPtr(a.PaymentToken),
		"plan_id", lo.FromPtr(a.PlanProviderID),
	)
	return dto.NewRecordedResponse(res, types.ResourceKindAgreement, result.ID), nil
}

// ExecuteAgreement executes the approved agreement and assigns the
// returned provider id to the record created under token
func (s *agreementService) ExecuteAgreement(ctx context.Context, token string) (*dto.ProviderResponse, error) {
	if token == "" {
		return nil, ierr.NewError("payment token is required").
			WithHint("Payment token is required").
			Mark(ierr.ErrValidation)
	}

	res, err := s.Gateway.Execute(ctx, types.ResourceKindAgreement, token, types.GetProviderToken(ctx), nil)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		s.Logger.Errorw("provider rejected agreement execution",
			"client_id", types.GetClientID(ctx),
			"payment_token", token,
			"status", res.StatusCode,
		)
		return dto.NewProviderResponse(res), nil
	}

	var result *reconcile.Result
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		result, err = s.AgreementReconciler.Execute(ctx, token, res.Body)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("executed agreement",
		"client_id", types.GetClientID(ctx),
		"agreement_id", result.ID,
		"provider_id", result.ProviderID,
		"payment_token", token,
	)
	return dto.NewRecordedResponse(res, types.ResourceKindAgreement, result.ID), nil
}
