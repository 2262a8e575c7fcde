package service

import (
	"context"

	"github.com/flexprice/paymirror/internal/api/dto"
	"github.com/flexprice/paymirror/internal/domain/agreement"
	"github.com/flexprice/paymirror/internal/domain/payment"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

// ReportService lists the records created by one client
type ReportService interface {
	ListAgreements(ctx context.Context, filter *types.ReportFilter) (*dto.ListAgreementsResponse, error)
	ListPayments(ctx context.Context, filter *types.ReportFilter) (*dto.ListPaymentsResponse, error)
}

type reportService struct {
	ServiceParams
}

func NewReportService(params ServiceParams) ReportService {
	return &reportService{ServiceParams: params}
}

func (s *reportService) ListAgreements(ctx context.Context, filter *types.ReportFilter) (*dto.ListAgreementsResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var (
		items []*agreement.Agreement
		total int
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		items, err = s.AgreementRepo.List(ctx, filter)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		total, err = s.AgreementRepo.Count(ctx, filter)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	response := types.NewListResponse(
		lo.Map(items, func(a *agreement.Agreement, _ int) *dto.AgreementResponse {
			return &dto.AgreementResponse{Agreement: a}
		}),
		total,
		filter.GetLimit(),
		filter.GetOffset(),
	)
	return &response, nil
}

func (s *reportService) ListPayments(ctx context.Context, filter *types.ReportFilter) (*dto.ListPaymentsResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var (
		items []*payment.Payment
		total int
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		items, err = s.PaymentRepo.List(ctx, filter)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		total, err = s.PaymentRepo.Count(ctx, filter)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	response := types.NewListResponse(
		lo.Map(items, func(p *payment.Payment, _ int) *dto.PaymentResponse {
			return &dto.PaymentResponse{Payment: p}
		}),
		total,
		filter.GetLimit(),
		filter.GetOffset(),
	)
	return &response, nil
}
