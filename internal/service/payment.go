package service

import (
	"context"

	"github.com/flexprice/paymirror/internal/api/dto"
	"github.com/flexprice/paymirror/internal/domain/transactionlog"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/gateway"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/reconcile"
	"github.com/flexprice/paymirror/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, req *dto.ProviderRequest) (*dto.ProviderResponse, error)
	ExecutePayment(ctx context.Context, providerID string, req *dto.ProviderRequest) (*dto.ProviderResponse, error)
	GetPaymentDetails(ctx context.Context, providerID string) (*dto.ProviderResponse, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

// CreatePayment creates the payment at the provider and records it with its
// transactions. Transactions sent without an invoice number get one.
func (s *paymentService) CreatePayment(ctx context.Context, req *dto.ProviderRequest) (*dto.ProviderResponse, error) {
	payload, err := withInvoiceNumbers(req)
	if err != nil {
		return nil, err
	}

	// generated invoice numbers differ per attempt; retries must keep their request id
	res, err := s.Gateway.Create(types.SetIdempotencySource(ctx, req.Body), types.ResourceKindPayment, types.GetProviderToken(ctx), payload)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		s.Logger.Errorw("provider rejected payment creation",
			"client_id", types.GetClientID(ctx),
			"status", res.StatusCode,
		)
		return dto.NewProviderResponse(res), nil
	}

	p, err := projection.Payment(res.Body)
	if err != nil {
		return nil, err
	}
	if requested, err := projection.Payment(payload); err == nil {
		if p.ReturnURL == nil {
			p.ReturnURL = requested.ReturnURL
		}
		if p.CancelURL == nil {
			p.CancelURL = requested.CancelURL
		}
	}
	p.ClientID = lo.ToPtr(types.GetClientID(ctx))

	var result *reconcile.Result
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		result, err = s.PaymentReconciler.Apply(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created payment",
		"client_id", types.GetClientID(ctx),
		"payment_id", result.ID,
		"provider_id", p.ProviderID,
		"transactions", len(p.Transactions),
	)
	return dto.NewRecordedResponse(res, types.ResourceKindPayment, result.ID), nil
}

// ExecutePayment executes an approved payment. The payment and the sales,
// authorizations, captures and refunds listed under its transactions are
// reconciled in one transaction. A related resource that is rejected is
// logged and skipped.
func (s *paymentService) ExecutePayment(ctx context.Context, providerID string, req *dto.ProviderRequest) (*dto.ProviderResponse, error) {
	if providerID == "" {
		return nil, ierr.NewError("payment id is required").
			WithHint("Payment id is required").
			Mark(ierr.ErrValidation)
	}

	res, err := s.callLogged(ctx, providerID, transactionlog.TransactionTypeExecute, req.Body, func() (*gateway.Result, error) {
		return s.Gateway.Execute(ctx, types.ResourceKindPayment, providerID, types.GetProviderToken(ctx), req.Body)
	})
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		s.Logger.Errorw("provider rejected payment execution",
			"client_id", types.GetClientID(ctx),
			"provider_id", providerID,
			"status", res.StatusCode,
		)
		return dto.NewProviderResponse(res), nil
	}

	related := projection.RelatedResources(res.Body)
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.PaymentReconciler.Reconcile(ctx, res.Body); err != nil {
			return err
		}

		for _, rel := range related {
			var result *reconcile.Result
			err := s.DB.WithTx(ctx, func(ctx context.Context) error {
				var err error
				result, err = s.Dispatcher.Reconcile(ctx, rel.Kind, rel.Body)
				return err
			})
			if ierr.IsReconcileRejection(err) {
				s.Logger.Warnw("skipping related resource",
					"provider_id", providerID,
					"resource", rel.Kind,
					"reason", ierr.Code(err),
					"error", err,
				)
				continue
			}
			if err != nil {
				return err
			}
			s.Logger.Debugw("reconciled related resource",
				"provider_id", providerID,
				"resource", rel.Kind,
				"id", result.ID,
				"outcome", result.Outcome,
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("executed payment",
		"client_id", types.GetClientID(ctx),
		"provider_id", providerID,
		"related_resources", len(related),
	)
	return dto.NewProviderResponse(res), nil
}

// GetPaymentDetails reads the payment from the provider. Nothing is written
// besides the transaction log.
func (s *paymentService) GetPaymentDetails(ctx context.Context, providerID string) (*dto.ProviderResponse, error) {
	if providerID == "" {
		return nil, ierr.NewError("payment id is required").
			WithHint("Payment id is required").
			Mark(ierr.ErrValidation)
	}

	res, err := s.callLogged(ctx, providerID, transactionlog.TransactionTypeInfo, nil, func() (*gateway.Result, error) {
		return s.Gateway.Get(ctx, types.ResourceKindPayment, providerID, types.GetProviderToken(ctx))
	})
	if err != nil {
		return nil, err
	}
	return dto.NewProviderResponse(res), nil
}

// callLogged writes a transaction log entry before call and completes it
// with the provider answer afterwards
func (s *paymentService) callLogged(
	ctx context.Context,
	providerID string,
	txnType transactionlog.TransactionType,
	request []byte,
	call func() (*gateway.Result, error),
) (*gateway.Result, error) {
	entry := transactionlog.NewLog(providerID, txnType, request)
	if err := s.TransactionLogRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	res, err := call()
	if err != nil {
		return nil, err
	}

	entry.Complete(res.StatusCode, res.Body)
	if err := s.TransactionLogRepo.Update(ctx, entry); err != nil {
		s.Logger.Errorw("failed to complete transaction log",
			"log_id", entry.ID,
			"provider_id", providerID,
			"error", err,
		)
	}
	return res, nil
}

// withInvoiceNumbers returns the request body with an invoice number on
// every transaction that has none. The body is returned unchanged when
// nothing was added.
func withInvoiceNumbers(req *dto.ProviderRequest) ([]byte, error) {
	fields, err := req.Fields()
	if err != nil {
		return nil, err
	}

	txns, ok := fields["transactions"].([]interface{})
	if !ok {
		return req.Body, nil
	}

	added := false
	for _, item := range txns {
		txn, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if number, ok := txn["invoice_number"].(string); ok && number != "" {
			continue
		}
		txn["invoice_number"] = types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE)
		added = true
	}
	if !added {
		return req.Body, nil
	}

	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(fields)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not prepare the payment request").
			Mark(ierr.ErrSystem)
	}
	return body, nil
}
