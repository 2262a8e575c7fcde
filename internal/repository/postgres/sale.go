package postgres

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/sale"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
)

type saleRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSaleRepository(db *postgres.DB, logger *logger.Logger) sale.Repository {
	return &saleRepository{db: db, logger: logger}
}

func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	query := `
		INSERT INTO sales (
			id,
			provider_id,
			state,
			amount_value,
			amount_currency,
			transaction_fee_value,
			transaction_fee_currency,
			payment_mode,
			reason_code,
			protection_eligibility,
			protection_eligibility_type,
			billing_agreement_ref,
			parent_payment_ref,
			agreement_id,
			payment_id,
			provider_created_at,
			provider_updated_at,
			raw_payload,
			created_at,
			updated_at
		)
		VALUES (
			:id,
			:provider_id,
			:state,
			:amount_value,
			:amount_currency,
			:transaction_fee_value,
			:transaction_fee_currency,
			:payment_mode,
			:reason_code,
			:protection_eligibility,
			:protection_eligibility_type,
			:billing_agreement_ref,
			:parent_payment_ref,
			:agreement_id,
			:payment_id,
			:provider_created_at,
			:provider_updated_at,
			:raw_payload,
			:created_at,
			:updated_at
		)
	`

	r.logger.Debugw("creating sale",
		"sale_id", s.ID,
		"provider_id", s.ProviderID,
	)

	_, err := exec(ctx, r.db, "sale", query, s)
	return err
}

func (r *saleRepository) GetByProviderID(ctx context.Context, providerID string) (*sale.Sale, error) {
	var s sale.Sale
	if err := get(ctx, r.db, &s, "sale", providerID,
		`SELECT * FROM sales WHERE provider_id = $1`, providerID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepository) Update(ctx context.Context, s *sale.Sale) error {
	query := `
		UPDATE sales SET
			state = :state,
			amount_value = :amount_value,
			amount_currency = :amount_currency,
			transaction_fee_value = :transaction_fee_value,
			transaction_fee_currency = :transaction_fee_currency,
			payment_mode = :payment_mode,
			reason_code = :reason_code,
			protection_eligibility = :protection_eligibility,
			protection_eligibility_type = :protection_eligibility_type,
			billing_agreement_ref = :billing_agreement_ref,
			parent_payment_ref = :parent_payment_ref,
			agreement_id = :agreement_id,
			payment_id = :payment_id,
			provider_created_at = :provider_created_at,
			provider_updated_at = :provider_updated_at,
			raw_payload = :raw_payload,
			updated_at = :updated_at
		WHERE id = :id
	`

	r.logger.Debugw("updating sale",
		"sale_id", s.ID,
		"state", s.State,
	)

	return update(ctx, r.db, "sale", s.ID, query, s)
}
