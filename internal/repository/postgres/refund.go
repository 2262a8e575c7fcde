package postgres

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/refund"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
)

type refundRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewRefundRepository(db *postgres.DB, logger *logger.Logger) refund.Repository {
	return &refundRepository{db: db, logger: logger}
}

func (repo *refundRepository) Create(ctx context.Context, r *refund.Refund) error {
	query := `
		INSERT INTO refunds (
			id,
			provider_id,
			state,
			amount_value,
			amount_currency,
			description,
			reason,
			invoice_number,
			custom,
			sale_ref,
			capture_ref,
			parent_payment_ref,
			sale_id,
			capture_id,
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
			:description,
			:reason,
			:invoice_number,
			:custom,
			:sale_ref,
			:capture_ref,
			:parent_payment_ref,
			:sale_id,
			:capture_id,
			:provider_created_at,
			:provider_updated_at,
			:raw_payload,
			:created_at,
			:updated_at
		)
	`

	repo.logger.Debugw("creating refund",
		"refund_id", r.ID,
		"provider_id", r.ProviderID,
	)

	_, err := exec(ctx, repo.db, "refund", query, r)
	return err
}

func (repo *refundRepository) GetByProviderID(ctx context.Context, providerID string) (*refund.Refund, error) {
	var rf refund.Refund
	if err := get(ctx, repo.db, &rf, "refund", providerID,
		`SELECT * FROM refunds WHERE provider_id = $1`, providerID); err != nil {
		return nil, err
	}
	return &rf, nil
}

func (repo *refundRepository) Update(ctx context.Context, r *refund.Refund) error {
	query := `
		UPDATE refunds SET
			state = :state,
			amount_value = :amount_value,
			amount_currency = :amount_currency,
			description = :description,
			reason = :reason,
			invoice_number = :invoice_number,
			custom = :custom,
			sale_ref = :sale_ref,
			capture_ref = :capture_ref,
			parent_payment_ref = :parent_payment_ref,
			sale_id = :sale_id,
			capture_id = :capture_id,
			provider_created_at = :provider_created_at,
			provider_updated_at = :provider_updated_at,
			raw_payload = :raw_payload,
			updated_at = :updated_at
		WHERE id = :id
	`

	repo.logger.Debugw("updating refund",
		"refund_id", r.ID,
		"state", r.State,
	)

	return update(ctx, repo.db, "refund", r.ID, query, r)
}
