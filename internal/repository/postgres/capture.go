package postgres

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/capture"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
)

type captureRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCaptureRepository(db *postgres.DB, logger *logger.Logger) capture.Repository {
	return &captureRepository{db: db, logger: logger}
}

func (r *captureRepository) Create(ctx context.Context, c *capture.Capture) error {
	query := `
		INSERT INTO captures (
			id,
			provider_id,
			state,
			amount_value,
			amount_currency,
			is_final_capture,
			reason_code,
			transaction_fee_value,
			transaction_fee_currency,
			authorization_ref,
			parent_payment_ref,
			authorization_id,
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
			:is_final_capture,
			:reason_code,
			:transaction_fee_value,
			:transaction_fee_currency,
			:authorization_ref,
			:parent_payment_ref,
			:authorization_id,
			:payment_id,
			:provider_created_at,
			:provider_updated_at,
			:raw_payload,
			:created_at,
			:updated_at
		)
	`

	r.logger.Debugw("creating capture",
		"capture_id", c.ID,
		"provider_id", c.ProviderID,
	)

	_, err := exec(ctx, r.db, "capture", query, c)
	return err
}

func (r *captureRepository) GetByProviderID(ctx context.Context, providerID string) (*capture.Capture, error) {
	var c capture.Capture
	if err := get(ctx, r.db, &c, "capture", providerID,
		`SELECT * FROM captures WHERE provider_id = $1`, providerID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *captureRepository) Update(ctx context.Context, c *capture.Capture) error {
	query := `
		UPDATE captures SET
			state = :state,
			amount_value = :amount_value,
			amount_currency = :amount_currency,
			is_final_capture = :is_final_capture,
			reason_code = :reason_code,
			transaction_fee_value = :transaction_fee_value,
			transaction_fee_currency = :transaction_fee_currency,
			authorization_ref = :authorization_ref,
			parent_payment_ref = :parent_payment_ref,
			authorization_id = :authorization_id,
			payment_id = :payment_id,
			provider_created_at = :provider_created_at,
			provider_updated_at = :provider_updated_at,
			raw_payload = :raw_payload,
			updated_at = :updated_at
		WHERE id = :id
	`

	r.logger.Debugw("updating capture",
		"capture_id", c.ID,
		"state", c.State,
	)

	return update(ctx, r.db, "capture", c.ID, query, c)
}
