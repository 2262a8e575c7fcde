package postgres

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/authorization"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
)

type authorizationRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAuthorizationRepository(db *postgres.DB, logger *logger.Logger) authorization.Repository {
	return &authorizationRepository{db: db, logger: logger}
}

func (r *authorizationRepository) Create(ctx context.Context, a *authorization.Authorization) error {
	query := `
		INSERT INTO authorizations (
			id,
			provider_id,
			state,
			amount_value,
			amount_currency,
			payment_mode,
			reason_code,
			protection_eligibility,
			protection_eligibility_type,
			parent_payment_ref,
			payment_id,
			valid_until,
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
			:payment_mode,
			:reason_code,
			:protection_eligibility,
			:protection_eligibility_type,
			:parent_payment_ref,
			:payment_id,
			:valid_until,
			:provider_created_at,
			:provider_updated_at,
			:raw_payload,
			:created_at,
			:updated_at
		)
	`

	r.logger.Debugw("creating authorization",
		"authorization_id", a.ID,
		"provider_id", a.ProviderID,
	)

	_, err := exec(ctx, r.db, "authorization", query, a)
	return err
}

func (r *authorizationRepository) GetByProviderID(ctx context.Context, providerID string) (*authorization.Authorization, error) {
	var a authorization.Authorization
	if err := get(ctx, r.db, &a, "authorization", providerID,
		`SELECT * FROM authorizations WHERE provider_id = $1`, providerID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *authorizationRepository) Update(ctx context.Context, a *authorization.Authorization) error {
	query := `
		UPDATE authorizations SET
			state = :state,
			amount_value = :amount_value,
			amount_currency = :amount_currency,
			payment_mode = :payment_mode,
			reason_code = :reason_code,
			protection_eligibility = :protection_eligibility,
			protection_eligibility_type = :protection_eligibility_type,
			parent_payment_ref = :parent_payment_ref,
			payment_id = :payment_id,
			valid_until = :valid_until,
			provider_created_at = :provider_created_at,
			provider_updated_at = :provider_updated_at,
			raw_payload = :raw_payload,
			updated_at = :updated_at
		WHERE id = :id
	`

	r.logger.Debugw("updating authorization",
		"authorization_id", a.ID,
		"state", a.State,
	)

	return update(ctx, r.db, "authorization", a.ID, query, a)
}
