package postgres

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/agreement"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
	"github.com/flexprice/paymirror/internal/types"
)

type agreementRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAgreementRepository(db *postgres.DB, logger *logger.Logger) agreement.Repository {
	return &agreementRepository{db: db, logger: logger}
}

func (r *agreementRepository) Create(ctx context.Context, a *agreement.Agreement) error {
	query := `
		INSERT INTO billing_agreements (
			id,
			provider_id,
			payment_token,
			client_id,
			plan_id,
			name,
			description,
			state,
			payment_method,
			payer_id,
			payer_email,
			payer_status,
			cycles_completed,
			cycles_remaining,
			failed_payment_count,
			start_date,
			raw_payload,
			created_at,
			updated_at
		)
		VALUES (
			:id,
			:provider_id,
			:payment_token,
			:client_id,
			:plan_id,
			:name,
			:description,
			:state,
			:payment_method,
			:payer_id,
			:payer_email,
			:payer_status,
			:cycles_completed,
			:cycles_remaining,
			:failed_payment_count,
			:start_date,
			:raw_payload,
			:created_at,
			:updated_at
		)
	`

	r.logger.Debugw("creating agreement",
		"agreement_id", a.ID,
		"plan_id", a.PlanID,
		"executed", a.IsExecuted(),
	)

	_, err := exec(ctx, r.db, "agreement", query, a)
	return err
}

func (r *agreementRepository) GetByProviderID(ctx context.Context, providerID string) (*agreement.Agreement, error) {
	var a agreement.Agreement
	if err := get(ctx, r.db, &a, "agreement", providerID,
		`SELECT * FROM billing_agreements WHERE provider_id = $1`, providerID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *agreementRepository) GetPendingByToken(ctx context.Context, token string) (*agreement.Agreement, error) {
	var a agreement.Agreement
	if err := get(ctx, r.db, &a, "agreement", token,
		`SELECT * FROM billing_agreements WHERE payment_token = $1 AND provider_id IS NULL AND superseded_by IS NULL`, token); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update writes every mutable column. provider_id is included so the
// execute step can promote a pending record; it is never cleared once set.
// created_at moves back when a superseded pending record is merged in.
func (r *agreementRepository) Update(ctx context.Context, a *agreement.Agreement) error {
	query := `
		UPDATE billing_agreements SET
			provider_id = COALESCE(provider_id, :provider_id),
			payment_token = :payment_token,
			client_id = :client_id,
			plan_id = :plan_id,
			name = :name,
			description = :description,
			state = :state,
			payment_method = :payment_method,
			payer_id = :payer_id,
			payer_email = :payer_email,
			payer_status = :payer_status,
			cycles_completed = :cycles_completed,
			cycles_remaining = :cycles_remaining,
			failed_payment_count = :failed_payment_count,
			start_date = :start_date,
			raw_payload = :raw_payload,
			created_at = :created_at,
			updated_at = :updated_at
		WHERE id = :id
	`

	r.logger.Debugw("updating agreement",
		"agreement_id", a.ID,
		"state", a.State,
	)

	return update(ctx, r.db, "agreement", a.ID, query, a)
}

func (r *agreementRepository) Supersede(ctx context.Context, id, survivorID string) error {
	query := `
		UPDATE billing_agreements SET
			payment_token = NULL,
			client_id = NULL,
			superseded_by = :superseded_by,
			updated_at = NOW()
		WHERE id = :id AND provider_id IS NULL
	`

	r.logger.Infow("superseding pending agreement",
		"agreement_id", id,
		"superseded_by", survivorID,
	)

	return update(ctx, r.db, "agreement", id, query, map[string]any{
		"id":            id,
		"superseded_by": survivorID,
	})
}

func (r *agreementRepository) List(ctx context.Context, filter *types.ReportFilter) ([]*agreement.Agreement, error) {
	var items []*agreement.Agreement
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &items, `
		SELECT * FROM billing_agreements
		WHERE client_id = $1 AND superseded_by IS NULL
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`,
		filter.ClientID, filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, dbError(err, "Failed to list agreements")
	}
	return items, nil
}

func (r *agreementRepository) Count(ctx context.Context, filter *types.ReportFilter) (int, error) {
	var n int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &n,
		`SELECT COUNT(*) FROM billing_agreements WHERE client_id = $1 AND superseded_by IS NULL`, filter.ClientID)
	if err != nil {
		return 0, dbError(err, "Failed to count agreements")
	}
	return n, nil
}
