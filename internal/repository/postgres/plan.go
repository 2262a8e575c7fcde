package postgres

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/plan"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
)

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger) plan.Repository {
	return &planRepository{db: db, logger: logger}
}

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO billing_plans (
			id,
			provider_id,
			client_id,
			name,
			description,
			type,
			state,
			setup_fee_value,
			setup_fee_currency,
			return_url,
			cancel_url,
			notify_url,
			provider_created_at,
			provider_updated_at,
			raw_payload,
			created_at,
			updated_at
		)
		VALUES (
			:id,
			:provider_id,
			:client_id,
			:name,
			:description,
			:type,
			:state,
			:setup_fee_value,
			:setup_fee_currency,
			:return_url,
			:cancel_url,
			:notify_url,
			:provider_created_at,
			:provider_updated_at,
			:raw_payload,
			:created_at,
			:updated_at
		)
	`

	r.logger.Debugw("creating plan",
		"plan_id", p.ID,
		"provider_id", p.ProviderID,
	)

	_, err := exec(ctx, r.db, "plan", query, p)
	return err
}

func (r *planRepository) GetByProviderID(ctx context.Context, providerID string) (*plan.Plan, error) {
	var p plan.Plan
	if err := get(ctx, r.db, &p, "plan", providerID,
		`SELECT * FROM billing_plans WHERE provider_id = $1`, providerID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `
		UPDATE billing_plans SET
			client_id = :client_id,
			name = :name,
			description = :description,
			type = :type,
			state = :state,
			setup_fee_value = :setup_fee_value,
			setup_fee_currency = :setup_fee_currency,
			return_url = :return_url,
			cancel_url = :cancel_url,
			notify_url = :notify_url,
			provider_created_at = :provider_created_at,
			provider_updated_at = :provider_updated_at,
			raw_payload = :raw_payload,
			updated_at = :updated_at
		WHERE id = :id
	`

	r.logger.Debugw("updating plan",
		"plan_id", p.ID,
		"state", p.State,
	)

	return update(ctx, r.db, "plan", p.ID, query, p)
}

func (r *planRepository) ListDefinitions(ctx context.Context, planID string) ([]*plan.PaymentDefinition, error) {
	var defs []*plan.PaymentDefinition
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &defs,
		`SELECT * FROM billing_plan_payment_definitions WHERE plan_id = $1 ORDER BY created_at, id`, planID)
	if err != nil {
		return nil, dbError(err, "Failed to list payment definitions")
	}
	return defs, nil
}

func (r *planRepository) CreateDefinition(ctx context.Context, d *plan.PaymentDefinition) error {
	query := `
		INSERT INTO billing_plan_payment_definitions (
			id,
			plan_id,
			definition_id,
			name,
			type,
			frequency,
			frequency_interval,
			cycles,
			charge_models,
			amount_value,
			amount_currency,
			raw_payload,
			created_at,
			updated_at
		)
		VALUES (
			:id,
			:plan_id,
			:definition_id,
			:name,
			:type,
			:frequency,
			:frequency_interval,
			:cycles,
			:charge_models,
			:amount_value,
			:amount_currency,
			:raw_payload,
			:created_at,
			:updated_at
		)
	`

	_, err := exec(ctx, r.db, "payment definition", query, d)
	return err
}

func (r *planRepository) UpdateDefinition(ctx context.Context, d *plan.PaymentDefinition) error {
	query := `
		UPDATE billing_plan_payment_definitions SET
			name = :name,
			type = :type,
			frequency = :frequency,
			frequency_interval = :frequency_interval,
			cycles = :cycles,
			charge_models = :charge_models,
			amount_value = :amount_value,
			amount_currency = :amount_currency,
			raw_payload = :raw_payload,
			updated_at = :updated_at
		WHERE id = :id
	`

	return update(ctx, r.db, "payment definition", d.ID, query, d)
}
