package postgres

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/payment"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
	"github.com/flexprice/paymirror/internal/types"
)

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (
			id,
			provider_id,
			client_id,
			intent,
			state,
			payment_method,
			note_to_payer,
			approval_url,
			return_url,
			cancel_url,
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
			:intent,
			:state,
			:payment_method,
			:note_to_payer,
			:approval_url,
			:return_url,
			:cancel_url,
			:provider_created_at,
			:provider_updated_at,
			:raw_payload,
			:created_at,
			:updated_at
		)
	`

	r.logger.Debugw("creating payment",
		"payment_id", p.ID,
		"provider_id", p.ProviderID,
	)

	_, err := exec(ctx, r.db, "payment", query, p)
	return err
}

func (r *paymentRepository) GetByProviderID(ctx context.Context, providerID string) (*payment.Payment, error) {
	var p payment.Payment
	if err := get(ctx, r.db, &p, "payment", providerID,
		`SELECT * FROM payments WHERE provider_id = $1`, providerID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query := `
		UPDATE payments SET
			client_id = :client_id,
			intent = :intent,
			state = :state,
			payment_method = :payment_method,
			note_to_payer = :note_to_payer,
			approval_url = :approval_url,
			return_url = :return_url,
			cancel_url = :cancel_url,
			provider_created_at = :provider_created_at,
			provider_updated_at = :provider_updated_at,
			raw_payload = :raw_payload,
			updated_at = :updated_at
		WHERE id = :id
	`

	r.logger.Debugw("updating payment",
		"payment_id", p.ID,
		"state", p.State,
	)

	return update(ctx, r.db, "payment", p.ID, query, p)
}

func (r *paymentRepository) List(ctx context.Context, filter *types.ReportFilter) ([]*payment.Payment, error) {
	var items []*payment.Payment
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &items, `
		SELECT * FROM payments
		WHERE client_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`,
		filter.ClientID, filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, dbError(err, "Failed to list payments")
	}
	return items, nil
}

func (r *paymentRepository) Count(ctx context.Context, filter *types.ReportFilter) (int, error) {
	var n int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &n,
		`SELECT COUNT(*) FROM payments WHERE client_id = $1`, filter.ClientID)
	if err != nil {
		return 0, dbError(err, "Failed to count payments")
	}
	return n, nil
}

func (r *paymentRepository) CreateTransaction(ctx context.Context, txn *payment.Transaction) error {
	query := `
		INSERT INTO payment_transactions (
			id,
			payment_id,
			amount_value,
			amount_currency,
			amount_details,
			description,
			custom,
			invoice_number,
			soft_descriptor,
			item_list,
			raw_payload,
			created_at,
			updated_at
		)
		VALUES (
			:id,
			:payment_id,
			:amount_value,
			:amount_currency,
			:amount_details,
			:description,
			:custom,
			:invoice_number,
			:soft_descriptor,
			:item_list,
			:raw_payload,
			:created_at,
			:updated_at
		)
	`

	_, err := exec(ctx, r.db, "payment transaction", query, txn)
	return err
}

func (r *paymentRepository) ListTransactions(ctx context.Context, paymentID string) ([]*payment.Transaction, error) {
	var txns []*payment.Transaction
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &txns,
		`SELECT * FROM payment_transactions WHERE payment_id = $1 ORDER BY created_at, id`, paymentID)
	if err != nil {
		return nil, dbError(err, "Failed to list payment transactions")
	}
	return txns, nil
}
