package postgres

import (
	"context"

	"github.com/flexprice/paymirror/internal/domain/transactionlog"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
)

type transactionLogRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTransactionLogRepository(db *postgres.DB, logger *logger.Logger) transactionlog.Repository {
	return &transactionLogRepository{db: db, logger: logger}
}

func (r *transactionLogRepository) Create(ctx context.Context, l *transactionlog.Log) error {
	query := `
		INSERT INTO payment_transaction_logs (
			id,
			payment_ref,
			transaction_type,
			request_payload,
			response_payload,
			response_status,
			created_at,
			updated_at
		)
		VALUES (
			:id,
			:payment_ref,
			:transaction_type,
			:request_payload,
			:response_payload,
			:response_status,
			:created_at,
			:updated_at
		)
	`

	_, err := exec(ctx, r.db, "transaction log", query, l)
	return err
}

func (r *transactionLogRepository) Update(ctx context.Context, l *transactionlog.Log) error {
	query := `
		UPDATE payment_transaction_logs SET
			response_payload = :response_payload,
			response_status = :response_status,
			updated_at = :updated_at
		WHERE id = :id
	`

	return update(ctx, r.db, "transaction log", l.ID, query, l)
}

func (r *transactionLogRepository) ListByPayment(ctx context.Context, paymentRef string) ([]*transactionlog.Log, error) {
	var logs []*transactionlog.Log
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &logs,
		`SELECT * FROM payment_transaction_logs WHERE payment_ref = $1 ORDER BY created_at, id`, paymentRef)
	if err != nil {
		return nil, dbError(err, "Failed to list transaction logs")
	}
	return logs, nil
}
