package service

import (
	"context"
	"strings"

	"github.com/flexprice/paymirror/internal/domain/webhookevent"
	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/projection"
	"github.com/flexprice/paymirror/internal/reconcile"
	"github.com/flexprice/paymirror/internal/types"
)

// NotificationService ingests provider notifications
type NotificationService interface {
	// Ingest records and reconciles one notification body.
	//
	// Every outcome except a store failure is returned as a result and must
	// be acknowledged to the sender. Only a body that is not a JSON object
	// fails with ErrMalformedPayload, and only store failures fail with
	// ErrStoreUnavailable.
	Ingest(ctx context.Context, raw []byte) (*reconcile.Result, error)
}

type notificationService struct {
	ServiceParams
}

func NewNotificationService(params ServiceParams) NotificationService {
	return &notificationService{ServiceParams: params}
}

func (s *notificationService) Ingest(ctx context.Context, raw []byte) (*reconcile.Result, error) {
	n, err := projection.Envelope(raw)
	if err != nil {
		s.Logger.Warnw("notification is not a JSON object", "error", err)
		return nil, err
	}

	span, ctx := s.Sentry.MonitorNotification(ctx, n.ResourceType, n.EventType, n.CreateTime)
	if span != nil {
		defer span.Finish()
	}

	var (
		result    *reconcile.Result
		ingestErr error
	)
	s.Pyroscope.TagWrapper(ctx, map[string]string{"resource_type": strings.ToLower(n.ResourceType)}, func(ctx context.Context) {
		result, ingestErr = s.ingest(ctx, n)
	})
	if ingestErr != nil {
		s.Sentry.CaptureException(ingestErr)
		s.Logger.Errorw("failed to ingest notification",
			"event_id", n.EventID,
			"resource_type", n.ResourceType,
			"event_type", n.EventType,
			"error", ingestErr,
		)
		return nil, ingestErr
	}

	s.Sentry.AddBreadcrumb("notification", string(result.Outcome), map[string]interface{}{
		"event_id":      n.EventID,
		"resource_type": n.ResourceType,
		"reason":        result.Reason,
	})
	s.Logger.Infow("ingested notification",
		"event_id", n.EventID,
		"resource_type", n.ResourceType,
		"event_type", n.EventType,
		"outcome", result.Outcome,
		"id", result.ID,
		"reason", result.Reason,
	)
	return result, nil
}

func (s *notificationService) ingest(ctx context.Context, n *projection.Notification) (*reconcile.Result, error) {
	kind := types.ResourceKind(strings.ToLower(n.ResourceType))

	event := webhookevent.NewEvent(n.EventID, n.ResourceType, n.EventType, n.Raw)
	event.Summary = n.Summary
	if err := event.Validate(); err != nil {
		return rejected(kind, err), nil
	}

	seen, err := s.Ledger.HasSeen(ctx, n.EventID)
	if err != nil {
		return nil, storeUnavailable(err, "Could not read the notification ledger")
	}
	if seen {
		return duplicate(kind), nil
	}

	var result *reconcile.Result
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		first, err := s.Ledger.Record(ctx, event)
		if err != nil {
			return err
		}
		if !first {
			result = duplicate(kind)
			return nil
		}

		// A rejected body rolls back to here and the ledger entry still commits
		err = s.DB.WithTx(ctx, func(ctx context.Context) error {
			result, err = s.Dispatcher.Dispatch(ctx, n.ResourceType, n.Resource)
			return err
		})
		if ierr.IsReconcileRejection(err) {
			s.Logger.Warnw("notification rejected",
				"event_id", n.EventID,
				"resource_type", n.ResourceType,
				"reason", ierr.Code(err),
				"error", err,
			)
			result = rejected(kind, err)
			return nil
		}
		return err
	})
	if err != nil {
		return nil, storeUnavailable(err, "Could not record the notification")
	}
	if result.Outcome == reconcile.OutcomeDuplicate {
		return result, nil
	}

	s.Ledger.MarkSeen(ctx, n.EventID)
	if err := s.Archiver.Archive(ctx, n.ResourceType, n.EventID, n.Raw); err != nil {
		s.Logger.Errorw("failed to archive notification",
			"event_id", n.EventID,
			"resource_type", n.ResourceType,
			"error", err,
		)
	}
	return result, nil
}

func duplicate(kind types.ResourceKind) *reconcile.Result {
	return &reconcile.Result{Kind: kind, Outcome: reconcile.OutcomeDuplicate}
}

func rejected(kind types.ResourceKind, err error) *reconcile.Result {
	return &reconcile.Result{Kind: kind, Outcome: reconcile.OutcomeRejected, Reason: ierr.Code(err)}
}
