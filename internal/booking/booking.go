// Package booking is the admission and approval workflow engine: it decides
// whether a submission fits its slot, owns the pending/confirmed/declined
// lifecycle, and applies operator decisions exactly once.
package booking

import (
	"context"

	"cafe-bot/internal/models"
)

// Store is the record collection the engine persists requests in. Resolve
// must be atomic per id: of any number of concurrent callers for the same
// pending request, exactly one gets true.
type Store interface {
	Insert(ctx context.Context, req *models.Request) error
	Get(ctx context.Context, kind models.Kind, id string) (*models.Request, error)
	CountActive(ctx context.Context, slot models.SlotKey) (int, error)
	Resolve(ctx context.Context, kind models.Kind, id string, status models.Status) (bool, error)
	SetOperatorMessageID(ctx context.Context, kind models.Kind, id, msgID string) error
}

// AlertAction is one actionable affordance attached to an operator alert.
// Token is the decision token the operator sends back to trigger it.
type AlertAction struct {
	Label string
	Token string
}

// OperatorChannel is the chat side of the notification sink. Delivery is
// best effort; failures never affect committed state.
type OperatorChannel interface {
	PostAlert(ctx context.Context, text string, actions []AlertAction) (msgID string, err error)
	EditMessage(ctx context.Context, msgID, text string) error
	Acknowledge(ctx context.Context, eventID, text string) error
}

// EmailSender is the email side of the notification sink.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
