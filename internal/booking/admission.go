package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cafe-bot/internal/models"
	"cafe-bot/internal/notify"
)

// AdmissionController gates new submissions. Reservations compete for slot
// capacity; pickup orders are always admitted. On success exactly one record
// is appended and exactly one operator alert is dispatched.
type AdmissionController struct {
	engine    *Engine
	store     Store
	operator  OperatorChannel
	templates *notify.Templates
	limit     int
	slots     *slotLocks
	log       zerolog.Logger
}

func NewAdmissionController(engine *Engine, store Store, operator OperatorChannel, templates *notify.Templates, limit int, log zerolog.Logger) *AdmissionController {
	return &AdmissionController{
		engine:    engine,
		store:     store,
		operator:  operator,
		templates: templates,
		limit:     limit,
		slots:     newSlotLocks(),
		log:       log.With().Str("component", "admission").Logger(),
	}
}

// AdmitReservation admits a reservation if its slot still has capacity.
// The count and the append run under the slot's lock so two concurrent
// submissions can never both take the last place. Pending and confirmed
// reservations hold capacity; declined ones do not.
func (c *AdmissionController) AdmitReservation(ctx context.Context, nr models.NewReservation) (*models.Request, error) {
	req := &models.Request{
		ID:        uuid.NewString(),
		Kind:      models.KindReservation,
		Name:      nr.Name,
		Phone:     nr.Phone,
		Email:     nr.Email,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
		Date:      nr.Date,
		Time:      nr.Time,
		PartySize: nr.PartySize,
	}

	slot := req.Slot()
	lock := c.slots.get(slot)
	lock.Lock()

	count, err := c.store.CountActive(ctx, slot)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("failed to check slot capacity: %w", err)
	}
	if count >= c.limit {
		lock.Unlock()
		c.log.Info().Str("date", slot.Date).Str("time", slot.Time).Int("count", count).Msg("slot full, reservation rejected")
		return nil, ErrCapacityExceeded
	}

	if err := c.engine.Create(ctx, req); err != nil {
		lock.Unlock()
		return nil, err
	}
	lock.Unlock()

	c.notifyOperator(ctx, req)
	return req, nil
}

// AdmitOrder admits a pickup order. Orders have no capacity constraint.
func (c *AdmissionController) AdmitOrder(ctx context.Context, no models.NewOrder) (*models.Request, error) {
	req := &models.Request{
		ID:         uuid.NewString(),
		Kind:       models.KindOrder,
		Name:       no.Name,
		Phone:      no.Phone,
		Email:      no.Email,
		Status:     models.StatusPending,
		CreatedAt:  time.Now(),
		Items:      no.Items,
		Total:      no.Total,
		PickupTime: no.PickupTime,
	}

	if err := c.engine.Create(ctx, req); err != nil {
		return nil, err
	}

	c.notifyOperator(ctx, req)
	return req, nil
}

// notifyOperator posts the pending alert and remembers its message id for
// the later edit. The request is already committed at this point, so a
// delivery failure is logged and swallowed.
func (c *AdmissionController) notifyOperator(ctx context.Context, req *models.Request) {
	actions := []AlertAction{
		{Label: notify.LabelConfirm, Token: ConfirmToken(req.Kind, req.ID).String()},
		{Label: notify.LabelDecline, Token: DeclineToken(req.Kind, req.ID).String()},
	}

	msgID, err := c.operator.PostAlert(ctx, c.templates.PendingAlert(req), actions)
	if err != nil {
		c.log.Error().Err(err).Str("id", req.ID).Msg("failed to post operator alert")
		return
	}

	if err := c.store.SetOperatorMessageID(ctx, req.Kind, req.ID, msgID); err != nil {
		c.log.Error().Err(err).Str("id", req.ID).Msg("failed to record operator message id")
	}
}
