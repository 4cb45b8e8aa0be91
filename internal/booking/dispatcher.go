package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"cafe-bot/internal/notify"
)

// DecisionEvent is one inbound operator decision as delivered by the chat
// channel. Events may be replayed or arrive for long-resolved requests;
// the dispatcher makes that safe.
type DecisionEvent struct {
	// EventID identifies the inbound chat message, for acknowledgements.
	EventID string
	// Token is the raw decision token text.
	Token string
}

// Dispatcher turns operator decision events into exactly-once workflow
// transitions and the side effects that follow them. Every event gets an
// operator-visible acknowledgement, valid or not.
type Dispatcher struct {
	engine    *Engine
	operator  OperatorChannel
	email     EmailSender
	templates *notify.Templates
	log       zerolog.Logger
}

func NewDispatcher(engine *Engine, operator OperatorChannel, email EmailSender, templates *notify.Templates, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		engine:    engine,
		operator:  operator,
		email:     email,
		templates: templates,
		log:       log.With().Str("component", "dispatcher").Logger(),
	}
}

// HandleDecision processes one operator decision event to completion.
func (d *Dispatcher) HandleDecision(ctx context.Context, ev DecisionEvent) {
	tok, err := ParseDecisionToken(ev.Token)
	if err != nil {
		d.log.Warn().Err(err).Str("token", ev.Token).Msg("rejected malformed decision event")
		d.acknowledge(ctx, ev.EventID, d.templates.AckInvalid())
		return
	}

	req, err := d.engine.ApplyDecision(ctx, tok)
	switch {
	case errors.Is(err, ErrNotFound):
		d.log.Warn().Str("kind", string(tok.Kind)).Str("id", tok.ID).Msg("decision for unknown request")
		d.acknowledge(ctx, ev.EventID, d.templates.AckNotFound(tok.Kind))
		return
	case errors.Is(err, ErrAlreadyResolved):
		d.log.Info().Str("kind", string(tok.Kind)).Str("id", tok.ID).Msg("decision for already resolved request")
		d.acknowledge(ctx, ev.EventID, d.templates.AckAlreadyHandled(tok.Kind))
		return
	case err != nil:
		d.log.Error().Err(err).Str("token", ev.Token).Msg("failed to apply decision")
		d.acknowledge(ctx, ev.EventID, d.templates.AckError())
		return
	}

	// From here on req is the committed terminal snapshot. Each side
	// effect fails independently; none of them can undo the transition.
	if req.OperatorMsgID != "" {
		if err := d.operator.EditMessage(ctx, req.OperatorMsgID, d.templates.ResolvedAlert(req)); err != nil {
			d.log.Error().Err(err).Str("id", req.ID).Msg("failed to edit operator message")
		}
	}

	if d.email != nil && req.Email != "" {
		subject, body := d.templates.Email(req)
		if err := d.email.Send(ctx, req.Email, subject, body); err != nil {
			d.log.Error().Err(err).Str("id", req.ID).Str("to", req.Email).Msg("failed to send outcome email")
		} else {
			d.log.Info().Str("id", req.ID).Str("to", req.Email).Msg("outcome email sent")
		}
	}

	d.acknowledge(ctx, ev.EventID, d.templates.AckResolved(req))
}

func (d *Dispatcher) acknowledge(ctx context.Context, eventID, text string) {
	if err := d.operator.Acknowledge(ctx, eventID, text); err != nil {
		d.log.Error().Err(err).Str("event_id", eventID).Msg("failed to acknowledge decision event")
	}
}
