package booking

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"cafe-bot/internal/models"
)

// Engine owns the request lifecycle. Requests are created pending and move
// exactly once to confirmed or declined; the terminal states are immutable.
type Engine struct {
	store Store
	log   zerolog.Logger
}

func NewEngine(store Store, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log.With().Str("component", "engine").Logger(),
	}
}

// Create durably appends a new pending request.
func (e *Engine) Create(ctx context.Context, req *models.Request) error {
	if err := e.store.Insert(ctx, req); err != nil {
		return fmt.Errorf("failed to create %s: %w", req.Kind, err)
	}
	e.log.Info().Str("kind", string(req.Kind)).Str("id", req.ID).Str("name", req.Name).Msg("request created")
	return nil
}

// ApplyDecision applies an operator decision as a guarded transition and
// returns the resolved snapshot. Exactly one of any set of concurrent
// decisions for the same id succeeds; the rest get ErrAlreadyResolved.
// A decision for an unknown id gets ErrNotFound.
func (e *Engine) ApplyDecision(ctx context.Context, tok DecisionToken) (*models.Request, error) {
	changed, err := e.store.Resolve(ctx, tok.Kind, tok.ID, tok.Action.Status())
	if err != nil {
		return nil, fmt.Errorf("failed to apply decision %s: %w", tok, err)
	}

	if !changed {
		req, err := e.store.Get(ctx, tok.Kind, tok.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s %s: %w", tok.Kind, tok.ID, err)
		}
		if req == nil {
			return nil, ErrNotFound
		}
		return nil, ErrAlreadyResolved
	}

	// The row is terminal now, so this read cannot observe anything but
	// the outcome we just committed.
	req, err := e.store.Get(ctx, tok.Kind, tok.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back %s %s: %w", tok.Kind, tok.ID, err)
	}
	if req == nil {
		return nil, fmt.Errorf("resolved %s %s vanished from store", tok.Kind, tok.ID)
	}

	e.log.Info().
		Str("kind", string(tok.Kind)).
		Str("id", tok.ID).
		Str("status", string(req.Status)).
		Msg("request resolved")
	return req, nil
}
