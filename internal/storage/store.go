package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cafe-bot/internal/models"
)

// Store persists requests in two collections, one per kind. All operations
// are durable on return; Resolve is the conditional update the workflow
// engine relies on for exactly-once transitions.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func table(kind models.Kind) (string, error) {
	switch kind {
	case models.KindReservation:
		return "reservations", nil
	case models.KindOrder:
		return "orders", nil
	default:
		return "", fmt.Errorf("unknown kind %q", kind)
	}
}

// Insert appends a new request to its collection.
func (s *Store) Insert(ctx context.Context, req *models.Request) error {
	var query string
	switch req.Kind {
	case models.KindReservation:
		query = `
			INSERT INTO reservations (
				id, name, phone, email, date, time, party_size,
				status, operator_msg_id, created_at
			) VALUES (
				:id, :name, :phone, :email, :date, :time, :party_size,
				:status, :operator_msg_id, :created_at
			)
		`
	case models.KindOrder:
		query = `
			INSERT INTO orders (
				id, name, phone, email, items, total, pickup_time,
				status, operator_msg_id, created_at
			) VALUES (
				:id, :name, :phone, :email, :items, :total, :pickup_time,
				:status, :operator_msg_id, :created_at
			)
		`
	default:
		return fmt.Errorf("unknown kind %q", req.Kind)
	}

	if _, err := s.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("failed to insert %s: %w", req.Kind, err)
	}
	return nil
}

// Get returns the request with the given id, or nil if absent.
func (s *Store) Get(ctx context.Context, kind models.Kind, id string) (*models.Request, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}

	var cols string
	if kind == models.KindReservation {
		cols = "id, name, phone, email, date, time, party_size, status, operator_msg_id, created_at, resolved_at"
	} else {
		cols = "id, name, phone, email, items, total, pickup_time, status, operator_msg_id, created_at, resolved_at"
	}

	var req models.Request
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", cols, tbl)
	if err := s.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	req.Kind = kind
	return &req, nil
}

// CountActive counts reservations in the slot whose status is not declined.
// Pending and confirmed both hold capacity; a declined one frees it.
func (s *Store) CountActive(ctx context.Context, slot models.SlotKey) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE date = ? AND time = ? AND status != ?
	`

	var count int
	err := s.db.GetContext(ctx, &count, query, slot.Date, slot.Time, models.StatusDeclined)
	if err != nil {
		return 0, fmt.Errorf("failed to count slot %s %s: %w", slot.Date, slot.Time, err)
	}
	return count, nil
}

// Resolve moves a pending request to the given terminal status. It returns
// true only for the caller whose update actually changed the row; a request
// that is absent or already terminal leaves the row untouched and returns
// false.
func (s *Store) Resolve(ctx context.Context, kind models.Kind, id string, status models.Status) (bool, error) {
	tbl, err := table(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = ?, resolved_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, tbl)

	result, err := s.db.ExecContext(ctx, query, status, id, models.StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s %s: %w", kind, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected == 1, nil
}

// SetOperatorMessageID records the chat message posted for a request so the
// decision path can edit it later.
func (s *Store) SetOperatorMessageID(ctx context.Context, kind models.Kind, id, msgID string) error {
	tbl, err := table(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET operator_msg_id = ? WHERE id = ?", tbl)
	result, err := s.db.ExecContext(ctx, query, msgID, id)
	if err != nil {
		return fmt.Errorf("failed to set operator message id: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no %s found with id %s", kind, id)
	}
	return nil
}

// ListByStatus returns all requests of a kind in the given status, oldest
// first. Used by the operator CLI.
func (s *Store) ListByStatus(ctx context.Context, kind models.Kind, status models.Status) ([]models.Request, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}

	var cols string
	if kind == models.KindReservation {
		cols = "id, name, phone, email, date, time, party_size, status, operator_msg_id, created_at, resolved_at"
	} else {
		cols = "id, name, phone, email, items, total, pickup_time, status, operator_msg_id, created_at, resolved_at"
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE status = ? ORDER BY created_at ASC", cols, tbl)
	var reqs []models.Request
	if err := s.db.SelectContext(ctx, &reqs, query, status); err != nil {
		return nil, fmt.Errorf("failed to list %s by status: %w", kind, err)
	}
	for i := range reqs {
		reqs[i].Kind = kind
	}
	return reqs, nil
}
