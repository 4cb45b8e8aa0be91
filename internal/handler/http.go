// Package handler is the thin HTTP transport in front of the booking core.
// It validates submissions into explicit per-kind payloads and answers with
// the frontend redirects the static site expects.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"cafe-bot/internal/booking"
	"cafe-bot/internal/models"
)

const MaxBodyBytes = 1 << 20

// Admitter is the booking entry point the transport calls into.
type Admitter interface {
	AdmitReservation(ctx context.Context, nr models.NewReservation) (*models.Request, error)
	AdmitOrder(ctx context.Context, no models.NewOrder) (*models.Request, error)
}

type Handler struct {
	admitter    Admitter
	frontendURL string
	log         zerolog.Logger
}

func NewHandler(admitter Admitter, frontendURL string, log zerolog.Logger) *Handler {
	return &Handler{
		admitter:    admitter,
		frontendURL: frontendURL,
		log:         log.With().Str("component", "http").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Health)
	r.Post("/reservas", h.CreateReservation)
	r.Post("/pedidos", h.CreateOrder)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "Servidor do café está no ar!")
}

type reservationPayload struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	PartySize int    `json:"party_size"`
}

func (p *reservationPayload) validate() error {
	switch {
	case p.Name == "":
		return errors.New("name is required")
	case p.Phone == "":
		return errors.New("phone is required")
	case p.Date == "":
		return errors.New("date is required")
	case p.Time == "":
		return errors.New("time is required")
	case p.PartySize <= 0:
		return errors.New("party_size must be positive")
	}
	return nil
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var p reservationPayload
	if err := h.decode(w, r, func(form func(string) string) {
		p.Name = form("name")
		p.Phone = form("phone")
		p.Email = form("email")
		p.Date = form("date")
		p.Time = form("time")
		p.PartySize, _ = strconv.Atoi(form("party_size"))
	}, &p); err != nil {
		h.badRequest(w, err)
		return
	}
	if err := p.validate(); err != nil {
		h.badRequest(w, err)
		return
	}

	req, err := h.admitter.AdmitReservation(r.Context(), models.NewReservation{
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		Date:      p.Date,
		Time:      p.Time,
		PartySize: p.PartySize,
	})
	if errors.Is(err, booking.ErrCapacityExceeded) {
		h.redirect(w, r, "/#reservas?reserva=erro")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("reservation admission failed")
		http.Error(w, "could not process reservation, try again", http.StatusServiceUnavailable)
		return
	}

	h.log.Info().Str("id", req.ID).Str("name", req.Name).Msg("reservation pending")
	h.redirect(w, r, "/#reservas?reserva=sucesso")
}

type orderPayload struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Items      string `json:"items"`
	Total      string `json:"total"`
	PickupTime string `json:"pickup_time"`
}

func (p *orderPayload) validate() error {
	switch {
	case p.Name == "":
		return errors.New("name is required")
	case p.Phone == "":
		return errors.New("phone is required")
	case p.Items == "":
		return errors.New("items is required")
	case p.Total == "":
		return errors.New("total is required")
	}
	return nil
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var p orderPayload
	if err := h.decode(w, r, func(form func(string) string) {
		p.Name = form("name")
		p.Phone = form("phone")
		p.Email = form("email")
		p.Items = form("items")
		p.Total = form("total")
		p.PickupTime = form("pickup_time")
	}, &p); err != nil {
		h.badRequest(w, err)
		return
	}
	if err := p.validate(); err != nil {
		h.badRequest(w, err)
		return
	}

	req, err := h.admitter.AdmitOrder(r.Context(), models.NewOrder{
		Name:       p.Name,
		Phone:      p.Phone,
		Email:      p.Email,
		Items:      p.Items,
		Total:      p.Total,
		PickupTime: p.PickupTime,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("order admission failed")
		http.Error(w, "could not process order, try again", http.StatusServiceUnavailable)
		return
	}

	h.log.Info().Str("id", req.ID).Str("name", req.Name).Msg("order pending")
	h.redirect(w, r, "/#pedido?pedido=sucesso")
}

// decode fills the payload from a JSON body or an HTML form, whichever the
// frontend posted.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, fromForm func(form func(string) string), jsonTarget interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(jsonTarget); err != nil {
			return fmt.Errorf("invalid json body: %w", err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("invalid form body: %w", err)
	}
	fromForm(func(key string) string {
		return strings.TrimSpace(r.PostFormValue(key))
	})
	return nil
}

func (h *Handler) badRequest(w http.ResponseWriter, err error) {
	h.log.Warn().Err(err).Msg("rejected invalid submission")
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, fragment string) {
	http.Redirect(w, r, h.frontendURL+fragment, http.StatusSeeOther)
}
