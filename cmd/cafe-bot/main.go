package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"cafe-bot/internal/booking"
	"cafe-bot/internal/config"
	"cafe-bot/internal/handler"
	"cafe-bot/internal/models"
	"cafe-bot/internal/notify"
	"cafe-bot/internal/storage"
	"cafe-bot/internal/whatsapp"
)

func main() {
	fmt.Println("☕ Café Reservation & Pickup Bot")
	fmt.Println("================================")

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.LoadConfig()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directory")
	}

	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	store := storage.NewStore(db)

	whatsappService, err := whatsapp.NewService(&whatsapp.Config{
		DataDir:     cfg.DataDir,
		OperatorJID: cfg.OperatorJID,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize WhatsApp service")
	}

	templates := &notify.Templates{
		BusinessName: cfg.BusinessName,
		CountryCode:  cfg.CountryCode,
	}

	emailSender, err := notify.NewSMTPSender(cfg.SMTP, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize email sender")
	}
	if emailSender == nil {
		log.Warn().Msg("SMTP not configured, outcome emails disabled")
	}

	engine := booking.NewEngine(store, log)
	admission := booking.NewAdmissionController(engine, store, whatsappService, templates, cfg.SlotLimit, log)

	var email booking.EmailSender
	if emailSender != nil {
		email = emailSender
	}
	dispatcher := booking.NewDispatcher(engine, whatsappService, email, templates, log)
	whatsappService.SetDecisionHandler(dispatcher.HandleDecision)

	fmt.Println("Connecting to WhatsApp...")
	if err := whatsappService.Connect(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to WhatsApp")
	}
	fmt.Println("✅ Connected to WhatsApp, listening for operator decisions.")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	handler.NewHandler(admission, cfg.FrontendURL, log).RegisterRoutes(r)

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	go startCLI(store)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	whatsappService.Disconnect()
	fmt.Println("Goodbye! 👋")
}

func startCLI(store *storage.Store) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. View pending reservations")
		fmt.Println("  2. View pending orders")
		fmt.Println("  3. View confirmed reservations")
		fmt.Print("\nEnter command (1-3): ")

		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			listRequests(store, models.KindReservation, models.StatusPending)
		case "2":
			listRequests(store, models.KindOrder, models.StatusPending)
		case "3":
			listRequests(store, models.KindReservation, models.StatusConfirmed)
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

func listRequests(store *storage.Store, kind models.Kind, status models.Status) {
	reqs, err := store.ListByStatus(context.Background(), kind, status)
	if err != nil {
		fmt.Printf("Error listing: %v\n", err)
		return
	}
	if len(reqs) == 0 {
		fmt.Println("\nNothing here.")
		return
	}

	fmt.Printf("\n📋 %d result(s):\n", len(reqs))
	fmt.Println(strings.Repeat("-", 60))
	for _, req := range reqs {
		fmt.Printf("Name: %s\n", req.Name)
		fmt.Printf("Phone: %s\n", req.Phone)
		if kind == models.KindReservation {
			fmt.Printf("Slot: %s %s (%d people)\n", req.Date, req.Time, req.PartySize)
		} else {
			fmt.Printf("Items: %s (total %s)\n", req.Items, req.Total)
		}
		fmt.Printf("Status: %s\n", req.Status)
		fmt.Println(strings.Repeat("-", 60))
	}
}
