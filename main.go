package main

import (
	"fmt"
	"os"

	"auction-engine/internal/config"
	"auction-engine/internal/engine"
	"auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"auction-engine/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	eng := engine.New(cfg, store)
	defer eng.Shutdown()

	// Stand-in for the messaging transport: deliver engine events to the log.
	go drainEvents(eng.Events())

	router := server.SetupRouter(eng)

	addr := ":" + cfg.Port
	fmt.Printf("Starting auction engine on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// openStore picks SQLite when a database path is configured, in-memory otherwise.
func openStore(cfg config.Config) (repository.AuctionStore, error) {
	if cfg.DatabasePath != "" {
		return repository.NewSQLiteStore(cfg.DatabasePath)
	}
	return repository.NewMemoryStore(), nil
}

// drainEvents logs the outbound event stream
func drainEvents(events <-chan models.Event) {
	for ev := range events {
		utils.Info("engine event", map[string]any{
			"type":       string(ev.Type),
			"session_id": ev.SessionID,
			"bidder_id":  ev.BidderID,
			"amount":     ev.Amount,
			"tier":       ev.Tier,
			"outcome":    string(ev.Outcome),
		})
	}
}
